// Command rpcctl calls one method on a running dispatcher and prints its
// result, the Go counterpart of original_source's `balatrobot api` command
// (src/balatrobot/cli/api.py): method name, a JSON params object, host/port
// flags, APIError vs connection-error reported distinctly.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cardrpc/dispatcher/internal/config"
	"github.com/cardrpc/dispatcher/internal/rpcclient"
)

func main() {
	host := flag.String("host", config.DefaultHost, "dispatcher hostname")
	port := flag.Int("port", config.DefaultPort, "dispatcher port")
	timeout := flag.Duration("timeout", 30*time.Second, "call timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: rpcctl [flags] <method> [json-params]")
		os.Exit(1)
	}
	method := args[0]
	paramsJSON := "{}"
	if len(args) > 1 {
		paramsJSON = args[1]
	}

	var params map[string]interface{}
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid JSON params - %v\n", err)
		os.Exit(1)
	}

	client := rpcclient.NewClient(*host, *port, *timeout)
	defer client.Close()

	result, err := client.Call(method, params)
	if err != nil {
		if apiErr, ok := err.(*rpcclient.APIError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s - %s\n", apiErr.Name, apiErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: connection failed - %v\n", err)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not encode result - %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
