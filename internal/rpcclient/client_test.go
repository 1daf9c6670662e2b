// file: internal/rpcclient/client_test.go
package rpcclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardrpc/dispatcher/internal/dispatch"
	"github.com/cardrpc/dispatcher/internal/registry"
	"github.com/cardrpc/dispatcher/internal/rpcclient"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
	"github.com/cardrpc/dispatcher/internal/schema"
	"github.com/cardrpc/dispatcher/internal/statetag"
)

const stateMenu statetag.StateTag = "MENU"

type fixedStateAccessor struct{ state statetag.StateTag }

func (f *fixedStateAccessor) GetState(context.Context) (statetag.StateTag, error) {
	return f.state, nil
}

func startDispatcherServer(t *testing.T) (host string, port int, stop func()) {
	t.Helper()

	healthEp := registry.Endpoint{
		Name: "health",
		Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
			return map[string]interface{}{"status": "ok"}, nil
		},
	}
	playEp := registry.Endpoint{
		Name:           "play",
		Schema:         schema.Schema{{Name: "cards", Required: true, Type: schema.TypeArray}},
		RequiredStates: statetag.Set{"SELECTING_HAND"},
		Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
			return map[string]interface{}{"played": true}, nil
		},
	}
	startEp := registry.Endpoint{
		Name:   "start",
		Schema: schema.Schema{{Name: "seed", Required: true, Type: schema.TypeString}},
		Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
			return map[string]interface{}{"started": true}, nil
		},
	}

	reg, err := registry.New(healthEp, playEp, startEp)
	require.NoError(t, err)

	d := dispatch.New(reg, &fixedStateAccessor{state: stateMenu}, nil)
	srv, err := dispatch.NewServer("127.0.0.1:0", d, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()

	addr := srv.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port, func() {
		cancel()
		<-done
	}
}

func TestClient_HealthCallReturnsResult(t *testing.T) {
	host, port, stop := startDispatcherServer(t)
	defer stop()

	client := rpcclient.NewClient(host, port, time.Second)
	result, err := client.Call("health", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result["status"])
}

func TestClient_APIErrorRaisedOnInvalidState(t *testing.T) {
	host, port, stop := startDispatcherServer(t)
	defer stop()

	client := rpcclient.NewClient(host, port, time.Second)
	_, err := client.Call("play", map[string]interface{}{"cards": []int{0}})
	require.Error(t, err)

	var apiErr *rpcclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, string(rpcerr.KindInvalidState), apiErr.Name)
	assert.Equal(t, -32002, apiErr.Code)
}

func TestClient_APIErrorRaisedOnBadParams(t *testing.T) {
	host, port, stop := startDispatcherServer(t)
	defer stop()

	client := rpcclient.NewClient(host, port, time.Second)
	_, err := client.Call("start", map[string]interface{}{"invalid_param": "value"})
	require.Error(t, err)

	var apiErr *rpcclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, string(rpcerr.KindBadRequest), apiErr.Name)
}

func TestClient_RepeatedCallsOnPooledConnection(t *testing.T) {
	host, port, stop := startDispatcherServer(t)
	defer stop()

	client := rpcclient.NewClient(host, port, time.Second)
	for i := 0; i < 3; i++ {
		_, err := client.Call("health", nil)
		require.NoError(t, err, "call %d should succeed on the reused pooled connection", i)
	}
}

func TestClient_ConnectionErrorOnBadPort(t *testing.T) {
	client := rpcclient.NewClient("127.0.0.1", 1, 200*time.Millisecond)
	_, err := client.Call("health", nil)
	require.Error(t, err)

	var connErr *rpcclient.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}
