// Package config loads the dispatcher's runtime settings, layered the way
// the teacher's server_config.go does: built-in defaults, then an optional
// YAML file, then environment variables, then CLI flags, each one
// overriding the last.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/cardrpc/dispatcher/pkg/util/stringutil"
)

const (
	// DefaultHost is the bind address used when nothing else specifies one.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the TCP port used when nothing else specifies one.
	DefaultPort = 12346
)

// Settings holds the dispatcher's runtime configuration.
type Settings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port pair suitable for net.Listen/net.Dial.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// New returns Settings populated with built-in defaults.
func New() Settings {
	return Settings{Host: DefaultHost, Port: DefaultPort}
}

// LoadFile merges YAML settings from path into s, leaving fields absent
// from the file untouched. A missing file is not an error: it simply
// leaves s at its current values, the same tolerance
// cmd/server/server_config.go extends to an absent config file.
func LoadFile(s Settings, path string) (Settings, error) {
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrapf(err, "config: reading %s", path)
	}
	var fromFile Settings
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return s, errors.Wrapf(err, "config: parsing %s", path)
	}
	if fromFile.Host != "" {
		s.Host = fromFile.Host
	}
	if fromFile.Port != 0 {
		s.Port = fromFile.Port
	}
	return s, nil
}

// LoadEnv overrides s with DISPATCHER_HOST / DISPATCHER_PORT, when set.
func LoadEnv(s Settings) (Settings, error) {
	s.Host = stringutil.CoalesceString(os.Getenv("DISPATCHER_HOST"), s.Host)
	if raw := os.Getenv("DISPATCHER_PORT"); raw != "" {
		port, err := parsePort(raw)
		if err != nil {
			return s, errors.Wrapf(err, "config: DISPATCHER_PORT=%q", raw)
		}
		s.Port = port
	}
	return s, nil
}

// BindFlags registers -host/-port flags on fs with the zero value as their
// default, so a caller can tell "not passed on the command line" apart from
// "explicitly set". Register these (along with any other flags) and call
// fs.Parse *before* doing any file/env layering — a flag's value can't be
// read until after Parse runs, and every flag the program accepts must be
// registered before that single Parse call. Once parsed, apply the result
// with ApplyFlags, the same "flags override file/env" precedence
// cmd/server/commands.go uses.
func BindFlags(fs *flag.FlagSet, s Settings) (host *string, port *int) {
	host = fs.String("host", "", "address to bind the dispatcher to (default "+s.Host+")")
	port = fs.Int("port", 0, "TCP port to bind the dispatcher to (default "+fmt.Sprint(s.Port)+")")
	return host, port
}

// ApplyFlags overrides s.Host/s.Port with host/port when they were
// explicitly set (non-zero-value), after fs.Parse has already run.
func ApplyFlags(s Settings, host *string, port *int) Settings {
	if host != nil && *host != "" {
		s.Host = *host
	}
	if port != nil && *port != 0 {
		s.Port = *port
	}
	return s
}

func parsePort(raw string) (int, error) {
	var port int
	if _, err := fmt.Sscanf(raw, "%d", &port); err != nil {
		return 0, errors.Newf("not a valid port number")
	}
	if port <= 0 || port > 65535 {
		return 0, errors.Newf("port %d out of range", port)
	}
	return port, nil
}
