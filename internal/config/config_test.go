// file: internal/config/config_test.go
package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ReturnsBuiltInDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultHost, s.Host)
	assert.Equal(t, DefaultPort, s.Port)
	assert.Equal(t, "127.0.0.1:12346", s.Addr())
}

func TestLoadFile_MissingFileLeavesSettingsUnchanged(t *testing.T) {
	s, err := LoadFile(New(), filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, New(), s)
}

func TestLoadFile_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9999\n"), 0o644))

	s, err := LoadFile(New(), path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, s.Host)
	assert.Equal(t, 9999, s.Port)
}

func TestLoadFile_MalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unterminated\n"), 0o644))

	_, err := LoadFile(New(), path)
	assert.Error(t, err)
}

func TestLoadEnv_OverridesHostAndPort(t *testing.T) {
	t.Setenv("DISPATCHER_HOST", "0.0.0.0")
	t.Setenv("DISPATCHER_PORT", "7000")

	s, err := LoadEnv(New())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 7000, s.Port)
}

func TestLoadEnv_InvalidPortIsAnError(t *testing.T) {
	t.Setenv("DISPATCHER_PORT", "not-a-port")
	_, err := LoadEnv(New())
	assert.Error(t, err)
}

func TestLoadEnv_OutOfRangePortIsAnError(t *testing.T) {
	t.Setenv("DISPATCHER_PORT", "70000")
	_, err := LoadEnv(New())
	assert.Error(t, err)
}

func TestBindFlags_DefaultsToZeroValueWhenUnset(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	host, port := BindFlags(fs, New())
	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, "", *host)
	assert.Equal(t, 0, *port)
}

func TestBindFlags_ExplicitFlagsOverrideDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	host, port := BindFlags(fs, New())
	require.NoError(t, fs.Parse([]string{"-host=192.168.1.1", "-port=8080"}))
	assert.Equal(t, "192.168.1.1", *host)
	assert.Equal(t, 8080, *port)
}

func TestApplyFlags_UnsetFlagsLeaveSettingsUnchanged(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	host, port := BindFlags(fs, New())
	require.NoError(t, fs.Parse(nil))

	s := Settings{Host: "10.0.0.1", Port: 5555}
	s = ApplyFlags(s, host, port)
	assert.Equal(t, "10.0.0.1", s.Host)
	assert.Equal(t, 5555, s.Port)
}

func TestApplyFlags_SetFlagsOverrideSettings(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	host, port := BindFlags(fs, New())
	require.NoError(t, fs.Parse([]string{"-host=192.168.1.1", "-port=8080"}))

	s := ApplyFlags(Settings{Host: "10.0.0.1", Port: 5555}, host, port)
	assert.Equal(t, "192.168.1.1", s.Host)
	assert.Equal(t, 8080, s.Port)
}
