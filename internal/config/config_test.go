package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loykin/procguard/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, process.DefaultTimeout, c.Terminate.Timeout)
	assert.Equal(t, process.DefaultPollInterval, c.Terminate.PollInterval)
	assert.Equal(t, process.DefaultWaitInterval, c.Wait.PollInterval)
	assert.False(t, c.Terminate.Force)
	assert.False(t, c.Lock.Exclusive)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Empty(t, c.Metrics.Addr)
}

func TestLoad_TOML(t *testing.T) {
	p := writeFile(t, "procguard.toml", `
[terminate]
timeout = "10s"
poll_interval = "250ms"
force = true

[lock]
exclusive = true

[log]
level = "debug"
format = "json"
file = "/tmp/procguard.log"
max_size_mb = 50
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, process.TerminationPolicy{Force: true, Timeout: 10 * time.Second, PollInterval: 250 * time.Millisecond}, c.Policy())
	assert.True(t, c.Lock.Exclusive)

	lc := c.Logger()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "/tmp/procguard.log", lc.File.Path)
	assert.Equal(t, 50, lc.File.MaxSizeMB)
	assert.Equal(t, 3, lc.File.MaxBackups, "default kept")
}

func TestLoad_YAMLAndExtensionless(t *testing.T) {
	p := writeFile(t, "procguard.yaml", "wait:\n  poll_interval: 2s\nmetrics:\n  addr: \":9100\"\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.Wait.PollInterval)
	assert.Equal(t, ":9100", c.Metrics.Addr)

	p = writeFile(t, "procguard", "[terminate]\ntimeout = \"3s\"\n")
	c, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.Terminate.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeFile(t, "procguard.toml", "[terminate]\ntimeout = \"10s\"\n")
	t.Setenv("PROCGUARD_TERMINATE_TIMEOUT", "42s")
	t.Setenv("PROCGUARD_LOG_LEVEL", "warn")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, c.Terminate.Timeout)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	p := writeFile(t, "bad.toml", "[terminate\n")
	_, err = Load(p)
	assert.Error(t, err)

	p = writeFile(t, "neg.toml", "[terminate]\ntimeout = \"-1s\"\n[log]\nformat = \"xml\"\nlevel = \"loud\"\n")
	_, err = Load(p)
	require.Error(t, err)
	assert.ErrorContains(t, err, "terminate.timeout must not be negative")
	assert.ErrorContains(t, err, "unknown log format")
	assert.ErrorContains(t, err, "unknown log level")
}
