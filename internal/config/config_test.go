package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.Equal(t, "*", c.AllowedOrigin)
	assert.Equal(t, 25*time.Second, c.PingInterval)
	assert.Equal(t, 10, c.QueuePrefill)
	assert.False(t, c.ExportEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "3000")
	t.Setenv("QUEUE_PREFILL", "20")
	t.Setenv("PING_TIMEOUT", "5s")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, 20, c.QueuePrefill)
	assert.Equal(t, 5*time.Second, c.PingTimeout)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "red-tetris.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"9090\"\nlog_format = \"json\"\nexport_enabled = true\n"), 0o600))

	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "json", c.LogFormat)
	assert.True(t, c.ExportEnabled)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ALLOWED_ORIGIN=http://localhost:5173\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ALLOWED_ORIGIN") })

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", c.AllowedOrigin)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{Port: "8080", LogFormat: "console", QueuePrefill: 10}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: "port is required"},
		{name: "small prefill", mutate: func(c *Config) { c.QueuePrefill = 1 }, wantErr: "queue_prefill"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "unsupported log_format"},
		{name: "export without file", mutate: func(c *Config) { c.ExportEnabled = true }, wantErr: "export_file"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := base
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load(New(), "/nonexistent/red-tetris.toml")
	assert.ErrorContains(t, err, "read config")
}
