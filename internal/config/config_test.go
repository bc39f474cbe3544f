package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "tendril.yaml", `
log_level: debug
api:
  base_url: http://api.local
  timeout: 2s
fakeapi:
  delay: 0s
  redis:
    addr: localhost:6379
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://api.local", cfg.API.BaseURL)
	assert.Equal(t, Duration(2*time.Second), cfg.API.Timeout)
	assert.Equal(t, Duration(0), cfg.FakeAPI.Delay)
	assert.Equal(t, "localhost:6379", cfg.FakeAPI.Redis.Addr)
	assert.Equal(t, "tendril:", cfg.FakeAPI.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "tendril.json", `{"server":{"port":9090},"fakeapi":{"delay":"50ms","seed":false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, Duration(50*time.Millisecond), cfg.FakeAPI.Delay)
	assert.False(t, cfg.FakeAPI.Seed)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(write(t, "bad.toml", "x = 1"))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.yaml", "api: ["))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.json", `{"api":{"timeout":"soon"}}`))
	assert.Error(t, err)

	_, err = Load(write(t, "range.yaml", "server:\n  port: 70000\n"))
	assert.Error(t, err)
}
