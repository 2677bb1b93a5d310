package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyperway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
history: false
timeout: 5s
headers:
  X-Client: cli
redis_addr: localhost:6379
`), 0o644))

	cfg, err := Load(path, []string{
		"HYPERWAY_TIMEOUT=250ms",
		"HYPERWAY_LOG_LEVEL=debug",
		"HOME=/root",
	})
	require.NoError(t, err)

	assert.False(t, cfg.History)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout, "environment wins over the file")
	assert.Equal(t, map[string]string{"X-Client": "cli"}, cfg.Headers)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "hyperway", cfg.UserAgent)
}

func TestLoad_EnvHeadersAndBool(t *testing.T) {
	cfg, err := Load("", []string{"HYPERWAY_HEADERS=X-A: 1, X-B: two", "HYPERWAY_HISTORY=0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-A": "1", "X-B": "two"}, cfg.Headers)
	assert.False(t, cfg.History)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = Load("", []string{"HYPERWAY_TIMOUT=1s"})
	assert.ErrorContains(t, err, "unknown keys")

	_, err = Load("", []string{"HYPERWAY_TIMEOUT=-1s"})
	assert.ErrorContains(t, err, "timeout")
}

func TestLoad_SnapshotSettings(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	cfg, err := Load("", []string{"HYPERWAY_SNAPSHOT_KEY=" + key, "HYPERWAY_REDACT=card,ssn"})
	require.NoError(t, err)
	assert.Equal(t, []string{"card", "ssn"}, cfg.Redact)

	k, err := cfg.Key()
	require.NoError(t, err)
	assert.Len(t, k, 32)

	_, err = Load("", []string{"HYPERWAY_SNAPSHOT_KEY=" + base64.StdEncoding.EncodeToString([]byte("short"))})
	assert.ErrorContains(t, err, "32 bytes")

	k, err = Default().Key()
	assert.NoError(t, err)
	assert.Nil(t, k)
}
