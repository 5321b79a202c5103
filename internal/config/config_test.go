package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "database:\n  path: "+filepath.Join(t.TempDir(), "test.db")+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []int{60, 61, 63}, cfg.Resources.Nodes)
	assert.Equal(t, 4, cfg.Resources.GPUsPerNode)
	assert.Equal(t, 30*time.Second, cfg.FeedTTL())
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "localhost:6379")
	dbPath := filepath.Join(t.TempDir(), "test.db")
	path := writeConfig(t, `
database:
  path: `+dbPath+`
redis:
  address: ${TEST_REDIS_ADDR}
  feed_ttl_seconds: 120
resources:
  nodes: [70, 71]
  gpus_per_node: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 120*time.Second, cfg.FeedTTL())
	assert.Equal(t, []int{70, 71}, cfg.Resources.Nodes)
	assert.Equal(t, 8, cfg.Resources.GPUsPerNode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
