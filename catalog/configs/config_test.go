package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  port: 9000
jobs:
  movieStatsInterval: 10s
cache:
  ttl: 2m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.Jobs.MovieStatsInterval)
	assert.Equal(t, 45*time.Second, cfg.Jobs.SweeperInterval)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Cache.Capacity)
	assert.Equal(t, 3306, cfg.DatabaseConfig.Mysql.Port)
}

func TestLoadDefaultsFile(t *testing.T) {
	cfg, err := Load("defaults.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().Jobs, JobsConfig{
		MovieStatsInterval: cfg.Jobs.MovieStatsInterval,
		SweeperInterval:    cfg.Jobs.SweeperInterval,
		TickTimeout:        cfg.Jobs.TickTimeout,
	})
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
