package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "ai:\n  apiKey: sk-test\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data/analyses.jsonl", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, time.Hour, cfg.RateWindow())
}

func TestLoadExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
storage:
  driver: mysql
  database:
    host: db.internal
    port: 3306
    user: nutriscan
    password: secret
    name: nutriscan
rateLimit:
  limit: 3
  window: 15m
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.RateLimit.Limit)
	assert.Equal(t, 15*time.Minute, cfg.RateWindow())
	assert.Equal(t, "nutriscan:secret@tcp(db.internal:3306)/nutriscan?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
