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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "costwatch.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Scan.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Scan.Timeout)
	assert.Equal(t, time.Hour, cfg.Scan.Interval)
	assert.Equal(t, 4*time.Hour, cfg.Pricing.CacheTTL)
	assert.False(t, cfg.Pricing.MessagingFreeTier)
	assert.Len(t, cfg.AWS.Regions, 6)
	assert.Contains(t, cfg.AWS.Regions, "ap-east-1")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "costwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
scan:
  workers: 3
pricing:
  messaging_free_tier: true
aws:
  regions:
    - us-east-1
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.True(t, cfg.Pricing.MessagingFreeTier)
	assert.Equal(t, []string{"us-east-1"}, cfg.AWS.Regions)
	// Unset keys keep their defaults.
	assert.Equal(t, "costwatch.db", cfg.Database.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COSTWATCH_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}
