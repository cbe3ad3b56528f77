package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellan/enhancer/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
planner:
  interval_seconds: 60
  revalidate_seconds: 10
  workers: 4
  max_results: 10
  max_total_cost: 5000000
  only_mirror: true
enhance:
  enhancing_level: 85
  house_level: 4
  tool_bonus: 0.0552
  speed_bonus: 0.3
  target_level: 12
  blessed_tea: true
data:
  catalog_path: /var/lib/enhancer/catalog.json
  market_path: /var/lib/enhancer/market.json
cache:
  backend: redis
  ttl_seconds: 120
  redis_addr: 10.0.0.5:6379
storage:
  dsn: ":memory:"
log:
  level: warn
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.SweepInterval())
	assert.Equal(t, 10*time.Second, cfg.RevalidateEvery())
	assert.Equal(t, 4, cfg.Planner.Workers)
	assert.Equal(t, 10, cfg.Planner.MaxResults)
	assert.InDelta(t, 5000000.0, cfg.Planner.MaxTotalCost, 0.001)
	assert.True(t, cfg.Planner.OnlyMirror)

	assert.Equal(t, 85, cfg.Enhance.EnhancingLevel)
	assert.InDelta(t, 0.0552, cfg.Enhance.ToolBonus, 0.0001)
	assert.Equal(t, 12, cfg.Enhance.TargetLevel)
	assert.True(t, cfg.Enhance.BlessedTea)

	assert.Equal(t, "/var/lib/enhancer/catalog.json", cfg.Data.CatalogPath)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "10.0.0.5:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.SweepInterval())
	assert.Equal(t, 30*time.Second, cfg.RevalidateEvery())
	assert.Equal(t, 25, cfg.Planner.MaxResults)
	assert.Equal(t, 10, cfg.Enhance.TargetLevel)
	assert.Equal(t, "data/catalog.json", cfg.Data.CatalogPath)
	assert.Equal(t, "data/market.json", cfg.Data.MarketPath)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 100, cfg.Cache.Capacity)
	assert.Equal(t, "enhancer.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := config.Load(writeConfig(t, `
log:
  level: warn
cache:
  redis_addr: localhost:6379
`))
	require.NoError(t, err)

	// El entorno manda sobre el YAML
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis.internal:6380", cfg.Cache.RedisAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "planner: [broken"))
	assert.Error(t, err)
}
