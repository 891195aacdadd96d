package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Fines.RecomputeWorkers)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.CacheTTL)
	assert.Nil(t, cfg.Fines.MotorcycleTokens)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FINE_MOTORCYCLE_TOKENS", "ΜΟΤΟ, moped ,,")
	t.Setenv("FINE_TRUCK_TOKENS", "ΦΟΡΤΗΓ")
	t.Setenv("FINE_RECOMPUTE_WORKERS", "8")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ΜΟΤΟ", "moped"}, cfg.Fines.MotorcycleTokens)
	assert.Equal(t, []string{"ΦΟΡΤΗΓ"}, cfg.Fines.TruckTokens)
	assert.Equal(t, 8, cfg.Fines.RecomputeWorkers)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("FINE_RECOMPUTE_WORKERS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "patrol", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@db:5432/patrol?sslmode=disable", cfg.DSN())
}
