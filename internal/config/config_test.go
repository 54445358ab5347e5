package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout())
	assert.Empty(t, cfg.StorageKeyPrefix)
	assert.Equal(t, 8, cfg.HydrateConcurrency)
	assert.False(t, cfg.EventsEnabled())
	assert.Empty(t, cfg.PprofCIDRs)
	assert.InDelta(t, 10.0, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 20, cfg.RateLimitBurst)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STORAGE_TIMEOUT_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "cache:6380", cfg.Redis().Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, 250*time.Millisecond, cfg.StorageTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.Redis().ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis().WriteTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Postgres().StatementTimeout)
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("HTTP_PORT=9090\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("HTTP_PORT", "7070")
	// godotenv writes into the process environment; clean up after the test.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad port":            {"HTTP_PORT": "70000"},
		"unknown backend":     {"STORAGE_BACKEND": "sqlite"},
		"zero timeout":        {"STORAGE_TIMEOUT_MS": "0"},
		"zero concurrency":    {"HYDRATE_CONCURRENCY": "0"},
		"sample rate":         {"OTEL_SAMPLE_RATE": "1.5"},
		"failure ratio":       {"CB_FAILURE_RATIO": "0"},
		"negative retries":    {"CATALOG_MAX_RETRIES": "-1"},
		"not a number":        {"HTTP_PORT": "eighty"},
		"bad postgres port":   {"STORAGE_BACKEND": "postgres", "POSTGRES_PORT": "0"},
		"negative rate limit": {"RATE_LIMIT_RPS": "-1"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDerivedConfigs(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTGRES_DB", "shop")
	t.Setenv("CATALOG_MAX_RETRIES", "0")
	t.Setenv("CB_TIMEOUT_SECONDS", "5")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "shop", pg.DBName)
	assert.Contains(t, pg.DSN(), "/shop?")

	assert.Equal(t, 0, cfg.HTTPClient().MaxRetries)
	assert.Equal(t, ServiceName, cfg.HTTPClient().UserAgent)
	assert.Equal(t, 5*time.Second, cfg.CircuitBreaker().Timeout)
	assert.Equal(t, "catalog", cfg.CircuitBreaker().Name)

	tc := cfg.Tracing()
	assert.True(t, tc.Enabled)
	assert.Equal(t, ServiceName, tc.ServiceName)
}
