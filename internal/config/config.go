package config

import (
	"fmt"
	"slices"
	"time"

	pkgconfig "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/config"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/database"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httpclient"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/tracing"
)

// Storage backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// ServiceName tags logs, metrics and spans.
const ServiceName = "storefront"

var backends = []string{BackendRedis, BackendPostgres, BackendFile, BackendMemory}

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofCIDRs     []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`
	CatalogMaxAge  int      `env:"CATALOG_CACHE_MAX_AGE_SECONDS" envDefault:"60"`
	ShutdownPeriod int      `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`

	// Per-device rate limit on wishlist and cart routes; 0 disables.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Storage
	StorageBackend   string `env:"STORAGE_BACKEND" envDefault:"memory"`
	StorageTimeoutMS int    `env:"STORAGE_TIMEOUT_MS" envDefault:"5000"`
	StorageKeyPrefix string `env:"STORAGE_KEY_PREFIX"`
	StorageFileDir   string `env:"STORAGE_FILE_DIR" envDefault:"./data"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Catalog
	CatalogBaseURL        string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeoutSeconds int    `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"10"`
	CatalogMaxRetries     int    `env:"CATALOG_MAX_RETRIES" envDefault:"2"`
	HydrateConcurrency    int    `env:"HYDRATE_CONCURRENCY" envDefault:"8"`

	// Circuit breaker around the catalog
	CBMaxRequests     uint32  `env:"CB_MAX_REQUESTS" envDefault:"3"`
	CBIntervalSeconds int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeoutSeconds  int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio    float64 `env:"CB_FAILURE_RATIO" envDefault:"0.6"`
	CBMinRequests     uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Kafka; an empty list disables change events.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotenv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains(backends, c.StorageBackend) {
		return fmt.Errorf("unknown storage backend %q, want one of %v", c.StorageBackend, backends)
	}
	if c.StorageTimeoutMS <= 0 {
		return fmt.Errorf("storage timeout must be positive: %dms", c.StorageTimeoutMS)
	}
	if c.StorageBackend == BackendFile && c.StorageFileDir == "" {
		return fmt.Errorf("STORAGE_FILE_DIR is required for the file backend")
	}
	if c.StorageBackend == BackendPostgres && (c.PostgresPort < 1 || c.PostgresPort > 65535) {
		return fmt.Errorf("invalid postgres port: %d", c.PostgresPort)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("invalid rate limit %v rps, burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.HydrateConcurrency <= 0 {
		return fmt.Errorf("hydrate concurrency must be positive: %d", c.HydrateConcurrency)
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.CatalogTimeoutSeconds <= 0 || c.CatalogMaxRetries < 0 {
		return fmt.Errorf("invalid catalog timeout %ds or retries %d", c.CatalogTimeoutSeconds, c.CatalogMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("circuit breaker failure ratio %v outside (0,1]", c.CBFailureRatio)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL sample rate %v outside [0,1]", c.OTELSampleRate)
	}
	return nil
}

// StorageTimeout bounds each call the networked adapters make: redis reads
// and writes, and postgres statements.
func (c *Config) StorageTimeout() time.Duration {
	return time.Duration(c.StorageTimeoutMS) * time.Millisecond
}

// Postgres returns the pool configuration for the postgres backend.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	pg.StatementTimeout = c.StorageTimeout()
	return pg
}

// Redis returns the client configuration for the redis backend.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Addr = c.RedisAddr
	rc.Password = c.RedisPassword
	rc.DB = c.RedisDB
	rc.ReadTimeout = c.StorageTimeout()
	rc.WriteTimeout = c.StorageTimeout()
	return rc
}

// HTTPClient returns the retrying client configuration for the catalog.
func (c *Config) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = time.Duration(c.CatalogTimeoutSeconds) * time.Second
	hc.MaxRetries = c.CatalogMaxRetries
	hc.UserAgent = ServiceName
	return hc
}

// CircuitBreaker returns the breaker configuration for the catalog.
func (c *Config) CircuitBreaker() httpclient.CircuitBreakerConfig {
	cb := httpclient.DefaultCircuitBreakerConfig("catalog")
	cb.MaxRequests = c.CBMaxRequests
	cb.Interval = time.Duration(c.CBIntervalSeconds) * time.Second
	cb.Timeout = time.Duration(c.CBTimeoutSeconds) * time.Second
	cb.FailureRatio = c.CBFailureRatio
	cb.MinRequests = c.CBMinRequests
	return cb
}

// Tracing returns the OpenTelemetry configuration.
func (c *Config) Tracing() tracing.Config {
	tc := tracing.DefaultConfig(ServiceName)
	tc.Environment = c.Environment
	tc.Enabled = c.OTELEnabled
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	return tc
}

// EventsEnabled reports whether change events are published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
