package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/config"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/file"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/memory"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/postgres"
	redisstore "github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/redis"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/database"
)

// openStorage connects the configured backend and returns it instrumented
// and prefixed, together with a function that releases its connections.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Adapter, func(), error) {
	var (
		base    storage.Adapter
		release = func() {}
	)

	switch cfg.StorageBackend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		base = redisstore.New(client)
		release = func() {
			if err := client.Close(); err != nil {
				logger.Error("redis close error", slog.String("error", err.Error()))
			}
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr), slog.Int("db", cfg.RedisDB))

	case config.BackendPostgres:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		migrations, err := fs.Sub(postgres.Migrations, "migrations")
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("open migrations: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, "storage"); err != nil {
			logger.Warn("postgres pool metrics not registered", slog.String("error", err.Error()))
		}
		base = postgres.New(pool)
		release = pool.Close
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

	case config.BackendFile:
		a, err := file.New(cfg.StorageFileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file storage: %w", err)
		}
		base = a
		logger.Info("using file storage", slog.String("dir", cfg.StorageFileDir))

	case config.BackendMemory:
		base = memory.New()
		logger.Warn("using in-memory storage; wishlist and cart are lost on restart")

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	adapter := storage.Instrument(storage.WithPrefix(base, cfg.StorageKeyPrefix), cfg.StorageBackend)
	return adapter, release, nil
}
