package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/catalog"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/config"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/event"
	handler "github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/handler/http"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/store"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/health"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httpclient"
	pkgkafka "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/kafka"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/middleware"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	releaseStorage func()
	producer       *pkgkafka.Producer
	shutdownTracer tracing.ShutdownFunc
	httpServer     *http.Server

	Wishlist *store.WishlistStore
	Cart     *store.CartStore
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	adapter, releaseStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracer(context.Background())
		return nil, err
	}

	// Catalog client: retrying HTTP client behind a circuit breaker.
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg.HTTPClient()), cfg.CircuitBreaker(), logger,
	).WithFallback(catalog.CircuitOpenFallback)
	catalogClient := catalog.NewClient(breaker, cfg.CatalogBaseURL, logger)

	// Change events are optional.
	var (
		producer  *pkgkafka.Producer
		publisher *event.Producer
	)
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		publisher = event.NewProducer(nil, logger)
		logger.Info("kafka brokers not configured; change events disabled")
	}

	opts := store.Options{HydrateConcurrency: cfg.HydrateConcurrency}
	wishlist := store.NewWishlistStore(adapter, publisher, logger, opts)
	cart := store.NewCartStore(adapter, publisher, logger, opts)

	// Prime the mirrors so the first screen render does not wait on storage.
	if _, err := wishlist.Load(ctx); err != nil {
		logger.Warn("initial wishlist load failed", slog.String("error", err.Error()))
	}
	if _, err := cart.Load(ctx); err != nil {
		logger.Warn("initial cart load failed", slog.String("error", err.Error()))
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("storage", func(ctx context.Context) error {
		return storage.Ping(ctx, adapter)
	})
	healthHandler.RegisterNonCritical("catalog", func(ctx context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return errors.New("catalog circuit breaker is open")
		}
		return nil
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins
	cors.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:    config.ServiceName,
		CORS:           cors,
		PprofCIDRs:     cfg.PprofCIDRs,
		CatalogMaxAge:  cfg.CatalogMaxAge,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, catalogClient, wishlist, cart, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		releaseStorage: releaseStorage,
		producer:       producer,
		shutdownTracer: shutdownTracer,
		httpServer:     httpServer,
		Wishlist:       wishlist,
		Cart:           cart,
	}, nil
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components. In-flight store mutations finish
// before storage connections are released because the HTTP server drains
// first.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.ShutdownPeriod)*time.Second)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.releaseStorage()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
