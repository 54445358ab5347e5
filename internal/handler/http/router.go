package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/store"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/health"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/middleware"
)

// RouterConfig carries the router settings that come from configuration.
type RouterConfig struct {
	ServiceName   string
	CORS          middleware.CORSConfig
	PprofCIDRs    []string
	CatalogMaxAge int

	// RateLimitRPS limits wishlist and cart requests per device; 0 disables.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cfg RouterConfig,
	catalog Catalog,
	wishlist *store.WishlistStore,
	cart *store.CartStore,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(catalog, logger)
	wishlistHandler := NewWishlistHandler(wishlist, catalog, logger)
	cartHandler := NewCartHandler(cart, catalog, logger)

	collectionLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/{id}", catalogHandler.GetProduct)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.NoStore, collectionLimit)
			r.Get("/", wishlistHandler.List)
			r.Delete("/", wishlistHandler.Clear)
			r.Get("/products", wishlistHandler.Products)
			r.Get("/{id}", wishlistHandler.Contains)
			r.Put("/{id}", wishlistHandler.Add)
			r.Delete("/{id}", wishlistHandler.Remove)
			r.Post("/{id}/toggle", wishlistHandler.Toggle)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore, collectionLimit)
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})
	})

	return r
}
