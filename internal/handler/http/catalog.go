package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/catalog"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httputil"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/pagination"
)

// Catalog is the remote product catalog as the screens see it.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// CatalogHandler serves product listing and detail.
type CatalogHandler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(c Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, logger: logger}
}

// ListProducts handles GET /api/v1/products?q=&category=&page=&per_page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	var (
		products []domain.Product
		err      error
	)
	if category != "" {
		products, err = h.catalog.ListByCategory(r.Context(), category)
	} else {
		products, err = h.catalog.ListProducts(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	filtered := catalog.Filter(products, query, category)
	httputil.WriteData(w, http.StatusOK, pagination.Paginate(filtered, pagination.FromRequest(r)))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.DebugContext(r.Context(), "product lookup failed", slog.String("product_id", strconv.Itoa(id)))
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, product)
}

// ListCategories handles GET /api/v1/products/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, categories)
}
