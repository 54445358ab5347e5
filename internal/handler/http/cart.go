package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/store"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httputil"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/validator"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	store   *store.CartStore
	fetcher store.ProductFetcher
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(s *store.CartStore, fetcher store.ProductFetcher, logger *slog.Logger) *CartHandler {
	return &CartHandler{store: s, fetcher: fetcher, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON body for adding one unit of a product.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// UpdateQuantityRequest is the JSON body for replacing a quantity. Zero
// removes the line item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=999"`
}

// CartResponse is the cart view rendered by the cart screen.
type CartResponse struct {
	Items     []domain.CartLineItem `json:"items"`
	Total     string                `json:"total"`
	ItemCount int                   `json:"item_count"`
	Recovered bool                  `json:"recovered,omitempty"`
}

func cartResponse(c *domain.CartRecord) CartResponse {
	items := c.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return CartResponse{
		Items:     items,
		Total:     c.Total().String(),
		ItemCount: c.ItemCount(),
	}
}

// --- Handlers ---

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.Load(r.Context())
	recovered := false
	if err != nil {
		if !errors.Is(err, apperrors.ErrStorageRead) {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		recovered = true
	}
	resp := cartResponse(cart)
	resp.Recovered = recovered
	httputil.WriteData(w, http.StatusOK, resp)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.fetcher.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.store.AddOrIncrement(r.Context(), product)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart))
}

// UpdateQuantity handles PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.store.SetQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart))
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	cart, err := h.store.Remove(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart))
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.Clear(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart))
}
