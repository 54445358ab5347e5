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
)

// WishlistHandler handles HTTP requests for the wishlist.
type WishlistHandler struct {
	store   *store.WishlistStore
	fetcher store.ProductFetcher
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(s *store.WishlistStore, fetcher store.ProductFetcher, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{store: s, fetcher: fetcher, logger: logger}
}

// WishlistResponse is the id view of the wishlist.
type WishlistResponse struct {
	IDs       []int `json:"ids"`
	Count     int   `json:"count"`
	Recovered bool  `json:"recovered,omitempty"`
}

// WishlistProductsResponse is the hydrated view of the wishlist.
type WishlistProductsResponse struct {
	Products []domain.Product `json:"products"`
	Dropped  []int            `json:"dropped"`
	// DroppedCount lets the screen show "n items unavailable".
	DroppedCount int `json:"dropped_count"`
}

// MembershipResponse reports whether one product is wishlisted.
type MembershipResponse struct {
	ID         int  `json:"id"`
	Wishlisted bool `json:"wishlisted"`
}

func wishlistResponse(ids []int) WishlistResponse {
	if ids == nil {
		ids = []int{}
	}
	return WishlistResponse{IDs: ids, Count: len(ids)}
}

// load reads the wishlist. A read that recovered to empty is not an error
// for the screens; anything else is written as a failure and ok is false.
func (h *WishlistHandler) load(w http.ResponseWriter, r *http.Request) (ids []int, recovered, ok bool) {
	ids, err := h.store.Load(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageRead) {
			return ids, true, true
		}
		httputil.WriteError(w, r, err, h.logger)
		return nil, false, false
	}
	return ids, false, true
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, recovered, ok := h.load(w, r)
	if !ok {
		return
	}
	resp := wishlistResponse(ids)
	resp.Recovered = recovered
	httputil.WriteData(w, http.StatusOK, resp)
}

// Products handles GET /api/v1/wishlist/products
func (h *WishlistHandler) Products(w http.ResponseWriter, r *http.Request) {
	ids, _, ok := h.load(w, r)
	if !ok {
		return
	}

	res := h.store.Hydrate(r.Context(), ids, h.fetcher)
	dropped := res.Dropped
	if dropped == nil {
		dropped = []int{}
	}
	httputil.WriteData(w, http.StatusOK, WishlistProductsResponse{
		Products:     res.Products,
		Dropped:      dropped,
		DroppedCount: len(dropped),
	})
}

// Contains handles GET /api/v1/wishlist/{id}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if !h.store.Loaded() {
		if _, _, ok := h.load(w, r); !ok {
			return
		}
	}
	httputil.WriteData(w, http.StatusOK, MembershipResponse{ID: id, Wishlisted: h.store.Contains(id)})
}

// Add handles PUT /api/v1/wishlist/{id}
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	ids, err := h.store.Add(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistResponse(ids))
}

// Remove handles DELETE /api/v1/wishlist/{id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	ids, err := h.store.Remove(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistResponse(ids))
}

// Toggle handles POST /api/v1/wishlist/{id}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	ids, err := h.store.Toggle(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct {
		WishlistResponse
		MembershipResponse
	}{
		WishlistResponse:   wishlistResponse(ids),
		MembershipResponse: MembershipResponse{ID: id, Wishlisted: h.store.Contains(id)},
	})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.Clear(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistResponse(ids))
}
