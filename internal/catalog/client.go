// Package catalog is the client for the remote product catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httpclient"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
)

const serviceName = "catalog"

// maxBodyBytes caps how much of a catalog response is read.
const maxBodyBytes = 4 << 20

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CircuitOpenFallback replaces the breaker's ErrCircuitOpen with a
// retryable service-unavailable error.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("catalog is temporarily unavailable, please retry shortly")
}

// Client reads products from the catalog service.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, l *slog.Logger) *Client {
	if l == nil {
		l = logger.Discard()
	}
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  l,
	}
}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products", "products", "", &products); err != nil {
		return nil, apperrors.CatalogLookup("list", err)
	}
	return nonNil(products), nil
}

// GetProduct returns one product. An unknown id yields an error wrapping
// both ErrCatalogLookup and ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	key := strconv.Itoa(id)
	if id <= 0 {
		return domain.Product{}, apperrors.CatalogLookup(key, apperrors.NotFound("product", key))
	}

	var p *domain.Product
	if err := c.get(ctx, "/products/"+key, "product", key, &p); err != nil {
		return domain.Product{}, apperrors.CatalogLookup(key, err)
	}
	// Some catalogs answer an unknown id with 200 and an empty or null body.
	if p == nil || p.ID == 0 {
		return domain.Product{}, apperrors.CatalogLookup(key, apperrors.NotFound("product", key))
	}
	return *p, nil
}

// ListCategories returns the catalog's category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/products/categories", "categories", "", &categories); err != nil {
		return nil, apperrors.CatalogLookup("categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// ListByCategory returns the products in category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.get(ctx, path, "category", category, &products); err != nil {
		return nil, apperrors.CatalogLookup(category, err)
	}
	return nonNil(products), nil
}

func (c *Client) get(ctx context.Context, path, resource, id string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "catalog request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, serviceName, resource, id)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
