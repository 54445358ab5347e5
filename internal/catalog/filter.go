package catalog

import (
	"strings"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
)

// Filter keeps products whose title contains query (case-insensitive) and,
// when category is non-empty, whose category matches exactly. Order is kept.
func Filter(products []domain.Product, query, category string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
