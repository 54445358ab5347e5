package domain

import "strconv"

// Product is a catalog entry. It is owned by the remote catalog and never
// mutated here; the stores only copy id, title, price and image from it.
type Product struct {
	ID          int     `json:"id" validate:"gt=0"`
	Title       string  `json:"title" validate:"required"`
	Price       Money   `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Rating is the aggregate review score the catalog attaches to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Key returns the product id in its textual form for logs and errors.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}
