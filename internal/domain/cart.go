package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/validator"
)

// CartLineItem is one product entry in the cart.
type CartLineItem struct {
	ID       int    `json:"id" validate:"gt=0"`
	Title    string `json:"title"`
	Price    Money  `json:"price" validate:"gte=0"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// Subtotal returns price × quantity.
func (i CartLineItem) Subtotal() Money {
	return i.Price.Times(i.Quantity)
}

// CartRecord is the ordered list of line items, in the order products were
// first added. Ids are unique and every quantity is at least 1.
type CartRecord struct {
	Items []CartLineItem `json:"items" validate:"unique=ID,dive"`
}

// NewCartRecord returns an empty cart.
func NewCartRecord() *CartRecord {
	return &CartRecord{Items: []CartLineItem{}}
}

// DecodeCart parses and validates persisted cart bytes.
func DecodeCart(data []byte) (*CartRecord, error) {
	var c CartRecord
	if err := validator.UnmarshalAndValidate(data, &c); err != nil {
		return nil, fmt.Errorf("cart record: %w", err)
	}
	if c.Items == nil {
		c.Items = []CartLineItem{}
	}
	return &c, nil
}

// FindItemIndex returns the index of the line item with the given product id, or -1.
func (c *CartRecord) FindItemIndex(id int) int {
	return slices.IndexFunc(c.Items, func(it CartLineItem) bool { return it.ID == id })
}

// AddOrIncrement bumps the quantity of p's line item by one, or appends a new
// line item with quantity 1. Title, price and image are refreshed from p.
func (c *CartRecord) AddOrIncrement(p Product) {
	if i := c.FindItemIndex(p.ID); i >= 0 {
		c.Items[i].Quantity++
		c.Items[i].Title = p.Title
		c.Items[i].Price = p.Price
		c.Items[i].Image = p.Image
		return
	}
	c.Items = append(c.Items, CartLineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	})
}

// SetQuantity replaces the quantity of id. A quantity below 1 removes the
// line item. It reports whether the record changed; an unknown id is a no-op.
func (c *CartRecord) SetQuantity(id, qty int) bool {
	i := c.FindItemIndex(id)
	if i < 0 {
		return false
	}
	if qty < 1 {
		c.Items = slices.Delete(c.Items, i, i+1)
		return true
	}
	if c.Items[i].Quantity == qty {
		return false
	}
	c.Items[i].Quantity = qty
	return true
}

// Remove deletes the line item for id and reports whether it was present.
func (c *CartRecord) Remove(id int) bool {
	i := c.FindItemIndex(id)
	if i < 0 {
		return false
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	return true
}

// Quantity returns the quantity held for id, or 0.
func (c *CartRecord) Quantity(id int) int {
	if i := c.FindItemIndex(id); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// Total sums price × quantity over all line items using exact decimals.
func (c *CartRecord) Total() Money {
	var total Money
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *CartRecord) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Len returns the number of distinct line items.
func (c *CartRecord) Len() int {
	return len(c.Items)
}

// Clone returns an independent copy.
func (c *CartRecord) Clone() *CartRecord {
	items := make([]CartLineItem, len(c.Items))
	copy(items, c.Items)
	return &CartRecord{Items: items}
}

// MarshalJSON writes the bare line item array.
func (c CartRecord) MarshalJSON() ([]byte, error) {
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// UnmarshalJSON reads the bare line item array form.
func (c *CartRecord) UnmarshalJSON(data []byte) error {
	var items []CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.Items = items
	return nil
}
