package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/validator"
)

// WishlistRecord is the set of product ids a user saved. It is persisted as
// a JSON array of integers in insertion order and never holds duplicates.
type WishlistRecord struct {
	IDs []int `json:"ids" validate:"unique,dive,gt=0"`
}

// NewWishlistRecord builds a record from ids, dropping repeats.
func NewWishlistRecord(ids ...int) *WishlistRecord {
	r := &WishlistRecord{IDs: make([]int, 0, len(ids))}
	for _, id := range ids {
		r.Add(id)
	}
	return r
}

// DecodeWishlist parses and validates persisted wishlist bytes.
func DecodeWishlist(data []byte) (*WishlistRecord, error) {
	var r WishlistRecord
	if err := validator.UnmarshalAndValidate(data, &r); err != nil {
		return nil, fmt.Errorf("wishlist record: %w", err)
	}
	if r.IDs == nil {
		r.IDs = []int{}
	}
	return &r, nil
}

// Contains reports whether id is in the wishlist.
func (r *WishlistRecord) Contains(id int) bool {
	return slices.Contains(r.IDs, id)
}

// Add inserts id and reports whether the record changed. Non-positive ids
// are refused.
func (r *WishlistRecord) Add(id int) bool {
	if id <= 0 || r.Contains(id) {
		return false
	}
	r.IDs = append(r.IDs, id)
	return true
}

// Remove deletes id and reports whether the record changed.
func (r *WishlistRecord) Remove(id int) bool {
	i := slices.Index(r.IDs, id)
	if i < 0 {
		return false
	}
	r.IDs = slices.Delete(r.IDs, i, i+1)
	return true
}

// Toggle flips membership of id and reports whether it is now present.
// A non-positive id is never inserted.
func (r *WishlistRecord) Toggle(id int) bool {
	if r.Remove(id) {
		return false
	}
	return r.Add(id)
}

// Len returns the number of saved products.
func (r *WishlistRecord) Len() int {
	return len(r.IDs)
}

// Clone returns an independent copy.
func (r *WishlistRecord) Clone() *WishlistRecord {
	ids := make([]int, len(r.IDs))
	copy(ids, r.IDs)
	return &WishlistRecord{IDs: ids}
}

// MarshalJSON writes the bare id array, e.g. [3,7,12].
func (r WishlistRecord) MarshalJSON() ([]byte, error) {
	if r.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.IDs)
}

// UnmarshalJSON reads the bare id array form.
func (r *WishlistRecord) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	r.IDs = ids
	return nil
}
