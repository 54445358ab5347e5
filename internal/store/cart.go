package store

import (
	"context"
	"log/slog"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/validator"
)

// CartPublisher is notified after every persisted cart change.
type CartPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.CartRecord) error
}

// CartStore owns the persisted cart.
type CartStore struct {
	c         *collection[*domain.CartRecord]
	publisher CartPublisher
}

// NewCartStore creates the cart store. publisher may be nil.
func NewCartStore(adapter storage.Adapter, publisher CartPublisher, l *slog.Logger, opts Options) *CartStore {
	opts = opts.withDefaults()
	return &CartStore{
		c: newCollection("cart", CartKey, adapter,
			domain.DecodeCart, domain.NewCartRecord, l),
		publisher: publisher,
	}
}

// Load reads the persisted cart into the mirror, with the same recovery
// policy as WishlistStore.Load.
func (s *CartStore) Load(ctx context.Context) (*domain.CartRecord, error) {
	return s.c.load(ctx)
}

// AddOrIncrement adds one unit of p, appending a new line item when p is not
// yet in the cart.
func (s *CartStore) AddOrIncrement(ctx context.Context, p domain.Product) (*domain.CartRecord, error) {
	if err := validator.Validate(p); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return s.mutate(ctx, "add_or_increment", func(c *domain.CartRecord) bool {
		c.AddOrIncrement(p)
		return true
	}, slog.Int("product_id", p.ID))
}

// SetQuantity replaces the quantity of id; below 1 removes the line item.
// An unknown id succeeds without change.
func (s *CartStore) SetQuantity(ctx context.Context, id, qty int) (*domain.CartRecord, error) {
	return s.mutate(ctx, "set_quantity", func(c *domain.CartRecord) bool {
		return c.SetQuantity(id, qty)
	}, slog.Int("product_id", id), slog.Int("quantity", qty))
}

// Remove deletes the line item for id if present.
func (s *CartStore) Remove(ctx context.Context, id int) (*domain.CartRecord, error) {
	return s.mutate(ctx, "remove", func(c *domain.CartRecord) bool {
		return c.Remove(id)
	}, slog.Int("product_id", id))
}

// Clear overwrites the cart with an empty one.
func (s *CartStore) Clear(ctx context.Context) (*domain.CartRecord, error) {
	return s.mutate(ctx, "clear", func(c *domain.CartRecord) bool {
		if c.Len() == 0 {
			return false
		}
		c.Items = []domain.CartLineItem{}
		return true
	})
}

// Total returns the exact sum of price × quantity over the mirror.
func (s *CartStore) Total() domain.Money {
	var m domain.Money
	s.c.view(func(c *domain.CartRecord) { m = c.Total() })
	return m
}

// ItemCount returns the number of units in the mirror.
func (s *CartStore) ItemCount() int {
	var n int
	s.c.view(func(c *domain.CartRecord) { n = c.ItemCount() })
	return n
}

// Quantity returns the mirrored quantity of id, or 0.
func (s *CartStore) Quantity(id int) int {
	var n int
	s.c.view(func(c *domain.CartRecord) { n = c.Quantity(id) })
	return n
}

// Snapshot returns a copy of the in-memory cart.
func (s *CartStore) Snapshot() *domain.CartRecord {
	return s.c.snapshot()
}

// Loaded reports whether the store has left the uninitialized state.
func (s *CartStore) Loaded() bool {
	return s.c.isLoaded()
}

func (s *CartStore) mutate(ctx context.Context, op string, fn func(*domain.CartRecord) bool, attrs ...slog.Attr) (*domain.CartRecord, error) {
	cart, err := s.c.mutate(ctx, op, fn)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, s.c.logger)
	attrs = append(attrs,
		slog.String("op", op),
		slog.Int("lines", cart.Len()),
		slog.Int("units", cart.ItemCount()),
	)
	log.LogAttrs(ctx, slog.LevelInfo, "cart updated", attrs...)

	if s.publisher != nil {
		if err := s.publisher.PublishCartUpdated(context.WithoutCancel(ctx), cart.Clone()); err != nil {
			log.ErrorContext(ctx, "failed to publish cart.updated event",
				slog.String("error", err.Error()),
			)
		}
	}
	return cart, nil
}
