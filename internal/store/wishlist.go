package store

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
)

// ProductFetcher resolves a product id against the catalog.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id int) (domain.Product, error)
}

// WishlistPublisher is notified after every persisted wishlist change.
type WishlistPublisher interface {
	PublishWishlistUpdated(ctx context.Context, ids []int) error
}

// HydrateResult is the outcome of resolving wishlist ids into products.
// Products keep the order of the requested ids; Dropped lists the ids whose
// lookup failed.
type HydrateResult struct {
	Products []domain.Product
	Dropped  []int
}

// WishlistStore owns the persisted set of wishlisted product ids.
type WishlistStore struct {
	c           *collection[*domain.WishlistRecord]
	publisher   WishlistPublisher
	concurrency int
}

// NewWishlistStore creates the wishlist store. publisher may be nil.
func NewWishlistStore(adapter storage.Adapter, publisher WishlistPublisher, l *slog.Logger, opts Options) *WishlistStore {
	opts = opts.withDefaults()
	return &WishlistStore{
		c: newCollection("wishlist", WishlistKey, adapter,
			domain.DecodeWishlist,
			func() *domain.WishlistRecord { return domain.NewWishlistRecord() }, l),
		publisher:   publisher,
		concurrency: opts.HydrateConcurrency,
	}
}

// Load reads the persisted wishlist into the mirror. On a failed or corrupt
// read it returns the empty set together with an error wrapping
// ErrStorageRead; callers may render the empty set.
func (s *WishlistStore) Load(ctx context.Context) ([]int, error) {
	rec, err := s.c.load(ctx)
	return rec.IDs, err
}

// Contains reports whether id is in the last loaded or mutated set.
func (s *WishlistStore) Contains(id int) bool {
	var ok bool
	s.c.view(func(r *domain.WishlistRecord) { ok = r.Contains(id) })
	return ok
}

// Add inserts id. Adding a present id succeeds without change.
func (s *WishlistStore) Add(ctx context.Context, id int) ([]int, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "add", func(r *domain.WishlistRecord) bool { return r.Add(id) })
}

// Remove deletes id. Removing an absent id succeeds without change.
func (s *WishlistStore) Remove(ctx context.Context, id int) ([]int, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "remove", func(r *domain.WishlistRecord) bool { return r.Remove(id) })
}

// Toggle removes id when present and inserts it otherwise.
func (s *WishlistStore) Toggle(ctx context.Context, id int) ([]int, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "toggle", func(r *domain.WishlistRecord) bool {
		r.Toggle(id)
		return true
	})
}

// Clear overwrites the wishlist with the empty set.
func (s *WishlistStore) Clear(ctx context.Context) ([]int, error) {
	return s.mutate(ctx, "clear", func(r *domain.WishlistRecord) bool {
		if r.Len() == 0 {
			return false
		}
		r.IDs = []int{}
		return true
	})
}

// Snapshot returns a copy of the in-memory set.
func (s *WishlistStore) Snapshot() []int {
	return s.c.snapshot().IDs
}

// Loaded reports whether the store has left the uninitialized state.
func (s *WishlistStore) Loaded() bool {
	return s.c.isLoaded()
}

// checkID rejects ids the persisted record could not decode again.
func checkID(id int) error {
	if id <= 0 {
		return apperrors.InvalidInput(fmt.Sprintf("product id must be positive, got %d", id))
	}
	return nil
}

func (s *WishlistStore) mutate(ctx context.Context, op string, fn func(*domain.WishlistRecord) bool) ([]int, error) {
	rec, err := s.c.mutate(ctx, op, fn)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, s.c.logger)
	log.InfoContext(ctx, "wishlist updated",
		slog.String("op", op),
		slog.Int("size", rec.Len()),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishWishlistUpdated(context.WithoutCancel(ctx), rec.IDs); err != nil {
			log.ErrorContext(ctx, "failed to publish wishlist.updated event",
				slog.String("error", err.Error()),
			)
		}
	}
	return rec.IDs, nil
}

// Hydrate resolves ids into products through fetcher with bounded
// concurrency. A failed lookup drops that id and never fails the batch.
func (s *WishlistStore) Hydrate(ctx context.Context, ids []int, fetcher ProductFetcher) HydrateResult {
	found := make([]*domain.Product, len(ids))
	log := logger.WithContext(ctx, s.c.logger)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := fetcher.GetProduct(ctx, id)
			if err != nil {
				log.WarnContext(ctx, "dropping wishlist id: catalog lookup failed",
					slog.Int("product_id", id),
					slog.String("error", err.Error()),
				)
				return nil
			}
			found[i] = &p
			return nil
		})
	}
	_ = g.Wait()

	res := HydrateResult{Products: make([]domain.Product, 0, len(ids))}
	for i, p := range found {
		if p == nil {
			res.Dropped = append(res.Dropped, ids[i])
			continue
		}
		res.Products = append(res.Products, *p)
	}
	if n := len(res.Dropped); n > 0 {
		hydrateDroppedTotal.Add(float64(n))
		log.WarnContext(ctx, "hydration dropped ids",
			slog.Int("dropped", n),
			slog.Int("requested", len(ids)),
		)
	}
	return res
}

// HydrateSnapshot hydrates the current in-memory set.
func (s *WishlistStore) HydrateSnapshot(ctx context.Context, fetcher ProductFetcher) HydrateResult {
	return s.Hydrate(ctx, s.Snapshot(), fetcher)
}
