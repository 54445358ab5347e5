package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/memory"
)

var (
	errDiskGone = errors.New("disk unavailable")
	errTimeout  = errors.New("catalog timeout")
)

// --- Fault-injecting adapter ---

type flakyAdapter struct {
	*memory.Adapter
	failGet  atomic.Bool
	failSet  atomic.Bool
	setDelay time.Duration
	sets     atomic.Int32

	// deadlines counts Set calls whose context carried a deadline.
	deadlines atomic.Int32
}

func newFlakyAdapter() *flakyAdapter {
	return &flakyAdapter{Adapter: memory.New()}
}

func (f *flakyAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet.Load() {
		return nil, errDiskGone
	}
	return f.Adapter.Get(ctx, key)
}

func (f *flakyAdapter) Set(ctx context.Context, key string, value []byte) error {
	if _, ok := ctx.Deadline(); ok {
		f.deadlines.Add(1)
	}
	if f.setDelay > 0 {
		time.Sleep(f.setDelay)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.failSet.Load() {
		return errDiskGone
	}
	f.sets.Add(1)
	return f.Adapter.Set(ctx, key, value)
}

func (f *flakyAdapter) raw(key string) string {
	data, err := f.Adapter.Get(context.Background(), key)
	if err != nil {
		return ""
	}
	return string(data)
}

// --- Mock Product Fetcher ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

// --- Recording publisher ---

type recordingPublisher struct {
	mu       sync.Mutex
	err      error
	wishlist [][]int
	carts    []*domain.CartRecord
}

func (p *recordingPublisher) PublishWishlistUpdated(_ context.Context, ids []int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wishlist = append(p.wishlist, ids)
	return p.err
}

func (p *recordingPublisher) PublishCartUpdated(_ context.Context, cart *domain.CartRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.carts = append(p.carts, cart)
	return p.err
}

func product(id int, title, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Title: title,
		Price: domain.MustParseMoney(price),
		Image: "u",
	}
}
