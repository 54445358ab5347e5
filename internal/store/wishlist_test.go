package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/domain"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
)

func newWishlist(a *flakyAdapter) *WishlistStore {
	return NewWishlistStore(a, nil, nil, Options{})
}

func TestWishlistStore_LoadAbsentIsEmpty(t *testing.T) {
	s := newWishlist(newFlakyAdapter())
	assert.False(t, s.Loaded())

	ids, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.True(t, s.Loaded())
}

func TestWishlistStore_AddIsIdempotent(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	_, err := s.Add(ctx, 3)
	require.NoError(t, err)
	ids, err := s.Add(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, ids)
	assert.Equal(t, "[3]", a.raw(WishlistKey))
	assert.Equal(t, int32(1), a.sets.Load(), "no-op add must not rewrite the record")
}

func TestWishlistStore_RemoveAbsentIsNoop(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	_, err := s.Add(ctx, 1)
	require.NoError(t, err)
	ids, err := s.Remove(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, ids)
	assert.Equal(t, int32(1), a.sets.Load())
}

func TestWishlistStore_ToggleScenario(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	ids, err := s.Toggle(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ids)
	assert.True(t, s.Contains(5))

	ids, err = s.Toggle(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.False(t, s.Contains(5))
	assert.Equal(t, "[]", a.raw(WishlistKey))
}

func TestWishlistStore_RoundTripAcrossRestart(t *testing.T) {
	a := newFlakyAdapter()
	ctx := context.Background()

	first := newWishlist(a)
	for _, id := range []int{7, 3, 12} {
		_, err := first.Add(ctx, id)
		require.NoError(t, err)
	}
	_, err := first.Toggle(ctx, 3)
	require.NoError(t, err)
	_, err = first.Add(ctx, 1)
	require.NoError(t, err)

	restarted := newWishlist(a)
	ids, err := restarted.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot(), ids)
	assert.Equal(t, []int{7, 12, 1}, ids)
}

func TestWishlistStore_CorruptRecordRecoversAndSelfHeals(t *testing.T) {
	a := newFlakyAdapter()
	ctx := context.Background()
	require.NoError(t, a.Adapter.Set(ctx, WishlistKey, []byte(`{"not":"a list"}`)))

	s := newWishlist(a)
	ids, err := s.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrStorageRead)
	assert.Empty(t, ids)
	assert.True(t, s.Loaded())

	ids, err = s.Add(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids)
	assert.Equal(t, "[4]", a.raw(WishlistKey))
}

func TestWishlistStore_DuplicateIDsAreCorruption(t *testing.T) {
	a := newFlakyAdapter()
	ctx := context.Background()
	require.NoError(t, a.Adapter.Set(ctx, WishlistKey, []byte(`[1,1]`)))

	s := newWishlist(a)
	ids, err := s.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrStorageRead)
	assert.Empty(t, ids)
}

func TestWishlistStore_NoopMutationRewritesCorruptRecord(t *testing.T) {
	a := newFlakyAdapter()
	ctx := context.Background()
	require.NoError(t, a.Adapter.Set(ctx, WishlistKey, []byte(`garbage`)))

	s := newWishlist(a)
	ids, err := s.Remove(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, "[]", a.raw(WishlistKey))
}

func TestWishlistStore_LoadReadErrorRecoversToEmpty(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	a.failGet.Store(true)

	ids, err := s.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStorageRead)
	assert.ErrorIs(t, err, errDiskGone)
	assert.Empty(t, ids)
}

func TestWishlistStore_ReadErrorAbortsMutationWithoutWriting(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	_, err := s.Add(ctx, 1)
	require.NoError(t, err)

	a.failGet.Store(true)
	_, err = s.Add(ctx, 2)
	assert.ErrorIs(t, err, apperrors.ErrStorageRead)
	assert.Equal(t, "[1]", a.raw(WishlistKey))
	assert.Equal(t, []int{1}, s.Snapshot())
}

func TestWishlistStore_WriteFailureDuringRemoveRollsBack(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	for _, id := range []int{1, 2} {
		_, err := s.Add(ctx, id)
		require.NoError(t, err)
	}

	a.failSet.Store(true)
	ids, err := s.Remove(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrStorageWrite)
	assert.Nil(t, ids)
	assert.True(t, s.Contains(1))
	assert.Equal(t, []int{1, 2}, s.Snapshot())

	a.failSet.Store(false)
	ids, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestWishlistStore_ConcurrentAddsAreSerialized(t *testing.T) {
	a := newFlakyAdapter()
	a.setDelay = time.Millisecond
	s := newWishlist(a)
	ctx := context.Background()

	var wg sync.WaitGroup
	for id := 1; id <= 20; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(ctx, id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ids, err := newWishlist(a).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 20)
	assert.ElementsMatch(t, s.Snapshot(), ids)
}

func TestWishlistStore_CanceledWhileWaitingForSlot(t *testing.T) {
	s := newWishlist(newFlakyAdapter())
	s.c.queue <- struct{}{}
	defer func() { <-s.c.queue }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Add(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Contains(1))
}

func TestWishlistStore_StartedMutationIgnoresCancellation(t *testing.T) {
	a := newFlakyAdapter()
	a.setDelay = 50 * time.Millisecond
	s := newWishlist(a)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	ids, err := s.Add(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, ids)
	assert.Equal(t, "[8]", a.raw(WishlistKey))
}

func TestWishlistStore_SlowWriteOutlivesCallerDeadline(t *testing.T) {
	a := newFlakyAdapter()
	a.setDelay = 30 * time.Millisecond
	s := newWishlist(a)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	ids, err := s.Add(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)
	assert.Equal(t, []int{1}, s.Snapshot(), "mirror must match the committed write")
	assert.Equal(t, "[1]", a.raw(WishlistKey))
	assert.Zero(t, a.deadlines.Load(), "the store must not hand the adapter a deadline")
}

func TestWishlistStore_RejectsNonPositiveIDs(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	for _, id := range []int{1, 2, 3} {
		_, err := s.Add(ctx, id)
		require.NoError(t, err)
	}

	_, err := s.Add(ctx, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.Toggle(ctx, -3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.Remove(ctx, -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Equal(t, "[1,2,3]", a.raw(WishlistKey))
	assert.Equal(t, int32(3), a.sets.Load())

	_, err = s.Add(ctx, 4)
	require.NoError(t, err)

	reloaded := newWishlist(a)
	ids, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
}

func TestWishlistStore_Clear(t *testing.T) {
	a := newFlakyAdapter()
	s := newWishlist(a)
	ctx := context.Background()

	_, err := s.Add(ctx, 1)
	require.NoError(t, err)
	ids, err := s.Clear(ctx)
	require.NoError(t, err)

	assert.Empty(t, ids)
	assert.Equal(t, "[]", a.raw(WishlistKey))
}

func TestWishlistStore_PublishesAfterWrite(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewWishlistStore(newFlakyAdapter(), pub, nil, Options{})
	ctx := context.Background()

	_, err := s.Add(ctx, 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, 1)
	require.NoError(t, err)

	require.Len(t, pub.wishlist, 1, "no-op mutations publish nothing")
	assert.Equal(t, []int{1}, pub.wishlist[0])
}

func TestWishlistStore_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errDiskGone}
	s := NewWishlistStore(newFlakyAdapter(), pub, nil, Options{})

	ids, err := s.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)
}

func TestWishlistStore_SnapshotIsACopy(t *testing.T) {
	s := newWishlist(newFlakyAdapter())
	_, err := s.Add(context.Background(), 1)
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0] = 99
	assert.True(t, s.Contains(1))
	assert.False(t, s.Contains(99))
}

func TestWishlistStore_HydrateDropsFailedLookups(t *testing.T) {
	for _, concurrency := range []int{1, 8} {
		fetcher := &mockFetcher{}
		fetcher.On("GetProduct", mock.Anything, 1).Return(product(1, "A", "1.00"), nil)
		fetcher.On("GetProduct", mock.Anything, 2).Return(domain.Product{}, apperrors.CatalogLookup("2", errTimeout))
		fetcher.On("GetProduct", mock.Anything, 3).Return(product(3, "C", "3.00"), nil)

		s := NewWishlistStore(newFlakyAdapter(), nil, nil, Options{HydrateConcurrency: concurrency})
		res := s.Hydrate(context.Background(), []int{3, 2, 1}, fetcher)

		require.Len(t, res.Products, 2)
		assert.Equal(t, 3, res.Products[0].ID)
		assert.Equal(t, 1, res.Products[1].ID)
		assert.Equal(t, []int{2}, res.Dropped)
		fetcher.AssertNumberOfCalls(t, "GetProduct", 3)
	}
}

func TestWishlistStore_HydrateEmpty(t *testing.T) {
	fetcher := &mockFetcher{}
	s := newWishlist(newFlakyAdapter())

	res := s.Hydrate(context.Background(), nil, fetcher)
	assert.Empty(t, res.Products)
	assert.Empty(t, res.Dropped)
	fetcher.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestWishlistStore_HydrateSnapshot(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("GetProduct", mock.Anything, 4).Return(product(4, "D", "4.00"), nil)

	s := newWishlist(newFlakyAdapter())
	_, err := s.Add(context.Background(), 4)
	require.NoError(t, err)

	res := s.HydrateSnapshot(context.Background(), fetcher)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "D", res.Products[0].Title)
}
