package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage/memory"
)

type failingAdapter struct{ err error }

func (f failingAdapter) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingAdapter) Set(context.Context, string, []byte) error   { return f.err }
func (f failingAdapter) Ping(context.Context) error                  { return f.err }

func TestWithPrefix_NamespacesKeys(t *testing.T) {
	mem := memory.New()
	a := storage.WithPrefix(mem, "device-1:")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "cart", []byte("[]")))

	raw, err := mem.Get(ctx, "device-1:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	_, err = mem.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := a.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestWithPrefix_EmptyReturnsSameAdapter(t *testing.T) {
	mem := memory.New()
	assert.Same(t, mem, storage.WithPrefix(mem, ""))
}

func TestPing_PassesThroughDecorators(t *testing.T) {
	down := errors.New("down")
	a := storage.Instrument(storage.WithPrefix(failingAdapter{err: down}, "p:"), "fake")

	assert.ErrorIs(t, storage.Ping(context.Background(), a), down)
}

func TestPing_NonPingerSucceeds(t *testing.T) {
	assert.NoError(t, storage.Ping(context.Background(), memory.New()))
}
