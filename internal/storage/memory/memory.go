// Package memory implements storage.Adapter over an in-process map. It backs
// the default backend and the tests of every layer above storage.
package memory

import (
	"context"
	"sync"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
)

var _ storage.Adapter = (*Adapter)(nil)

// Adapter implements storage.Adapter using an in-memory map. Values are
// copied on the way in and out so callers cannot alias stored bytes.
type Adapter struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty in-memory adapter.
func New() *Adapter {
	return &Adapter{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (a *Adapter) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(v), nil
}

// Set stores a copy of value under key.
func (a *Adapter) Set(_ context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.values[key] = clone(value)
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
