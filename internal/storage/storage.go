// Package storage defines the byte-oriented key-value contract the
// collection stores persist through, plus decorators shared by every backend.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Adapter is a durable string-keyed byte store. Implementations must make a
// single Set atomic: a reader never observes a partially written value.
// No multi-key transactions are assumed.
type Adapter interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by backends that can report their own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks a when it implements Pinger and succeeds otherwise.
func Ping(ctx context.Context, a Adapter) error {
	if p, ok := a.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

type prefixed struct {
	next   Adapter
	prefix string
}

// WithPrefix namespaces every key with prefix. An empty prefix returns a unchanged.
func WithPrefix(a Adapter, prefix string) Adapter {
	if prefix == "" {
		return a
	}
	return &prefixed{next: a, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.next.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.next.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Ping(ctx context.Context) error {
	return Ping(ctx, p.next)
}
