// Package store holds the wishlist and cart stores. Each store owns one
// persisted record, serializes its mutations through a one-slot queue and
// keeps an in-memory mirror that only changes after a successful write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
)

const tracerName = "github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/store"

// Persisted record keys.
const (
	WishlistKey = "wishlist"
	CartKey     = "cart"
)

const defaultHydrateConcurrency = 8

// Options tunes a store. Zero values select the defaults. Storage deadlines
// belong to the adapter; the stores impose none of their own.
type Options struct {
	// HydrateConcurrency caps parallel catalog lookups during hydration.
	HydrateConcurrency int
}

func (o Options) withDefaults() Options {
	if o.HydrateConcurrency <= 0 {
		o.HydrateConcurrency = defaultHydrateConcurrency
	}
	return o
}

// record is implemented by the pointer record types the stores persist.
type record[R any] interface {
	Clone() R
}

// collection is the shared read-modify-write engine behind both stores.
type collection[R record[R]] struct {
	name    string
	key     string
	adapter storage.Adapter
	decode  func([]byte) (R, error)
	empty   func() R
	logger  *slog.Logger
	tracer  trace.Tracer

	// queue is a one-slot semaphore; holding it means owning the record.
	queue chan struct{}

	mu     sync.RWMutex
	mirror R
	loaded bool
}

func newCollection[R record[R]](name, key string, adapter storage.Adapter, decode func([]byte) (R, error), empty func() R, l *slog.Logger) *collection[R] {
	if l == nil {
		l = logger.Discard()
	}
	return &collection[R]{
		name:    name,
		key:     key,
		adapter: adapter,
		decode:  decode,
		empty:   empty,
		logger:  l.With(slog.String("store", name)),
		tracer:  otel.Tracer(tracerName),
		queue:   make(chan struct{}, 1),
		mirror:  empty(),
	}
}

// acquire waits for the mutation slot. Waiting honours ctx; the returned
// context does not, so a started cycle runs until the adapter returns.
func (c *collection[R]) acquire(ctx context.Context) (context.Context, func(), error) {
	select {
	case c.queue <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: waiting for mutation slot: %w", c.name, ctx.Err())
	}

	return context.WithoutCancel(ctx), func() { <-c.queue }, nil
}

// read fetches and decodes the persisted record. Absent yields empty.
// corrupt reports bytes that failed to decode, in which case rec is empty and
// err wraps ErrStorageRead. An adapter failure returns a nil rec.
func (c *collection[R]) read(ctx context.Context) (rec R, corrupt bool, err error) {
	data, err := c.adapter.Get(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		return c.empty(), false, nil
	}
	if err != nil {
		var zero R
		return zero, false, apperrors.StorageRead(c.key, err)
	}

	rec, err = c.decode(data)
	if err != nil {
		return c.empty(), true, apperrors.StorageRead(c.key, err)
	}
	return rec, false, nil
}

// load refreshes the mirror from persistence. Read failures recover to an
// empty record; the returned error is informational.
func (c *collection[R]) load(ctx context.Context) (R, error) {
	opCtx, release, err := c.acquire(ctx)
	if err != nil {
		return c.snapshot(), err
	}
	defer release()

	opCtx, span := c.startSpan(opCtx, "load")
	defer span.End()

	rec, corrupt, err := c.read(opCtx)
	if err != nil {
		if !corrupt {
			rec = c.empty()
		}
		span.RecordError(err)
		logger.WithContext(ctx, c.logger).WarnContext(ctx, "recovered to empty record",
			slog.String("key", c.key),
			slog.Bool("corrupt", corrupt),
			slog.String("error", err.Error()),
		)
		mutationsTotal.WithLabelValues(c.name, "load", outcomeRecovered).Inc()
	} else {
		mutationsTotal.WithLabelValues(c.name, "load", outcomeOK).Inc()
	}

	c.setMirror(rec)
	return rec.Clone(), err
}

// mutate runs one serialized read-modify-write cycle. fn edits a fresh copy
// of the persisted record in place and reports whether it changed anything.
// An unchanged clean record is not rewritten. The mirror is replaced only
// after a successful write, so a failed write leaves it untouched.
func (c *collection[R]) mutate(ctx context.Context, op string, fn func(R) bool) (R, error) {
	opCtx, release, err := c.acquire(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	defer release()

	opCtx, span := c.startSpan(opCtx, op)
	defer span.End()
	log := logger.WithContext(ctx, c.logger)

	cur, corrupt, err := c.read(opCtx)
	if err != nil && !corrupt {
		c.fail(span, op, err)
		log.ErrorContext(ctx, "mutation aborted: read failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		var zero R
		return zero, err
	}
	if corrupt {
		log.WarnContext(ctx, "discarding corrupt record",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}

	next := cur.Clone()
	if !fn(next) && !corrupt {
		c.setMirror(next)
		mutationsTotal.WithLabelValues(c.name, op, outcomeNoop).Inc()
		return next.Clone(), nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		err = apperrors.StorageWrite(c.key, err)
		c.fail(span, op, err)
		var zero R
		return zero, err
	}
	if err := c.adapter.Set(opCtx, c.key, data); err != nil {
		werr := apperrors.StorageWrite(c.key, err)
		c.fail(span, op, werr)
		log.ErrorContext(ctx, "mutation rolled back: write failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		var zero R
		return zero, werr
	}

	c.setMirror(next)
	mutationsTotal.WithLabelValues(c.name, op, outcomeOK).Inc()
	return next.Clone(), nil
}

func (c *collection[R]) fail(span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	mutationsTotal.WithLabelValues(c.name, op, outcomeError).Inc()
}

func (c *collection[R]) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "store."+c.name+"."+op,
		trace.WithAttributes(
			attribute.String("store.name", c.name),
			attribute.String("store.key", c.key),
		),
	)
}

func (c *collection[R]) setMirror(rec R) {
	c.mu.Lock()
	c.mirror = rec
	c.loaded = true
	c.mu.Unlock()
}

// view runs fn against the mirror under the read lock.
func (c *collection[R]) view(fn func(R)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.mirror)
}

func (c *collection[R]) snapshot() R {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror.Clone()
}

func (c *collection[R]) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
