package storage

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_storage_operations_total",
			Help: "Total number of key-value storage operations",
		},
		[]string{"backend", "op", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_storage_operation_duration_seconds",
			Help:    "Key-value storage operation latency in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "op"},
	)
)

// Outcome label values.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type instrumented struct {
	next    Adapter
	backend string
	tracer  trace.Tracer
}

// Instrument wraps a with Prometheus metrics and OpenTelemetry spans labelled
// by backend name.
func Instrument(a Adapter, backend string) Adapter {
	return &instrumented{
		next:    a,
		backend: backend,
		tracer:  otel.Tracer(tracerName),
	}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := i.start(ctx, "storage.Get", key)
	defer span.End()

	start := time.Now()
	data, err := i.next.Get(ctx, key)
	i.observe(span, "get", start, err)
	if err == nil {
		span.SetAttributes(attribute.Int("storage.value_bytes", len(data)))
	}
	return data, err
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := i.start(ctx, "storage.Set", key)
	defer span.End()
	span.SetAttributes(attribute.Int("storage.value_bytes", len(value)))

	start := time.Now()
	err := i.next.Set(ctx, key, value)
	i.observe(span, "set", start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return Ping(ctx, i.next)
}

func (i *instrumented) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.backend", i.backend),
			attribute.String("storage.key", key),
		),
	)
}

func (i *instrumented) observe(span trace.Span, op string, start time.Time, err error) {
	operationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())

	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = outcomeNotFound
	default:
		outcome = outcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	operationsTotal.WithLabelValues(i.backend, op, outcome).Inc()
}
