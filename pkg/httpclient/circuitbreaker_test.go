package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      50 * time.Millisecond,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func statusServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
}

func TestCircuitBreaker_ClosedState_Success(t *testing.T) {
	server := statusServer(http.StatusOK)
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-closed"), testLogger())

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_TripsOn5xx(t *testing.T) {
	server := statusServer(http.StatusInternalServerError)
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-trip"), testLogger())

	for i := 0; i < 3; i++ {
		_, err := cb.Get(context.Background(), server.URL)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_4xxNotCountedAsFailure(t *testing.T) {
	server := statusServer(http.StatusNotFound)
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-4xx"), testLogger())

	for i := 0; i < 5; i++ {
		resp, err := cb.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-recover"), testLogger())
	for i := 0; i < 3; i++ {
		_, _ = cb.Get(context.Background(), server.URL)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	healthy.Store(true)
	time.Sleep(80 * time.Millisecond)

	resp, err := cb.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_FallbackWhenOpen(t *testing.T) {
	server := statusServer(http.StatusInternalServerError)
	defer server.Close()

	fallbackErr := errors.New("catalog temporarily unavailable")
	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-fallback"), testLogger()).
		WithFallback(func(_ context.Context, err error) (*http.Response, error) {
			assert.ErrorIs(t, err, ErrCircuitOpen)
			return nil, fallbackErr
		})

	for i := 0; i < 3; i++ {
		_, err := cb.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.NotErrorIs(t, err, fallbackErr)
	}

	_, err := cb.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, fallbackErr)
}

func TestCircuitBreaker_FallbackCountsRejections(t *testing.T) {
	server := statusServer(http.StatusInternalServerError)
	defer server.Close()

	cfg := testCBConfig("test-rejections")
	cfg.Timeout = time.Minute
	cb := NewCircuitBreakerClient(New(fastConfig(0)), cfg, testLogger()).
		WithFallback(func(context.Context, error) (*http.Response, error) {
			return nil, errors.New("fallback")
		})

	for i := 0; i < 5; i++ {
		_, _ = cb.Get(context.Background(), server.URL)
	}

	rejections := testutil.ToFloat64(circuitBreakerFallbackTotal.WithLabelValues("test-rejections", "open"))
	assert.InDelta(t, 2, rejections, 0)
	assert.InDelta(t, 2, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-rejections")), 0)
}

func TestCircuitBreaker_ServerErrorBodyInMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	cb := NewCircuitBreakerClient(New(fastConfig(0)), testCBConfig("test-body"), testLogger())
	_, err := cb.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "server error 502"))
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestCircuitBreaker_DefaultConfig(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("catalog")
	assert.Equal(t, "catalog", cfg.Name)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.Equal(t, 0.5, cfg.FailureRatio)
}
