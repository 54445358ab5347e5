package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/errors"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_NotFound(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusNotFound, ``), "catalog", "product", "7")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "product with id 7 not found")
}

func TestParseResponseError_Structured(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request", http.StatusBadRequest, apperrors.ErrInvalidInput},
		{"conflict", http.StatusConflict, apperrors.ErrConflict},
		{"unavailable", http.StatusServiceUnavailable, apperrors.ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"error":{"code":"X","message":"nope"}}`
			err := ParseResponseError(makeResponse(tt.status, body), "catalog", "product", "1")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "catalog: nope")
		})
	}
}

func TestParseResponseError_StructuredServerError(t *testing.T) {
	body := `{"error":{"code":"INTERNAL","message":"db down"}}`
	err := ParseResponseError(makeResponse(http.StatusInternalServerError, body), "catalog", "product", "1")
	assert.Contains(t, err.Error(), "catalog server error (500/INTERNAL): db down")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusTeapot, "<html>teapot</html>"), "catalog", "product", "1")
	assert.Contains(t, err.Error(), "catalog returned status 418")
	assert.Contains(t, err.Error(), "teapot")
}

func TestParseResponseError_UnknownStatusKeepsCode(t *testing.T) {
	body := `{"error":{"code":"RATE_LIMITED","message":"slow down"}}`
	err := ParseResponseError(makeResponse(http.StatusTooManyRequests, body), "catalog", "product", "1")
	assert.Equal(t, http.StatusTooManyRequests, apperrors.HTTPStatus(err))
}

func TestParseResponseError_TruncatesLongBodies(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusTeapot, strings.Repeat("x", 1000)), "catalog", "product", "1")
	assert.Less(t, len(err.Error()), 400)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(499))
	assert.False(t, IsClientError(500))
	assert.False(t, IsClientError(200))
}
