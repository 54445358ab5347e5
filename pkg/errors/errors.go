package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the storefront packages.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")

	// ErrStorageRead marks a persistence read that failed or returned bytes
	// that do not decode into the expected record shape.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite marks a persistence write that failed. The mutation
	// that issued it has not been applied.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrCatalogLookup marks a failed request to the remote catalog.
	ErrCatalogLookup = errors.New("catalog lookup failed")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// StorageRead creates an error for a failed or unparseable read of key.
func StorageRead(key string, err error) *AppError {
	return &AppError{
		Code:    "STORAGE_READ_FAILED",
		Message: fmt.Sprintf("could not read %q", key),
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrStorageRead, err),
	}
}

// StorageWrite creates an error for a failed write of key. Clients may retry.
func StorageWrite(key string, err error) *AppError {
	return &AppError{
		Code:    "STORAGE_WRITE_FAILED",
		Message: fmt.Sprintf("could not save %q, please retry", key),
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrStorageWrite, err),
	}
}

// CatalogLookup creates an error for a failed catalog request about id.
// When err wraps ErrNotFound the resulting status is 404.
func CatalogLookup(id string, err error) *AppError {
	status := http.StatusBadGateway
	if errors.Is(err, ErrNotFound) {
		status = http.StatusNotFound
	}
	return &AppError{
		Code:    "CATALOG_LOOKUP_FAILED",
		Message: fmt.Sprintf("product %s is unavailable", id),
		Status:  status,
		Err:     errors.Join(ErrCatalogLookup, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrStorageRead), errors.Is(err, ErrStorageWrite), errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrCatalogLookup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
