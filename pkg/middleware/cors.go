package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/httputil"
)

var (
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Content-Type", HeaderCorrelationID, HeaderRequestID, HeaderDeviceID}
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the list of allowed origins (e.g. "https://example.com").
	// If it contains "*", all origins are allowed (only safe in development).
	AllowedOrigins []string

	// AllowedMethods is the list of allowed HTTP methods.
	// Defaults to GET, POST, PUT, PATCH, DELETE, OPTIONS if empty.
	AllowedMethods []string

	// AllowedHeaders is the list of allowed request headers.
	// Defaults to Accept, Content-Type, X-Correlation-ID, X-Request-ID, X-Device-ID if empty.
	AllowedHeaders []string

	// ExposedHeaders is the list of headers the browser may access.
	ExposedHeaders []string

	// MaxAge is how long (in seconds) preflight results can be cached.
	// Defaults to 3600 if 0.
	MaxAge int

	// AllowCredentials indicates whether credentials (cookies, auth headers) are supported.
	AllowCredentials bool

	// Environment controls wildcard behavior. Wildcard origins are only
	// accepted when Environment is "development" or AllowedOrigins explicitly contains "*".
	Environment string
}

// DefaultCORSConfig returns a permissive configuration suitable for local
// development against the mobile app's web build.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: defaultMethods,
		AllowedHeaders: defaultHeaders,
		ExposedHeaders: []string{HeaderCorrelationID},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// CORS returns middleware that answers preflight requests and decorates
// actual requests with Cross-Origin Resource Sharing headers.
//
// A preflight is an OPTIONS request carrying Access-Control-Request-Method.
// Preflights from origins outside the allow list get 403; other OPTIONS
// requests reach the router. With AllowCredentials the matching origin is
// echoed back because browsers reject "*" on credentialed requests.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = defaultMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = defaultHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	wildcard := cfg.Environment == "development" || slices.Contains(cfg.AllowedOrigins, "*")
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	preflight := http.Header{}
	preflight.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
	preflight.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	preflight.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	exposed := strings.Join(cfg.ExposedHeaders, ", ")

	// allowOrigin returns the Access-Control-Allow-Origin value, or "" when
	// origin is not allowed.
	allowOrigin := func(origin string) string {
		if _, ok := origins[origin]; ok {
			return origin
		}
		if !wildcard {
			return ""
		}
		if cfg.AllowCredentials && origin != "" {
			return origin
		}
		return "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := allowOrigin(origin)
			isPreflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			h := w.Header()
			h.Add("Vary", "Origin")
			if allowed != "" {
				h.Set("Access-Control-Allow-Origin", allowed)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposed != "" {
					h.Set("Access-Control-Expose-Headers", exposed)
				}
			}

			if !isPreflight {
				next.ServeHTTP(w, r)
				return
			}

			if allowed == "" {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "CORS_ORIGIN_DENIED",
						Message: "origin not allowed",
					},
				})
				return
			}
			for k, v := range preflight {
				h[k] = v
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
