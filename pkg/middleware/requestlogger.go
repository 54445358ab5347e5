package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/pkg/logger"
)

// HeaderDeviceID carries the identifier of the calling device.
const HeaderDeviceID = "X-Device-ID"

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// device_id, trace_id and span_id and stores it in the context. Downstream
// handlers retrieve it with logger.FromContext.
//
// Mount it after RequestLogging and Tracing. A malformed X-Device-ID is
// ignored rather than rejected.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := r.Header.Get(HeaderDeviceID); id != "" {
				if deviceIDPattern.MatchString(id) {
					ctx = logger.WithDeviceID(ctx, id)
				} else {
					base.DebugContext(ctx, "ignoring malformed device id", slog.Int("length", len(id)))
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
