// Package requestid assigns a correlation ID to every inbound HTTP request
// so it can be followed through logs, traces, and error reports.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key the ID is stored under.
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is the header clients may set to supply their own ID,
	// and that the response always echoes back.
	RequestIDHeader = "X-Request-ID"
)

// FromContext returns the request ID carried by ctx, or "" if none was set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Middleware honors an inbound X-Request-ID header if present, otherwise
// mints a new UUIDv4, and makes the resulting ID available both on the
// response header and on the request context for downstream handlers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestIDFor(r)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// requestIDFor picks the caller-supplied ID off the header, falling back to
// a freshly generated one.
func requestIDFor(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}
