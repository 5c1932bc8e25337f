// Package requesttime provides middleware and utilities for request-scoped time.
// All operations within a single request use the same "now", so an issued
// credential's issuedAt and a verification's expiry check agree with the
// timestamp logged for that request.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKeyRequestTime struct{}

// Clock returns the current time.
type Clock func() time.Time

// Middleware captures time.Now at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return NewMiddleware(time.Now)(next)
}

// NewMiddleware captures clock() at the start of each request. Tests and the
// end-to-end suite pass a controllable clock to move past credential expiry.
func NewMiddleware(clock Clock) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}
