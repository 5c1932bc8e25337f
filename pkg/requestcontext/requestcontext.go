// Package requestcontext carries request-scoped values that every layer may read:
// the request ID, client metadata and the request time.
package requestcontext

import (
	"context"
	"time"

	"agepass/pkg/platform/middleware/requesttime"
)

type contextKeyRequestID struct{}
type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}
type contextKeyScanner struct{}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID stored in ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID{}).(string); ok {
		return id
	}
	return ""
}

// WithClientMetadata stores the (already anonymized) client IP, the raw
// User-Agent and its scanner class.
func WithClientMetadata(ctx context.Context, ip, userAgent, scanner string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, ip)
	ctx = context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
	return context.WithValue(ctx, contextKeyScanner{}, scanner)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP{}).(string)
	return ip
}

func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return ua
}

// Scanner returns the coarse device class of the client, or "" when unset.
func Scanner(ctx context.Context) string {
	s, _ := ctx.Value(contextKeyScanner{}).(string)
	return s
}

// Now returns the request-scoped time.
func Now(ctx context.Context) time.Time {
	return requesttime.Now(ctx)
}
