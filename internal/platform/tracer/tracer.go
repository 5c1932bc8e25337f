// Package tracer provides a small tracing abstraction for credential operations.
//
// Callers depend on the Tracer interface rather than OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: for tests and the CLI
//   - OTelTracer: OpenTelemetry adapter for the server
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span. The returned context carries it.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanIssueSigned,
	//       tracer.String(tracer.AttrIssuer, issuer),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanIssueSigned  = "credential.issue.signed"
	SpanIssueZK      = "credential.issue.zk"
	SpanIssueJWT     = "credential.issue.jwt"
	SpanVerify       = "credential.verify"
	SpanVerifyBatch  = "credential.verify.batch"
	SpanVerifyJWT    = "credential.verify.jwt"
	SpanRenderQRCode = "credential.qr.render"
)

// Attribute keys. Subject names and birth dates are never attached.
const (
	AttrKind        = "credential.kind"
	AttrIssuer      = "credential.issuer"
	AttrDecodeStage = "credential.decode_stage"
	AttrValid       = "credential.valid"
	AttrExpired     = "credential.expired"
	AttrReason      = "credential.reason"
	AttrBatchSize   = "batch.size"
)
