// Package shared provides the shared kernel for the credential context.
//
// Domain Purity: This package contains only pure domain types with no I/O,
// no context.Context, and no time.Now() calls. Time is always received as
// a parameter from the application layer.
package shared

import (
	"errors"
	"time"
)

// IssuedAt represents the second at which a credential was issued.
type IssuedAt struct {
	value int64
}

// ErrInvalidIssuedAt indicates the issued_at time is invalid.
var ErrInvalidIssuedAt = errors.New("issued_at cannot be zero")

// ErrExpiresBeforeIssued indicates expires_at is not after issued_at.
var ErrExpiresBeforeIssued = errors.New("expires_at must be after issued_at")

// NewIssuedAt creates an IssuedAt from a time value, truncated to whole seconds.
// The zero time and the Unix epoch are both rejected, matching IsZero.
func NewIssuedAt(t time.Time) (IssuedAt, error) {
	if t.IsZero() || t.Unix() == 0 {
		return IssuedAt{}, ErrInvalidIssuedAt
	}
	return IssuedAt{value: t.Unix()}, nil
}

// Unix returns the timestamp in seconds.
func (i IssuedAt) Unix() int64 {
	return i.value
}

// IsZero returns true if the issued_at time is unset.
func (i IssuedAt) IsZero() bool {
	return i.value == 0
}

// ExpiresAt represents the second after which a credential is no longer accepted.
//
// Invariants:
//   - ExpiresAt is always strictly after IssuedAt
type ExpiresAt struct {
	value int64
}

// NewExpiresAtAfter creates an ExpiresAt offset from issuedAt by validity.
func NewExpiresAtAfter(issuedAt IssuedAt, validity time.Duration) (ExpiresAt, error) {
	if issuedAt.IsZero() {
		return ExpiresAt{}, ErrInvalidIssuedAt
	}
	seconds := int64(validity / time.Second)
	if seconds <= 0 {
		return ExpiresAt{}, ErrExpiresBeforeIssued
	}
	return ExpiresAt{value: issuedAt.value + seconds}, nil
}

// ExpiresAtFromUnix wraps a decoded timestamp.
func ExpiresAtFromUnix(seconds int64) ExpiresAt {
	return ExpiresAt{value: seconds}
}

// Unix returns the timestamp in seconds.
func (e ExpiresAt) Unix() int64 {
	return e.value
}

// IsExpiredAt reports whether now is strictly past the expiry second.
func (e ExpiresAt) IsExpiredAt(now time.Time) bool {
	return now.Unix() > e.value
}

// IsExpired is the expiry check used by verifiers: now > expiresAt.
func IsExpired(expiresAt int64, now time.Time) bool {
	return ExpiresAtFromUnix(expiresAt).IsExpiredAt(now)
}
