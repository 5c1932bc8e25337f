// Package builder turns issuance input into a canonical claim payload.
//
// Domain Purity: no I/O, no context.Context and no time.Now() calls. The
// application layer passes the issuance instant in.
package builder

import (
	"strings"
	"time"

	"agepass/internal/credential/domain/shared"
	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

// YearLength is the divisor for age arithmetic: 365.25 days.
// Every implementation must use exactly this value to agree on ages.
const YearLength = 365*24*time.Hour + 6*time.Hour

// Option configures a Builder.
type Option func(*Builder)

// Builder assembles VerifiableCredential values.
type Builder struct {
	issuer   string
	validity time.Duration
}

// New creates a builder for the default demo issuer.
func New(opts ...Option) *Builder {
	b := &Builder{
		issuer:   models.DefaultIssuer,
		validity: models.ValidityPeriod,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithIssuer overrides the issuer name written into credentials.
func WithIssuer(issuer string) Option {
	return func(b *Builder) {
		if strings.TrimSpace(issuer) != "" {
			b.issuer = strings.TrimSpace(issuer)
		}
	}
}

// Issuer returns the configured issuer name.
func (b *Builder) Issuer() string {
	return b.issuer
}

// Build creates the credential for name as of now.
// The age claim is reported, not enforced; refusing sub-threshold subjects is
// the caller's job.
func (b *Builder) Build(name string, birthDate, now time.Time) (models.VerifiableCredential, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.VerifiableCredential{}, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if birthDate.IsZero() {
		return models.VerifiableCredential{}, dErrors.New(dErrors.CodeValidation, "birth date is required")
	}
	if birthDate.After(now) {
		return models.VerifiableCredential{}, dErrors.New(dErrors.CodeValidation, "birth date cannot be in the future")
	}

	issuedAt, err := shared.NewIssuedAt(now)
	if err != nil {
		return models.VerifiableCredential{}, dErrors.Wrap(err, dErrors.CodeValidation, "issuance time is required")
	}
	expiresAt, err := shared.NewExpiresAtAfter(issuedAt, b.validity)
	if err != nil {
		return models.VerifiableCredential{}, dErrors.Wrap(err, dErrors.CodeInternal, "invalid validity period")
	}

	return models.VerifiableCredential{
		Issuer:      b.issuer,
		IssuedAt:    issuedAt.Unix(),
		ExpiresAt:   expiresAt.Unix(),
		SubjectName: name,
		AgeClaim:    Age(birthDate, now) >= models.MinimumAge,
	}, nil
}

// Age returns floor((now - birthDate) / 365.25 days). Negative spans yield 0.
func Age(birthDate, now time.Time) int {
	elapsed := now.Sub(birthDate)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / YearLength)
}

// IsOfAge reports whether the subject meets the minimum age at now.
func IsOfAge(birthDate, now time.Time) bool {
	return Age(birthDate, now) >= models.MinimumAge
}
