// Package jwtvc exports the age claim as an EdDSA-signed JWT.
//
// The token carries the same facts as a signed credential. Verification checks
// the signature and algorithm only; expiry is evaluated separately so that a
// genuine but stale token still reports valid=true, expired=true.
package jwtvc

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agepass/internal/credential/domain/shared"
	"agepass/internal/credential/models"
	"agepass/internal/credential/signature"
	dErrors "agepass/pkg/domain-errors"
)

// Claims is the JWT body of an exported credential.
type Claims struct {
	AgeOver18 bool `json:"age_over_18"`
	jwt.RegisteredClaims
}

// Exporter signs credentials into JWTs with the issuer key.
type Exporter struct {
	keys  signature.KeySource
	newID func() string
}

// New creates an exporter backed by keys.
func New(keys signature.KeySource) *Exporter {
	return &Exporter{keys: keys, newID: uuid.NewString}
}

// Export signs vc as a compact JWT.
func (e *Exporter) Export(vc models.VerifiableCredential) (string, error) {
	if e.keys == nil {
		return "", dErrors.New(dErrors.CodeInternal, "signing key unavailable")
	}
	priv, err := e.keys.PrivateKey()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		AgeOver18: vc.AgeClaim,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    vc.Issuer,
			Subject:   vc.SubjectName,
			IssuedAt:  jwt.NewNumericDate(time.Unix(vc.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(vc.ExpiresAt, 0)),
			ID:        e.newID(),
		},
	})

	signed, err := token.SignedString(priv)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Parse checks the token signature against pub without validating time
// claims. Malformed tokens return CodeFormat, bad signatures CodeSignature.
func Parse(tokenString string, pub ed25519.PublicKey) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeFormat, "empty token")
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, dErrors.New(dErrors.CodeSignature, "verifier public key is missing or malformed")
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return pub, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, dErrors.Wrap(err, dErrors.CodeFormat, "token is malformed")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, dErrors.Wrap(err, dErrors.CodeSignature, "token signature does not match")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeSignature, "token could not be verified")
		}
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeSignature, "token could not be verified")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, dErrors.New(dErrors.CodeFormat, "token is missing iat or exp")
	}
	return claims, nil
}

// Verify evaluates a token at now and folds failures into the result.
func Verify(tokenString string, now time.Time, pub ed25519.PublicKey) models.VerificationResult {
	result := models.VerificationResult{Kind: models.KindJWT}

	claims, err := Parse(tokenString, pub)
	if err != nil {
		result.Detail = err.Error()
		if dErrors.HasCode(err, dErrors.CodeFormat) {
			result.Reason = models.ReasonFormat
			return result
		}
		result.Reason = models.ReasonSignature
		// expiry is still reported for tokens that fail the signature check
		unverified := new(Claims)
		if _, _, perr := jwt.NewParser().ParseUnverified(strings.TrimSpace(tokenString), unverified); perr == nil && unverified.ExpiresAt != nil {
			result.Expired = shared.IsExpired(unverified.ExpiresAt.Unix(), now)
		}
		return result
	}

	expiresAt := claims.ExpiresAt.Unix()
	result.Valid = true
	result.Expired = shared.IsExpired(expiresAt, now)
	result.Credential = &models.CredentialSummary{
		Issuer:      claims.Issuer,
		SubjectName: claims.Subject,
		IssuedAt:    claims.IssuedAt.Unix(),
		ExpiresAt:   expiresAt,
		AgeClaim:    claims.AgeOver18,
	}
	return result
}
