// Package validator turns a scanned string into a verification verdict.
//
// Checks always run in this order, and the order is observable:
//  1. structure: decode and field checks; failure short-circuits with format_error
//  2. cryptography: signature (signed) or proof (zk); sets Valid
//  3. time: expiry; runs whatever step 2 decided and sets Expired
package validator

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"agepass/internal/credential/codec"
	"agepass/internal/credential/domain/shared"
	"agepass/internal/credential/models"
	"agepass/internal/credential/proof"
	"agepass/internal/credential/signature"
)

// Validator verifies credentials of both kinds.
type Validator struct {
	proofs proof.Backend
}

// New creates a validator that checks zk credentials with backend.
// A nil backend uses the hash-commitment backend.
func New(backend proof.Backend) *Validator {
	if backend == nil {
		backend = proof.NewHashCommitment()
	}
	return &Validator{proofs: backend}
}

// Verify decodes input and evaluates it at now against pub.
// It never panics and never returns an error: every failure is a Reason.
func (v *Validator) Verify(input string, now time.Time, pub ed25519.PublicKey) (result models.VerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.VerificationResult{
				Reason: models.ReasonFormat,
				Detail: fmt.Sprintf("payload could not be evaluated: %v", r),
			}
		}
	}()

	decoded, err := codec.Decode(input)
	if decoded != nil {
		result.DecodeStage = decoded.Stage
	}
	if err != nil {
		result.Reason = models.ReasonFormat
		result.Detail = err.Error()
		return result
	}
	result.Kind = decoded.Kind

	switch decoded.Kind {
	case models.KindSigned:
		v.checkSigned(&result, *decoded.Signed, decoded.SignedPayload, now, pub)
	case models.KindZK:
		v.checkZK(&result, *decoded.ZK, now)
	}
	return result
}

// VerifySigned evaluates an already-decoded signed credential.
func (v *Validator) VerifySigned(cred models.SignedCredential, now time.Time, pub ed25519.PublicKey) models.VerificationResult {
	result := models.VerificationResult{Kind: models.KindSigned}
	v.checkSigned(&result, cred, nil, now, pub)
	return result
}

// VerifyZK evaluates an already-decoded zk credential.
func (v *Validator) VerifyZK(cred models.ZKCredential, now time.Time) models.VerificationResult {
	result := models.VerificationResult{Kind: models.KindZK}
	v.checkZK(&result, cred, now)
	return result
}

// checkSigned verifies against raw when the payload came off the wire.
func (v *Validator) checkSigned(result *models.VerificationResult, cred models.SignedCredential, raw []byte, now time.Time, pub ed25519.PublicKey) {
	result.Credential = &models.CredentialSummary{
		Issuer:      cred.Payload.Issuer,
		SubjectName: cred.Payload.SubjectName,
		IssuedAt:    cred.Payload.IssuedAt,
		ExpiresAt:   cred.Payload.ExpiresAt,
		AgeClaim:    cred.Payload.AgeClaim,
	}

	var err error
	if raw != nil {
		err = signature.CheckWire(raw, cred.Payload, cred.Signature, pub)
	} else {
		err = signature.Check(cred.Payload, cred.Signature, pub)
	}
	if err != nil {
		fail(result, models.ReasonSignature, err)
	} else {
		result.Valid = true
	}

	result.Expired = shared.IsExpired(cred.Payload.ExpiresAt, now)
}

func (v *Validator) checkZK(result *models.VerificationResult, cred models.ZKCredential, now time.Time) {
	result.Credential = &models.CredentialSummary{
		Issuer:      cred.Metadata.Issuer,
		SubjectName: cred.Metadata.SubjectName,
		IssuedAt:    cred.Metadata.IssuedAt,
		ExpiresAt:   cred.Metadata.ExpiresAt,
	}

	if err := v.proofs.Verify(cred); err != nil {
		fail(result, models.ReasonProof, err)
	} else {
		result.Valid = true
		result.Credential.AgeClaim = true
	}

	result.Expired = shared.IsExpired(cred.Metadata.ExpiresAt, now)
}

func fail(result *models.VerificationResult, reason models.Reason, err error) {
	result.Valid = false
	result.Reason = reason
	result.Detail = err.Error()
}
