package models

import (
	"encoding/json"
	"time"
)

const (
	// MinimumAge is the age threshold asserted by every credential.
	MinimumAge = 18

	// ValidityPeriod is the fixed lifetime of an issued credential. It is a
	// plain 365-day offset, not a calendar year.
	ValidityPeriod = 365 * 24 * time.Hour

	// DefaultIssuer names the demo authority when none is configured.
	DefaultIssuer = "agepass-demo-issuer"

	// AgeClaimSignal is the only value publicSignals[0] may hold.
	AgeClaimSignal = "1"
)

// Kind distinguishes the two credential variants that travel through a QR code.
type Kind string

const (
	KindUnknown Kind = ""
	KindSigned  Kind = "signed"
	KindZK      Kind = "zk"
	KindJWT     Kind = "jwt"
)

// Stage records which decode stage produced the JSON document.
type Stage string

const (
	StageNone     Stage = ""
	StageEnvelope Stage = "envelope"
	StageRaw      Stage = "raw"
)

// Reason explains why a credential failed verification.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonFormat    Reason = "format_error"
	ReasonSignature Reason = "signature_error"
	ReasonProof     Reason = "proof_error"
)

// VerifiableCredential is the claim payload. Field order is part of the
// signing contract: Canonical must produce the same bytes on both sides.
type VerifiableCredential struct {
	Issuer      string `json:"issuer"`
	IssuedAt    int64  `json:"issuedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
	SubjectName string `json:"subjectName"`
	AgeClaim    bool   `json:"ageClaim"`
}

// Canonical returns the exact byte string that is signed and later re-derived
// for verification.
func (vc VerifiableCredential) Canonical() ([]byte, error) {
	return json.Marshal(vc)
}

// Metadata projects the credential onto the record carried next to a proof.
func (vc VerifiableCredential) Metadata() CredentialMetadata {
	return CredentialMetadata{
		Issuer:      vc.Issuer,
		SubjectName: vc.SubjectName,
		IssuedAt:    vc.IssuedAt,
		ExpiresAt:   vc.ExpiresAt,
	}
}

// SignedCredential pairs a payload with its hex-encoded Ed25519 signature.
type SignedCredential struct {
	Payload   VerifiableCredential `json:"payload"`
	Signature string               `json:"signature"`
}

// Commitment is the hex SHA-256 binding a private birth year and a salt.
type Commitment string

// String returns the commitment as a string.
func (c Commitment) String() string {
	return string(c)
}

// PublicSignals is ordered: [ageClaimFlag, referenceYear, minimumAge, commitment].
type PublicSignals []string

const (
	SignalAgeClaim = iota
	SignalReferenceYear
	SignalMinimumAge
	SignalCommitment
	SignalCount
)

// Proof is the opaque integrity structure accompanying a commitment.
type Proof struct {
	Protocol  string `json:"protocol"`
	Integrity string `json:"integrity"`
}

// ZKProof bundles the integrity structure with its public signals.
type ZKProof struct {
	Proof         Proof         `json:"proof"`
	PublicSignals PublicSignals `json:"publicSignals"`
}

// CredentialMetadata is the non-secret record shipped alongside a proof.
type CredentialMetadata struct {
	Issuer      string `json:"issuer"`
	SubjectName string `json:"subjectName"`
	IssuedAt    int64  `json:"issuedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// ZKCredential is the privacy-preserving variant: no birth date, no signature.
type ZKCredential struct {
	ZKProof    ZKProof            `json:"zkProof"`
	Metadata   CredentialMetadata `json:"metadata"`
	Commitment Commitment         `json:"commitment"`
}

// KeyPair holds an Ed25519 seed and the matching public key.
type KeyPair struct {
	PrivateKey [32]byte
	PublicKey  [32]byte
}

// CredentialSummary is what a display layer may show after verification.
type CredentialSummary struct {
	Issuer      string `json:"issuer"`
	SubjectName string `json:"subject_name"`
	IssuedAt    int64  `json:"issued_at"`
	ExpiresAt   int64  `json:"expires_at"`
	AgeClaim    bool   `json:"age_claim"`
}

// VerificationResult is the verdict handed to the display layer.
// Valid and Expired are independent: a forged credential can be unexpired and
// a genuine one can be expired.
type VerificationResult struct {
	Valid       bool               `json:"valid"`
	Expired     bool               `json:"expired"`
	Reason      Reason             `json:"reason,omitempty"`
	Detail      string             `json:"detail,omitempty"`
	Kind        Kind               `json:"kind,omitempty"`
	DecodeStage Stage              `json:"decode_stage,omitempty"`
	Credential  *CredentialSummary `json:"credential,omitempty"`
}

// Accepted reports whether the holder should be let through: authentic,
// unexpired and asserting the age claim.
func (r VerificationResult) Accepted() bool {
	return r.Valid && !r.Expired && r.Credential != nil && r.Credential.AgeClaim
}

// IssueRequest captures the data required to issue a credential.
type IssueRequest struct {
	Name      string
	BirthDate time.Time
}

// IssuedSigned is a freshly signed credential and its QR transport string.
type IssuedSigned struct {
	Credential SignedCredential `json:"credential"`
	QRPayload  string           `json:"qr_payload"`
}

// IssuedZK is a freshly generated zk credential and its QR transport string.
type IssuedZK struct {
	Credential ZKCredential `json:"credential"`
	QRPayload  string       `json:"qr_payload"`
}

// IssuedJWT is a credential exported as a compact JWT.
type IssuedJWT struct {
	Token  string               `json:"token"`
	Claims VerifiableCredential `json:"claims"`
}

// PublicKeyInfo is the verifier-facing description of the issuer key.
type PublicKeyInfo struct {
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"public_key"`
	Issuer    string `json:"issuer"`
}

// Outcome collapses a result into a single label for metrics and logs.
func (r VerificationResult) Outcome() string {
	switch {
	case r.Reason != ReasonNone:
		return string(r.Reason)
	case r.Expired:
		return "expired"
	case r.Accepted():
		return "accepted"
	default:
		return "rejected"
	}
}
