// Package proof derives and checks commitment-based age proofs.
//
// A proof states "the committed birth year is at least minAge years before
// referenceYear" without revealing the birth year. The commitment is
// SHA-256(birthYear ":" hex(salt)) with a 32-byte random salt, which hides the
// birth year and binds the holder to it.
//
// Limitation: HashCommitment is not a zero-knowledge argument. Its integrity
// value is an unkeyed digest over the commitment and public signals, so it
// detects tampering and internal inconsistency, but anyone who controls the
// payload can recompute a matching digest for altered signals. It offers no
// soundness against a forger. Credential metadata (issuer, subject, dates)
// is outside the digest and is informational only. Backend exists so a circuit-based prover can
// replace it without touching the validator.
package proof

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strconv"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

const (
	// Protocol identifies the integrity construction in Proof.Protocol.
	Protocol = "hash-commitment-v1"

	// SaltSize is the number of random bytes mixed into each commitment.
	SaltSize = 32

	integrityTag = "agepass/proof-integrity/v1"
)

// Artifact is everything a successful generation produces.
type Artifact struct {
	Commitment    models.Commitment
	Proof         models.Proof
	PublicSignals models.PublicSignals
}

// Backend is the narrow capability the validator depends on.
type Backend interface {
	Generate(birthYear, referenceYear, minAge int) (*Artifact, error)
	Verify(cred models.ZKCredential) error
}

// Option configures HashCommitment.
type Option func(*HashCommitment)

// WithRandom replaces the salt source. Intended for tests.
func WithRandom(r io.Reader) Option {
	return func(h *HashCommitment) {
		h.rand = r
	}
}

// HashCommitment is the simplified commitment backend.
type HashCommitment struct {
	rand io.Reader
}

// NewHashCommitment creates the default backend backed by crypto/rand.
func NewHashCommitment(opts ...Option) *HashCommitment {
	h := &HashCommitment{rand: rand.Reader}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Generate commits to birthYear and emits public signals for referenceYear.
// Subjects younger than minAge get an AgeRequirement error and no artifact.
// A minAge below the policy minimum is refused, since Verify would reject it.
func (h *HashCommitment) Generate(birthYear, referenceYear, minAge int) (*Artifact, error) {
	if minAge <= 0 {
		minAge = models.MinimumAge
	}
	if minAge < models.MinimumAge {
		return nil, dErrors.New(dErrors.CodeValidation, "minimum age is below policy")
	}
	if referenceYear-birthYear < minAge {
		return nil, dErrors.New(dErrors.CodeAgeRequirement, "subject does not meet the minimum age")
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to draw commitment salt")
	}

	commitment := Commit(birthYear, salt)
	signals := models.PublicSignals{
		models.AgeClaimSignal,
		strconv.Itoa(referenceYear),
		strconv.Itoa(minAge),
		commitment.String(),
	}

	return &Artifact{
		Commitment:    commitment,
		Proof:         models.Proof{Protocol: Protocol, Integrity: Integrity(commitment, signals)},
		PublicSignals: signals,
	}, nil
}

// Verify rechecks cred's integrity value and signal consistency.
func (h *HashCommitment) Verify(cred models.ZKCredential) error {
	signals := cred.ZKProof.PublicSignals
	if len(signals) != models.SignalCount {
		return proofError("public signals must have exactly 4 entries")
	}
	if signals[models.SignalAgeClaim] != models.AgeClaimSignal {
		return proofError("age claim signal is not set")
	}
	if _, err := strconv.Atoi(signals[models.SignalReferenceYear]); err != nil {
		return proofError("reference year is not an integer")
	}
	minAge, err := strconv.Atoi(signals[models.SignalMinimumAge])
	if err != nil {
		return proofError("minimum age is not an integer")
	}
	if minAge < models.MinimumAge {
		return proofError("minimum age is below policy")
	}
	if !wellFormed(cred.Commitment) {
		return proofError("commitment is not a SHA-256 hex digest")
	}
	if signals[models.SignalCommitment] != cred.Commitment.String() {
		return proofError("commitment does not match public signals")
	}
	if cred.ZKProof.Proof.Protocol != Protocol {
		return proofError("unsupported proof protocol")
	}

	want := Integrity(cred.Commitment, signals)
	if subtle.ConstantTimeCompare([]byte(want), []byte(cred.ZKProof.Proof.Integrity)) != 1 {
		return proofError("proof integrity mismatch")
	}
	return nil
}

// VerifyProof is Verify as a boolean.
func (h *HashCommitment) VerifyProof(cred models.ZKCredential) bool {
	return h.Verify(cred) == nil
}

// Commit hashes a birth year with a salt.
func Commit(birthYear int, salt []byte) models.Commitment {
	sum := sha256.Sum256([]byte(strconv.Itoa(birthYear) + ":" + hex.EncodeToString(salt)))
	return models.Commitment(hex.EncodeToString(sum[:]))
}

// Integrity derives the proof value from the commitment and signals.
// Each element is length-prefixed so signal boundaries cannot shift.
func Integrity(commitment models.Commitment, signals models.PublicSignals) string {
	h := sha256.New()
	writeField(h, integrityTag)
	writeField(h, commitment.String())
	for _, sig := range signals {
		writeField(h, sig)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(w io.Writer, v string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v)))
	_, _ = w.Write(n[:])
	_, _ = io.WriteString(w, v)
}

func wellFormed(c models.Commitment) bool {
	if len(c) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(c.String())
	return err == nil
}

func proofError(msg string) error {
	return dErrors.New(dErrors.CodeProof, msg)
}

var _ Backend = (*HashCommitment)(nil)
