// Package signature signs and verifies credential payloads with Ed25519.
//
// The signed message is VerifiableCredential.Canonical(): one fixed JSON
// serialization. Verifiers re-derive it from the decoded payload, so any
// change in field order or formatting makes verification fail.
package signature

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

// SignatureHexLength is the encoded length of a 64-byte signature.
const SignatureHexLength = ed25519.SignatureSize * 2

// KeySource supplies the issuer's signing key.
type KeySource interface {
	PrivateKey() (ed25519.PrivateKey, error)
}

// Engine signs credentials with a provider-held key.
type Engine struct {
	keys KeySource
}

// NewEngine creates a signing engine.
func NewEngine(keys KeySource) *Engine {
	return &Engine{keys: keys}
}

// Sign produces a SignedCredential for vc.
func (e *Engine) Sign(vc models.VerifiableCredential) (models.SignedCredential, error) {
	if e.keys == nil {
		return models.SignedCredential{}, dErrors.New(dErrors.CodeInternal, "signing key unavailable")
	}
	priv, err := e.keys.PrivateKey()
	if err != nil {
		return models.SignedCredential{}, err
	}
	payload, err := vc.Canonical()
	if err != nil {
		return models.SignedCredential{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize payload")
	}
	return models.SignedCredential{
		Payload:   vc,
		Signature: hex.EncodeToString(Sign(payload, priv)),
	}, nil
}

// Sign returns the Ed25519 signature of payload. Signing is deterministic.
func Sign(payload []byte, priv ed25519.PrivateKey) []byte {
	return ed25519.Sign(priv, payload)
}

// Verify re-serializes vc and checks sigHex against pub.
// Any malformed input yields false; it never panics.
func Verify(vc models.VerifiableCredential, sigHex string, pub ed25519.PublicKey) bool {
	return Check(vc, sigHex, pub) == nil
}

// Check is Verify with a reason attached.
func Check(vc models.VerifiableCredential, sigHex string, pub ed25519.PublicKey) error {
	if len(pub) != ed25519.PublicKeySize {
		return dErrors.New(dErrors.CodeSignature, "verifier public key is missing or malformed")
	}
	if len(sigHex) != SignatureHexLength {
		return dErrors.New(dErrors.CodeSignature, "signature must be 128 hex characters")
	}
	if !isLowerHex(sigHex) {
		return dErrors.New(dErrors.CodeSignature, "signature is not lowercase hex")
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeSignature, "signature is not hex")
	}
	payload, err := vc.Canonical()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeSignature, "payload cannot be serialized")
	}
	if !ed25519.Verify(pub, payload, sig) {
		return dErrors.New(dErrors.CodeSignature, "signature does not match payload")
	}
	return nil
}

// CheckWire is Check for a payload read off the wire. raw must be the
// canonical serialization of vc byte for byte; anything else was not signed.
func CheckWire(raw []byte, vc models.VerifiableCredential, sigHex string, pub ed25519.PublicKey) error {
	canonical, err := vc.Canonical()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeSignature, "payload cannot be serialized")
	}
	if !bytes.Equal(raw, canonical) {
		return dErrors.New(dErrors.CodeSignature, "payload is not in its signed serialization")
	}
	return Check(vc, sigHex, pub)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
