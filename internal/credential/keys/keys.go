// Package keys supplies the issuer's Ed25519 key material.
//
// A Provider is created explicitly and handed to the signing engine. Its key
// pair is materialized at most once, on the first call to Init or KeyPair,
// even when many goroutines race for it.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

const (
	// SeedSize is the length of an Ed25519 private seed.
	SeedSize = ed25519.SeedSize

	demoSecret = "agepass demo issuer"
	demoInfo   = "agepass/ed25519-seed/v1"
)

// Mode names how a provider obtains its key pair.
type Mode string

const (
	ModeDemo   Mode = "demo"
	ModeRandom Mode = "random"
	ModeSeeded Mode = "seeded"
)

// Provider lazily produces a single key pair.
type Provider struct {
	mode   Mode
	source func() ([]byte, error)

	once sync.Once
	pair models.KeyPair
	err  error
}

// NewDemo returns a provider for the fixed demo pair used in tests and local runs.
// The seed is derived with HKDF-SHA256 from a constant label.
func NewDemo() *Provider {
	return &Provider{
		mode: ModeDemo,
		source: func() ([]byte, error) {
			return readSeed(hkdf.New(sha256.New, []byte(demoSecret), nil, []byte(demoInfo)))
		},
	}
}

// NewRandom returns a provider that generates a fresh pair from r.
// A nil reader means crypto/rand.
func NewRandom(r io.Reader) *Provider {
	if r == nil {
		r = rand.Reader
	}
	return &Provider{
		mode: ModeRandom,
		source: func() ([]byte, error) {
			return readSeed(r)
		},
	}
}

// NewSeeded returns a provider for an operator-supplied 32-byte seed.
func NewSeeded(seed []byte) *Provider {
	cp := append([]byte(nil), seed...)
	return &Provider{
		mode: ModeSeeded,
		source: func() ([]byte, error) {
			if len(cp) != SeedSize {
				return nil, dErrors.New(dErrors.CodeValidation, "issuer key seed must be 32 bytes")
			}
			return cp, nil
		},
	}
}

// NewFromMode builds a provider from configuration values.
func NewFromMode(mode Mode, seedHex string) (*Provider, error) {
	switch mode {
	case ModeDemo, "":
		return NewDemo(), nil
	case ModeRandom:
		return NewRandom(nil), nil
	case ModeSeeded:
		seed, err := hex.DecodeString(strings.TrimSpace(seedHex))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "issuer key seed must be hex")
		}
		return NewSeeded(seed), nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown key mode: "+string(mode))
	}
}

// Mode reports how the provider sources its key.
func (p *Provider) Mode() Mode {
	return p.mode
}

// Init materializes the key pair. It is idempotent; a failure is sticky.
func (p *Provider) Init() error {
	p.once.Do(func() {
		seed, err := p.source()
		if err != nil {
			p.err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to obtain issuer key material")
			return
		}
		priv := ed25519.NewKeyFromSeed(seed)
		copy(p.pair.PrivateKey[:], seed)
		copy(p.pair.PublicKey[:], priv.Public().(ed25519.PublicKey))
	})
	return p.err
}

// KeyPair returns the provider's pair, creating it on first use.
func (p *Provider) KeyPair() (models.KeyPair, error) {
	if err := p.Init(); err != nil {
		return models.KeyPair{}, err
	}
	return p.pair, nil
}

// PrivateKey returns the expanded Ed25519 signing key.
func (p *Provider) PrivateKey() (ed25519.PrivateKey, error) {
	pair, err := p.KeyPair()
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(pair.PrivateKey[:]), nil
}

// PublicKey returns the verifier-facing key.
func (p *Provider) PublicKey() (ed25519.PublicKey, error) {
	pair, err := p.KeyPair()
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(append([]byte(nil), pair.PublicKey[:]...)), nil
}

// PublicKeyHex returns the public key as lowercase hex.
func (p *Provider) PublicKeyHex() (string, error) {
	pub, err := p.PublicKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pub), nil
}

// ParsePublicKey decodes a hex public key supplied to a verifier.
func ParsePublicKey(value string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "public key must be hex")
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, dErrors.New(dErrors.CodeValidation, "public key must be 32 bytes")
	}
	return ed25519.PublicKey(raw), nil
}

func readSeed(r io.Reader) ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, err
	}
	return seed, nil
}
