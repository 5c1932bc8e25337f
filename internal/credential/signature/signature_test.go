package signature

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agepass/internal/credential/builder"
	"agepass/internal/credential/keys"
	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

type SignatureSuite struct {
	suite.Suite
	keys   *keys.Provider
	engine *Engine
	pub    ed25519.PublicKey
	signed models.SignedCredential
}

func TestSignatureSuite(t *testing.T) {
	suite.Run(t, new(SignatureSuite))
}

func (s *SignatureSuite) SetupTest() {
	s.keys = keys.NewDemo()
	s.engine = NewEngine(s.keys)

	pub, err := s.keys.PublicKey()
	s.Require().NoError(err)
	s.pub = pub

	vc, err := builder.New().Build("Alice",
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	s.signed, err = s.engine.Sign(vc)
	s.Require().NoError(err)
}

func (s *SignatureSuite) TestSignThenVerify() {
	s.Len(s.signed.Signature, SignatureHexLength)
	s.True(Verify(s.signed.Payload, s.signed.Signature, s.pub))
}

func (s *SignatureSuite) TestSigningIsDeterministic() {
	again, err := s.engine.Sign(s.signed.Payload)
	s.Require().NoError(err)
	s.Equal(s.signed.Signature, again.Signature)
}

func (s *SignatureSuite) TestEverySignatureBitFlipFails() {
	raw, err := hex.DecodeString(s.signed.Signature)
	s.Require().NoError(err)

	for i := 0; i < len(raw)*8; i++ {
		mutated := append([]byte(nil), raw...)
		mutated[i/8] ^= 1 << (i % 8)
		if Verify(s.signed.Payload, hex.EncodeToString(mutated), s.pub) {
			s.Failf("bit flip accepted", "bit %d", i)
		}
	}
}

func (s *SignatureSuite) TestEveryPayloadBitFlipFails() {
	payload, err := s.signed.Payload.Canonical()
	s.Require().NoError(err)
	sig, err := hex.DecodeString(s.signed.Signature)
	s.Require().NoError(err)

	for i := 0; i < len(payload)*8; i++ {
		mutated := append([]byte(nil), payload...)
		mutated[i/8] ^= 1 << (i % 8)
		if ed25519.Verify(s.pub, mutated, sig) {
			s.Failf("payload bit flip accepted", "bit %d", i)
		}
	}
}

func (s *SignatureSuite) TestFieldTamperingFails() {
	cases := map[string]func(vc *models.VerifiableCredential){
		"subject name": func(vc *models.VerifiableCredential) { vc.SubjectName = "Mallory" },
		"age claim":    func(vc *models.VerifiableCredential) { vc.AgeClaim = false },
		"expiry":       func(vc *models.VerifiableCredential) { vc.ExpiresAt += 86400 },
		"issuer":       func(vc *models.VerifiableCredential) { vc.Issuer = "someone-else" },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			vc := s.signed.Payload
			mutate(&vc)
			err := Check(vc, s.signed.Signature, s.pub)
			s.True(dErrors.HasCode(err, dErrors.CodeSignature))
		})
	}
}

func (s *SignatureSuite) TestFlippedHexCharacterFails() {
	sig := []byte(s.signed.Signature)
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	s.False(Verify(s.signed.Payload, string(sig), s.pub))
}

func (s *SignatureSuite) TestUppercaseHexFails() {
	s.Require().NotEqual(s.signed.Signature, strings.ToUpper(s.signed.Signature))
	s.False(Verify(s.signed.Payload, strings.ToUpper(s.signed.Signature), s.pub))
}

func (s *SignatureSuite) TestCheckWire() {
	canonical, err := s.signed.Payload.Canonical()
	s.Require().NoError(err)
	s.NoError(CheckWire(canonical, s.signed.Payload, s.signed.Signature, s.pub))

	respaced := bytes.Replace(canonical, []byte(`,"issuedAt"`), []byte(`, "issuedAt"`), 1)
	err = CheckWire(respaced, s.signed.Payload, s.signed.Signature, s.pub)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSignature))
}

func (s *SignatureSuite) TestMalformedInputNeverPanics() {
	cases := map[string]struct {
		sig string
		pub ed25519.PublicKey
	}{
		"empty signature":   {"", s.pub},
		"short signature":   {"abcd", s.pub},
		"non-hex signature": {string(make([]byte, SignatureHexLength)), s.pub},
		"nil public key":    {s.signed.Signature, nil},
		"short public key":  {s.signed.Signature, s.pub[:5]},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			s.NotPanics(func() {
				s.False(Verify(s.signed.Payload, tc.sig, tc.pub))
			})
		})
	}
}

func (s *SignatureSuite) TestWrongKeyFails() {
	other, err := keys.NewRandom(nil).PublicKey()
	s.Require().NoError(err)
	s.False(Verify(s.signed.Payload, s.signed.Signature, other))
}

func (s *SignatureSuite) TestSerializationRoundTripIsByteStable() {
	original, err := s.signed.Payload.Canonical()
	s.Require().NoError(err)

	wire, err := json.Marshal(s.signed)
	s.Require().NoError(err)

	var decoded models.SignedCredential
	s.Require().NoError(json.Unmarshal(wire, &decoded))

	again, err := decoded.Payload.Canonical()
	s.Require().NoError(err)
	s.Equal(string(original), string(again))
	s.True(Verify(decoded.Payload, decoded.Signature, s.pub))
}

func (s *SignatureSuite) TestCanonicalFieldOrder() {
	payload, err := s.signed.Payload.Canonical()
	s.Require().NoError(err)
	s.Equal(`{"issuer":"agepass-demo-issuer","issuedAt":1704067200,"expiresAt":1735603200,"subjectName":"Alice","ageClaim":true}`, string(payload))
}

func (s *SignatureSuite) TestEngineWithoutKeys() {
	_, err := NewEngine(nil).Sign(s.signed.Payload)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
