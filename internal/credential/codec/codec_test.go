package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

type CodecSuite struct {
	suite.Suite
	signed models.SignedCredential
	zk     models.ZKCredential
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) SetupTest() {
	s.signed = models.SignedCredential{
		Payload: models.VerifiableCredential{
			Issuer:      models.DefaultIssuer,
			IssuedAt:    1704067200,
			ExpiresAt:   1735603200,
			SubjectName: "Alice",
			AgeClaim:    true,
		},
		Signature: strings.Repeat("ab", 64),
	}
	commitment := strings.Repeat("c", 64)
	s.zk = models.ZKCredential{
		ZKProof: models.ZKProof{
			Proof:         models.Proof{Protocol: "hash-commitment-v1", Integrity: strings.Repeat("d", 64)},
			PublicSignals: models.PublicSignals{"1", "2024", "18", commitment},
		},
		Metadata: models.CredentialMetadata{
			Issuer:      models.DefaultIssuer,
			SubjectName: "Alice",
			IssuedAt:    1704067200,
			ExpiresAt:   1735603200,
		},
		Commitment: models.Commitment(commitment),
	}
}

func (s *CodecSuite) requireFormatError(input string) *Decoded {
	decoded, err := Decode(input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeFormat), "got %v", err)
	s.Require().NotNil(decoded)
	return decoded
}

func (s *CodecSuite) TestEnvelopeRoundTrip() {
	encoded, err := Encode(s.signed)
	s.Require().NoError(err)
	s.NotContains(encoded, "{")

	decoded, err := Decode(encoded)
	s.Require().NoError(err)
	s.Equal(models.StageEnvelope, decoded.Stage)
	s.Equal(models.KindSigned, decoded.Kind)
	s.Equal(s.signed, *decoded.Signed)
}

func (s *CodecSuite) TestRawFallback() {
	raw, err := EncodeRaw(s.zk)
	s.Require().NoError(err)

	decoded, err := Decode(raw)
	s.Require().NoError(err)
	s.Equal(models.StageRaw, decoded.Stage)
	s.Equal(models.KindZK, decoded.Kind)
	s.Equal(s.zk, *decoded.ZK)
}

func (s *CodecSuite) TestEnvelopeAcceptsPadding() {
	encoded, err := Encode(s.zk)
	s.Require().NoError(err)

	decoded, err := Decode(encoded + "==")
	s.Require().NoError(err)
	s.Equal(models.StageEnvelope, decoded.Stage)
}

func (s *CodecSuite) TestRawPreservesCanonicalBytes() {
	raw, err := EncodeRaw(s.signed)
	s.Require().NoError(err)

	decoded, err := Decode(raw)
	s.Require().NoError(err)

	want, _ := s.signed.Payload.Canonical()
	got, _ := decoded.Signed.Payload.Canonical()
	s.Equal(string(want), string(got))
}

func (s *CodecSuite) TestSignedPayloadKeptVerbatim() {
	raw := `{"payload":{"Issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A","ageClaim":true},"signature":"00"}`

	decoded, err := Decode(raw)
	s.Require().NoError(err)

	s.Equal(`{"Issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A","ageClaim":true}`, string(decoded.SignedPayload))
	s.Equal("x", decoded.Signed.Payload.Issuer)
}

func (s *CodecSuite) TestNonJSONIsFormatError() {
	for _, input := range []string{"", "   ", "hello world", "<xml/>", "[1,2,3]", `"string"`, "{", "null"} {
		s.Run(input, func() {
			d := s.requireFormatError(input)
			s.Equal(models.KindUnknown, d.Kind)
		})
	}
}

func (s *CodecSuite) TestBase64GarbageFallsBackToRaw() {
	d := s.requireFormatError("aGVsbG8")
	s.Equal(models.StageRaw, d.Stage)
}

func (s *CodecSuite) TestEnvelopeWithNonJSONReportsEnvelopeStage() {
	encoded, err := Encode("just a string")
	s.Require().NoError(err)

	d := s.requireFormatError(encoded)
	s.Equal(models.StageEnvelope, d.Stage)
}

func (s *CodecSuite) TestMissingFields() {
	cases := map[string]string{
		"missing signature value": `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A","ageClaim":true},"signature":null}`,
		"missing subject":         `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2,"ageClaim":true},"signature":"00"}`,
		"missing age claim":       `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A"},"signature":"00"}`,
		"payload null":            `{"payload":null,"signature":"00"}`,
		"zk missing metadata":     `{"zkProof":{"proof":{"protocol":"p","integrity":"i"},"publicSignals":["1"]},"commitment":"c"}`,
		"zk missing signals":      `{"zkProof":{"proof":{"protocol":"p","integrity":"i"}},"metadata":{"issuer":"x","subjectName":"A","issuedAt":1,"expiresAt":2},"commitment":"c"}`,
		"zk missing proof":        `{"zkProof":{"publicSignals":["1"]},"metadata":{"issuer":"x","subjectName":"A","issuedAt":1,"expiresAt":2},"commitment":"c"}`,
	}
	for name, input := range cases {
		s.Run(name, func() {
			s.requireFormatError(input)
		})
	}
}

func (s *CodecSuite) TestWrongTypes() {
	cases := map[string]string{
		"string timestamp":  `{"payload":{"issuer":"x","issuedAt":"now","expiresAt":2,"subjectName":"A","ageClaim":true},"signature":"00"}`,
		"fractional expiry": `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2.5,"subjectName":"A","ageClaim":true},"signature":"00"}`,
		"string age claim":  `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A","ageClaim":"yes"},"signature":"00"}`,
		"numeric signature": `{"payload":{"issuer":"x","issuedAt":1,"expiresAt":2,"subjectName":"A","ageClaim":true},"signature":42}`,
		"numeric signals":   `{"zkProof":{"proof":{"protocol":"p","integrity":"i"},"publicSignals":[1,2024,18,"c"]},"metadata":{"issuer":"x","subjectName":"A","issuedAt":1,"expiresAt":2},"commitment":"c"}`,
		"object commitment": `{"zkProof":{"proof":{"protocol":"p","integrity":"i"},"publicSignals":["1"]},"metadata":{"issuer":"x","subjectName":"A","issuedAt":1,"expiresAt":2},"commitment":{}}`,
	}
	for name, input := range cases {
		s.Run(name, func() {
			s.requireFormatError(input)
		})
	}
}

func (s *CodecSuite) TestAmbiguousKind() {
	s.requireFormatError(`{"issuer":"x"}`)
	s.requireFormatError(`{"payload":{},"signature":"00","zkProof":{},"commitment":"c"}`)
}

func (s *CodecSuite) TestOversizedPayload() {
	s.requireFormatError(strings.Repeat("a", 9000))
}
