package proof

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

type ProofSuite struct {
	suite.Suite
	backend *HashCommitment
}

func TestProofSuite(t *testing.T) {
	suite.Run(t, new(ProofSuite))
}

func (s *ProofSuite) SetupTest() {
	s.backend = NewHashCommitment()
}

func (s *ProofSuite) credential(a *Artifact) models.ZKCredential {
	return models.ZKCredential{
		ZKProof: models.ZKProof{
			Proof:         a.Proof,
			PublicSignals: append(models.PublicSignals(nil), a.PublicSignals...),
		},
		Metadata:   models.CredentialMetadata{Issuer: models.DefaultIssuer, SubjectName: "Alice"},
		Commitment: a.Commitment,
	}
}

func (s *ProofSuite) TestGenerateAdult() {
	a, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)

	s.Equal(models.PublicSignals{"1", "2024", "18", a.Commitment.String()}, a.PublicSignals)
	s.Len(a.Commitment.String(), 64)
	s.Equal(Protocol, a.Proof.Protocol)
	s.True(s.backend.VerifyProof(s.credential(a)))
}

func (s *ProofSuite) TestGenerateRefusesMinors() {
	a, err := s.backend.Generate(2010, 2024, 18)
	s.Nil(a)
	s.True(dErrors.HasCode(err, dErrors.CodeAgeRequirement))
}

func (s *ProofSuite) TestExactThresholdIsAccepted() {
	a, err := s.backend.Generate(2006, 2024, 18)
	s.Require().NoError(err)
	s.Equal(models.AgeClaimSignal, a.PublicSignals[models.SignalAgeClaim])
}

func (s *ProofSuite) TestMinimumAgeBelowPolicyIsRefused() {
	a, err := s.backend.Generate(2000, 2024, 16)
	s.Require().Error(err)
	s.Nil(a)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ProofSuite) TestEveryGeneratedProofVerifies() {
	for _, minAge := range []int{0, 18, 21, 24} {
		a, err := s.backend.Generate(2000, 2024, minAge)
		s.Require().NoError(err, "minAge %d", minAge)
		cred := models.ZKCredential{
			ZKProof:    models.ZKProof{Proof: a.Proof, PublicSignals: a.PublicSignals},
			Commitment: a.Commitment,
		}
		s.NoError(s.backend.Verify(cred), "minAge %d", minAge)
	}
}

func (s *ProofSuite) TestDefaultMinimumAge() {
	a, err := s.backend.Generate(2000, 2024, 0)
	s.Require().NoError(err)
	s.Equal("18", a.PublicSignals[models.SignalMinimumAge])
}

func (s *ProofSuite) TestSaltsMakeCommitmentsDiffer() {
	a, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)
	b, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)

	s.NotEqual(a.Commitment, b.Commitment)
	s.Equal(a.PublicSignals[:3], b.PublicSignals[:3])
}

func (s *ProofSuite) TestCommitmentDoesNotExposeBirthYear() {
	a, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)
	s.NotEqual(Commit(2000, nil), a.Commitment)

	for _, sig := range a.PublicSignals {
		s.NotEqual("2000", sig)
	}
}

func (s *ProofSuite) TestCommitIsBindingForFixedSalt() {
	salt := bytes.Repeat([]byte{0x42}, SaltSize)
	s.Equal(Commit(2000, salt), Commit(2000, salt))
	s.NotEqual(Commit(2000, salt), Commit(2001, salt))
}

func (s *ProofSuite) TestSaltFailure() {
	backend := NewHashCommitment(WithRandom(errReader{}))
	a, err := backend.Generate(2000, 2024, 18)
	s.Nil(a)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ProofSuite) TestTamperingIsDetected() {
	a, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)

	cases := map[string]func(c *models.ZKCredential){
		"minimum age raised to 21":  func(c *models.ZKCredential) { c.ZKProof.PublicSignals[2] = "21" },
		"minimum age lowered to 16": func(c *models.ZKCredential) { c.ZKProof.PublicSignals[2] = "16" },
		"reference year moved":      func(c *models.ZKCredential) { c.ZKProof.PublicSignals[1] = "2030" },
		"age flag cleared":          func(c *models.ZKCredential) { c.ZKProof.PublicSignals[0] = "0" },
		"signal dropped":            func(c *models.ZKCredential) { c.ZKProof.PublicSignals = c.ZKProof.PublicSignals[:3] },
		"non-numeric year":          func(c *models.ZKCredential) { c.ZKProof.PublicSignals[1] = "twenty" },
		"commitment swapped":        func(c *models.ZKCredential) { c.Commitment = models.Commitment(strings.Repeat("0", 64)) },
		"commitment malformed":      func(c *models.ZKCredential) { c.Commitment = "xyz" },
		"integrity altered":         func(c *models.ZKCredential) { c.ZKProof.Proof.Integrity = strings.Repeat("f", 64) },
		"protocol altered":          func(c *models.ZKCredential) { c.ZKProof.Proof.Protocol = "groth16" },
		"signals reordered":         func(c *models.ZKCredential) { sig := c.ZKProof.PublicSignals; sig[1], sig[2] = sig[2], sig[1] },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			cred := s.credential(a)
			mutate(&cred)
			err := s.backend.Verify(cred)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeProof))
			s.False(s.backend.VerifyProof(cred))
		})
	}
}

func (s *ProofSuite) TestForgedIntegrityIsAccepted() {
	// Documents the limitation: recomputing the unkeyed digest passes.
	a, err := s.backend.Generate(2000, 2024, 18)
	s.Require().NoError(err)

	cred := s.credential(a)
	cred.ZKProof.PublicSignals[1] = "2030"
	cred.ZKProof.Proof.Integrity = Integrity(cred.Commitment, cred.ZKProof.PublicSignals)
	s.NoError(s.backend.Verify(cred))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy")
}
