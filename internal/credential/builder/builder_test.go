package builder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

// BuilderSuite tests payload construction and age arithmetic.
//
// The 365.25-day divisor intentionally differs from calendar arithmetic
// around some birthdays; the cases below pin that behaviour.
type BuilderSuite struct {
	suite.Suite
	builder *Builder
	now     time.Time
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.builder = New()
	s.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *BuilderSuite) TestAge() {
	cases := []struct {
		name  string
		birth time.Time
		now   time.Time
		want  int
	}{
		{"adult born 2000", date(2000, 1, 1), date(2024, 1, 1), 24},
		{"minor born 2010 is 13 by the 365.25-day rule", date(2010, 1, 1), date(2024, 1, 1), 13},
		{"18th birthday with five leap days", date(2000, 1, 15), date(2018, 1, 15), 18},
		{"day before 18th birthday", date(2000, 1, 15), date(2018, 1, 14), 17},
		{"18th birthday with four leap days is still 17", date(2001, 1, 1), date(2019, 1, 1), 17},
		{"one day later reaches 18", date(2001, 1, 1), date(2019, 1, 2), 18},
		{"born now", date(2024, 1, 1), date(2024, 1, 1), 0},
		{"birth after now clamps to 0", date(2025, 1, 1), date(2024, 1, 1), 0},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, Age(tc.birth, tc.now))
		})
	}
}

func (s *BuilderSuite) TestBuildAdult() {
	vc, err := s.builder.Build("Alice", date(2000, 1, 1), s.now)
	s.Require().NoError(err)

	s.Equal(models.DefaultIssuer, vc.Issuer)
	s.Equal("Alice", vc.SubjectName)
	s.True(vc.AgeClaim)
	s.Equal(s.now.Unix(), vc.IssuedAt)
	s.Equal(s.now.Unix()+365*86400, vc.ExpiresAt)
	s.Greater(vc.ExpiresAt, vc.IssuedAt)
}

func (s *BuilderSuite) TestBuildMinorReportsFalseClaim() {
	vc, err := s.builder.Build("Bob", date(2010, 1, 1), s.now)
	s.Require().NoError(err)
	s.False(vc.AgeClaim)
	s.False(IsOfAge(date(2010, 1, 1), s.now))
}

func (s *BuilderSuite) TestBuildValidation() {
	cases := []struct {
		name  string
		input string
		birth time.Time
	}{
		{"empty name", "", date(2000, 1, 1)},
		{"whitespace name", "   \t", date(2000, 1, 1)},
		{"zero birth date", "Alice", time.Time{}},
		{"future birth date", "Alice", date(2030, 1, 1)},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.builder.Build(tc.input, tc.birth, s.now)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func (s *BuilderSuite) TestBuildTrimsNameAndUsesIssuer() {
	b := New(WithIssuer("  City Hall  "))
	vc, err := b.Build("  Alice  ", date(2000, 1, 1), s.now)
	s.Require().NoError(err)
	s.Equal("Alice", vc.SubjectName)
	s.Equal("City Hall", vc.Issuer)
	s.Equal("City Hall", b.Issuer())
}

func (s *BuilderSuite) TestIssuedAtTruncatesToSeconds() {
	now := s.now.Add(750 * time.Millisecond)
	vc, err := s.builder.Build("Alice", date(2000, 1, 1), now)
	s.Require().NoError(err)
	s.Equal(s.now.Unix(), vc.IssuedAt)
}
