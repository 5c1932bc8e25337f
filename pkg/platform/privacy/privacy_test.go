package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRef(t *testing.T) {
	ref := SubjectRef("Alice")

	assert.Len(t, ref, 12)
	assert.Equal(t, ref, SubjectRef("  alice "), "case and whitespace are normalized")
	assert.NotEqual(t, ref, SubjectRef("Bob"))
	assert.NotContains(t, ref, "alice")
	assert.Equal(t, "none", SubjectRef("   "))
}

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 standard address", "192.168.1.47", "192.168.1.0"},
		{"ipv4 localhost", "127.0.0.1", "127.0.0.0"},
		{"ipv4 mapped ipv6", "::ffff:10.1.2.3", "10.1.2.0"},
		{"ipv6 full address", "2001:db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3::"},
		{"ipv6 compressed address", "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3::"},
		{"ipv6 loopback", "::1", "0000:0000:0000::"},
		{"empty", "", "unknown"},
		{"unknown marker", "unknown", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.0", ClientIP("203.0.113.9:51234"))
	assert.Equal(t, "2001:0db8:0000::", ClientIP("[2001:db8::1]:443"))
	assert.Equal(t, "203.0.113.0", ClientIP("203.0.113.9"))
}
