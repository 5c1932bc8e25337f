// Package privacy keeps personal data out of logs and metrics.
//
// Subject names are replaced by a short pseudonymous reference so log lines
// for one subject can be correlated without storing the name. Birth dates are
// never passed to this package; callers must not log them at all.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

const subjectRefLength = 12

// SubjectRef returns a stable pseudonym for a subject name. Case and
// surrounding whitespace do not change the reference.
func SubjectRef(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "none"
	}
	sum := sha256.Sum256([]byte("agepass/subject/" + name))
	return hex.EncodeToString(sum[:])[:subjectRefLength]
}

// AnonymizeIP truncates an IP address to its /24 (IPv4) or /48 (IPv6) prefix.
// Returns "invalid" for unparseable addresses and "unknown" for empty input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// ClientIP extracts the host part of a RemoteAddr and anonymizes it.
func ClientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return AnonymizeIP(host)
}
