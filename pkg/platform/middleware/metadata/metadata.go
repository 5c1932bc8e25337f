package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"agepass/pkg/platform/privacy"
	"agepass/pkg/requestcontext"
)

// MaxXFFHeaderLength is the maximum allowed length for X-Forwarded-For header
// to prevent header injection attacks.
const MaxXFFHeaderLength = 500

// Scanner classes derived from the User-Agent.
const (
	ScannerMobile  = "mobile"
	ScannerDesktop = "desktop"
	ScannerCLI     = "cli"
	ScannerBot     = "bot"
	ScannerUnknown = "unknown"
)

var cliPrefixes = []string{"curl/", "wget/", "httpie/", "go-http-client/", "agepass/", "python-requests/"}

// Config holds configuration for the metadata middleware.
type Config struct {
	// TrustedProxies is a list of IP prefixes (CIDR notation) that are trusted
	// to set X-Forwarded-For headers. If empty, XFF is never trusted.
	TrustedProxies []netip.Prefix
}

// DefaultConfig returns a Config with no trusted proxies (secure by default).
func DefaultConfig() *Config {
	return &Config{
		TrustedProxies: nil,
	}
}

// ParseTrustedProxies parses a comma-separated CIDR list. Invalid entries are
// returned so the caller can report them.
func ParseTrustedProxies(list string) (prefixes []netip.Prefix, invalid []string) {
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, invalid
}

// Middleware handles client metadata extraction with configurable trusted proxies.
type Middleware struct {
	config *Config
}

// NewMiddleware creates a new metadata middleware with the given config.
func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Middleware{config: cfg}
}

// Handler stores the anonymized client IP, the User-Agent and its scanner
// class in the request context. The raw IP never leaves this function.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := privacy.AnonymizeIP(m.extractClientIP(r))
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, userAgent, ScannerClass(userAgent))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ScannerClass maps a User-Agent to a low-cardinality device class suitable
// for logs and metric labels.
func ScannerClass(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return ScannerUnknown
	}
	lower := strings.ToLower(userAgent)
	for _, prefix := range cliPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return ScannerCLI
		}
	}

	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ScannerBot
	case ua.Mobile():
		return ScannerMobile
	}
	if name, _ := ua.Browser(); name == "" {
		return ScannerUnknown
	}
	return ScannerDesktop
}

func (m *Middleware) extractClientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		if xri := r.Header.Get("X-Real-IP"); xri != "" && m.isTrustedProxy(remoteIP) {
			if len(xri) <= MaxXFFHeaderLength {
				return strings.TrimSpace(xri)
			}
		}
		return remoteIP
	}

	// XFF header present - only trust if request came from trusted proxy
	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}
	if len(xff) > MaxXFFHeaderLength {
		return remoteIP
	}

	// First IP in the chain is the original client.
	var clientIP string
	if before, _, ok := strings.Cut(xff, ","); ok {
		clientIP = strings.TrimSpace(before)
	} else {
		clientIP = strings.TrimSpace(xff)
	}

	if _, err := netip.ParseAddr(clientIP); err != nil {
		return remoteIP
	}
	return clientIP
}

func (m *Middleware) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseRemoteAddr extracts the IP from RemoteAddr (strips port).
func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}

	// Handle IPv6 with brackets: [::1]:port
	if strings.HasPrefix(remoteAddr, "[") {
		if idx := strings.LastIndex(remoteAddr, "]:"); idx != -1 {
			return remoteAddr[1:idx]
		}
		return strings.Trim(strings.Split(remoteAddr, "]:")[0], "[]")
	}

	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}
