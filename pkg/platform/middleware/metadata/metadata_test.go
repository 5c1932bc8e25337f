package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"agepass/pkg/requestcontext"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	botUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestMiddlewareHandler(t *testing.T) {
	tests := []struct {
		name            string
		headers         map[string]string
		remoteAddr      string
		trustedProxies  []string
		expectedIP      string
		expectedUA      string
		expectedScanner string
	}{
		{
			name: "ignores XFF when no trusted proxies",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1",
				"User-Agent":      desktopUA,
			},
			remoteAddr:      "192.168.1.1:12345",
			expectedIP:      "192.168.1.0",
			expectedUA:      desktopUA,
			expectedScanner: ScannerDesktop,
		},
		{
			name: "trusts XFF when request from trusted proxy",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.77, 10.0.0.1",
				"User-Agent":      "curl/7.64.1",
			},
			remoteAddr:      "10.0.0.1:12345",
			trustedProxies:  []string{"10.0.0.0/8"},
			expectedIP:      "203.0.113.0",
			expectedUA:      "curl/7.64.1",
			expectedScanner: ScannerCLI,
		},
		{
			name: "trusts X-Real-IP from trusted proxy",
			headers: map[string]string{
				"X-Real-IP":  "198.51.100.20",
				"User-Agent": iPhoneUA,
			},
			remoteAddr:      "10.1.2.3:443",
			trustedProxies:  []string{"10.0.0.0/8"},
			expectedIP:      "198.51.100.0",
			expectedUA:      iPhoneUA,
			expectedScanner: ScannerMobile,
		},
		{
			name: "falls back to RemoteAddr on malformed XFF",
			headers: map[string]string{
				"X-Forwarded-For": "not-an-ip",
			},
			remoteAddr:      "10.0.0.9:8080",
			trustedProxies:  []string{"10.0.0.0/8"},
			expectedIP:      "10.0.0.0",
			expectedScanner: ScannerUnknown,
		},
		{
			name:            "ipv6 remote address",
			headers:         map[string]string{},
			remoteAddr:      "[2001:db8:85a3::7334]:443",
			expectedIP:      "2001:0db8:85a3::",
			expectedScanner: ScannerUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedCtx context.Context
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedCtx = r.Context()
				w.WriteHeader(http.StatusOK)
			})

			var prefixes []netip.Prefix
			for _, cidr := range tt.trustedProxies {
				prefixes = append(prefixes, netip.MustParsePrefix(cidr))
			}
			handler := NewMiddleware(&Config{TrustedProxies: prefixes}).Handler(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expectedIP, requestcontext.ClientIP(capturedCtx), "IP address mismatch")
			assert.Equal(t, tt.expectedUA, requestcontext.UserAgent(capturedCtx), "User-Agent mismatch")
			assert.Equal(t, tt.expectedScanner, requestcontext.Scanner(capturedCtx), "scanner mismatch")
		})
	}
}

func TestScannerClass(t *testing.T) {
	assert.Equal(t, ScannerUnknown, ScannerClass(""))
	assert.Equal(t, ScannerCLI, ScannerClass("Go-http-client/1.1"))
	assert.Equal(t, ScannerCLI, ScannerClass("agepass/dev"))
	assert.Equal(t, ScannerMobile, ScannerClass(iPhoneUA))
	assert.Equal(t, ScannerDesktop, ScannerClass(desktopUA))
	assert.Equal(t, ScannerBot, ScannerClass(botUA))
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, invalid := ParseTrustedProxies(" 10.0.0.0/8, ,192.168.0.0/16,bogus ")

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.0.0/16"),
	}, prefixes)
	assert.Equal(t, []string{"bogus"}, invalid)

	none, bad := ParseTrustedProxies("")
	assert.Empty(t, none)
	assert.Empty(t, bad)
}
