package health

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKeys struct {
	pub ed25519.PublicKey
	err error
}

func (s stubKeys) PublicKey() (ed25519.PublicKey, error) {
	return s.pub, s.err
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func readiness(t *testing.T, w *httptest.ResponseRecorder) ReadinessResponse {
	t.Helper()
	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLiveness(t *testing.T) {
	w := serve(New("test", "issuer", nil), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Run("ready with a usable key", func(t *testing.T) {
		pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
		w := serve(New("test", "City Hall", stubKeys{pub: pub}), "/health/ready")

		require.Equal(t, http.StatusOK, w.Code)
		body := readiness(t, w)
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, "City Hall", body.Issuer)
		// sha256 of 32 zero bytes
		assert.Equal(t, "66687aadf862bd77", body.KeyFingerprint)
		assert.Empty(t, body.Reason)
	})

	cases := map[string]struct {
		keys   KeySource
		reason string
	}{
		"key cannot load": {stubKeys{err: errors.New("entropy exhausted")}, "entropy exhausted"},
		"short key":       {stubKeys{pub: ed25519.PublicKey{1, 2, 3}}, "issuer public key has 3 bytes"},
		"no key source":   {nil, "issuer key is not configured"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := serve(New("test", "City Hall", tc.keys), "/health/ready")

			require.Equal(t, http.StatusServiceUnavailable, w.Code)
			body := readiness(t, w)
			assert.Equal(t, "not_ready", body.Status)
			assert.Equal(t, tc.reason, body.Reason)
			assert.Empty(t, body.KeyFingerprint)
		})
	}
}

func TestStatus(t *testing.T) {
	h := New("dev", "City Hall", nil)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.started = start
	h.now = func() time.Time { return start.Add(90 * time.Second) }

	w := serve(h, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var body StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "dev", body.Environment)
	assert.Equal(t, "City Hall", body.Issuer)
	assert.Equal(t, int64(90), body.UptimeSeconds)
	assert.Equal(t, "2026-01-01T00:01:30Z", body.Timestamp)
}
