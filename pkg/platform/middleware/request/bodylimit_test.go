package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	t.Run("request at exact limit passes through", func(t *testing.T) {
		const maxBytes int64 = 100

		handler := BodyLimit(maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Len(t, data, 100)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/credentials/verify", strings.NewReader(strings.Repeat("x", 100)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over limit is refused before the handler", func(t *testing.T) {
		const maxBytes int64 = 100
		called := false

		handler := BodyLimit(maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodPost, "/credentials/verify", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "request_too_large")
	})

	t.Run("undeclared length over limit fails on read", func(t *testing.T) {
		const maxBytes int64 = 100

		var readErr error
		handler := BodyLimit(maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		req := httptest.NewRequest(http.MethodPost, "/credentials/verify", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Error(t, readErr)
		var tooLarge *http.MaxBytesError
		assert.ErrorAs(t, readErr, &tooLarge)
	})

	t.Run("GET request with no body passes through", func(t *testing.T) {
		handler := BodyLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/keys/issuer", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
