// Package health serves liveness, readiness and status for the issuer.
//
// Readiness means the issuer key loads and has the Ed25519 shape; there are
// no other dependencies to probe.
package health

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"agepass/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
)

// Version is set at build time via ldflags.
var Version = "dev"

// KeySource exposes the issuer public key.
type KeySource interface {
	PublicKey() (ed25519.PublicKey, error)
}

// Handler reports the issuer's health.
type Handler struct {
	environment string
	issuer      string
	keys        KeySource
	started     time.Time
	now         func() time.Time
}

// New creates a health handler for issuer, backed by keys.
func New(environment, issuer string, keys KeySource) *Handler {
	return &Handler{
		environment: environment,
		issuer:      issuer,
		keys:        keys,
		started:     time.Now(),
		now:         time.Now,
	}
}

// Register mounts health routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// LivenessResponse answers /health/live.
type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always answers 200 while the process serves requests.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

// ReadinessResponse answers /health/ready.
type ReadinessResponse struct {
	Status         string `json:"status"`
	Issuer         string `json:"issuer"`
	KeyFingerprint string `json:"key_fingerprint,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// HandleReadiness answers 503 until the issuer key is usable.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	fingerprint, err := h.keyFingerprint()
	if err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status: "not_ready",
			Issuer: h.issuer,
			Reason: err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ReadinessResponse{
		Status:         "ready",
		Issuer:         h.issuer,
		KeyFingerprint: fingerprint,
	})
}

// StatusResponse answers /health.
type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	Issuer        string `json:"issuer"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// HandleStatus reports version, issuer and uptime.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		Issuer:        h.issuer,
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}

// keyFingerprint is the first 8 bytes of SHA-256 over the public key, in hex.
func (h *Handler) keyFingerprint() (string, error) {
	if h.keys == nil {
		return "", fmt.Errorf("issuer key is not configured")
	}
	pub, err := h.keys.PublicKey()
	if err != nil {
		return "", err
	}
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("issuer public key has %d bytes", len(pub))
	}
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8]), nil
}
