package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agepass/internal/credential/models"
	"agepass/pkg/platform/httputil"
	"agepass/pkg/requestcontext"
)

// Service defines the credential operations exposed over HTTP.
type Service interface {
	IssueSigned(ctx context.Context, req models.IssueRequest) (*models.IssuedSigned, error)
	IssueZK(ctx context.Context, req models.IssueRequest) (*models.IssuedZK, error)
	IssueJWT(ctx context.Context, req models.IssueRequest) (*models.IssuedJWT, error)
	Verify(ctx context.Context, payload string) (models.VerificationResult, error)
	VerifyBatch(ctx context.Context, payloads []string) ([]models.VerificationResult, error)
	VerifyJWT(ctx context.Context, token string) (models.VerificationResult, error)
	PublicKey(ctx context.Context) (*models.PublicKeyInfo, error)
	RenderQR(ctx context.Context, payload string, size int) ([]byte, error)
}

// Handler handles credential issuance and verification endpoints.
type Handler struct {
	logger      *slog.Logger
	credentials Service
}

// New creates a new credential Handler.
func New(credentials Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		credentials: credentials,
	}
}

// Register registers the credential routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/credentials/signed", h.HandleIssueSigned)
	r.Post("/credentials/zk", h.HandleIssueZK)
	r.Post("/credentials/jwt", h.HandleIssueJWT)
	r.Post("/credentials/verify", h.HandleVerify)
	r.Post("/credentials/verify/batch", h.HandleVerifyBatch)
	r.Post("/credentials/jwt/verify", h.HandleVerifyJWT)
	r.Post("/credentials/qr", h.HandleRenderQR)
	r.Get("/keys/issuer", h.HandlePublicKey)
}

// HandleIssueSigned issues an Ed25519-signed credential.
func (h *Handler) HandleIssueSigned(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIssue(w, r)
	if !ok {
		return
	}
	issued, err := h.credentials.IssueSigned(r.Context(), *req)
	if err != nil {
		h.fail(w, r, "failed to issue signed credential", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issued)
}

// HandleIssueZK issues a commitment-based credential that omits the birth date.
func (h *Handler) HandleIssueZK(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIssue(w, r)
	if !ok {
		return
	}
	issued, err := h.credentials.IssueZK(r.Context(), *req)
	if err != nil {
		h.fail(w, r, "failed to issue zk credential", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issued)
}

// HandleIssueJWT exports the credential as a VC-JWT.
func (h *Handler) HandleIssueJWT(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIssue(w, r)
	if !ok {
		return
	}
	issued, err := h.credentials.IssueJWT(r.Context(), *req)
	if err != nil {
		h.fail(w, r, "failed to issue jwt credential", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issued)
}

// HandleVerify returns a verdict for a scanned payload. Bad credentials are
// a 200 with valid=false; only malformed requests are 4xx.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}
	result, err := h.credentials.Verify(r.Context(), req.Payload)
	if err != nil {
		h.fail(w, r, "failed to verify credential", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(result))
}

// HandleVerifyBatch verifies several payloads in one call.
func (h *Handler) HandleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[BatchVerifyRequest](w, r, h.logger)
	if !ok {
		return
	}
	results, err := h.credentials.VerifyBatch(r.Context(), req.Payloads)
	if err != nil {
		h.fail(w, r, "failed to verify batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBatchResponse(results))
}

// HandleVerifyJWT returns a verdict for a VC-JWT.
func (h *Handler) HandleVerifyJWT(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[VerifyJWTRequest](w, r, h.logger)
	if !ok {
		return
	}
	result, err := h.credentials.VerifyJWT(r.Context(), req.Token)
	if err != nil {
		h.fail(w, r, "failed to verify jwt", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(result))
}

// HandleRenderQR renders a transport string as a PNG.
func (h *Handler) HandleRenderQR(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[QRRequest](w, r, h.logger)
	if !ok {
		return
	}
	png, err := h.credentials.RenderQR(r.Context(), req.Payload, req.Size)
	if err != nil {
		h.fail(w, r, "failed to render qr code", err)
		return
	}
	httputil.WriteBytes(w, http.StatusOK, "image/png", png)
}

// HandlePublicKey publishes the issuer verification key.
func (h *Handler) HandlePublicKey(w http.ResponseWriter, r *http.Request) {
	info, err := h.credentials.PublicKey(r.Context())
	if err != nil {
		h.fail(w, r, "failed to read issuer key", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) decodeIssue(w http.ResponseWriter, r *http.Request) (*models.IssueRequest, bool) {
	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger)
	if !ok {
		return nil, false
	}
	model, err := req.ToModel()
	if err != nil {
		h.fail(w, r, "invalid issue request", err)
		return nil, false
	}
	return model, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
