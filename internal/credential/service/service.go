package service

import (
	"context"
	"crypto/ed25519"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"agepass/internal/credential/builder"
	"agepass/internal/credential/codec"
	"agepass/internal/credential/jwtvc"
	"agepass/internal/credential/metrics"
	"agepass/internal/credential/models"
	"agepass/internal/credential/proof"
	"agepass/internal/credential/qr"
	"agepass/internal/credential/signature"
	"agepass/internal/credential/validator"
	"agepass/internal/platform/tracer"
	dErrors "agepass/pkg/domain-errors"
	"agepass/pkg/platform/middleware/requesttime"
	"agepass/pkg/platform/privacy"
	"agepass/pkg/platform/validation"
	"agepass/pkg/requestcontext"
)

// KeyProvider supplies the issuer's key pair.
type KeyProvider interface {
	PrivateKey() (ed25519.PrivateKey, error)
	PublicKey() (ed25519.PublicKey, error)
	PublicKeyHex() (string, error)
}

type Option func(*Service)

const defaultBatchConcurrency = 8

// Service issues and verifies age credentials.
//
// Verification methods never return errors for bad credentials; the verdict
// carries the reason. Errors are reserved for issuer-side failures such as
// unavailable key material.
type Service struct {
	keys      KeyProvider
	builder   *builder.Builder
	signer    *signature.Engine
	proofs    proof.Backend
	validator *validator.Validator
	exporter  *jwtvc.Exporter

	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           tracer.Tracer
	batchConcurrency int
	qrSize           int
}

func New(keys KeyProvider, opts ...Option) *Service {
	svc := &Service{
		keys:             keys,
		builder:          builder.New(),
		proofs:           proof.NewHashCommitment(),
		logger:           slog.New(slog.DiscardHandler),
		tracer:           tracer.NewNoop(),
		batchConcurrency: defaultBatchConcurrency,
		qrSize:           qr.DefaultSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.signer = signature.NewEngine(keys)
	svc.validator = validator.New(svc.proofs)
	svc.exporter = jwtvc.New(keys)
	return svc
}

// WithIssuer sets the issuer name written into credentials.
func WithIssuer(name string) Option {
	return func(s *Service) {
		s.builder = builder.New(builder.WithIssuer(name))
	}
}

// WithProofBackend replaces the commitment proof backend.
func WithProofBackend(b proof.Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.proofs = b
		}
	}
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for issue and verify spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithBatchConcurrency bounds the goroutines used by VerifyBatch.
// Zero or negative values keep the default of 8.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithQRSize sets the default QR image size used when a request omits one.
func WithQRSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.qrSize = size
		}
	}
}

// Issuer returns the configured issuer name.
func (s *Service) Issuer() string {
	return s.builder.Issuer()
}

// IssueSigned builds and signs a credential for req as of the request time.
func (s *Service) IssueSigned(ctx context.Context, req models.IssueRequest) (_ *models.IssuedSigned, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueSigned, tracer.String(tracer.AttrIssuer, s.Issuer()))
	defer func() { span.End(err) }()

	vc, err := s.buildOfAge(ctx, req)
	if err != nil {
		return nil, err
	}
	signed, err := s.signer.Sign(vc)
	if err != nil {
		return nil, s.refuse(ctx, models.KindSigned, err)
	}
	payload, err := codec.Encode(signed)
	if err != nil {
		return nil, s.refuse(ctx, models.KindSigned, err)
	}

	s.issued(ctx, models.KindSigned, vc)
	return &models.IssuedSigned{Credential: signed, QRPayload: payload}, nil
}

// IssueZK commits to the subject's birth year and returns a proof-bearing
// credential. The birth date itself never leaves this method.
func (s *Service) IssueZK(ctx context.Context, req models.IssueRequest) (_ *models.IssuedZK, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueZK, tracer.String(tracer.AttrIssuer, s.Issuer()))
	defer func() { span.End(err) }()

	vc, err := s.buildOfAge(ctx, req)
	if err != nil {
		return nil, err
	}
	now := requesttime.Now(ctx).UTC()
	artifact, err := s.proofs.Generate(req.BirthDate.UTC().Year(), now.Year(), models.MinimumAge)
	if err != nil {
		return nil, s.refuse(ctx, models.KindZK, err)
	}

	cred := models.ZKCredential{
		ZKProof: models.ZKProof{
			Proof:         artifact.Proof,
			PublicSignals: artifact.PublicSignals,
		},
		Metadata:   vc.Metadata(),
		Commitment: artifact.Commitment,
	}
	payload, err := codec.Encode(cred)
	if err != nil {
		return nil, s.refuse(ctx, models.KindZK, err)
	}

	s.issued(ctx, models.KindZK, vc)
	return &models.IssuedZK{Credential: cred, QRPayload: payload}, nil
}

// IssueJWT builds the credential and exports it as an EdDSA JWT.
func (s *Service) IssueJWT(ctx context.Context, req models.IssueRequest) (_ *models.IssuedJWT, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueJWT, tracer.String(tracer.AttrIssuer, s.Issuer()))
	defer func() { span.End(err) }()

	vc, err := s.buildOfAge(ctx, req)
	if err != nil {
		return nil, err
	}
	token, err := s.exporter.Export(vc)
	if err != nil {
		return nil, s.refuse(ctx, models.KindJWT, err)
	}

	s.issued(ctx, models.KindJWT, vc)
	return &models.IssuedJWT{Token: token, Claims: vc}, nil
}

// Verify evaluates a scanned payload of either kind at the request time.
func (s *Service) Verify(ctx context.Context, payload string) (models.VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify)
	pub, err := s.keys.PublicKey()
	if err != nil {
		span.End(err)
		return models.VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "issuer public key unavailable")
	}

	result := s.evaluate(ctx, payload, pub)
	span.SetAttributes(resultAttributes(result)...)
	span.End(nil)
	return result, nil
}

// VerifyBatch verifies payloads concurrently. Results keep input order.
func (s *Service) VerifyBatch(ctx context.Context, payloads []string) (_ []models.VerificationResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyBatch, tracer.Int(tracer.AttrBatchSize, len(payloads)))
	defer func() { span.End(err) }()

	if len(payloads) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "payloads must not be empty")
	}
	if err := validation.CheckSliceCount("payloads", len(payloads), validation.MaxBatchSize); err != nil {
		return nil, err
	}
	pub, err := s.keys.PublicKey()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "issuer public key unavailable")
	}
	if s.metrics != nil {
		s.metrics.ObserveBatchSize(len(payloads))
	}

	results := make([]models.VerificationResult, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, payload := range payloads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.evaluate(gctx, payload, pub)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "batch verification interrupted")
	}
	return results, nil
}

// VerifyJWT evaluates an exported VC-JWT at the request time.
func (s *Service) VerifyJWT(ctx context.Context, token string) (models.VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyJWT)
	pub, err := s.keys.PublicKey()
	if err != nil {
		span.End(err)
		return models.VerificationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "issuer public key unavailable")
	}

	start := time.Now()
	result := jwtvc.Verify(token, requesttime.Now(ctx), pub)
	s.observe(ctx, result, time.Since(start))
	span.SetAttributes(resultAttributes(result)...)
	span.End(nil)
	return result, nil
}

// PublicKey describes the issuer key for verifiers.
func (s *Service) PublicKey(_ context.Context) (*models.PublicKeyInfo, error) {
	hexKey, err := s.keys.PublicKeyHex()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "issuer public key unavailable")
	}
	return &models.PublicKeyInfo{
		Algorithm: "Ed25519",
		PublicKey: hexKey,
		Issuer:    s.Issuer(),
	}, nil
}

// RenderQR encodes a transport string as a PNG. A zero size uses the
// configured default.
func (s *Service) RenderQR(ctx context.Context, payload string, size int) (_ []byte, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanRenderQRCode, tracer.Int("qr.size", size))
	defer func() { span.End(err) }()

	if size == 0 {
		size = s.qrSize
	}
	return qr.Render(payload, size)
}

func (s *Service) buildOfAge(ctx context.Context, req models.IssueRequest) (models.VerifiableCredential, error) {
	if err := validation.CheckStringLength("name", req.Name, validation.MaxNameLength); err != nil {
		return models.VerifiableCredential{}, s.refuse(ctx, models.KindUnknown, err)
	}
	vc, err := s.builder.Build(req.Name, req.BirthDate, requesttime.Now(ctx))
	if err != nil {
		return models.VerifiableCredential{}, s.refuse(ctx, models.KindUnknown, err)
	}
	if !vc.AgeClaim {
		return models.VerifiableCredential{}, s.refuse(ctx, models.KindUnknown,
			dErrors.New(dErrors.CodeAgeRequirement, "subject must be at least 18 years old"))
	}
	return vc, nil
}

func (s *Service) evaluate(ctx context.Context, payload string, pub ed25519.PublicKey) models.VerificationResult {
	start := time.Now()
	result := s.validator.Verify(payload, requesttime.Now(ctx), pub)
	s.observe(ctx, result, time.Since(start))
	return result
}

func (s *Service) observe(ctx context.Context, result models.VerificationResult, elapsed time.Duration) {
	kind := string(result.Kind)
	if kind == "" {
		kind = "unknown"
	}
	if s.metrics != nil {
		s.metrics.IncrementVerification(kind, result.Outcome())
		s.metrics.ObserveVerificationLatency(kind, elapsed.Seconds())
	}
	s.logger.InfoContext(ctx, "credential verified",
		"kind", kind,
		"outcome", result.Outcome(),
		"decode_stage", string(result.DecodeStage),
		"scanner", requestcontext.Scanner(ctx),
	)
}

func (s *Service) issued(ctx context.Context, kind models.Kind, vc models.VerifiableCredential) {
	if s.metrics != nil {
		s.metrics.IncrementIssued(string(kind))
	}
	s.logger.InfoContext(ctx, "credential issued",
		"kind", string(kind),
		"issuer", vc.Issuer,
		"subject_ref", privacy.SubjectRef(vc.SubjectName),
		"expires_at", vc.ExpiresAt,
	)
}

// refuse records a failed issuance. Birth dates are never logged.
func (s *Service) refuse(ctx context.Context, kind models.Kind, err error) error {
	code := dErrors.CodeOf(err)
	if s.metrics != nil {
		s.metrics.IncrementRefused(string(code))
	}
	level := slog.LevelInfo
	if code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "credential issuance refused",
		"kind", string(kind),
		"code", string(code),
		"error", err.Error(),
	)
	return err
}

func resultAttributes(r models.VerificationResult) []tracer.Attribute {
	return []tracer.Attribute{
		tracer.String(tracer.AttrKind, string(r.Kind)),
		tracer.String(tracer.AttrDecodeStage, string(r.DecodeStage)),
		tracer.Bool(tracer.AttrValid, r.Valid),
		tracer.Bool(tracer.AttrExpired, r.Expired),
		tracer.String(tracer.AttrReason, string(r.Reason)),
	}
}
