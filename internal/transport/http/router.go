package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agepass/internal/credential/handler"
	"agepass/internal/platform/health"
	"agepass/pkg/platform/middleware/metadata"
	request "agepass/pkg/platform/middleware/request"
	"agepass/pkg/platform/middleware/requesttime"
	"agepass/pkg/platform/validation"
)

const defaultTimeout = 30 * time.Second

// Dependencies are the pieces the router mounts. Health and Gatherer are optional.
type Dependencies struct {
	Logger      *slog.Logger
	Credentials *handler.Handler
	Health      *health.Handler
	Metrics     *request.Metrics
	Gatherer    prometheus.Gatherer
	Clock       requesttime.Clock
	Timeout     time.Duration

	TrustedProxies []netip.Prefix
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(deps Dependencies) http.Handler {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: deps.TrustedProxies}).Handler)
	r.Use(request.Logger(deps.Logger))
	r.Use(request.LatencyMiddleware(deps.Metrics))
	r.Use(requesttime.NewMiddleware(deps.Clock))
	r.Use(request.Timeout(timeout))
	r.Use(request.BodyLimit(validation.MaxBodySize))
	r.Use(request.ContentTypeJSON)

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	deps.Credentials.Register(r)

	return r
}
