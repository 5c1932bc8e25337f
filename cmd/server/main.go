package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"agepass/internal/credential/handler"
	"agepass/internal/credential/keys"
	"agepass/internal/credential/metrics"
	"agepass/internal/credential/service"
	"agepass/internal/platform/config"
	"agepass/internal/platform/health"
	"agepass/internal/platform/httpserver"
	"agepass/internal/platform/logger"
	"agepass/internal/platform/tracer"
	httptransport "agepass/internal/transport/http"
	"agepass/pkg/platform/middleware/metadata"
	request "agepass/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/credential.
func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.WithLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("initializing agepass",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"issuer", cfg.IssuerName,
		"key_mode", cfg.KeyMode,
	)

	trustedProxies, invalid := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if len(invalid) > 0 {
		log.Error("invalid TRUSTED_PROXIES entries", "entries", invalid)
		os.Exit(1)
	}

	provider, err := keys.NewFromMode(keys.Mode(cfg.KeyMode), cfg.IssuerKeySeed)
	if err != nil {
		log.Error("failed to configure issuer key", "error", err)
		os.Exit(1)
	}
	if err := provider.Init(); err != nil {
		log.Error("failed to load issuer key", "error", err)
		os.Exit(1)
	}
	if provider.Mode() == keys.ModeDemo {
		log.Warn("using the published demo issuer key; credentials are not trustworthy")
	}

	svc := service.New(provider,
		service.WithIssuer(cfg.IssuerName),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithBatchConcurrency(cfg.VerifyBatchLimit),
		service.WithQRSize(cfg.QRSize),
	)

	healthHandler := health.New(cfg.Environment, svc.Issuer(), provider)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:      log,
		Credentials: handler.New(svc, log),
		Health:      healthHandler,
		Metrics:     request.NewMetrics(),
		Gatherer:    prometheus.DefaultGatherer,

		TrustedProxies: trustedProxies,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
