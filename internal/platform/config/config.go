package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server and issuer configuration.
type Server struct {
	Addr             string
	Environment      string
	IssuerName       string
	KeyMode          string
	IssuerKeySeed    string
	VerifyBatchLimit int
	QRSize           int
	LogLevel         string
	ShutdownTimeout  time.Duration
	TrustedProxies   string
}

const (
	defaultAddr             = ":8080"
	defaultEnvironment      = "dev"
	defaultIssuerName       = "agepass-demo-issuer"
	defaultKeyMode          = "demo"
	defaultVerifyBatchLimit = 8
	defaultQRSize           = 256
	defaultShutdownTimeout  = 10 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed numbers fall back to their defaults.
func FromEnv() Server {
	return Server{
		Addr:             getEnv("AGEPASS_ADDR", defaultAddr),
		Environment:      getEnv("AGEPASS_ENV", defaultEnvironment),
		IssuerName:       getEnv("ISSUER_NAME", defaultIssuerName),
		KeyMode:          strings.ToLower(getEnv("KEY_MODE", defaultKeyMode)),
		IssuerKeySeed:    os.Getenv("ISSUER_KEY_SEED"),
		VerifyBatchLimit: getEnvInt("VERIFY_BATCH_LIMIT", defaultVerifyBatchLimit),
		QRSize:           getEnvInt("QR_SIZE", defaultQRSize),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		TrustedProxies:   os.Getenv("TRUSTED_PROXIES"),
	}
}

// Validate rejects combinations that cannot start a server.
func (s Server) Validate() error {
	var errs []error
	switch s.KeyMode {
	case "demo", "random":
	case "seeded":
		if strings.TrimSpace(s.IssuerKeySeed) == "" {
			errs = append(errs, errors.New("ISSUER_KEY_SEED is required when KEY_MODE=seeded"))
		}
	default:
		errs = append(errs, fmt.Errorf("KEY_MODE must be demo, random or seeded, got %q", s.KeyMode))
	}
	if s.IsProduction() && s.KeyMode == "demo" {
		errs = append(errs, errors.New("the demo key pair must not be used in production"))
	}
	if s.VerifyBatchLimit <= 0 {
		errs = append(errs, errors.New("VERIFY_BATCH_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the environment is prod or production.
func (s Server) IsProduction() bool {
	env := strings.ToLower(s.Environment)
	return env == "prod" || env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
