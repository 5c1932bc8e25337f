package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"agepass/internal/credential/handler"
	"agepass/internal/credential/keys"
	"agepass/internal/credential/metrics"
	"agepass/internal/credential/service"
	"agepass/internal/platform/health"
	httptransport "agepass/internal/transport/http"
	request "agepass/pkg/platform/middleware/request"
)

// Clock is the controllable request clock shared by a scenario's server.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	Clock            *Clock

	server *httptest.Server
}

// NewTestContext starts an in-process agepass server with the demo issuer key
// and a clock the scenario controls.
func NewTestContext() *TestContext {
	clock := &Clock{now: time.Now()}
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := keys.NewDemo()

	svc := service.New(provider,
		service.WithLogger(logger),
		service.WithMetrics(metrics.NewWithRegisterer(reg)),
	)
	healthHandler := health.New("e2e", svc.Issuer(), provider)

	server := httptest.NewServer(httptransport.NewRouter(httptransport.Dependencies{
		Logger:      logger,
		Credentials: handler.New(svc, logger),
		Health:      healthHandler,
		Metrics:     request.NewMetricsWithRegisterer(reg),
		Gatherer:    reg,
		Clock:       clock.Now,
	}))

	return &TestContext{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Clock:      clock,
		server:     server,
	}
}

// Close stops the in-process server.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}
	return false
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

func (tc *TestContext) SetNow(t time.Time) {
	tc.Clock.Set(t)
}

func (tc *TestContext) AdvanceClock(d time.Duration) {
	tc.Clock.Advance(d)
}
