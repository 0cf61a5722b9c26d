package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/kartoza/qmc-desk/internal/models"
	"github.com/sony/gobreaker"
)

// SimulatePath is the remote endpoint for the harmonic oscillator run
const SimulatePath = "/simulate/vmc/harmonic-oscillator"

// RequestIDHeader carries the submission id to the API
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID tags ctx with a submission id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the submission id carried by ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RemoteClient posts simulation requests to the HTTP API
type RemoteClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// RemoteOptions tunes the HTTP transport
type RemoteOptions struct {
	HTTPClient *http.Client
	// BreakerFailures is how many consecutive network failures open the breaker (0 = 5)
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open (0 = 30s)
	BreakerCooldown time.Duration
	Logger          *log.Logger
}

// NewRemoteClient creates a client for baseURL (trailing slashes are stripped)
func NewRemoteClient(baseURL string, opts RemoteOptions) *RemoteClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := opts.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	base := NormalizeBaseURL(baseURL)
	return &RemoteClient{
		baseURL: base,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    base,
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// an HTTP error status proves the API is reachable
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrAPIRequestFailed)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Printf("Remote API %s circuit %s -> %s", name, from, to)
			},
		}),
	}
}

// BaseURL returns the normalized API base URL
func (c *RemoteClient) BaseURL() string {
	return c.baseURL
}

// Simulate posts req and decodes the result
func (c *RemoteClient) Simulate(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.SimulationResult{}, &NetworkError{URL: c.baseURL + SimulatePath, Err: err}
	}
	if err != nil {
		return models.SimulationResult{}, err
	}
	return out.(models.SimulationResult), nil
}

func (c *RemoteClient) post(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	url := c.baseURL + SimulatePath

	body, err := json.Marshal(req)
	if err != nil {
		return models.SimulationResult{}, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.SimulationResult{}, &NetworkError{URL: url, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "br")
	if id := RequestID(ctx); id != "" {
		httpReq.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.SimulationResult{}, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		reader = brotli.NewReader(resp.Body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, err := io.ReadAll(reader)
		if err != nil {
			return models.SimulationResult{}, &NetworkError{URL: url, Err: err}
		}
		return models.SimulationResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(detail)}
	}

	var result models.SimulationResult
	if err := json.NewDecoder(reader).Decode(&result); err != nil {
		return models.SimulationResult{}, &NetworkError{URL: url, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	return result, nil
}
