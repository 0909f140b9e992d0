// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package graphql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/fleetcache/internal/config"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/metrics"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultRetryBaseDelay = time.Second
	maxErrorBodyBytes     = 64 * 1024
)

// Doer executes one GraphQL operation. *Client implements it; the fleet
// collections depend on this interface.
type Doer interface {
	Do(ctx context.Context, op Operation, vars map[string]any, out any) error
}

// Options configures a Client.
type Options struct {
	Endpoint string
	Token    string

	// Timeout bounds a single HTTP round trip. Default 30s.
	Timeout time.Duration

	// RequestsPerSecond <= 0 disables client-side rate limiting.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries is the number of 429 retries.
	MaxRetries int

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	// Default 1s.
	RetryBaseDelay time.Duration

	// CircuitBreaker wraps requests in a gobreaker circuit breaker.
	CircuitBreaker bool

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// OptionsFromConfig maps the graphql config section to Options.
func OptionsFromConfig(cfg config.GraphQLConfig, token string) Options {
	return Options{
		Endpoint:          cfg.Endpoint,
		Token:             token,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		MaxRetries:        cfg.MaxRetries,
		CircuitBreaker:    cfg.CircuitBreaker,
	}
}

// Client is a GraphQL-over-HTTP client.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	breaker        *breaker

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for opts.Endpoint.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	baseDelay := opts.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}

	c := &Client{
		endpoint:       opts.Endpoint,
		httpClient:     httpClient,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: baseDelay,
		token:          opts.Token,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.CircuitBreaker {
		c.breaker = newBreaker("graphql-api")
	}
	return c
}

// SetToken replaces the bearer token used by subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorMessage  `json:"errors"`
}

// Do executes op with vars and decodes the data object into out. out may be
// nil when the caller does not need the result.
func (c *Client) Do(ctx context.Context, op Operation, vars map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("graphql %s: rate limiter: %w", op.Name, err)
		}
	}

	body, err := json.Marshal(request{Query: op.Query, Variables: vars, OperationName: op.Name})
	if err != nil {
		return fmt.Errorf("graphql %s: encode request: %w", op.Name, err)
	}

	var raw []byte
	if c.breaker != nil {
		raw, err = c.breaker.execute(func() ([]byte, error) {
			return c.roundTrip(ctx, op, body)
		})
	} else {
		raw, err = c.roundTrip(ctx, op, body)
	}
	if err != nil {
		return err
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("graphql %s: decode response: %w", op.Name, err)
	}
	if len(resp.Errors) > 0 {
		return &Error{Operation: op.Name, Messages: resp.Errors}
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w (%s)", ErrNoData, op.Name)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("graphql %s: decode data: %w", op.Name, err)
	}
	return nil
}

// roundTrip posts body, retrying HTTP 429 with exponential backoff, and
// returns the raw 2xx response body.
func (c *Client) roundTrip(ctx context.Context, op Operation, body []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("graphql %s: create request: %w", op.Name, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if token := c.bearer(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if id := logging.CorrelationIDFromContext(ctx); id != "" {
			req.Header.Set("X-Correlation-ID", id)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordGraphQLRequest(op.Name, 0, time.Since(start))
			return nil, fmt.Errorf("graphql %s: execute request: %w", op.Name, err)
		}
		metrics.RecordGraphQLRequest(op.Name, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("%w after %d retries (%s)", ErrRateLimited, c.maxRetries, op.Name)
			}

			retryDelay := c.retryBaseDelay * (1 << attempt)
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
					retryDelay = time.Duration(seconds) * time.Second
				}
			}

			logging.Ctx(ctx).Warn().
				Str("operation", op.Name).
				Dur("retry_delay", retryDelay).
				Int("attempt", attempt+1).
				Int("max_retries", c.maxRetries).
				Msg("GraphQL API rate limited (HTTP 429), retrying")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
			resp.Body.Close()
			return nil, &HTTPError{Operation: op.Name, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("graphql %s: read response: %w", op.Name, err)
		}
		return data, nil
	}
}

// IsUnauthorized reports whether err means the token was rejected.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
	}
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr.HasCode("UNAUTHENTICATED")
	}
	return false
}
