// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics. Prevents unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Client is implemented by HTTPClient for production use and by mocks in
// tests. Extract sends raw OCR text and returns the structured receipt.
type Client interface {
	Extract(ctx context.Context, ocrText string) (*Receipt, error)
}

// Config holds the extraction-service connection settings.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout is the per-request HTTP timeout. Defaults to 30s.
	Timeout time.Duration

	// RequestsPerSecond and Burst drive the client-side rate limiter.
	// Defaults: 5 rps, burst 10.
	RequestsPerSecond float64
	Burst             int
}

// HTTPClient calls the extraction service over HTTP with circuit breaker
// protection and client-side rate limiting.
//
// The circuit breaker uses real time for its interval and timeout
// calculations; unit tests should mock the Client interface rather than
// drive the breaker through its states.
//
// Thread safety: safe for concurrent use.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*Receipt]
	logger  zerolog.Logger
}

// NewHTTPClient creates an extraction-service client.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 1 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewHTTPClient(cfg Config, logger zerolog.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	logger = logger.With().Str("component", "extract").Logger()

	cb := gobreaker.NewCircuitBreaker[*Receipt](gobreaker.Settings{
		Name:        "extraction-service",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
		},
	})

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:      cb,
		logger:  logger,
	}
}

// extractRequest is the wire shape sent to the extraction service.
type extractRequest struct {
	Text string `json:"text"`
}

// Extract sends the OCR text to the extraction service and returns the
// structured receipt. The call waits on the rate limiter first, so a
// canceled context aborts both the wait and the request. Malformed
// responses return *MalformedReceiptError.
func (c *HTTPClient) Extract(ctx context.Context, ocrText string) (*Receipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}
	return c.cb.Execute(func() (*Receipt, error) {
		return c.post(ctx, ocrText)
	})
}

func (c *HTTPClient) post(ctx context.Context, ocrText string) (*Receipt, error) {
	body, err := json.Marshal(extractRequest{Text: ocrText})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned HTTP %d: %s",
			resp.StatusCode, readBodyForError(resp.Body))
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		c.logger.Debug().Err(err).Msg("undecodable extraction response")
		return nil, &MalformedReceiptError{Reason: fmt.Sprintf("decode response: %v", err)}
	}
	if err := receipt.Validate(); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body
// for error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
