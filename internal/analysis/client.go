// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis fetches the asset analysis for a ticker.
//
// Fetch never reports transport or service errors to its caller. Anything
// short of a well-formed JSON object degrades to a synthetic payload tagged
// with the reason, so the detail screen always has something to render.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the local analysis service.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds a single analysis request.
	DefaultTimeout = 30 * time.Second

	// AnalyzePath is the analysis endpoint.
	AnalyzePath = "/api/analyze"
)

// ErrEmptyTicker is returned for a blank ticker. The intake form rejects
// these before they reach the client.
var ErrEmptyTicker = errors.New("analysis: empty ticker")

// =============================================================================
// CLIENT CONFIG
// =============================================================================

// ClientConfig holds configuration for the analysis client.
type ClientConfig struct {
	// BaseURL is the service root, without the /api/analyze path.
	BaseURL string

	// Timeout for a single request. A timeout degrades to mock data.
	Timeout time.Duration

	// Logger receives request outcomes. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithRandom sets the source of mock price randomness. fn must return a
// value in [0,1) and be safe for concurrent use.
func WithRandom(fn func() float64) Option {
	return func(c *Client) { c.random = fn }
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues analysis requests. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	config ClientConfig
	logger *zap.Logger
	random func() float64
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client, filling zero fields from DefaultConfig.
func NewClientWithConfig(config ClientConfig, opts ...Option) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	http := resty.New()
	http.SetBaseURL(strings.TrimRight(config.BaseURL, "/"))
	http.SetTimeout(config.Timeout)
	http.SetLogger(logger.Sugar())
	http.SetHeader("Accept", "application/json")

	c := &Client{
		http:   http,
		config: config,
		logger: logger.Named("analysis"),
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Fetch requests the analysis for ticker. The result is Ok or Mock unless
// ctx is cancelled, in which case it is Failed with the context error.
func (c *Client) Fetch(ctx context.Context, ticker string) Result {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Failed(ticker, ErrEmptyTicker)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("ticker", ticker).
		Get(AnalyzePath)

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Debug("analysis fetch abandoned", zap.String("ticker", ticker), zap.Error(ctxErr))
		return Failed(ticker, ctxErr)
	}
	if err != nil {
		return c.mock(ticker, MockReason{Cause: CauseTransport, Detail: err.Error()})
	}
	if !resp.IsSuccess() {
		return c.mock(ticker, MockReason{Cause: CauseStatus, Detail: resp.Status()})
	}
	if ct := resp.Header().Get("Content-Type"); strings.Contains(strings.ToLower(ct), "text/html") {
		return c.mock(ticker, MockReason{Cause: CauseContentType, Detail: ct})
	}

	body := resp.Body()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		detail := "not a JSON object"
		if err != nil {
			detail = err.Error()
		}
		return c.mock(ticker, MockReason{Cause: CauseMalformed, Detail: detail})
	}
	if raw, ok := fields["error"]; ok && truthy(raw) {
		return c.mock(ticker, MockReason{Cause: CauseAppError, Detail: errorText(raw)})
	}

	c.logger.Info("analysis fetched",
		zap.String("ticker", ticker),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))
	payload := make(json.RawMessage, len(body))
	copy(payload, body)
	return Ok(ticker, payload)
}

func (c *Client) mock(ticker string, reason MockReason) Result {
	c.logger.Warn("analysis degraded to mock data",
		zap.String("ticker", ticker),
		zap.String("cause", string(reason.Cause)),
		zap.String("detail", reason.Detail))
	return Mock(ticker, MockPayload(ticker, c.random()), reason)
}

// truthy mirrors how a dynamic client treats an "error" field: null, false,
// 0 and "" do not count.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
