// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the public Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used for chat and insights.
	DefaultModel = "gemini-2.0-flash-exp"

	// DefaultTimeout bounds a single generateContent call.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute caps outgoing calls per client.
	DefaultRequestsPerMinute = 30

	// MaxResponseSize bounds the response body read from the API.
	MaxResponseSize = 1 << 20
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrEmptyResponse indicates a response without any candidate text.
	ErrEmptyResponse = errors.New("gemini response contained no text")

	// ErrResponseTooLarge indicates a body longer than MaxResponseSize.
	ErrResponseTooLarge = fmt.Errorf("gemini response exceeded %d bytes", MaxResponseSize)

	// ErrEmptyPrompt indicates Generate was called with nothing to send.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse is the error envelope returned by the API.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// =============================================================================
// CLIENT CONFIG
// =============================================================================

// ClientConfig holds configuration for the Gemini client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration

	// RequestsPerMinute is the sustained request rate. Zero uses the default;
	// a negative value disables limiting.
	RequestsPerMinute int

	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration without an API key.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           DefaultBaseURL,
		Model:             DefaultModel,
		Timeout:           DefaultTimeout,
		RequestsPerMinute: DefaultRequestsPerMinute,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client calls generateContent. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	config  ClientConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client for apiKey with the default configuration.
// A client without a key can be created; its calls fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client, filling zero fields from DefaultConfig.
func NewClientWithConfig(config ClientConfig) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	http := resty.New()
	http.SetBaseURL(strings.TrimRight(config.BaseURL, "/"))
	http.SetTimeout(config.Timeout)
	http.SetLogger(logger.Sugar())
	http.SetHeader("Content-Type", "application/json")
	http.SetResponseBodyLimit(MaxResponseSize)

	limit := rate.Inf
	burst := 1
	if config.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))
		burst = max(1, config.RequestsPerMinute/10)
	}

	return &Client{
		http:    http,
		config:  config,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("gemini"),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.config.Timeout = timeout
	c.http.SetTimeout(timeout)
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// IsConfigured returns true if an API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// APIKeyMasked returns a display-safe description of the key.
func (c *Client) APIKeyMasked() string {
	if c.config.APIKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.config.APIKey), c.keyFingerprint())
}

func (c *Client) keyFingerprint() string {
	h := sha256.Sum256([]byte(c.config.APIKey))
	return hex.EncodeToString(h[:4])
}

// Generate sends a single-turn prompt and returns the first candidate's text.
// gen may be nil.
func (c *Client) Generate(ctx context.Context, prompt string, gen *GenerationConfig) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body := GenerateRequest{
		Contents:         []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: gen,
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.APIKey).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Model))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return "", ErrResponseTooLarge
		}
		// resty errors embed the request URL, which carries the key.
		return "", fmt.Errorf("gemini request failed: %s", c.redact(err.Error()))
	}

	c.logger.Debug("generateContent",
		zap.String("model", c.config.Model),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))

	raw := resp.Body()
	if !resp.IsSuccess() {
		return "", parseAPIError(resp.StatusCode(), raw)
	}

	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	text, ok := out.Text()
	if !ok {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) redact(s string) string {
	if c.config.APIKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.config.APIKey, "[REDACTED]")
}

func parseAPIError(status int, raw []byte) error {
	var env apiErrorResponse
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		return &APIError{Status: status, Code: env.Error.Status, Message: env.Error.Message}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{Status: status, Message: msg}
}
