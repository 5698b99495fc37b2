// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant turns analyst chat questions and insight requests into
// prompts for a text generator and parses what comes back.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/gemini"
	"github.com/jeranaias/trackbets-tui/internal/model"
)

var (
	// ErrMalformedInsights means the insight reply was not two titled records.
	ErrMalformedInsights = errors.New("assistant: malformed insights")

	// ErrEmptyReply means the generator answered with blank text.
	ErrEmptyReply = errors.New("assistant: empty reply")
)

// InsightCount is the number of records an insight reply must contain.
const InsightCount = 2

// Generator produces text for a single prompt. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, gen *gemini.GenerationConfig) (string, error)
}

// Quote is the market context quoted to the assistant.
type Quote struct {
	Ticker   string
	Price    decimal.Decimal
	Currency string
}

// DisplayPrice formats the price with its currency symbol.
func (q Quote) DisplayPrice() string {
	cur := q.Currency
	if cur == "" {
		cur = "$"
	}
	return cur + q.Price.StringFixed(2)
}

// Client builds prompts and interprets replies.
type Client struct {
	gen       Generator
	trend     string
	sentiment string
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("assistant")
		}
	}
}

// WithMarketMood overrides the canned trend and sentiment quoted in chat prompts.
func WithMarketMood(trend, sentiment string) Option {
	return func(c *Client) {
		c.trend, c.sentiment = trend, sentiment
	}
}

// New creates a client around gen.
func New(gen Generator, opts ...Option) *Client {
	c := &Client{
		gen:       gen,
		trend:     "Strong Buy",
		sentiment: "89% Bullish",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatPrompt builds the analyst prompt for one user question.
func (c *Client) ChatPrompt(q Quote, question string) string {
	return fmt.Sprintf("You are a professional, data-driven hedge fund analyst.\n"+
		"Context: Stock %s, Price %s, Trend: %s, Sentiment: %s.\n"+
		"User Question: \"%s\"\n"+
		"Answer concisely (max 2 sentences). Focus on risk/reward.",
		q.Ticker, q.DisplayPrice(), c.trend, c.sentiment, question)
}

// InsightsPrompt builds the prompt that asks for fresh insights.
func InsightsPrompt(ticker string) string {
	return fmt.Sprintf("Generate %d new \"Alpha Insights\" for %s.\n"+
		"Tone: Professional, Technical, Institutional.\n"+
		`Return ONLY valid JSON array: [{"title": "...", "text": "..."}, {"title": "...", "text": "..."}]`,
		InsightCount, ticker)
}

// Reply asks the generator to answer question about q.
func (c *Client) Reply(ctx context.Context, q Quote, question string) (string, error) {
	text, err := c.gen.Generate(ctx, c.ChatPrompt(q, question), nil)
	if err != nil {
		c.logger.Warn("chat reply failed", zap.String("ticker", q.Ticker), zap.Error(err))
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Insights asks the generator for a new insight set for ticker.
func (c *Client) Insights(ctx context.Context, ticker string) (model.InsightSet, error) {
	text, err := c.gen.Generate(ctx, InsightsPrompt(ticker), gemini.JSONOutput())
	if err != nil {
		c.logger.Warn("insight generation failed", zap.String("ticker", ticker), zap.Error(err))
		return nil, err
	}
	set, err := ParseInsights(text)
	if err != nil {
		c.logger.Warn("insight reply rejected", zap.String("ticker", ticker), zap.Error(err))
		return nil, err
	}
	return set, nil
}

// ParseInsights decodes a JSON array of exactly InsightCount titled records.
// A surrounding markdown code fence is tolerated.
func ParseInsights(raw string) (model.InsightSet, error) {
	body := stripFence(strings.TrimSpace(raw))

	var set model.InsightSet
	if err := json.Unmarshal([]byte(body), &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInsights, err)
	}
	if len(set) != InsightCount {
		return nil, fmt.Errorf("%w: got %d records, want %d", ErrMalformedInsights, len(set), InsightCount)
	}
	for i := range set {
		set[i].Title = strings.TrimSpace(set[i].Title)
		set[i].Text = strings.TrimSpace(set[i].Text)
		if set[i].Title == "" {
			return nil, fmt.Errorf("%w: record %d has no title", ErrMalformedInsights, i)
		}
	}
	return set, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
