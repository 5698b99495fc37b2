// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("session: empty message")

	// ErrReplyPending is returned by Send while a reply is outstanding.
	ErrReplyPending = errors.New("session: reply pending")

	// ErrRegenerating is returned by RegenerateInsights while one is running.
	ErrRegenerating = errors.New("session: insights already regenerating")

	// ErrClosed is returned by any operation on a closed session.
	ErrClosed = errors.New("session: closed")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Assistant answers questions and produces insights. *assistant.Client
// satisfies it.
type Assistant interface {
	Reply(ctx context.Context, q assistant.Quote, question string) (string, error)
	Insights(ctx context.Context, ticker string) (model.InsightSet, error)
}

// Poster delivers a closure to the session's owning goroutine. It returns
// false if the closure was dropped. *loop.Loop satisfies it.
type Poster interface {
	PostContext(ctx context.Context, fn func()) bool
}

// Config holds optional session settings.
type Config struct {
	// OnChange runs on the owning goroutine after any state change.
	OnChange func()

	// Logger receives failures. Nil disables logging.
	Logger *zap.Logger
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the assistant state for one detail view.
type Session struct {
	id        string
	startTime time.Time
	quote     assistant.Quote

	ai     Assistant
	post   Poster
	logger *zap.Logger

	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	history      *model.History
	insights     model.InsightSet
	replyPending bool
	regenerating bool
	closed       bool
}

// New opens a session for quote. The history is seeded with the analyst
// greeting and the insight panel with the default pair.
func New(quote assistant.Quote, ai Assistant, post Poster, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:        generateSessionID(),
		startTime: time.Now(),
		quote:     quote,
		ai:        ai,
		post:      post,
		logger:    logger.Named("session"),
		onChange:  cfg.OnChange,
		ctx:       ctx,
		cancel:    cancel,
		history:   model.NewHistory(model.NewAssistantMessage(model.SeedMessage)),
		insights:  model.DefaultInsights(),
	}
}

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + uuid.NewString()
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// StartTime returns when the session was opened.
func (s *Session) StartTime() time.Time { return s.startTime }

// Quote returns the market context sent with chat prompts.
func (s *Session) Quote() assistant.Quote { return s.quote }

// SetPrice updates the quoted price, e.g. once the analysis settles.
// Replies already in flight keep the price they were sent with.
func (s *Session) SetPrice(price decimal.Decimal, currency string) {
	if s.closed {
		return
	}
	s.quote.Price = price
	if currency != "" {
		s.quote.Currency = currency
	}
	s.changed()
}

// History returns a copy of the conversation.
func (s *Session) History() []model.Message { return s.history.Messages() }

// Insights returns a copy of the current insight set.
func (s *Session) Insights() model.InsightSet { return s.insights.Clone() }

// ReplyPending reports whether a chat reply is outstanding.
func (s *Session) ReplyPending() bool { return s.replyPending }

// Regenerating reports whether an insight request is outstanding.
func (s *Session) Regenerating() bool { return s.regenerating }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// =============================================================================
// OPERATIONS
// =============================================================================

// Send appends text as a user message and asks the assistant for a reply.
// The user message is visible immediately; the reply, or the fallback
// message on any failure, is appended when the request completes.
func (s *Session) Send(text string) error {
	if s.closed {
		return ErrClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if s.replyPending {
		return ErrReplyPending
	}

	s.history.Append(model.NewUserMessage(text))
	s.replyPending = true
	quote := s.quote

	s.spawn(func(ctx context.Context) func() {
		reply, err := s.ai.Reply(ctx, quote, text)
		return func() { s.finishReply(reply, err) }
	})
	s.changed()
	return nil
}

func (s *Session) finishReply(reply string, err error) {
	if s.closed {
		return
	}
	s.replyPending = false
	if err != nil {
		s.logger.Warn("assistant reply failed", zap.String("session", s.id), zap.Error(err))
		s.history.Append(model.NewFallbackMessage())
	} else {
		s.history.Append(model.NewAssistantMessage(reply))
	}
	s.changed()
}

// RegenerateInsights requests a new insight set. On success the set is
// replaced wholesale; on any failure it becomes the single "Analysis
// Unavailable" record.
func (s *Session) RegenerateInsights() error {
	if s.closed {
		return ErrClosed
	}
	if s.regenerating {
		return ErrRegenerating
	}
	s.regenerating = true
	ticker := s.quote.Ticker

	s.spawn(func(ctx context.Context) func() {
		set, err := s.ai.Insights(ctx, ticker)
		return func() { s.finishInsights(set, err) }
	})
	s.changed()
	return nil
}

func (s *Session) finishInsights(set model.InsightSet, err error) {
	if s.closed {
		return
	}
	s.regenerating = false
	if err != nil {
		s.logger.Warn("insight regeneration failed", zap.String("session", s.id), zap.Error(err))
		s.insights = model.UnavailableInsights()
	} else {
		s.insights = set.Clone()
	}
	s.changed()
}

// Close cancels outstanding requests and waits for their workers to exit.
// Results that arrive afterwards are discarded. Close is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.wg.Wait()
}

// spawn runs work on a worker goroutine and posts the closure it returns
// back to the owner.
func (s *Session) spawn(work func(ctx context.Context) func()) {
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		done := work(ctx)
		if ctx.Err() != nil {
			return
		}
		s.post.PostContext(ctx, done)
	}()
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
