// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package flow is the navigation state machine behind the four screens:
// landing, intake, loading and detail.
//
// The Orchestrator owns the intent, the intake form and the analysis result
// for the current cycle, and composes the loading sequencer, the analysis
// fetcher and the assistant session. All of its methods, and every callback
// it receives, run on one goroutine: asynchronous work reports back by
// posting closures to the Poster, and each closure is tagged with the cycle
// and fetch generation it belongs to so that results from a torn-down cycle
// or a superseded fetch are dropped.
package flow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/loading"
	"github.com/jeranaias/trackbets-tui/internal/session"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Fetcher retrieves the analysis for a ticker. *analysis.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string) analysis.Result
}

// Sequencer drives the loading screen. *loading.Sequencer satisfies it.
type Sequencer interface {
	Start(ctx context.Context, hooks loading.Hooks) error
	Stop()
}

// Poster hands a closure to the owning goroutine. *loop.Loop satisfies it.
type Poster interface {
	PostContext(ctx context.Context, fn func()) bool
}

// Options wires an Orchestrator.
type Options struct {
	// Fetcher is required.
	Fetcher Fetcher

	// Poster is required.
	Poster Poster

	// NewSequencer creates the sequencer for each loading cycle. Nil uses
	// loading.New with the default schedule.
	NewSequencer func() Sequencer

	// NewSession opens the assistant session when detail is entered. Nil
	// means the detail screen has no assistant.
	NewSession func(quote assistant.Quote) *session.Session

	// OnTransition runs after every state change.
	OnTransition func(from, to State)

	// OnChange runs after any observable change, including progress ticks
	// and fetch settlement.
	OnChange func()

	Logger *zap.Logger
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator is the view state machine. Its zero value is not usable;
// create one with New.
type Orchestrator struct {
	opts   Options
	logger *zap.Logger

	state  State
	intent Intent
	form   IntakeForm
	result analysis.Result

	progress float64
	stage    int

	seq     Sequencer
	session *session.Session

	cycle       uint64
	cycleCtx    context.Context
	cycleCancel context.CancelFunc

	fetchGen    uint64
	fetchCancel context.CancelFunc
	workers     sync.WaitGroup
}

// New creates an orchestrator in the landing state.
func New(opts Options) *Orchestrator {
	if opts.Fetcher == nil {
		panic("flow: Options.Fetcher is required")
	}
	if opts.Poster == nil {
		panic("flow: Options.Poster is required")
	}
	if opts.NewSequencer == nil {
		opts.NewSequencer = func() Sequencer { return loading.New(loading.DefaultSchedule()) }
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		opts:   opts,
		logger: logger.Named("flow"),
		state:  StateLanding,
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the active screen.
func (o *Orchestrator) State() State { return o.state }

// Intent returns the selected intent, IntentNone on landing.
func (o *Orchestrator) Intent() Intent { return o.intent }

// Form returns a copy of the submitted intake form, nil before submission.
func (o *Orchestrator) Form() IntakeForm {
	if o.form == nil {
		return nil
	}
	return o.form.Clone()
}

// Ticker returns the ticker of the current cycle.
func (o *Orchestrator) Ticker() string {
	if o.form == nil {
		return ""
	}
	return o.form.Ticker()
}

// Result returns the analysis result of the current cycle. It is the zero
// Result outside loading and detail.
func (o *Orchestrator) Result() analysis.Result { return o.result }

// Progress returns the loading progress in percent.
func (o *Orchestrator) Progress() float64 { return o.progress }

// Stage returns the loading stage index.
func (o *Orchestrator) Stage() int { return o.stage }

// StageLabel returns the narration for the current loading stage.
func (o *Orchestrator) StageLabel() string {
	return loading.StageLabel(o.Ticker(), o.stage)
}

// Session returns the assistant session, nil outside detail.
func (o *Orchestrator) Session() *session.Session { return o.session }

// Cycle returns the current cycle generation. It changes whenever a cycle
// starts or is torn down.
func (o *Orchestrator) Cycle() uint64 { return o.cycle }

// =============================================================================
// EVENTS
// =============================================================================

// SelectIntent moves from landing to intake.
func (o *Orchestrator) SelectIntent(intent Intent) error {
	if o.state != StateLanding {
		return &TransitionError{From: o.state, Event: "select intent"}
	}
	if !intent.Valid() {
		return ErrUnknownIntent
	}
	o.intent = intent
	o.transition(StateIntake)
	return nil
}

// CancelIntake abandons the form and returns to landing.
func (o *Orchestrator) CancelIntake() error {
	if o.state != StateIntake {
		return &TransitionError{From: o.state, Event: "cancel intake"}
	}
	o.intent = IntentNone
	o.form = nil
	o.transition(StateLanding)
	return nil
}

// SubmitIntake accepts form and starts the loading sequence. A form without
// a ticker returns ErrEmptyTicker and leaves the state unchanged.
func (o *Orchestrator) SubmitIntake(form IntakeForm) error {
	if o.state != StateIntake {
		return &TransitionError{From: o.state, Event: "submit intake"}
	}
	if err := form.Validate(); err != nil {
		return err
	}

	o.form = form.Clone()
	ticker := o.form.Ticker()
	o.result = analysis.Pending(ticker)
	o.progress, o.stage = 0, 0

	o.cycle++
	o.cycleCtx, o.cycleCancel = context.WithCancel(context.Background())
	o.seq = o.opts.NewSequencer()
	if err := o.seq.Start(o.cycleCtx, o.sequenceHooks(o.cycle, o.cycleCtx)); err != nil {
		o.cycleCancel()
		o.seq = nil
		o.form = nil
		o.result = analysis.Result{}
		return err
	}

	o.logger.Info("analysis cycle started",
		zap.Uint64("cycle", o.cycle),
		zap.String("ticker", ticker),
		zap.String("intent", string(o.intent)))
	o.transition(StateLoading)
	return nil
}

// Back returns toward landing: from intake it cancels the form, from loading
// and detail it goes home.
func (o *Orchestrator) Back() error {
	switch o.state {
	case StateIntake:
		return o.CancelIntake()
	case StateLoading, StateDetail:
		o.GoHome()
		return nil
	default:
		return &TransitionError{From: o.state, Event: "back"}
	}
}

// Retry resets the result to Pending and fetches the same ticker again.
// An in-flight fetch is cancelled and can no longer settle.
func (o *Orchestrator) Retry() error {
	if o.state != StateDetail {
		return &TransitionError{From: o.state, Event: "retry"}
	}
	o.startFetch()
	o.changed()
	return nil
}

// GoHome tears down the current cycle from any state and shows landing.
func (o *Orchestrator) GoHome() {
	o.teardown()
	o.intent = IntentNone
	o.form = nil
	if o.state != StateLanding {
		o.transition(StateLanding)
	}
}

// Shutdown goes home and waits for fetch workers to exit.
func (o *Orchestrator) Shutdown() {
	o.GoHome()
	o.workers.Wait()
}

// =============================================================================
// INTERNALS
// =============================================================================

func (o *Orchestrator) sequenceHooks(cycle uint64, ctx context.Context) loading.Hooks {
	post := func(fn func()) {
		o.opts.Poster.PostContext(ctx, func() {
			if o.cycle != cycle || o.state != StateLoading {
				return
			}
			fn()
		})
	}
	return loading.Hooks{
		OnProgress: func(p float64) {
			post(func() {
				if p > o.progress {
					o.progress = p
				}
				o.changed()
			})
		},
		OnStage: func(i int) {
			post(func() {
				if i > o.stage {
					o.stage = i
				}
				o.changed()
			})
		},
		OnComplete: func() {
			post(o.completeSequence)
		},
	}
}

// completeSequence enters detail, opens the session and starts the fetch.
// The transition does not wait for the fetch.
func (o *Orchestrator) completeSequence() {
	o.progress = 100
	o.seq = nil

	if o.opts.NewSession != nil {
		o.session = o.opts.NewSession(assistant.Quote{
			Ticker:   o.Ticker(),
			Price:    analysis.DefaultDisplayPrice,
			Currency: "$",
		})
	}
	o.transition(StateDetail)
	o.startFetch()
	o.changed()
}

func (o *Orchestrator) startFetch() {
	if o.fetchCancel != nil {
		o.fetchCancel()
	}
	o.fetchGen++
	gen := o.fetchGen
	ticker := o.Ticker()
	o.result = analysis.Pending(ticker)

	ctx, cancel := context.WithCancel(o.cycleCtx)
	o.fetchCancel = cancel

	fetcher, poster := o.opts.Fetcher, o.opts.Poster
	o.workers.Add(1)
	go func() {
		defer o.workers.Done()
		res := fetcher.Fetch(ctx, ticker)
		if ctx.Err() != nil {
			return
		}
		poster.PostContext(ctx, func() { o.settle(gen, res) })
	}()
}

func (o *Orchestrator) settle(gen uint64, res analysis.Result) {
	if gen != o.fetchGen || o.state != StateDetail {
		return
	}
	if res.Kind == analysis.KindFailed || res.Kind == analysis.KindPending {
		o.logger.Debug("dropping unsettled fetch result", zap.Stringer("kind", res.Kind), zap.Error(res.Err))
		return
	}
	o.result = res
	if o.fetchCancel != nil {
		o.fetchCancel()
		o.fetchCancel = nil
	}

	fields := []zap.Field{zap.String("ticker", res.Ticker), zap.Stringer("kind", res.Kind)}
	if res.Kind == analysis.KindMock {
		fields = append(fields, zap.String("reason", res.Reason.String()))
	}
	o.logger.Info("analysis settled", fields...)

	rep, err := res.Report()
	switch {
	case err != nil:
		o.logger.Warn("analysis payload unreadable", zap.String("ticker", res.Ticker), zap.Error(err))
	case len(rep.Skipped) > 0:
		o.logger.Warn("analysis payload fields ignored", zap.String("ticker", res.Ticker), zap.Strings("fields", rep.Skipped))
	}
	if o.session != nil && err == nil {
		o.session.SetPrice(rep.DisplayPrice(), rep.Currency())
	}
	o.changed()
}

// teardown cancels everything belonging to the current cycle. Posted
// closures already queued are rejected by their cycle and generation tags.
func (o *Orchestrator) teardown() {
	if o.cycleCancel != nil {
		o.cycleCancel()
		o.cycleCancel = nil
	}
	o.cycleCtx = nil
	if o.seq != nil {
		o.seq.Stop()
		o.seq = nil
	}
	if o.fetchCancel != nil {
		o.fetchCancel()
		o.fetchCancel = nil
	}
	o.fetchGen++
	if o.session != nil {
		o.session.Close()
		o.session = nil
	}
	o.cycle++
	o.result = analysis.Result{}
	o.progress, o.stage = 0, 0
}

func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	o.logger.Debug("transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if o.opts.OnTransition != nil {
		o.opts.OnTransition(from, to)
	}
	o.changed()
}

func (o *Orchestrator) changed() {
	if o.opts.OnChange != nil {
		o.opts.OnChange()
	}
}
