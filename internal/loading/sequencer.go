// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loading drives the simulated analysis progress screen.
//
// A Sequencer runs on its own schedule and knows nothing about the analysis
// request. It reports progress, stage changes and a single completion
// through Hooks, and it can be stopped at any point without leaving timers
// behind.
package loading

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned when Start is called a second time.
var ErrAlreadyStarted = errors.New("loading: sequencer already started")

// Hooks receive sequencer events. They are called from the sequencer's
// goroutine; callers that own state should hand the event to their own
// goroutine. Nil hooks are skipped.
type Hooks struct {
	OnProgress func(percent float64)
	OnStage    func(index int)
	OnComplete func()
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand sets the source of progress increments.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) { s.rng = r }
}

// WithClock replaces time.Now for elapsed-time calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

// Sequencer runs one loading animation.
type Sequencer struct {
	sched Schedule
	rng   *rand.Rand
	now   func() time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a sequencer for sched. An invalid schedule falls back to
// DefaultSchedule.
func New(sched Schedule, opts ...Option) *Sequencer {
	if sched.Validate() != nil {
		sched = DefaultSchedule()
	}
	s := &Sequencer{
		sched: sched,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7472616b))
	}
	return s
}

// Schedule returns the schedule the sequencer follows.
func (s *Sequencer) Schedule() Schedule {
	return s.sched
}

// Start begins the animation. It returns immediately; events arrive on hooks
// until completion, Stop, or cancellation of ctx.
func (s *Sequencer) Start(ctx context.Context, hooks Hooks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx, hooks)
	return nil
}

// Stop cancels the animation and waits for its goroutine to exit. After
// Stop returns no hook will be called. Stopping an unstarted or finished
// sequencer is a no-op.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	started, cancel := s.started, s.cancel
	s.mu.Unlock()
	if !started {
		return
	}
	cancel()
	<-s.done
}

// Done is closed when the sequencer's goroutine exits.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

func (s *Sequencer) run(ctx context.Context, hooks Hooks) {
	defer close(s.done)
	defer s.cancel()

	start := s.now()
	ticker := time.NewTicker(s.sched.Tick)
	defer ticker.Stop()
	finish := time.NewTimer(s.sched.Total)
	defer finish.Stop()

	stage := 0
	stageTimer := time.NewTimer(s.sched.StageOffsets[0])
	defer stageTimer.Stop()
	stageC := stageTimer.C

	progress := 0.0
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if progress >= 100 {
				continue
			}
			progress = math.Min(100, progress+s.step())
			if ctx.Err() != nil {
				return
			}
			if hooks.OnProgress != nil {
				hooks.OnProgress(progress)
			}

		case <-stageC:
			stage++
			if ctx.Err() != nil {
				return
			}
			if hooks.OnStage != nil {
				hooks.OnStage(stage)
			}
			if stage < len(s.sched.StageOffsets) {
				wait := s.sched.StageOffsets[stage] - s.now().Sub(start)
				if wait < 0 {
					wait = 0
				}
				stageTimer.Reset(wait)
			} else {
				stageC = nil
			}

		case <-finish.C:
			if ctx.Err() != nil {
				return
			}
			if progress < 100 && hooks.OnProgress != nil {
				hooks.OnProgress(100)
			}
			if hooks.OnComplete != nil {
				hooks.OnComplete()
			}
			return
		}
	}
}

func (s *Sequencer) step() float64 {
	span := s.sched.MaxStep - s.sched.MinStep
	return s.sched.MinStep + s.rng.Float64()*span
}
