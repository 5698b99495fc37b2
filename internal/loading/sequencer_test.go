// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loading

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func fastSchedule() Schedule {
	return Schedule{
		Total:        200 * time.Millisecond,
		Tick:         5 * time.Millisecond,
		StageOffsets: []time.Duration{40 * time.Millisecond, 80 * time.Millisecond, 120 * time.Millisecond},
		MinStep:      0.5,
		MaxStep:      2.5,
	}
}

type recorder struct {
	mu        sync.Mutex
	progress  []float64
	stages    []int
	completes int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnProgress: func(p float64) {
			r.mu.Lock()
			r.progress = append(r.progress, p)
			r.mu.Unlock()
		},
		OnStage: func(i int) {
			r.mu.Lock()
			r.stages = append(r.stages, i)
			r.mu.Unlock()
		},
		OnComplete: func() {
			r.mu.Lock()
			r.completes++
			r.mu.Unlock()
		},
	}
}

func (r *recorder) events() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.progress) + len(r.stages) + r.completes
}

func TestDefaultSchedule_Valid(t *testing.T) {
	require.NoError(t, DefaultSchedule().Validate())
}

func TestSchedule_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schedule)
	}{
		{"zero total", func(s *Schedule) { s.Total = 0 }},
		{"zero tick", func(s *Schedule) { s.Tick = 0 }},
		{"tick beyond total", func(s *Schedule) { s.Tick = s.Total + time.Millisecond }},
		{"missing offset", func(s *Schedule) { s.StageOffsets = s.StageOffsets[:2] }},
		{"decreasing offsets", func(s *Schedule) { s.StageOffsets[1] = s.StageOffsets[0] }},
		{"offset past total", func(s *Schedule) { s.StageOffsets[2] = s.Total }},
		{"inverted steps", func(s *Schedule) { s.MinStep, s.MaxStep = 3, 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchedule()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestStageLabels(t *testing.T) {
	labels := StageLabels("TSLA")
	require.Len(t, labels, StageCount)
	assert.Equal(t, "Connecting to market data streams for TSLA...", labels[0])
	assert.Equal(t, "Generating predictive alpha strategies...", labels[3])
	assert.Equal(t, labels[0], StageLabel("TSLA", -1))
	assert.Equal(t, labels[3], StageLabel("TSLA", 99))
}

func TestNew_InvalidScheduleFallsBack(t *testing.T) {
	s := New(Schedule{})
	assert.Equal(t, DefaultSchedule().Total, s.Schedule().Total)
}

func TestSequencer_RunsToCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	s := New(fastSchedule(), WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, s.Start(context.Background(), rec.hooks()))

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sequencer did not finish")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.NotEmpty(t, rec.progress)
	for i := 1; i < len(rec.progress); i++ {
		if rec.progress[i] < rec.progress[i-1] {
			t.Errorf("progress decreased at %d: %v -> %v", i, rec.progress[i-1], rec.progress[i])
		}
	}
	for _, p := range rec.progress {
		if p > 100 {
			t.Errorf("progress %v exceeds 100", p)
		}
	}
	assert.Equal(t, 100.0, rec.progress[len(rec.progress)-1])
	assert.Equal(t, 1, rec.completes)

	prev := 0
	for _, st := range rec.stages {
		if st < prev || st > StageCount-1 {
			t.Errorf("stage sequence %v not monotonic within [0,%d]", rec.stages, StageCount-1)
			break
		}
		prev = st
	}
}

func TestSequencer_StartTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(fastSchedule())
	require.NoError(t, s.Start(context.Background(), Hooks{}))
	err := s.Start(context.Background(), Hooks{})
	assert.True(t, errors.Is(err, ErrAlreadyStarted))
	s.Stop()
}

func TestSequencer_StopSilencesHooks(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := DefaultSchedule()
	rec := &recorder{}
	s := New(sched)
	require.NoError(t, s.Start(context.Background(), rec.hooks()))

	time.Sleep(120 * time.Millisecond)
	s.Stop()
	after := rec.events()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, after, rec.events(), "hooks fired after Stop returned")

	rec.mu.Lock()
	assert.Zero(t, rec.completes)
	rec.mu.Unlock()

	// idempotent
	s.Stop()
}

func TestSequencer_ContextCancelStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	s := New(DefaultSchedule())
	require.NoError(t, s.Start(ctx, rec.hooks()))
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("sequencer ignored context cancellation")
	}
	rec.mu.Lock()
	assert.Zero(t, rec.completes)
	rec.mu.Unlock()
}

func TestSequencer_StopBeforeStart(t *testing.T) {
	s := New(fastSchedule())
	s.Stop()
}
