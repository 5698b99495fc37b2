// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loading

import (
	"fmt"
	"strings"
	"time"
)

// StageCount is the number of narrated stages in a loading run.
const StageCount = 4

// stageTemplates narrate the simulated analysis. The first one names the ticker.
var stageTemplates = [StageCount]string{
	"Connecting to market data streams for %s...",
	"Analyzing price action & volatility models...",
	"Processing sentiment from global news sources...",
	"Generating predictive alpha strategies...",
}

// Schedule is the fixed wall-clock plan a Sequencer follows.
type Schedule struct {
	// Total is the time from Start to completion.
	Total time.Duration
	// Tick is the progress update interval.
	Tick time.Duration
	// StageOffsets are the times, measured from Start, at which stages
	// 1..StageCount-1 begin. Stage 0 begins immediately.
	StageOffsets []time.Duration
	// MinStep and MaxStep bound the random progress increment per tick.
	MinStep float64
	MaxStep float64
}

// DefaultSchedule returns the five second, four stage schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		Total:        5 * time.Second,
		Tick:         50 * time.Millisecond,
		StageOffsets: []time.Duration{1100 * time.Millisecond, 2200 * time.Millisecond, 3300 * time.Millisecond},
		MinStep:      0.5,
		MaxStep:      2.5,
	}
}

// Validate checks that the schedule can be run.
func (s Schedule) Validate() error {
	if s.Total <= 0 {
		return fmt.Errorf("loading: total duration must be positive, got %s", s.Total)
	}
	if s.Tick <= 0 || s.Tick > s.Total {
		return fmt.Errorf("loading: tick %s must be in (0, %s]", s.Tick, s.Total)
	}
	if len(s.StageOffsets) != StageCount-1 {
		return fmt.Errorf("loading: need %d stage offsets, got %d", StageCount-1, len(s.StageOffsets))
	}
	var prev time.Duration
	for i, off := range s.StageOffsets {
		if off <= prev || off >= s.Total {
			return fmt.Errorf("loading: stage offset %d (%s) must increase and stay below %s", i, off, s.Total)
		}
		prev = off
	}
	if s.MinStep <= 0 || s.MaxStep < s.MinStep {
		return fmt.Errorf("loading: invalid step range [%g, %g)", s.MinStep, s.MaxStep)
	}
	return nil
}

// StageLabels returns the narration for each stage with ticker filled in.
func StageLabels(ticker string) []string {
	labels := make([]string, StageCount)
	for i, tmpl := range stageTemplates {
		if strings.Contains(tmpl, "%s") {
			labels[i] = fmt.Sprintf(tmpl, ticker)
		} else {
			labels[i] = tmpl
		}
	}
	return labels
}

// StageLabel returns the narration for stage i, clamped to the valid range.
func StageLabel(ticker string, i int) string {
	labels := StageLabels(ticker)
	if i < 0 {
		i = 0
	}
	if i >= len(labels) {
		i = len(labels) - 1
	}
	return labels[i]
}
