// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Loading screen spinner
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Assistant "Typing..." indicator
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+"}
)

// RenderProgressBar draws an ASCII bar of the given width for a 0-100
// percentage. Values outside the range are clamped.
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))

	filled := float64(width) * percent / 100
	full := int(filled)
	partial := int((filled - float64(full)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width)
	sb.WriteString(strings.Repeat(ProgressFull, full))
	if full < width && partial > 0 {
		sb.WriteString(ProgressPartial[partial-1])
		full++
	}
	sb.WriteString(strings.Repeat(ProgressEmpty, width-full))
	return sb.String()
}

// SparkBlocks are the eight bar heights used by chart sparklines.
var SparkBlocks = []rune("▁▂▃▄▅▆▇█")
