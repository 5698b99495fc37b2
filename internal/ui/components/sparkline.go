// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// Sparkline renders values as a single row of block characters, resampled to
// width columns. A flat series draws at mid height; an empty one draws
// nothing.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	samples := resample(values, width)

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	levels := len(styles.SparkBlocks) - 1
	var sb strings.Builder
	for _, v := range samples {
		idx := levels / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(levels))
		}
		sb.WriteRune(styles.SparkBlocks[idx])
	}
	return sb.String()
}

// resample picks width points spread evenly across values. Short series are
// returned unchanged rather than stretched.
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(max(width-1, 1))
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}
