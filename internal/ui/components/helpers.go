// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "strconv"

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// fmtPercent formats a 0-100 value as a whole percentage.
func fmtPercent(p float64) string {
	return strconv.Itoa(int(max(0, min(100, p)))) + "%"
}
