// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Truncate cuts s to at most width terminal columns, ending in Ellipsis
// when anything was removed. Wide (CJK, emoji) characters count as two.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// SignedPercent formats d as "+3.45%" or "-1.20%".
func SignedPercent(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsNegative() {
		return s
	}
	return "+" + s
}
