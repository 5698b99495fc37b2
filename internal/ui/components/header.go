// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line title bar.
type Header struct {
	Title    string // brand, default "TrackBets"
	Ticker   string // active ticker, empty outside a cycle
	Intent   string // intent label, empty on landing
	Verified bool
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with the default brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "TrackBets", Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header, dropping the right-hand meta when it does not fit.
func (h *Header) View() string {
	t := h.theme
	left := t.HeaderBrand.Render(h.Title)
	if h.Ticker != "" {
		left += t.HeaderMeta.Render("  " + h.Ticker)
	}

	var meta []string
	if h.Intent != "" {
		meta = append(meta, h.Intent)
	}
	if h.Verified {
		meta = append(meta, "verified")
	}
	right := t.HeaderMeta.Render(strings.Join(meta, " | "))

	inner := h.Width - t.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(inner-lipgloss.Width(left), 0)
	}
	fill := t.HeaderMeta.Render(strings.Repeat(" ", gap))
	return t.Header.Width(max(h.Width, 0)).Render(left + fill + right)
}
