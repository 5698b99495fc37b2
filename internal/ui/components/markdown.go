// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders AI explanations and assistant replies. The glamour
// renderer is rebuilt only when the width or palette changes.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// Render returns md formatted for the terminal, or md itself when the
// renderer cannot be built or fails.
func (m *Markdown) Render(md string, width int, dark bool) string {
	if width < 20 {
		width = 20
	}
	if m.renderer == nil || m.width != width || m.dark != dark {
		style := "light"
		if dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer, m.width, m.dark = r, width, dark
	}

	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
