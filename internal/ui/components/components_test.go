// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 10))
	assert.Equal(t, "", Sparkline([]float64{1, 2}, 0))
	assert.Equal(t, "▁▄█", Sparkline([]float64{1, 2, 3}, 10))
	assert.Equal(t, "▄▄▄", Sparkline([]float64{5, 5, 5}, 10))

	long := make([]float64, 100)
	for i := range long {
		long[i] = float64(i)
	}
	line := Sparkline(long, 20)
	assert.Equal(t, 20, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "▁"))
	assert.True(t, strings.HasSuffix(line, "█"))
}

func TestFmtPercent(t *testing.T) {
	assert.Equal(t, "0%", fmtPercent(-3))
	assert.Equal(t, "42%", fmtPercent(42.9))
	assert.Equal(t, "100%", fmtPercent(130))
}

func TestHeader_FitsWidth(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	h := NewHeader(theme)
	h.Ticker = "NVDA"
	h.Intent = "Buy"
	h.Verified = true
	for _, w := range []int{20, 60, 120} {
		h.SetWidth(w)
		assert.Equal(t, w, lipgloss.Width(h.View()), "width %d", w)
	}
	h.SetWidth(120)
	assert.Contains(t, h.View(), "verified")
}

func TestStatusBar_DropsOverflow(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	s := NewStatusBar(theme)
	s.Shortcuts = []Shortcut{{"enter", "select"}, {"esc", "back"}, {"ctrl+c", "quit"}}
	s.Message = "mock data"

	s.Width = 100
	assert.Contains(t, s.View(), "quit")
	s.Width = 30
	view := s.View()
	assert.NotContains(t, view, "quit")
	assert.Equal(t, 30, lipgloss.Width(view))
}

func TestStageProgress_View(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	p := NewStageProgress(theme, []string{"one", "two", "three"})
	p.Stage = 1
	p.Percent = 47.6
	view := p.View()
	assert.Contains(t, view, "[x] one")
	assert.Contains(t, view, "[>] two")
	assert.Contains(t, view, "[ ] three")
	assert.Contains(t, view, "47%")
}

func TestSpinner_OnlyRendersWhenActive(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	s := NewTypingSpinner(theme)
	assert.Empty(t, s.View())
	assert.NotNil(t, s.Start())
	assert.Nil(t, s.Start())
	assert.Contains(t, s.View(), "Typing")
	s.Stop()
	assert.Empty(t, s.View())
}

func TestMarkdown_FallsBackToText(t *testing.T) {
	var md Markdown
	out := md.Render("**Strong** momentum", 40, true)
	assert.Contains(t, out, "momentum")
	assert.NotContains(t, out, "**")
}
