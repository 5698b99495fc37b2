// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeDark, ParseMode(" Dark "))
	assert.Equal(t, ModeLight, ParseMode("light"))
	assert.Equal(t, ModeAuto, ParseMode("neon"))
	assert.Equal(t, ModeAuto, ParseMode(""))
}

func TestNewTheme_ExplicitModes(t *testing.T) {
	assert.True(t, NewTheme(ModeDark).IsDark)
	assert.False(t, NewTheme(ModeLight).IsDark)
}

func TestTheme_Color(t *testing.T) {
	theme := NewTheme(ModeDark)
	assert.Equal(t, lipgloss.Color(Gold.Dark), theme.Color(Gold))

	theme.SetDark(false)
	assert.False(t, theme.IsDark)
	assert.Equal(t, lipgloss.Color(Gold.Light), theme.Color(Gold))
	assert.Equal(t, lipgloss.Color(Gold.Light), theme.PanelTitle.GetForeground())
}

func TestTheme_SignalStyle(t *testing.T) {
	theme := NewTheme(ModeDark)
	assert.Equal(t, theme.SignalBuy.GetBackground(), theme.SignalStyle("buy").GetBackground())
	assert.Equal(t, theme.SignalSell.GetBackground(), theme.SignalStyle("STRONG SELL").GetBackground())
	assert.Equal(t, theme.SignalHold.GetBackground(), theme.SignalStyle("").GetBackground())
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme(ModeDark)
	for _, tc := range []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{79, LayoutNarrow},
		{80, LayoutMedium},
		{119, LayoutMedium},
		{120, LayoutWide},
	} {
		theme.SetSize(tc.width, 40)
		assert.Equal(t, tc.want, theme.GetLayoutMode(), "width %d", tc.width)
	}
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, "", RenderProgressBar(0, 50))
	assert.Equal(t, "----------", RenderProgressBar(10, -5))
	assert.Equal(t, "##########", RenderProgressBar(10, 250))
	assert.Equal(t, "#####-----", RenderProgressBar(10, 50))
	assert.Equal(t, "#####:----", RenderProgressBar(10, 55))
	for p := 0.0; p <= 100; p += 7.3 {
		assert.Len(t, RenderProgressBar(20, p), 20)
	}
}

func TestSpinnerDuration(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, LineSpinner.Duration())
	assert.Equal(t, time.Second, SpinnerConfig{}.Duration())
}
