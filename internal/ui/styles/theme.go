// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects how the theme decides between dark and light.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode maps a config value onto a Mode; unknown values mean auto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	}
	return ModeAuto
}

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// FRAME
	// ==========================================================================

	App          lipgloss.Style
	Header       lipgloss.Style
	HeaderBrand  lipgloss.Style
	HeaderMeta   lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// TEXT
	// ==========================================================================

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style

	// ==========================================================================
	// LANDING AND INTAKE
	// ==========================================================================

	IntentCard         lipgloss.Style
	IntentCardSelected lipgloss.Style
	FieldLabel         lipgloss.Style
	FieldLabelFocused  lipgloss.Style
	Button             lipgloss.Style
	ButtonDisabled     lipgloss.Style

	// ==========================================================================
	// LOADING
	// ==========================================================================

	StageDone    lipgloss.Style
	StageActive  lipgloss.Style
	StagePending lipgloss.Style

	// ==========================================================================
	// DETAIL
	// ==========================================================================

	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	Price        lipgloss.Style
	Up           lipgloss.Style
	Down         lipgloss.Style
	SignalBuy    lipgloss.Style
	SignalSell   lipgloss.Style
	SignalHold   lipgloss.Style
	MockBadge    lipgloss.Style
	Chart        lipgloss.Style
	InsightTitle lipgloss.Style
	InsightText  lipgloss.Style

	// ==========================================================================
	// ASSISTANT
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	FallbackBubble  lipgloss.Style
	Typing          lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	OverlayBox   lipgloss.Style
	OverlayTitle lipgloss.Style
}

// NewTheme creates a theme. ModeAuto follows the terminal background.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := true
	switch mode {
	case ModeLight:
		isDark = false
	case ModeAuto:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// SetDark switches palettes and rebuilds every style.
func (t *Theme) SetDark(dark bool) {
	if t.IsDark == dark {
		return
	}
	t.IsDark = dark
	t.initStyles()
}

// Color resolves an adaptive pair against the theme's own dark flag.
func (t *Theme) Color(c lipgloss.AdaptiveColor) lipgloss.Color {
	if t.IsDark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	c := t.Color

	t.App = lipgloss.NewStyle().Foreground(c(TextPrimary))

	t.Header = lipgloss.NewStyle().
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(Gold)).
		Background(c(SurfaceDim))
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(c(TextMuted)).
		Background(c(SurfaceDim))
	t.StatusBar = lipgloss.NewStyle().
		Foreground(c(TextSecondary)).
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(Accent)).
		Background(c(SurfaceDim))
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(c(TextMuted)).
		Background(c(SurfaceDim))

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(c(TextPrimary))
	t.Subtitle = lipgloss.NewStyle().Foreground(c(TextSecondary))
	t.Muted = lipgloss.NewStyle().Foreground(c(TextMuted))
	t.Error = lipgloss.NewStyle().Bold(true).Foreground(c(Bear))

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 2).
		Width(28)
	t.IntentCard = card.Foreground(c(TextSecondary)).BorderForeground(c(Overlay))
	t.IntentCardSelected = card.Foreground(c(TextPrimary)).BorderForeground(c(Gold)).Bold(true)

	t.FieldLabel = lipgloss.NewStyle().Foreground(c(TextSecondary))
	t.FieldLabelFocused = lipgloss.NewStyle().Foreground(c(Gold)).Bold(true)
	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(TextInverse)).
		Background(c(Gold)).
		Padding(0, 3)
	t.ButtonDisabled = lipgloss.NewStyle().
		Foreground(c(TextMuted)).
		Background(c(SurfaceBright)).
		Padding(0, 3)

	t.StageDone = lipgloss.NewStyle().Foreground(c(Bull))
	t.StageActive = lipgloss.NewStyle().Foreground(c(Gold)).Bold(true)
	t.StagePending = lipgloss.NewStyle().Foreground(c(TextMuted))

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Overlay)).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(c(Gold))
	t.Price = lipgloss.NewStyle().Bold(true).Foreground(c(TextPrimary))
	t.Up = lipgloss.NewStyle().Foreground(c(Bull))
	t.Down = lipgloss.NewStyle().Foreground(c(Bear))

	signal := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(c(TextInverse))
	t.SignalBuy = signal.Background(c(Bull))
	t.SignalSell = signal.Background(c(Bear))
	t.SignalHold = signal.Background(c(Gold))
	t.MockBadge = lipgloss.NewStyle().Bold(true).Foreground(c(Warn))
	t.Chart = lipgloss.NewStyle().Foreground(c(Accent))
	t.InsightTitle = lipgloss.NewStyle().Bold(true).Foreground(c(Accent))
	t.InsightText = lipgloss.NewStyle().Foreground(c(TextSecondary))

	t.UserBubble = lipgloss.NewStyle().
		Foreground(c(UserBubbleFg)).
		Background(c(UserBubbleBg)).
		Padding(0, 1).
		MarginLeft(4)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(c(AssistantBubbleFg)).
		Background(c(AssistantBubbleBg)).
		Padding(0, 1).
		MarginRight(4)
	t.FallbackBubble = t.AssistantBubble.Foreground(c(Bear))
	t.Typing = lipgloss.NewStyle().Italic(true).Foreground(c(TextMuted))
	t.Timestamp = lipgloss.NewStyle().Foreground(c(TextMuted))

	t.OverlayBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(c(Gold)).
		Background(c(SurfaceBright)).
		Padding(1, 3)
	t.OverlayTitle = lipgloss.NewStyle().Bold(true).Foreground(c(Gold)).Background(c(SurfaceBright))
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	if t.Width < 120 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: chat below the report
	LayoutMedium                   // 80-120 columns
	LayoutWide                     // >= 120 columns: chat beside the report
)

// SignalStyle returns the badge style for a verdict signal.
func (t *Theme) SignalStyle(signal string) lipgloss.Style {
	switch strings.ToUpper(signal) {
	case "BUY", "STRONG BUY":
		return t.SignalBuy
	case "SELL", "STRONG SELL":
		return t.SignalSell
	}
	return t.SignalHold
}
