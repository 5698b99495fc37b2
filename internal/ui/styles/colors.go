// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND AND MARKET COLORS
// =============================================================================

// Gold - Brand accent, HOLD verdicts, selected intent card
var Gold = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C453"}

// Bull - Rising prices, BUY verdicts
var Bull = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

// Bear - Falling prices, SELL verdicts, errors
var Bear = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}

// Accent - Assistant highlights and focus ring
var Accent = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Warn - Mock data badge
var Warn = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0B0F17"}

// SurfaceDim - Header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"}

// SurfaceBright - Cards and panels
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#1F2937"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#D1D5DB"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0B0F17"}

// =============================================================================
// CHAT BUBBLE COLORS
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#312E81"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#312E81", Dark: "#E0E7FF"}
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text indicators shown alongside colors.
type StatusIndicatorSet struct {
	Up      string
	Down    string
	Flat    string
	Mock    string
	Pending string
}

// StatusIndicators are ASCII so they survive any terminal font.
var StatusIndicators = StatusIndicatorSet{
	Up:      "^",
	Down:    "v",
	Flat:    "=",
	Mock:    "[MOCK]",
	Pending: "[..]",
}
