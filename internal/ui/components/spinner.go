// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a labelled activity indicator. It only ticks while active.
type Spinner struct {
	spinner  spinner.Model
	message  string
	isActive bool
	theme    *styles.Theme
}

// NewSpinner creates an inactive spinner from a frame set.
func NewSpinner(theme *styles.Theme, frames styles.SpinnerConfig, message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: frames.Frames, FPS: frames.Duration()}
	return Spinner{spinner: s, message: message, theme: theme}
}

// NewTypingSpinner creates the assistant's "Typing..." indicator.
func NewTypingSpinner(theme *styles.Theme) Spinner {
	return NewSpinner(theme, styles.DotsSpinner, "Typing")
}

// SetTheme swaps the palette.
func (s *Spinner) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start() tea.Cmd {
	if s.isActive {
		return nil
	}
	s.isActive = true
	return s.spinner.Tick
}

// Stop deactivates the spinner; pending ticks are ignored.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Update advances the animation on its own tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the message followed by the animated frame.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}
	return s.theme.Typing.Render(s.message + s.spinner.View())
}
