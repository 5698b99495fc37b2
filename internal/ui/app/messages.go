// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/loop"
	"github.com/jeranaias/trackbets-tui/internal/profile"
)

// =============================================================================
// MESSAGES
// =============================================================================

// callbackMsg carries one closure posted to the loop.
type callbackMsg struct {
	fn func()
}

// loopClosedMsg means the loop will deliver nothing more.
type loopClosedMsg struct{}

// profileLoadedMsg reports the profile read at startup.
type profileLoadedMsg struct {
	profile profile.Profile
	err     error
}

// verifyDoneMsg reports the end of a verification attempt.
type verifyDoneMsg struct {
	email string
	err   error
}

// profileSavedMsg reports a profile write (sign out, theme).
type profileSavedMsg struct {
	err error
}

// ConfigChangedMsg is sent by the config watcher when the file changes.
// Err is set when the new file could not be loaded.
type ConfigChangedMsg struct {
	Config *config.Config
	Err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForCallback blocks until the loop has a closure and hands it to Update.
func waitForCallback(ctx context.Context, l *loop.Loop) tea.Cmd {
	return func() tea.Msg {
		fn, ok := l.Next(ctx)
		if !ok {
			return loopClosedMsg{}
		}
		return callbackMsg{fn: fn}
	}
}

func loadProfile(ctx context.Context, m *profile.Manager) tea.Cmd {
	return func() tea.Msg {
		p, err := m.Load(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func verifyEmail(ctx context.Context, m *profile.Manager, email string) tea.Cmd {
	return func() tea.Msg {
		return verifyDoneMsg{email: email, err: m.Verify(ctx, email)}
	}
}

func signOut(ctx context.Context, m *profile.Manager) tea.Cmd {
	return func() tea.Msg {
		return profileSavedMsg{err: m.SignOut(ctx)}
	}
}

func saveTheme(ctx context.Context, m *profile.Manager, theme profile.Theme) tea.Cmd {
	return func() tea.Msg {
		return profileSavedMsg{err: m.SetTheme(ctx, theme)}
	}
}
