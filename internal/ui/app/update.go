// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/profile"
	"github.com/jeranaias/trackbets-tui/internal/session"
	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)

	case callbackMsg:
		msg.fn()
		cmds = append(cmds, waitForCallback(m.ctx, m.loop))

	case loopClosedMsg:
		// nothing left to drain

	case profileLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("profile load failed", zap.Error(msg.err))
			break
		}
		m.profile = msg.profile
		if msg.profile.ThemeSaved {
			m.applyDark(msg.profile.Theme.IsDark())
		}

	case verifyDoneMsg:
		if errors.Is(msg.err, context.Canceled) {
			// abandoned with esc; a newer attempt may be running
			break
		}
		if m.verifyCancel != nil {
			m.verifyCancel()
			m.verifyCancel = nil
		}
		m.verifying = false
		if msg.err != nil {
			m.profileErr = msg.err.Error()
			break
		}
		m.profile.Verified = true
		m.profile.Email = msg.email
		m.profileErr = ""
		m.emailInput.Reset()
		m.notice = "Verified as " + msg.email

	case profileSavedMsg:
		if msg.err != nil {
			m.logger.Warn("profile save failed", zap.Error(msg.err))
			m.notice = "Could not save profile"
		}

	case ConfigChangedMsg:
		cmds = append(cmds, m.applyConfig(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		m = next
		if m.quitting {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.sync())
	m.layout()
	return m, tea.Batch(cmds...)
}

// applyConfig takes the live-reloadable settings from a changed file.
func (m *Model) applyConfig(msg ConfigChangedMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		m.notice = "Config error: " + msg.Err.Error()
		return nil
	}
	if msg.Config == nil {
		return nil
	}
	m.deps.Config = msg.Config
	switch styles.ParseMode(msg.Config.UI.Theme) {
	case styles.ModeDark:
		m.applyDark(true)
	case styles.ModeLight:
		m.applyDark(false)
	}
	m.notice = "Config reloaded"
	return nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	m.notice = ""

	switch m.overlay {
	case overlaySettings:
		return m.handleSettingsKey(msg)
	case overlayProfile:
		return m.handleProfileKey(msg)
	}

	switch m.orch.State() {
	case flow.StateLanding:
		return m.handleLandingKey(msg)
	case flow.StateIntake:
		return m.handleIntakeKey(msg)
	case flow.StateLoading:
		if key.Matches(msg, m.keys.Back) {
			m.report(m.orch.Back())
		}
		return m, nil
	case flow.StateDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(flow.Intents)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Left, m.keys.Prev):
		m.intentCursor = (m.intentCursor + n - 1) % n
	case key.Matches(msg, m.keys.Right, m.keys.Next):
		m.intentCursor = (m.intentCursor + 1) % n
	case key.Matches(msg, m.keys.Select):
		m.report(m.orch.SelectIntent(flow.Intents[m.intentCursor]))
	case key.Matches(msg, m.keys.Settings):
		m.overlay = overlaySettings
	case key.Matches(msg, m.keys.Profile):
		if m.deps.Profile != nil {
			return m.openProfile()
		}
	default:
		// 1-3 pick an intent directly
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < n {
			m.intentCursor = int(s[0] - '1')
			m.report(m.orch.SelectIntent(flow.Intents[m.intentCursor]))
		}
	}
	return m, nil
}

func (m Model) handleIntakeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.report(m.orch.Back())
		return m, nil

	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		return m, m.focusField(m.focus + 1)

	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		return m, m.focusField(m.focus - 1)

	case key.Matches(msg, m.keys.Select):
		form := make(flow.IntakeForm, len(m.fields))
		for i, f := range m.fields {
			form[f.Key] = m.inputs[i].Value()
		}
		if err := m.orch.SubmitIntake(form); err != nil {
			if errors.Is(err, flow.ErrEmptyTicker) {
				m.formErr = "Enter a ticker symbol to continue"
				return m, m.focusField(0)
			}
			m.report(err)
		}
		return m, nil
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.formErr = ""
	return m, cmd
}

// focusField moves focus to field i, wrapping at both ends.
func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.inputs)
	if n == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (i%n + n) % n
	return m.inputs[m.focus].Focus()
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	sess := m.orch.Session()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.orch.GoHome()
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.report(m.orch.Retry())
		return m, nil
	case key.Matches(msg, m.keys.Regenerate):
		if sess != nil {
			m.reportSession(sess.RegenerateInsights())
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.reportView.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.reportView.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.ChatUp):
		m.chatView.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.ChatDown):
		m.chatView.ViewDown()
		return m, nil
	}

	if sess == nil {
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Select) {
		if err := sess.Send(m.chatInput.Value()); err != nil {
			m.reportSession(err)
			return m, nil
		}
		m.chatInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

// report surfaces an orchestrator error. Transition errors only happen on
// stale key presses and are logged rather than shown.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	var te *flow.TransitionError
	if errors.As(err, &te) {
		m.logger.Debug("ignored event", zap.Error(err))
		return
	}
	m.notice = err.Error()
}

func (m *Model) reportSession(err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrEmptyMessage):
		// blank input is a no-op
	case errors.Is(err, session.ErrReplyPending):
		m.notice = "Waiting for the analyst to reply"
	case errors.Is(err, session.ErrRegenerating):
		m.notice = "Insights are already regenerating"
	default:
		m.notice = err.Error()
	}
}

// =============================================================================
// OVERLAY KEYS
// =============================================================================

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back, m.keys.Settings):
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.ToggleTheme):
		current := profile.ThemeLight
		if m.theme.IsDark {
			current = profile.ThemeDark
		}
		next := current.Toggle()
		m.applyDark(next.IsDark())
		m.profile.Theme = next
		m.profile.ThemeSaved = true
		if m.deps.Profile != nil {
			return m, saveTheme(m.ctx, m.deps.Profile, next)
		}
	case key.Matches(msg, m.keys.Profile):
		if m.deps.Profile != nil {
			return m.openProfile()
		}
	}
	return m, nil
}

func (m Model) openProfile() (Model, tea.Cmd) {
	m.overlay = overlayProfile
	m.profileErr = ""
	if m.profile.Verified {
		return m, nil
	}
	return m, m.emailInput.Focus()
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		if m.verifyCancel != nil {
			m.verifyCancel()
			m.verifyCancel = nil
		}
		m.verifying = false
		m.overlay = overlayNone
		m.emailInput.Blur()
		return m, nil
	}

	if m.profile.Verified {
		if key.Matches(msg, m.keys.SignOut) {
			m.profile.Verified = false
			m.notice = "Signed out"
			return m, signOut(m.ctx, m.deps.Profile)
		}
		return m, nil
	}

	if m.verifying {
		return m, nil
	}

	if key.Matches(msg, m.keys.Select) {
		email := strings.TrimSpace(m.emailInput.Value())
		if err := profile.ValidateEmail(email); err != nil {
			m.profileErr = err.Error()
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.verifying = true
		m.verifyCancel = cancel
		m.profileErr = ""
		return m, verifyEmail(ctx, m.deps.Profile, email)
	}

	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	return m, cmd
}
