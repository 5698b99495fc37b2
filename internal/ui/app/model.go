// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/loading"
	"github.com/jeranaias/trackbets-tui/internal/loop"
	"github.com/jeranaias/trackbets-tui/internal/profile"
	"github.com/jeranaias/trackbets-tui/internal/session"
	"github.com/jeranaias/trackbets-tui/internal/ui/components"
	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	chatCharLimit = 500
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps wires the model to the rest of the application.
type Deps struct {
	// Config supplies the theme, chat width and loading schedule. Nil uses
	// config.Default().
	Config *config.Config

	// Fetcher is required.
	Fetcher flow.Fetcher

	// Assistant answers chat and insight requests. Nil hides the chat.
	Assistant session.Assistant

	// Profile persists verification and theme. Nil disables the profile
	// overlay and theme persistence.
	Profile *profile.Manager

	// NewSequencer overrides the configured loading schedule.
	NewSequencer func() flow.Sequencer

	Logger  *zap.Logger
	Version string
}

// =============================================================================
// MODEL
// =============================================================================

type overlay int

const (
	overlayNone overlay = iota
	overlaySettings
	overlayProfile
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	loop   *loop.Loop
	orch   *flow.Orchestrator
	deps   Deps
	keys   KeyMap
	logger *zap.Logger

	theme    *styles.Theme
	header   *components.Header
	status   *components.StatusBar
	progress *components.StageProgress
	typing   components.Spinner
	md       *components.Markdown
	mdCache  map[mdKey]string

	width  int
	height int

	// shown and cycle record what the widgets were last prepared for.
	shown flow.State
	cycle uint64

	// Landing
	intentCursor int

	// Intake
	fields  []flow.Field
	inputs  []textinput.Model
	focus   int
	formErr string

	// Detail
	chatInput  textinput.Model
	chatView   viewport.Model
	reportView viewport.Model
	chatLen    int

	// Overlays
	overlay      overlay
	profile      profile.Profile
	emailInput   textinput.Model
	verifying    bool
	verifyCancel context.CancelFunc
	profileErr   string

	notice   string
	quitting bool
}

type mdKey struct {
	text  string
	width int
	dark  bool
}

// New creates the model in the landing state.
func New(deps Deps) Model {
	if deps.Fetcher == nil {
		panic("app: Deps.Fetcher is required")
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := loop.NewLoop(loop.DefaultBuffer)

	newSequencer := deps.NewSequencer
	if newSequencer == nil {
		sched := deps.Config.Loading.Schedule()
		newSequencer = func() flow.Sequencer { return loading.New(sched) }
	}

	var newSession func(assistant.Quote) *session.Session
	if deps.Assistant != nil {
		newSession = func(q assistant.Quote) *session.Session {
			return session.New(q, deps.Assistant, l, session.Config{Logger: logger})
		}
	}

	orch := flow.New(flow.Options{
		Fetcher:      deps.Fetcher,
		Poster:       l,
		NewSequencer: newSequencer,
		NewSession:   newSession,
		Logger:       logger,
	})

	theme := styles.NewTheme(styles.ParseMode(deps.Config.UI.Theme))
	theme.SetSize(defaultWidth, defaultHeight)

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Prompt = "> "

	chat := textinput.New()
	chat.Placeholder = "Ask the analyst about this asset..."
	chat.CharLimit = chatCharLimit
	chat.Prompt = "> "

	m := Model{
		ctx:        ctx,
		cancel:     cancel,
		loop:       l,
		orch:       orch,
		deps:       deps,
		keys:       DefaultKeyMap(),
		logger:     logger.Named("ui"),
		theme:      theme,
		header:     components.NewHeader(theme),
		status:     components.NewStatusBar(theme),
		progress:   components.NewStageProgress(theme, nil),
		typing:     components.NewTypingSpinner(theme),
		md:         &components.Markdown{},
		mdCache:    make(map[mdKey]string),
		width:      defaultWidth,
		height:     defaultHeight,
		shown:      flow.StateLanding,
		chatInput:  chat,
		chatView:   viewport.New(0, 0),
		reportView: viewport.New(0, 0),
		emailInput: email,
	}
	m.layout()
	return m
}

// Orchestrator exposes the state machine, mainly for tests.
func (m Model) Orchestrator() *flow.Orchestrator { return m.orch }

// Init starts draining the loop and loads the profile.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForCallback(m.ctx, m.loop)}
	if m.deps.Profile != nil {
		cmds = append(cmds, loadProfile(m.ctx, m.deps.Profile))
	}
	return tea.Batch(cmds...)
}

// Close tears down the current cycle and stops the loop. It is safe to call
// after the program has exited.
func (m Model) Close() {
	if m.verifyCancel != nil {
		m.verifyCancel()
	}
	m.orch.Shutdown()
	m.loop.Close()
	m.cancel()
}

// =============================================================================
// STATE SYNC
// =============================================================================

// sync prepares widgets after the orchestrator changed screen or cycle and
// keeps the typing indicator in step with the session.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	state := m.orch.State()
	if state != m.shown || m.orch.Cycle() != m.cycle {
		cmds = append(cmds, m.enter(state))
		m.shown = state
		m.cycle = m.orch.Cycle()
	}

	sess := m.orch.Session()
	pending := sess != nil && sess.ReplyPending()
	switch {
	case pending && !m.typing.IsActive():
		cmds = append(cmds, m.typing.Start())
	case !pending && m.typing.IsActive():
		m.typing.Stop()
	}

	return tea.Batch(cmds...)
}

// enter resets the widgets for a newly shown screen.
func (m *Model) enter(state flow.State) tea.Cmd {
	m.formErr = ""
	switch state {
	case flow.StateIntake:
		m.fields = flow.IntakeFields(m.orch.Intent())
		m.inputs = make([]textinput.Model, len(m.fields))
		for i, f := range m.fields {
			in := textinput.New()
			in.Placeholder = f.Placeholder
			in.CharLimit = 64
			in.Prompt = "> "
			m.inputs[i] = in
		}
		m.focus = 0
		return m.inputs[0].Focus()

	case flow.StateLoading:
		m.progress.Labels = loading.StageLabels(m.orch.Ticker())

	case flow.StateDetail:
		m.chatInput.Reset()
		m.chatLen = 0
		m.reportView.GotoTop()
		return m.chatInput.Focus()

	case flow.StateLanding:
		m.inputs = nil
		m.fields = nil
		m.chatInput.Blur()
	}
	return nil
}

// applyDark switches the palette everywhere it is cached.
func (m *Model) applyDark(dark bool) {
	if m.theme.IsDark == dark {
		return
	}
	m.theme.SetDark(dark)
	m.progress.SetTheme(m.theme)
	clear(m.mdCache)
}

// markdown renders md through glamour once per (text, width, palette).
func (m *Model) markdown(text string, width int) string {
	k := mdKey{text: text, width: width, dark: m.theme.IsDark}
	if out, ok := m.mdCache[k]; ok {
		return out
	}
	out := m.md.Render(text, width, m.theme.IsDark)
	if len(m.mdCache) > 256 {
		clear(m.mdCache)
	}
	m.mdCache[k] = out
	return out
}
