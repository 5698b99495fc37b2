// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/model"
	"github.com/jeranaias/trackbets-tui/internal/ui/components"
	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
	"github.com/jeranaias/trackbets-tui/internal/util"
)

const minChatHeight = 8

// =============================================================================
// LAYOUT
// =============================================================================

// detailGeometry splits the body between report and chat.
type detailGeometry struct {
	side                   bool // chat beside the report
	reportW, reportH       int
	chatW, chatH           int
	reportInner, chatInner int
	reportLines, chatLines int
}

func (m *Model) bodyHeight() int {
	return max(m.height-2, 4)
}

func (m *Model) geometry() detailGeometry {
	frameW := m.theme.Panel.GetHorizontalFrameSize()
	frameH := m.theme.Panel.GetVerticalFrameSize()
	body := m.bodyHeight()

	var g detailGeometry
	if m.deps.Assistant != nil && m.theme.GetLayoutMode() == styles.LayoutWide {
		g.side = true
		g.chatW = min(max(m.deps.Config.UI.ChatWidth, 24), m.width/2)
		g.reportW = m.width - g.chatW
		g.reportH, g.chatH = body, body
	} else {
		g.reportW, g.chatW = m.width, m.width
		g.reportH = body
		if m.deps.Assistant != nil {
			g.chatH = max(body*2/5, minChatHeight)
			g.reportH = max(body-g.chatH, 3)
		}
	}

	g.reportInner = max(g.reportW-frameW, 10)
	g.chatInner = max(g.chatW-frameW, 10)
	g.reportLines = max(g.reportH-frameH, 1)
	// title, typing line and input sit below the scrolled history
	g.chatLines = max(g.chatH-frameH-3, 1)
	return g
}

// layout resizes widgets and refreshes viewport content.
func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.status.Width = m.width
	m.progress.SetWidth(min(m.width-4, 72))

	m.header.Ticker = ""
	m.header.Intent = ""
	if m.orch.State() != flow.StateLanding {
		m.header.Intent = m.orch.Intent().Label()
		m.header.Ticker = m.orch.Ticker()
	}
	m.header.Verified = m.profile.Verified
	m.status.Shortcuts = m.shortcuts()
	m.status.Message = m.notice
	m.progress.Stage = m.orch.Stage()
	m.progress.Percent = m.orch.Progress()

	if m.orch.State() != flow.StateDetail {
		return
	}

	g := m.geometry()
	m.reportView.Width, m.reportView.Height = g.reportInner, g.reportLines
	m.reportView.SetContent(m.renderReport(g.reportInner))

	sess := m.orch.Session()
	if sess == nil {
		return
	}
	m.chatView.Width, m.chatView.Height = g.chatInner, g.chatLines
	m.chatInput.Width = max(g.chatInner-4, 8)
	history := sess.History()
	m.chatView.SetContent(m.renderHistory(history, g.chatInner))
	if len(history) != m.chatLen {
		m.chatLen = len(history)
		m.chatView.GotoBottom()
	}
}

func (m *Model) shortcuts() []components.Shortcut {
	var bs []key.Binding
	if m.overlay != overlayNone {
		bs = append(bs, m.keys.Back)
		switch {
		case m.overlay == overlaySettings:
			bs = append(bs, m.keys.ToggleTheme)
		case m.profile.Verified:
			bs = append(bs, m.keys.SignOut)
		default:
			bs = append(bs, m.keys.Select)
		}
	} else {
		switch m.orch.State() {
		case flow.StateLanding:
			bs = []key.Binding{m.keys.Left, m.keys.Select, m.keys.Settings}
			if m.deps.Profile != nil {
				bs = append(bs, m.keys.Profile)
			}
			bs = append(bs, m.keys.Quit)
		case flow.StateIntake:
			bs = []key.Binding{m.keys.Next, m.keys.Select, m.keys.Back}
		case flow.StateLoading:
			bs = []key.Binding{m.keys.Back}
		case flow.StateDetail:
			bs = []key.Binding{m.keys.Back, m.keys.Retry, m.keys.ScrollUp}
			if m.orch.Session() != nil {
				bs = append(bs, m.keys.Regenerate, m.keys.ChatUp)
			}
		}
	}

	out := make([]components.Shortcut, 0, len(bs))
	for _, b := range bs {
		k, d := hint(b)
		out = append(out, components.Shortcut{Key: k, Desc: d})
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.orch.State() {
	case flow.StateLanding:
		body = m.viewLanding()
	case flow.StateIntake:
		body = m.viewIntake()
	case flow.StateLoading:
		body = m.viewLoading()
	case flow.StateDetail:
		body = m.viewDetail()
	}

	h := m.bodyHeight()
	if m.overlay != overlayNone {
		body = lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, m.viewOverlay())
	} else {
		body = lipgloss.NewStyle().Width(m.width).Height(h).MaxHeight(h).Render(body)
	}

	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.status.View(),
	))
}

func (m Model) viewLanding() string {
	t := m.theme
	title := t.Title.Render("What are you looking to do?")
	sub := t.Subtitle.Render("Pick an intent and TrackBets will pull a live analysis.")

	cards := make([]string, len(flow.Intents))
	for i, intent := range flow.Intents {
		style := t.IntentCard
		if i == m.intentCursor {
			style = t.IntentCardSelected
		}
		cards[i] = style.Render(fmt.Sprintf("%d  %s\n\n%s", i+1, intent.Label(), intent.Description()))
	}

	var row string
	if t.GetLayoutMode() == styles.LayoutNarrow {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, sub, "", row)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewIntake() string {
	t := m.theme
	var sb strings.Builder

	intent := m.orch.Intent()
	sb.WriteString(t.Title.Render(intent.Label() + ": tell us about the asset"))
	sb.WriteString("\n")
	sb.WriteString(t.Subtitle.Render(intent.Description()))
	sb.WriteString("\n\n")

	for i, f := range m.fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		style := t.FieldLabel
		if i == m.focus {
			style = t.FieldLabelFocused
		}
		sb.WriteString(style.Render(label))
		sb.WriteString("\n")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n\n")
	}

	if m.formErr != "" {
		sb.WriteString(t.Error.Render(m.formErr))
		sb.WriteString("\n\n")
	}

	button := t.Button
	if len(m.inputs) == 0 || strings.TrimSpace(m.inputs[0].Value()) == "" {
		button = t.ButtonDisabled
	}
	sb.WriteString(button.Render("Analyze"))

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m Model) viewLoading() string {
	t := m.theme
	content := lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Analyzing "+m.orch.Ticker()),
		t.Subtitle.Render(m.orch.StageLabel()),
		"",
		m.progress.View(),
	)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewDetail() string {
	t := m.theme
	g := m.geometry()

	report := t.Panel.
		Width(g.reportW - t.Panel.GetHorizontalBorderSize()).
		Height(g.reportH - t.Panel.GetVerticalBorderSize()).
		Render(m.reportView.View())

	sess := m.orch.Session()
	if sess == nil {
		return report
	}

	var chat strings.Builder
	chat.WriteString(t.PanelTitle.Render("Analyst"))
	chat.WriteString("\n")
	chat.WriteString(m.chatView.View())
	chat.WriteString("\n")
	chat.WriteString(m.typing.View())
	chat.WriteString("\n")
	chat.WriteString(m.chatInput.View())

	chatPanel := t.Panel.
		Width(g.chatW - t.Panel.GetHorizontalBorderSize()).
		Height(g.chatH - t.Panel.GetVerticalBorderSize()).
		Render(chat.String())

	if g.side {
		return lipgloss.JoinHorizontal(lipgloss.Top, report, chatPanel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, report, chatPanel)
}

// =============================================================================
// REPORT
// =============================================================================

// renderReport formats the analysis and insights for the report viewport.
func (m *Model) renderReport(width int) string {
	t := m.theme
	res := m.orch.Result()
	var sections []string

	if res.Kind == analysis.KindPending {
		sections = append(sections,
			t.Title.Render(res.Ticker),
			t.Muted.Render(styles.StatusIndicators.Pending+" Fetching live analysis..."),
		)
		return strings.Join(sections, "\n")
	}

	rep, err := res.Report()
	if err != nil {
		sections = append(sections,
			t.Title.Render(res.Ticker),
			t.Muted.Render("Analysis details are unavailable for this asset."),
		)
		return strings.Join(sections, "\n")
	}

	sections = append(sections, m.renderQuote(rep, res))
	sections = append(sections, m.renderVerdict(rep))

	if series := rep.Series(); len(series) > 0 {
		sections = append(sections,
			t.PanelTitle.Render("Price trend"),
			t.Chart.Render(components.Sparkline(series, width)),
		)
	}

	if rep.Analysis.Explanation != "" {
		sections = append(sections,
			t.PanelTitle.Render("Why"),
			m.markdown(rep.Analysis.Explanation, width),
		)
	}

	if len(rep.Analysis.Reasons) > 0 {
		lines := make([]string, 0, len(rep.Analysis.Reasons)+1)
		lines = append(lines, t.PanelTitle.Render("Key reasons"))
		for _, r := range rep.Analysis.Reasons {
			lines = append(lines, lipgloss.NewStyle().Width(width).Render("- "+r))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if title := rep.Analysis.Flashcard.Title; title != "" {
		sections = append(sections, t.InsightTitle.Render("Lesson: ")+title)
	}

	for _, block := range []struct{ title, text string }{
		{"Social pulse", rep.Social},
		{"News", rep.News},
	} {
		if block.text == "" {
			continue
		}
		sections = append(sections,
			t.PanelTitle.Render(block.title),
			lipgloss.NewStyle().Width(width).Render(block.text),
		)
	}

	sections = append(sections, t.Muted.Render(fmt.Sprintf("Market cap %s   Volume %s",
		analysis.FormatMarketCap(rep.PriceData.MarketCap),
		orNA(rep.PriceData.Volume.String()),
	)))

	if sess := m.orch.Session(); sess != nil {
		sections = append(sections, m.renderInsights(sess.Insights(), sess.Regenerating(), width))
	}

	return strings.Join(sections, "\n\n")
}

func (m *Model) renderQuote(rep analysis.Report, res analysis.Result) string {
	t := m.theme

	name := rep.PriceData.Name
	if name == "" {
		name = res.Ticker
	}
	head := t.Title.Render(name)
	if name != res.Ticker {
		head += t.Muted.Render("  " + res.Ticker)
	}

	change := rep.DisplayChange()
	changeStyle, arrow := t.Up, styles.StatusIndicators.Up
	switch {
	case change.IsNegative():
		changeStyle, arrow = t.Down, styles.StatusIndicators.Down
	case change.IsZero():
		arrow = styles.StatusIndicators.Flat
	}
	price := t.Price.Render(rep.Currency()+rep.DisplayPrice().StringFixed(2)) + "  " +
		changeStyle.Render(arrow+" "+util.SignedPercent(change))

	lines := []string{head, price}
	if res.Kind == analysis.KindMock {
		lines = append(lines, t.MockBadge.Render(styles.StatusIndicators.Mock)+" "+
			t.Muted.Render("Live data unavailable ("+res.Reason.String()+"); showing simulated figures"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderVerdict(rep analysis.Report) string {
	t := m.theme
	signal := strings.ToUpper(rep.Signal())
	line := t.SignalStyle(signal).Render(signal)
	if pct, ok := rep.ConfidencePercent(); ok {
		line += "  " + t.Subtitle.Render(fmt.Sprintf("%d%% confidence", pct))
	}

	lines := []string{line}
	for _, kv := range [][2]string{
		{"Action", rep.Analysis.Action},
		{"Target", rep.Analysis.TargetPrice.String()},
		{"Timeframe", rep.Analysis.Timeframe},
		{"Risk", rep.Analysis.RiskLevel},
	} {
		if kv[1] == "" {
			continue
		}
		lines = append(lines, t.Muted.Render(util.PadRight(kv[0], 10))+kv[1])
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderInsights(set model.InsightSet, regenerating bool, width int) string {
	t := m.theme
	lines := []string{t.PanelTitle.Render("Insights")}
	if regenerating {
		lines = append(lines, t.Typing.Render("Regenerating insights..."))
	}
	for _, in := range set {
		lines = append(lines,
			t.InsightTitle.Render(in.Title),
			t.InsightText.Width(width).Render(in.Text),
		)
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// =============================================================================
// CHAT
// =============================================================================

func (m *Model) renderHistory(history []model.Message, width int) string {
	t := m.theme
	bubbleW := max(width-6, 10)

	parts := make([]string, 0, len(history))
	for _, msg := range history {
		meta := t.Timestamp.Render(msg.Role.DisplayName() + "  " + msg.FormatTimestamp())

		var bubble string
		switch {
		case msg.IsUser():
			bubble = t.UserBubble.Width(bubbleW).Render(msg.Text)
		case msg.Fallback:
			bubble = t.FallbackBubble.Width(bubbleW).Render(msg.Text)
		default:
			text := m.markdown(msg.Text, bubbleW-t.AssistantBubble.GetHorizontalPadding())
			bubble = t.AssistantBubble.Width(bubbleW).Render(text)
		}

		align := lipgloss.Left
		if msg.IsUser() {
			align = lipgloss.Right
		}
		parts = append(parts, lipgloss.PlaceHorizontal(width, align, meta+"\n"+bubble))
	}
	return strings.Join(parts, "\n\n")
}
