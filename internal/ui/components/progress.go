// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// =============================================================================
// STAGED PROGRESS COMPONENT
// =============================================================================

// StageProgress draws the loading screen: a percentage bar and a checklist
// of analysis stages with the current one highlighted.
type StageProgress struct {
	Labels  []string
	Stage   int
	Percent float64 // 0-100
	Width   int

	bar   progress.Model
	theme *styles.Theme
}

// NewStageProgress creates the component for the given stage labels.
func NewStageProgress(theme *styles.Theme, labels []string) *StageProgress {
	p := &StageProgress{Labels: labels, Width: 60, theme: theme}
	p.rebuildBar()
	return p
}

// SetTheme swaps the palette and rebuilds the gradient.
func (p *StageProgress) SetTheme(theme *styles.Theme) {
	p.theme = theme
	p.rebuildBar()
}

// SetWidth sets the bar width.
func (p *StageProgress) SetWidth(width int) {
	p.Width = width
	p.bar.Width = max(width-6, 10)
}

func (p *StageProgress) rebuildBar() {
	t := p.theme
	p.bar = progress.New(
		progress.WithGradient(string(t.Color(styles.Gold)), string(t.Color(styles.Bull))),
		progress.WithoutPercentage(),
	)
	p.bar.Width = max(p.Width-6, 10)
}

// View renders the bar, the percentage and the stage list.
func (p *StageProgress) View() string {
	t := p.theme
	var sb strings.Builder

	sb.WriteString(p.bar.ViewAs(max(0, min(100, p.Percent)) / 100))
	sb.WriteString(" ")
	sb.WriteString(t.Title.Render(fmtPercent(p.Percent)))
	sb.WriteString("\n\n")

	for i, label := range p.Labels {
		var line string
		switch {
		case i < p.Stage:
			line = t.StageDone.Render("[x] " + label)
		case i == p.Stage:
			line = t.StageActive.Render("[>] " + label)
		default:
			line = t.StagePending.Render("[ ] " + label)
		}
		sb.WriteString(line)
		if i < len(p.Labels)-1 {
			sb.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(p.Width).Render(sb.String())
}
