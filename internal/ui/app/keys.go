// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for every screen.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding
	Select    key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Settings  key.Binding
	Profile   key.Binding

	Retry      key.Binding
	Regenerate key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	ChatUp     key.Binding
	ChatDown   key.Binding

	ToggleTheme key.Binding
	SignOut     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("</>", "choose"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "retry"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "new insights"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up/dn", "scroll report"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
		),
		ChatUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup/dn", "scroll chat"),
		),
		ChatDown: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "sign out"),
		),
	}
}

func hint(b key.Binding) (string, string) {
	h := b.Help()
	return h.Key, h.Desc
}
