// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fieldui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the password field.
type KeyMap struct {
	Left        key.Binding
	Right       key.Binding
	SelectLeft  key.Binding
	SelectRight key.Binding
	Home        key.Binding
	End         key.Binding

	DeleteBackward key.Binding
	DeleteForward  key.Binding
	DeleteToStart  key.Binding
	DeleteToEnd    key.Binding

	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap follows the readline conventions most terminal users
// already know.
var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "ctrl+b"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "ctrl+f"),
		key.WithHelp("→", "right"),
	),
	SelectLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("S-←", "select left"),
	),
	SelectRight: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("S-→", "select right"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "ctrl+a"),
		key.WithHelp("C-a", "start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "ctrl+e"),
		key.WithHelp("C-e", "end"),
	),
	DeleteBackward: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("BS", "delete back"),
	),
	DeleteForward: key.NewBinding(
		key.WithKeys("delete", "ctrl+d"),
		key.WithHelp("Del", "delete"),
	),
	DeleteToStart: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "delete to start"),
	),
	DeleteToEnd: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "delete to end"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.DeleteToStart, k.SelectLeft}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Home, k.End},
		{k.SelectLeft, k.SelectRight},
		{k.DeleteBackward, k.DeleteForward, k.DeleteToStart, k.DeleteToEnd},
		{k.Submit, k.Cancel},
	}
}
