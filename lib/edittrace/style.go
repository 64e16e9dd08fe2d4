// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles colors the text rendering of a trace. The zero value renders
// plain text.
type Styles struct {
	Changing lipgloss.Style
	Change   lipgloss.Style
	Changed  lipgloss.Style
	Final    lipgloss.Style
	Pointer  lipgloss.Style
	Frozen   lipgloss.Style
}

// kind returns the style for an event kind.
func (s *Styles) kind(kind EventKind) lipgloss.Style {
	switch kind {
	case Changing:
		return s.Changing
	case Change:
		return s.Change
	default:
		return s.Changed
	}
}

// NewStyles builds trace styles for output written to w. Colors are
// emitted only when w is a terminal that supports them, unless profile
// forces one; pass termenv.Ascii to force plain output.
func NewStyles(w io.Writer, profile *termenv.Profile) *Styles {
	renderer := lipgloss.NewRenderer(w)
	if profile != nil {
		renderer.SetColorProfile(*profile)
	}
	return &Styles{
		Changing: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		Change:   renderer.NewStyle().Foreground(lipgloss.Color("6")),
		Changed:  renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Final:    renderer.NewStyle().Bold(true),
		Pointer:  renderer.NewStyle().Foreground(lipgloss.Color("5")),
		Frozen:   renderer.NewStyle().Faint(true),
	}
}

// TextOption configures WriteText.
type TextOption func(*Styles)

// WithStyles colors the text rendering.
func WithStyles(styles *Styles) TextOption {
	return func(target *Styles) {
		if styles != nil {
			*target = *styles
		}
	}
}
