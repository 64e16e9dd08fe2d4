// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fieldui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
)

// Outcome records how the field was closed.
type Outcome int

const (
	// Editing means the field is still open.
	Editing Outcome = iota
	// Submitted means the user accepted the content.
	Submitted
	// Cancelled means the user abandoned the field.
	Cancelled
)

// Model is the bubbletea model for a password field. The container is
// owned by the caller, which must keep it open for the model's
// lifetime and reads the password from it after a submit.
type Model struct {
	field  *maskedtext.Container
	caret  *maskedtext.Pointer
	anchor *maskedtext.Pointer

	keys    KeyMap
	help    help.Model
	prompt  string
	width   int
	status  string
	outcome Outcome

	cursorStyle    lipgloss.Style
	selectionStyle lipgloss.Style
	statusStyle    lipgloss.Style
	errorStyle     lipgloss.Style
}

// NewModel creates a field editing container with the caret at the
// end of its current content.
func NewModel(field *maskedtext.Container, prompt string) Model {
	caret := field.End()
	if err := caret.SetGravity(maskedtext.Forward); err != nil {
		panic("fieldui: end pointer frozen at creation: " + err.Error())
	}
	return Model{
		field:          field,
		caret:          caret,
		keys:           DefaultKeyMap,
		help:           help.New(),
		prompt:         prompt,
		cursorStyle:    lipgloss.NewStyle().Reverse(true),
		selectionStyle: lipgloss.NewStyle().Underline(true),
		statusStyle:    lipgloss.NewStyle().Faint(true),
		errorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Outcome reports whether the field was submitted or cancelled.
func (model Model) Outcome() Outcome {
	return model.outcome
}

// Caret returns the caret offset.
func (model Model) Caret() int {
	return model.caret.Offset()
}

// Selection returns the selected span and whether one exists.
func (model Model) Selection() (start, end int, ok bool) {
	if model.anchor == nil || model.anchor.CompareTo(model.caret) == 0 {
		return 0, 0, false
	}
	start, end = model.anchor.Offset(), model.caret.Offset()
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.help.Width = message.Width
		return model, nil
	case tea.KeyMsg:
		if model.outcome != Editing {
			return model, nil
		}
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.status = ""

	switch {
	case key.Matches(message, model.keys.Submit):
		model.outcome = Submitted
		model.clearSelection()
		return model, tea.Quit
	case key.Matches(message, model.keys.Cancel):
		model.outcome = Cancelled
		model.clearSelection()
		return model, tea.Quit
	}

	scope := model.field.ChangeBlock()
	defer scope.End()

	var err error
	switch {
	case key.Matches(message, model.keys.Left):
		err = model.moveCaret(-1, false)
	case key.Matches(message, model.keys.Right):
		err = model.moveCaret(1, false)
	case key.Matches(message, model.keys.SelectLeft):
		err = model.moveCaret(-1, true)
	case key.Matches(message, model.keys.SelectRight):
		err = model.moveCaret(1, true)
	case key.Matches(message, model.keys.Home):
		model.clearSelection()
		_, err = model.caret.MoveToNextContextPosition(maskedtext.Backward)
	case key.Matches(message, model.keys.End):
		model.clearSelection()
		_, err = model.caret.MoveToNextContextPosition(maskedtext.Forward)
	case key.Matches(message, model.keys.DeleteBackward):
		err = model.deleteAround(-1)
	case key.Matches(message, model.keys.DeleteForward):
		err = model.deleteAround(1)
	case key.Matches(message, model.keys.DeleteToStart):
		err = model.deleteToEdge(maskedtext.Backward)
	case key.Matches(message, model.keys.DeleteToEnd):
		err = model.deleteToEdge(maskedtext.Forward)
	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		err = model.insert(string(message.Runes))
	}

	if err != nil {
		model.status = describe(err)
	}
	return model, nil
}

// insert replaces the selection, if any, with text at the caret. Text
// beyond the field's maximum length is dropped by the container.
func (model *Model) insert(text string) error {
	if text == "" {
		return nil
	}
	if err := model.deleteSelection(); err != nil {
		return err
	}
	return model.field.InsertText(model.caret, text)
}

// moveCaret moves the caret by delta, extending the selection when
// selecting and dropping it otherwise. Moving without shift over a
// selection collapses it to the side of the move.
func (model *Model) moveCaret(delta int, selecting bool) error {
	if !selecting {
		if start, end, ok := model.Selection(); ok {
			model.clearSelection()
			target := start
			if delta > 0 {
				target = end
			}
			return model.caret.MoveByOffset(target - model.caret.Offset())
		}
		model.clearSelection()
	} else if model.anchor == nil {
		anchor, err := model.caret.CreatePointer(0, maskedtext.Backward)
		if err != nil {
			return err
		}
		model.anchor = anchor
	}

	direction := maskedtext.Forward
	if delta < 0 {
		direction = maskedtext.Backward
	}
	if model.caret.ContextDirection(direction) == maskedtext.ContextNone {
		return nil
	}
	return model.caret.MoveByOffset(delta)
}

// deleteAround deletes the selection, or one character before
// (distance -1) or after (distance 1) the caret.
func (model *Model) deleteAround(distance int) error {
	if _, _, ok := model.Selection(); ok {
		return model.deleteSelection()
	}
	direction := maskedtext.Forward
	if distance < 0 {
		direction = maskedtext.Backward
	}
	if model.caret.ContextDirection(direction) == maskedtext.ContextNone {
		return nil
	}

	other, err := model.caret.CreatePointer(distance, direction)
	if err != nil {
		return err
	}
	defer other.Freeze()
	if distance < 0 {
		return model.field.DeleteContent(other, model.caret)
	}
	return model.field.DeleteContent(model.caret, other)
}

// deleteToEdge deletes everything between the caret and the buffer end
// in direction.
func (model *Model) deleteToEdge(direction maskedtext.Direction) error {
	model.clearSelection()
	edge, err := model.caret.CreatePointer(0, direction)
	if err != nil {
		return err
	}
	defer edge.Freeze()
	if _, err := edge.MoveToNextContextPosition(direction); err != nil {
		return err
	}
	if direction == maskedtext.Backward {
		return model.field.DeleteContent(edge, model.caret)
	}
	return model.field.DeleteContent(model.caret, edge)
}

func (model *Model) deleteSelection() error {
	if model.anchor == nil {
		return nil
	}
	anchor := model.anchor
	model.anchor = nil
	defer anchor.Freeze()

	if anchor.CompareTo(model.caret) < 0 {
		return model.field.DeleteContent(anchor, model.caret)
	}
	return model.field.DeleteContent(model.caret, anchor)
}

func (model *Model) clearSelection() {
	if model.anchor != nil {
		model.anchor.Freeze()
		model.anchor = nil
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, maskedtext.ErrMaxLengthExceeded):
		return "maximum length reached"
	case errors.Is(err, maskedtext.ErrClosed):
		return "field is closed"
	default:
		return err.Error()
	}
}

// View implements tea.Model.
func (model Model) View() string {
	var builder strings.Builder
	builder.WriteString(model.renderField())
	builder.WriteByte('\n')

	if model.status != "" {
		builder.WriteString(model.errorStyle.Render(model.status))
	} else {
		builder.WriteString(model.statusStyle.Render(model.counter()))
	}
	builder.WriteByte('\n')

	if model.outcome == Editing {
		builder.WriteString(model.help.View(model.keys))
		builder.WriteByte('\n')
	}
	return builder.String()
}

// counter renders the character count, against the maximum when the
// field has one.
func (model Model) counter() string {
	if limit := model.field.MaxLength(); limit > 0 {
		return fmt.Sprintf("%d/%d characters", model.field.Len(), limit)
	}
	return fmt.Sprintf("%d characters", model.field.Len())
}

// renderField draws the prompt and the masked content, scrolled so the
// caret stays visible within the window width.
func (model Model) renderField() string {
	masked := []rune(model.field.MaskedText())
	caret := min(model.caret.Offset(), len(masked))
	selectionStart, selectionEnd, selecting := model.Selection()

	first, last := 0, len(masked)
	if model.width > 0 {
		room := model.width - ansi.StringWidth(model.prompt) - 1
		if room < 1 {
			room = 1
		}
		if len(masked) >= room {
			first = max(0, caret-room+1)
			last = min(len(masked), first+room)
		}
	}

	var builder strings.Builder
	builder.WriteString(model.prompt)
	for index := first; index < last; index++ {
		cell := string(masked[index])
		switch {
		case index == caret && model.outcome == Editing:
			builder.WriteString(model.cursorStyle.Render(cell))
		case selecting && index >= selectionStart && index < selectionEnd:
			builder.WriteString(model.selectionStyle.Render(cell))
		default:
			builder.WriteString(cell)
		}
	}
	if caret == len(masked) && model.outcome == Editing {
		builder.WriteString(model.cursorStyle.Render(" "))
	}

	line := builder.String()
	if model.width > 0 {
		line = ansi.Truncate(line, model.width, "")
	}
	return line
}
