// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fieldui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
	"github.com/bureau-foundation/passfield/lib/secret"
)

func newField(t *testing.T, options ...maskedtext.Option) *maskedtext.Container {
	t.Helper()
	options = append([]maskedtext.Option{maskedtext.WithRegistryVerification()}, options...)
	field, err := maskedtext.New(options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { field.Close() })
	return field
}

func send(model Model, messages ...tea.Msg) Model {
	for _, message := range messages {
		updated, _ := model.Update(message)
		model = updated.(Model)
	}
	return model
}

func typed(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func press(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func assertContent(t *testing.T, field *maskedtext.Container, want string) {
	t.Helper()
	expected, err := secret.NewRunesFromString(want)
	if err != nil {
		t.Fatal(err)
	}
	defer expected.Close()
	if !field.Equal(expected) {
		t.Errorf("field content differs from %q (length %d)", want, field.Len())
	}
	if err := field.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestModel_TypeAndBackspace(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("hunter2"), press(tea.KeyBackspace))

	assertContent(t, field, "hunter")
	if model.Caret() != 6 {
		t.Errorf("Caret() = %d, want 6", model.Caret())
	}
}

func TestModel_InsertInMiddle(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("ac"), press(tea.KeyLeft), typed("b"))

	assertContent(t, field, "abc")
	if model.Caret() != 2 {
		t.Errorf("Caret() = %d, want 2", model.Caret())
	}
}

func TestModel_SpaceIsText(t *testing.T) {
	field := newField(t)
	send(NewModel(field, "> "), typed("a"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, typed("b"))
	assertContent(t, field, "a b")
}

func TestModel_HomeAndEnd(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("bc"), press(tea.KeyCtrlA), typed("a"))
	assertContent(t, field, "abc")
	if model.Caret() != 1 {
		t.Errorf("Caret() after home = %d, want 1", model.Caret())
	}

	model = send(model, press(tea.KeyEnd), typed("d"))
	assertContent(t, field, "abcd")
	if model.Caret() != 4 {
		t.Errorf("Caret() after end = %d, want 4", model.Caret())
	}
}

func TestModel_DeleteKeys(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("abcdef"), press(tea.KeyLeft), press(tea.KeyLeft), press(tea.KeyLeft))

	model = send(model, press(tea.KeyDelete))
	assertContent(t, field, "abcef")

	model = send(model, press(tea.KeyCtrlK))
	assertContent(t, field, "abc")

	model = send(model, press(tea.KeyLeft), press(tea.KeyCtrlU))
	assertContent(t, field, "c")
	if model.Caret() != 0 {
		t.Errorf("Caret() = %d, want 0", model.Caret())
	}

	// Backspace at the start and delete at the end do nothing.
	model = send(model, press(tea.KeyBackspace), press(tea.KeyEnd), press(tea.KeyDelete))
	assertContent(t, field, "c")

	if field.PointerCount() != 1 {
		t.Errorf("PointerCount() = %d, want only the caret", field.PointerCount())
	}
}

func TestModel_SelectionReplacedInOneChange(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("abcd"), press(tea.KeyShiftLeft), press(tea.KeyShiftLeft))

	start, end, ok := model.Selection()
	if !ok || start != 2 || end != 4 {
		t.Fatalf("Selection() = (%d, %d, %t), want (2, 4, true)", start, end, ok)
	}

	var summaries []maskedtext.ChangeSummary
	unsubscribe := field.OnChanged(func(summary maskedtext.ChangeSummary) {
		summaries = append(summaries, summary)
	})
	defer unsubscribe()

	model = send(model, typed("X"))
	assertContent(t, field, "abX")
	if len(summaries) != 1 {
		t.Fatalf("got %d Changed notifications, want 1", len(summaries))
	}
	if summaries[0].Added != 1 || summaries[0].Removed != 2 {
		t.Errorf("summary = %+v, want +1 -2", summaries[0])
	}
	if _, _, ok := model.Selection(); ok {
		t.Error("selection survived replacement")
	}
}

func TestModel_MovingCollapsesSelection(t *testing.T) {
	field := newField(t)
	model := send(NewModel(field, "> "), typed("abcd"), press(tea.KeyShiftLeft), press(tea.KeyShiftLeft), press(tea.KeyLeft))

	if _, _, ok := model.Selection(); ok {
		t.Error("selection survived a plain move")
	}
	if model.Caret() != 2 {
		t.Errorf("Caret() = %d, want the selection start 2", model.Caret())
	}

	model = send(model, press(tea.KeyShiftRight), press(tea.KeyBackspace))
	assertContent(t, field, "abd")
}

func TestModel_MaxLength(t *testing.T) {
	field := newField(t, maskedtext.WithMaxLength(3))
	model := send(NewModel(field, "> "), typed("abcd"))

	// An oversized paste is truncated to the room left.
	assertContent(t, field, "abc")
	if !strings.Contains(model.View(), "3/3 characters") {
		t.Errorf("view missing counter:\n%s", model.View())
	}

	model = send(model, typed("d"))
	assertContent(t, field, "abc")
	if !strings.Contains(model.View(), "maximum length reached") {
		t.Errorf("view missing max length status:\n%s", model.View())
	}

	model = send(model, press(tea.KeyLeft))
	if strings.Contains(model.View(), "maximum length reached") {
		t.Error("status not cleared by the next key")
	}

	// Replacing a selection at the limit stays within it.
	send(model, press(tea.KeyShiftRight), typed("zz"))
	assertContent(t, field, "abz")
}

func TestModel_SubmitAndCancel(t *testing.T) {
	field := newField(t)
	model := NewModel(field, "> ")
	model = send(model, typed("pw"))

	updated, command := model.Update(press(tea.KeyEnter))
	model = updated.(Model)
	if model.Outcome() != Submitted {
		t.Errorf("Outcome() = %d, want Submitted", model.Outcome())
	}
	if command == nil {
		t.Error("submit should quit the program")
	}

	model = send(model, typed("ignored"))
	assertContent(t, field, "pw")

	cancelled := send(NewModel(newField(t), "> "), press(tea.KeyEsc))
	if cancelled.Outcome() != Cancelled {
		t.Errorf("Outcome() = %d, want Cancelled", cancelled.Outcome())
	}
}

func TestModel_ViewShowsOnlyMask(t *testing.T) {
	field := newField(t, maskedtext.WithMaskChar('*'))
	model := send(NewModel(field, "Password: "), typed("s3cret"))

	view := model.View()
	if !strings.Contains(view, "Password: ******") {
		t.Errorf("view missing masked content:\n%s", view)
	}
	if strings.Contains(view, "s3cret") {
		t.Error("view leaked content")
	}
	if !strings.Contains(view, "6 characters") {
		t.Errorf("view missing counter:\n%s", view)
	}
	if !strings.Contains(view, "submit") {
		t.Errorf("view missing help:\n%s", view)
	}
}

func TestModel_ViewScrollsToCaret(t *testing.T) {
	field := newField(t, maskedtext.WithMaskChar('*'))
	model := send(NewModel(field, "> "), tea.WindowSizeMsg{Width: 15, Height: 5}, typed(strings.Repeat("x", 20)))

	line := strings.SplitN(model.View(), "\n", 2)[0]
	if width := ansi.StringWidth(line); width > 15 {
		t.Errorf("field line is %d cells wide, want at most 15: %q", width, line)
	}
	if !strings.HasPrefix(line, "> ") || !strings.Contains(line, "*****") {
		t.Errorf("field line = %q", line)
	}

	model = send(model, press(tea.KeyHome))
	line = strings.SplitN(model.View(), "\n", 2)[0]
	if ansi.StringWidth(line) > 15 {
		t.Errorf("field line after home is too wide: %q", line)
	}
}
