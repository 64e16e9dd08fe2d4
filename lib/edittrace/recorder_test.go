// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"testing"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
	"github.com/bureau-foundation/passfield/lib/secret"
)

func newContainer(t *testing.T, options ...maskedtext.Option) *maskedtext.Container {
	t.Helper()
	c, err := maskedtext.New(options...)
	if err != nil {
		t.Fatalf("maskedtext.New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecorder_RecordsAllNotifications(t *testing.T) {
	c := newContainer(t)
	recorder := NewRecorder(c)
	defer recorder.Close()

	caret := c.End()
	if err := c.InsertText(caret, "abc"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}

	events := recorder.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	wantKinds := []EventKind{Changing, Change, Changed}
	wantLengths := []int{0, 3, 3}
	for index, event := range events {
		if event.Sequence != index+1 {
			t.Errorf("event %d: sequence %d", index, event.Sequence)
		}
		if event.Kind != wantKinds[index] {
			t.Errorf("event %d: kind %s, want %s", index, event.Kind, wantKinds[index])
		}
		if event.Length != wantLengths[index] {
			t.Errorf("event %d: length %d, want %d", index, event.Length, wantLengths[index])
		}
	}

	if events[1].Edit == nil || *events[1].Edit != (maskedtext.Edit{Start: 0, Count: 3, Kind: maskedtext.Added}) {
		t.Errorf("change event edit = %+v", events[1].Edit)
	}
	if events[2].Summary == nil || events[2].Summary.Added != 3 {
		t.Errorf("changed event summary = %+v", events[2].Summary)
	}
	if events[2].Fingerprint != "" {
		t.Error("fingerprint recorded without a key")
	}
}

func TestRecorder_Fingerprint(t *testing.T) {
	key := [32]byte{1, 2, 3}

	record := func(text string) string {
		c := newContainer(t)
		recorder := NewRecorder(c, WithFingerprintKey(&key))
		defer recorder.Close()
		if err := c.InsertText(c.Start(), text); err != nil {
			t.Fatalf("InsertText: %v", err)
		}
		events := recorder.Events()
		return events[len(events)-1].Fingerprint
	}

	first := record("hunter2")
	if len(first) != 2*secret.FingerprintSize {
		t.Fatalf("fingerprint %q has wrong length", first)
	}
	if record("hunter2") != first {
		t.Error("equal content produced different fingerprints")
	}
	if record("hunter3") == first {
		t.Error("different content produced equal fingerprints")
	}
}

func TestRecorder_CloseStopsRecording(t *testing.T) {
	c := newContainer(t)
	recorder := NewRecorder(c)

	if err := c.InsertText(c.Start(), "a"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	recorder.Close()
	recorder.Close()
	if err := c.InsertText(c.Start(), "b"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}

	if got := len(recorder.Events()); got != 3 {
		t.Errorf("expected 3 events after Close, got %d", got)
	}
}

func TestSnapshot(t *testing.T) {
	c := newContainer(t, maskedtext.WithMaskChar('*'))
	caret := c.End()
	anchor := c.Start()
	if err := c.InsertText(caret, "secret"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	anchor.Freeze()

	state := Snapshot(c, map[string]*maskedtext.Pointer{"caret": caret, "anchor": anchor})

	if state.Length != 6 || state.Masked != "******" {
		t.Errorf("state = %+v", state)
	}
	if len(state.Pointers) != 2 {
		t.Fatalf("expected 2 pointers, got %d", len(state.Pointers))
	}
	want := []PointerState{
		{Name: "anchor", Offset: 0, Gravity: maskedtext.Backward, Frozen: true},
		{Name: "caret", Offset: 6, Gravity: maskedtext.Forward},
	}
	for index := range want {
		if state.Pointers[index] != want[index] {
			t.Errorf("pointer %d = %+v, want %+v", index, state.Pointers[index], want[index])
		}
	}
}
