// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"errors"
	"testing"
)

func TestPointer_Freeze(t *testing.T) {
	c := newTestContainer(t, "abcdef")
	p := mustPointer(t, c, 2, Forward)
	before := c.PointerCount()

	p.Freeze()
	p.Freeze()

	if !p.IsFrozen() {
		t.Fatal("IsFrozen() = false after Freeze")
	}
	if c.PointerCount() != before-1 {
		t.Errorf("PointerCount() = %d, want %d", c.PointerCount(), before-1)
	}

	if err := c.InsertText(c.Start(), "XYZ"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if p.Offset() != 2 {
		t.Errorf("frozen pointer moved to %d", p.Offset())
	}

	if err := p.MoveByOffset(1); !errors.Is(err, ErrFrozen) {
		t.Errorf("MoveByOffset: expected ErrFrozen, got %v", err)
	}
	if err := p.SetGravity(Backward); !errors.Is(err, ErrFrozen) {
		t.Errorf("SetGravity: expected ErrFrozen, got %v", err)
	}
	if _, err := p.MoveToNextContextPosition(Forward); !errors.Is(err, ErrFrozen) {
		t.Errorf("MoveToNextContextPosition: expected ErrFrozen, got %v", err)
	}
}

func TestPointer_FrozenStillUsableAsEndpoint(t *testing.T) {
	c := newTestContainer(t, "abcdef")
	start := mustPointer(t, c, 1, Backward)
	end := mustPointer(t, c, 4, Forward)
	end.Freeze()

	if err := c.DeleteContent(start, end); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if end.Offset() != 4 {
		t.Errorf("frozen end moved to %d", end.Offset())
	}
}

func TestPointer_SetGravity(t *testing.T) {
	c := newTestContainer(t, "abc")
	p := mustPointer(t, c, 1, Forward)
	q := mustPointer(t, c, 1, Forward)

	if err := p.SetGravity(Backward); err != nil {
		t.Fatalf("SetGravity: %v", err)
	}
	if p.Gravity() != Backward {
		t.Fatalf("Gravity() = %s, want backward", p.Gravity())
	}
	if err := c.Verify(); err != nil {
		t.Fatalf("registry invalid after SetGravity: %v", err)
	}

	if err := c.InsertText(q, "zz"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if p.Offset() != 1 || q.Offset() != 3 {
		t.Errorf("offsets = (%d, %d), want (1, 3)", p.Offset(), q.Offset())
	}

	if err := p.SetGravity(Backward); err != nil {
		t.Errorf("setting the same gravity: %v", err)
	}
}

func TestPointer_MoveByOffset(t *testing.T) {
	c := newTestContainer(t, "abcde")
	p := mustPointer(t, c, 2, Backward)

	if err := p.MoveByOffset(3); err != nil {
		t.Fatalf("MoveByOffset(3): %v", err)
	}
	if p.Offset() != 5 {
		t.Errorf("Offset() = %d, want 5", p.Offset())
	}
	if err := p.MoveByOffset(-5); err != nil {
		t.Fatalf("MoveByOffset(-5): %v", err)
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}

	for _, delta := range []int{-1, 6} {
		if err := p.MoveByOffset(delta); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("MoveByOffset(%d): expected ErrOffsetOutOfRange, got %v", delta, err)
		}
	}
	if p.Offset() != 0 {
		t.Errorf("failed move changed the offset to %d", p.Offset())
	}
	if p.Gravity() != Backward {
		t.Errorf("move changed the gravity")
	}
	if err := c.Verify(); err != nil {
		t.Fatal(err)
	}
}

func TestPointer_MoveToNextContextPosition(t *testing.T) {
	c := newTestContainer(t, "abcd")
	p := mustPointer(t, c, 2, Forward)

	moved, err := p.MoveToNextContextPosition(Forward)
	if err != nil || !moved {
		t.Fatalf("forward move = (%v, %v), want (true, nil)", moved, err)
	}
	if p.Offset() != 4 {
		t.Errorf("Offset() = %d, want 4", p.Offset())
	}

	moved, err = p.MoveToNextContextPosition(Forward)
	if err != nil || moved {
		t.Errorf("move at end = (%v, %v), want (false, nil)", moved, err)
	}

	moved, err = p.MoveToNextContextPosition(Backward)
	if err != nil || !moved {
		t.Fatalf("backward move = (%v, %v), want (true, nil)", moved, err)
	}
	if p.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", p.Offset())
	}
}

func TestPointer_ContextDirection(t *testing.T) {
	empty := newTestContainer(t, "")
	p := empty.Start()
	if p.ContextDirection(Backward) != ContextNone || p.ContextDirection(Forward) != ContextNone {
		t.Error("empty buffer should have no context on either side")
	}

	c := newTestContainer(t, "ab")
	tests := []struct {
		offset   int
		backward Context
		forward  Context
	}{
		{0, ContextNone, ContextText},
		{1, ContextText, ContextText},
		{2, ContextText, ContextNone},
	}
	for _, test := range tests {
		q := mustPointer(t, c, test.offset, Backward)
		if got := q.ContextDirection(Backward); got != test.backward {
			t.Errorf("offset %d backward: %s, want %s", test.offset, got, test.backward)
		}
		if got := q.ContextDirection(Forward); got != test.forward {
			t.Errorf("offset %d forward: %s, want %s", test.offset, got, test.forward)
		}
	}
}

func TestPointer_CreatePointer(t *testing.T) {
	c := newTestContainer(t, "abcdef")
	p := mustPointer(t, c, 2, Backward)

	clone, err := p.CreatePointer(0, p.Gravity())
	if err != nil {
		t.Fatalf("CreatePointer(0): %v", err)
	}
	if clone == p || clone.Offset() != 2 || clone.Gravity() != Backward {
		t.Errorf("clone = (%d, %s), want a distinct pointer at (2, backward)", clone.Offset(), clone.Gravity())
	}

	ahead, err := p.CreatePointer(3, Forward)
	if err != nil {
		t.Fatalf("CreatePointer(3): %v", err)
	}
	if ahead.Offset() != 5 || ahead.Gravity() != Forward {
		t.Errorf("ahead = (%d, %s), want (5, forward)", ahead.Offset(), ahead.Gravity())
	}

	if _, err := p.CreatePointer(-3, Forward); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := p.CreatePointer(5, Forward); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestPointer_CompareTo(t *testing.T) {
	c := newTestContainer(t, "abc")
	low := mustPointer(t, c, 1, Forward)
	high := mustPointer(t, c, 2, Backward)
	same := mustPointer(t, c, 1, Backward)

	if low.CompareTo(high) != -1 || high.CompareTo(low) != 1 {
		t.Error("ordering by offset is wrong")
	}
	if low.CompareTo(same) != 0 {
		t.Error("gravity must not affect comparison")
	}

	other := newTestContainer(t, "abc")
	foreign := mustPointer(t, other, 1, Forward)
	defer func() {
		if recover() == nil {
			t.Error("expected panic comparing pointers of different containers")
		}
	}()
	low.CompareTo(foreign)
}

func TestPointer_MaskedRun(t *testing.T) {
	c := newTestContainer(t, "abcdef", WithMaskChar('#'))
	p := mustPointer(t, c, 2, Forward)

	tests := []struct {
		direction Direction
		count     int
		want      string
	}{
		{Forward, 3, "###"},
		{Forward, 10, "####"},
		{Backward, 1, "#"},
		{Backward, 10, "##"},
		{Forward, 0, ""},
		{Backward, -1, ""},
	}
	for _, test := range tests {
		if got := p.MaskedRun(test.direction, test.count); got != test.want {
			t.Errorf("MaskedRun(%s, %d) = %q, want %q", test.direction, test.count, got, test.want)
		}
	}
}

func TestPointer_MaskedRunFrozenPastEnd(t *testing.T) {
	c := newTestContainer(t, "abcdef", WithMaskChar('#'))
	p := mustPointer(t, c, 5, Forward)
	p.Freeze()

	if err := c.DeleteContent(c.Start(), mustPointer(t, c, 4, Forward)); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if got := p.MaskedRun(Backward, 10); got != "##" {
		t.Errorf("MaskedRun(backward) = %q, want %q", got, "##")
	}
	if got := p.MaskedRun(Forward, 10); got != "" {
		t.Errorf("MaskedRun(forward) = %q, want empty", got)
	}
	if p.ContextDirection(Forward) != ContextNone {
		t.Error("frozen pointer past the end should see no forward context")
	}
}
