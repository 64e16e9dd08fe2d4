// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"fmt"
	"weak"
)

// Pointer marks a boundary between two characters of a Container's
// buffer (or one of its ends). Registered pointers are shifted by
// every edit according to their gravity.
//
// The container tracks pointers weakly: dropping every reference to a
// Pointer is enough to release it, and the registry forgets it the next
// time a pointer is registered. Freeze detaches a pointer explicitly.
type Pointer struct {
	container *Container
	anchor    *anchor
	frozen    bool
}

func newAnchor(owner *Pointer, offset int, gravity Direction) *anchor {
	return &anchor{
		offset:  offset,
		gravity: gravity,
		owner:   weak.Make(owner),
	}
}

// Container returns the container the pointer belongs to.
func (p *Pointer) Container() *Container {
	return p.container
}

// Offset returns the pointer's position in characters from the start
// of the buffer.
func (p *Pointer) Offset() int {
	return p.anchor.offset
}

// Gravity returns the side an insertion at the pointer's offset binds
// it to.
func (p *Pointer) Gravity() Direction {
	return p.anchor.gravity
}

// IsFrozen reports whether the pointer has been frozen.
func (p *Pointer) IsFrozen() bool {
	return p.frozen
}

// Freeze detaches the pointer from the registry. A frozen pointer keeps
// its current offset forever: later edits do not shift it and it can no
// longer be moved. Freezing is idempotent.
func (p *Pointer) Freeze() {
	if p.frozen {
		return
	}
	p.container.registry.remove(p.anchor)
	p.frozen = true
}

// SetGravity changes the pointer's gravity. The pointer is re-registered
// because gravity participates in the registry order.
func (p *Pointer) SetGravity(gravity Direction) error {
	if p.frozen {
		return ErrFrozen
	}
	if gravity == p.anchor.gravity {
		return nil
	}
	p.container.registry.remove(p.anchor)
	p.anchor.gravity = gravity
	p.container.registry.add(p.anchor)
	return nil
}

// CompareTo returns -1, 0, or 1 as p lies before, at, or after other.
// Gravity does not take part in the comparison. Panics if the pointers
// belong to different containers.
func (p *Pointer) CompareTo(other *Pointer) int {
	if other.container != p.container {
		panic("maskedtext: comparing pointers from different containers")
	}
	switch {
	case p.anchor.offset < other.anchor.offset:
		return -1
	case p.anchor.offset > other.anchor.offset:
		return 1
	default:
		return 0
	}
}

// CreatePointer registers a new pointer distance characters away from
// p with the given gravity. Use CreatePointer(0, p.Gravity()) for a
// plain clone.
func (p *Pointer) CreatePointer(distance int, gravity Direction) (*Pointer, error) {
	return p.container.CreatePointerAtOffset(p.anchor.offset+distance, gravity)
}

// ContextDirection reports what lies next to the pointer in direction:
// ContextNone at the buffer end on that side, ContextText otherwise.
func (p *Pointer) ContextDirection(direction Direction) Context {
	if p.available(direction) == 0 {
		return ContextNone
	}
	return ContextText
}

// MaskedRun returns up to count mask characters for the text lying in
// direction, clamped to the characters actually available on that
// side. The buffer content is never read.
func (p *Pointer) MaskedRun(direction Direction, count int) string {
	if count <= 0 || p.container.closed {
		return ""
	}
	run := min(count, p.available(direction))
	start := min(p.anchor.offset, p.container.buffer.Len())
	if direction == Backward {
		start -= run
	}
	return p.container.buffer.Mask(start, start+run, p.container.mask)
}

// MoveToNextContextPosition moves the pointer to the buffer end in
// direction. There are no intermediate boundaries in a masked buffer.
// Returns false if the pointer was already there.
func (p *Pointer) MoveToNextContextPosition(direction Direction) (bool, error) {
	if p.frozen {
		return false, ErrFrozen
	}
	distance := p.available(direction)
	if distance == 0 {
		return false, nil
	}
	if direction == Backward {
		distance = -distance
	}
	if err := p.MoveByOffset(distance); err != nil {
		return false, err
	}
	return true, nil
}

// MoveByOffset moves the pointer delta characters (negative moves
// backward), keeping its gravity.
func (p *Pointer) MoveByOffset(delta int) error {
	if p.frozen {
		return ErrFrozen
	}
	target := p.anchor.offset + delta
	if target < 0 || target > p.container.buffer.Len() {
		return fmt.Errorf("moving pointer from %d by %d (length %d): %w",
			p.anchor.offset, delta, p.container.buffer.Len(), ErrOffsetOutOfRange)
	}
	if delta == 0 {
		return nil
	}
	p.container.registry.remove(p.anchor)
	p.anchor.offset = target
	p.container.registry.add(p.anchor)
	return nil
}

// available returns how many characters lie in direction, clamped at
// zero for a frozen pointer left past the end by later deletions.
func (p *Pointer) available(direction Direction) int {
	length := p.container.buffer.Len()
	offset := min(p.anchor.offset, length)
	if direction == Backward {
		return offset
	}
	return length - offset
}
