// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"fmt"
	"slices"
)

// EditKind says whether an edit added or removed characters.
type EditKind int

const (
	// Added means characters were inserted.
	Added EditKind = iota
	// Removed means characters were deleted.
	Removed
)

func (k EditKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EditKind) MarshalText() ([]byte, error) {
	if k != Added && k != Removed {
		return nil, fmt.Errorf("maskedtext: invalid edit kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EditKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "added":
		*k = Added
	case "removed":
		*k = Removed
	default:
		return fmt.Errorf("maskedtext: unknown edit kind %q", text)
	}
	return nil
}

// Edit describes one change to the buffer: Count characters added or
// removed at Start.
type Edit struct {
	Start int      `json:"start"`
	Count int      `json:"count"`
	Kind  EditKind `json:"kind"`
}

// ChangeSummary is the aggregate delivered when the outermost change
// block closes. Edits lists the block's edits in order, with adjacent
// edits of the same kind merged (consecutive typing or repeated
// backspace collapse into one record).
type ChangeSummary struct {
	Edits      []Edit `json:"edits"`
	Added      int    `json:"added"`
	Removed    int    `json:"removed"`
	Generation uint64 `json:"generation"`
}

// Delta returns the net change in length.
func (s ChangeSummary) Delta() int {
	return s.Added - s.Removed
}

// ChangeScope closes a change block exactly once. Obtain one from
// [Container.ChangeBlock] and defer End.
type ChangeScope struct {
	container *Container
	active    bool
}

// End closes the block. Calls after the first are ignored.
func (s *ChangeScope) End() {
	if s.active {
		s.active = false
		s.container.EndChange()
	}
}

// EndSilent closes the block without delivering Changed.
func (s *ChangeScope) EndSilent() {
	if s.active {
		s.active = false
		s.container.EndChangeSilent()
	}
}

// subscribers is an ordered list of callbacks with stable identities
// so that unsubscribing from inside a callback is safe.
type subscribers[F any] struct {
	next  uint64
	items []subscription[F]
}

type subscription[F any] struct {
	id       uint64
	callback F
}

func (s *subscribers[F]) add(callback F) func() {
	s.next++
	id := s.next
	s.items = append(s.items, subscription[F]{id: id, callback: callback})
	return func() {
		s.items = slices.DeleteFunc(s.items, func(item subscription[F]) bool {
			return item.id == id
		})
	}
}

// snapshot returns the callbacks registered at the moment of the call.
func (s *subscribers[F]) snapshot() []F {
	callbacks := make([]F, len(s.items))
	for index, item := range s.items {
		callbacks[index] = item.callback
	}
	return callbacks
}

// OnChanging registers a callback invoked before every individual
// edit. The returned function unsubscribes.
func (c *Container) OnChanging(callback func()) (unsubscribe func()) {
	return c.changing.add(callback)
}

// OnChange registers a callback invoked after every individual edit
// with a description of that edit.
func (c *Container) OnChange(callback func(Edit)) (unsubscribe func()) {
	return c.change.add(callback)
}

// OnChanged registers a callback invoked once when the outermost
// change block closes, with the aggregate of everything the block did.
func (c *Container) OnChanged(callback func(ChangeSummary)) (unsubscribe func()) {
	return c.changed.add(callback)
}

// BeginChange opens a (possibly nested) change block. Edits inside the
// block are reported individually through OnChange but aggregated into
// a single OnChanged delivery when the outermost block closes.
func (c *Container) BeginChange() {
	c.depth++
}

// ChangeBlock opens a change block and returns a scope for closing it:
//
//	defer container.ChangeBlock().End()
func (c *Container) ChangeBlock() *ChangeScope {
	c.BeginChange()
	return &ChangeScope{container: c, active: true}
}

// EndChange closes the innermost change block. When the outermost
// block closes and it recorded any edits, OnChanged subscribers
// receive the aggregate. Panics if no block is open.
func (c *Container) EndChange() {
	c.endChange(false)
}

// EndChangeSilent closes the innermost change block like EndChange but
// discards the aggregate instead of delivering it.
func (c *Container) EndChangeSilent() {
	c.endChange(true)
}

// InChange reports whether a change block is open.
func (c *Container) InChange() bool {
	return c.depth > 0
}

func (c *Container) endChange(skipNotify bool) {
	if c.depth == 0 {
		panic("maskedtext: EndChange without matching BeginChange")
	}
	c.depth--
	if c.depth > 0 {
		return
	}

	pending := c.pending
	c.pending = nil
	if skipNotify || len(pending) == 0 {
		return
	}

	summary := ChangeSummary{Edits: pending, Generation: c.generation}
	for _, edit := range pending {
		switch edit.Kind {
		case Added:
			summary.Added += edit.Count
		case Removed:
			summary.Removed += edit.Count
		}
	}
	c.logger.Debug("change block closed",
		"edits", len(pending),
		"added", summary.Added,
		"removed", summary.Removed,
		"generation", c.generation,
	)

	// Changed subscribers may edit again; each such edit opens its own
	// block, so the container is not guarded here.
	for _, callback := range c.changed.snapshot() {
		callback(summary)
	}
}

// notifyChanging delivers the pre-edit notification. The container is
// read-only while subscribers run.
func (c *Container) notifyChanging() {
	c.requireOpenBlock()
	c.notifying = true
	defer func() { c.notifying = false }()
	for _, callback := range c.changing.snapshot() {
		callback()
	}
}

// recordEdit accumulates edit into the open block and delivers the
// per-edit notification with the container read-only.
func (c *Container) recordEdit(edit Edit) {
	c.requireOpenBlock()
	c.generation++
	c.pending = coalesce(c.pending, edit)

	c.notifying = true
	defer func() { c.notifying = false }()
	for _, callback := range c.change.snapshot() {
		callback(edit)
	}
}

func (c *Container) requireOpenBlock() {
	if c.depth == 0 {
		panic("maskedtext: edit recorded outside a change block")
	}
}

// coalesce appends edit to edits, merging it into the last record when
// the two describe one contiguous operation: text typed at the end of
// the previous insertion, or a removal adjacent to the previous one
// (forward delete at the same start, backspace ending at its start).
func coalesce(edits []Edit, edit Edit) []Edit {
	if len(edits) > 0 {
		last := &edits[len(edits)-1]
		if last.Kind == edit.Kind {
			switch {
			case edit.Kind == Added && edit.Start == last.Start+last.Count:
				last.Count += edit.Count
				return edits
			case edit.Kind == Removed && edit.Start == last.Start:
				last.Count += edit.Count
				return edits
			case edit.Kind == Removed && edit.Start+edit.Count == last.Start:
				last.Start = edit.Start
				last.Count += edit.Count
				return edits
			}
		}
	}
	return append(edits, edit)
}
