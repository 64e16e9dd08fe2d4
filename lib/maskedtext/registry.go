// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"weak"
)

// anchor is the registry's record of one pointer. The registry owns
// anchors strongly but refers to the owning Pointer only weakly, so an
// anchor outlives its Pointer until the next purge. Offsets of dead
// anchors keep being shifted with the rest, which keeps the sort order
// intact without checking liveness on every edit.
type anchor struct {
	offset  int
	gravity Direction
	owner   weak.Pointer[Pointer]
}

// registry is the sorted set of anchors for one buffer. Entries are
// ordered by offset ascending and, at equal offsets, Backward before
// Forward. The order among entries sharing both offset and gravity is
// unspecified.
type registry struct {
	entries []*anchor
	logger  *slog.Logger
}

// findIndex returns the slot where an anchor with the given offset and
// gravity belongs. For Backward it is the first entry at or past
// offset; for Forward it skips the Backward entries at offset and
// stops at the first Forward entry there (or the first entry past
// offset).
func (r *registry) findIndex(offset int, gravity Direction) int {
	return sort.Search(len(r.entries), func(index int) bool {
		entry := r.entries[index]
		if entry.offset != offset {
			return entry.offset > offset
		}
		return gravity == Backward || entry.gravity == Forward
	})
}

// add purges dead anchors and inserts a at its sorted slot.
func (r *registry) add(a *anchor) {
	r.purge()
	r.entries = slices.Insert(r.entries, r.findIndex(a.offset, a.gravity), a)
}

// remove deletes a from the registry. Only the run of entries sharing
// a's offset is searched. A missing anchor means the registry and its
// pointers disagree, which is a bug.
func (r *registry) remove(a *anchor) {
	for index := r.findIndex(a.offset, Backward); index < len(r.entries); index++ {
		entry := r.entries[index]
		if entry.offset != a.offset {
			break
		}
		if entry == a {
			r.entries = slices.Delete(r.entries, index, index+1)
			return
		}
	}
	panic(fmt.Sprintf("maskedtext: removing pointer at offset %d (%s) not present in registry", a.offset, a.gravity))
}

// purge drops anchors whose Pointer has been garbage collected.
// Removal is stable, so the sort order is preserved.
func (r *registry) purge() {
	before := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, func(entry *anchor) bool {
		return entry.owner.Value() == nil
	})
	if purged := before - len(r.entries); purged > 0 {
		r.logger.Debug("purged dead pointers", "purged", purged, "remaining", len(r.entries))
	}
}

// updatePositions shifts anchors after an edit at offset that changed
// the buffer length by delta.
//
// An insertion (delta > 0) moves every anchor from the first Forward
// slot at offset onward; Backward anchors sitting exactly at offset
// stay in front of the new text.
//
// A deletion (delta < 0) collapses every anchor in (offset, offset+d]
// plus the Forward anchors at offset onto offset, then moves the rest
// back by d. Collapsing can interleave gravities, so the collapsed run
// is partitioned in the same pass: num tracks the first Forward anchor
// seen, and each later Backward anchor is swapped into that slot. The
// Backward group keeps its relative order; the Forward group may not.
func (r *registry) updatePositions(offset, delta int) {
	if delta == 0 {
		return
	}

	index := r.findIndex(offset, Forward)

	if delta < 0 {
		limit := offset - delta
		num := -1
		for ; index < len(r.entries) && r.entries[index].offset <= limit; index++ {
			entry := r.entries[index]
			entry.offset = offset
			if entry.gravity == Forward {
				if num < 0 {
					num = index
				}
			} else if num >= 0 {
				r.entries[num], r.entries[index] = r.entries[index], r.entries[num]
				num++
			}
		}
	}

	for ; index < len(r.entries); index++ {
		r.entries[index].offset += delta
	}
}

// verify checks the ordering invariant. It returns the first violation
// found.
func (r *registry) verify() error {
	for index := 1; index < len(r.entries); index++ {
		previous, current := r.entries[index-1], r.entries[index]
		if current.offset < previous.offset {
			return fmt.Errorf("maskedtext: registry entry %d at offset %d precedes offset %d", index, current.offset, previous.offset)
		}
		if current.offset == previous.offset && previous.gravity == Forward && current.gravity == Backward {
			return fmt.Errorf("maskedtext: registry entry %d is backward after a forward entry at offset %d", index, current.offset)
		}
	}
	return nil
}

// verifyBounds checks that every anchor lies within [0, length].
func (r *registry) verifyBounds(length int) error {
	for index, entry := range r.entries {
		if entry.offset < 0 || entry.offset > length {
			return fmt.Errorf("maskedtext: registry entry %d at offset %d outside [0, %d]", index, entry.offset, length)
		}
	}
	return nil
}

// live counts anchors whose Pointer is still reachable.
func (r *registry) live() int {
	count := 0
	for _, entry := range r.entries {
		if entry.owner.Value() != nil {
			count++
		}
	}
	return count
}
