// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package maskedtext implements the editable text model behind a
// single-line password field: a confidential buffer that is only ever
// observed through a mask character, pointers that stay consistent
// while the buffer is edited, and batched change notifications.
//
// # Pointers and gravity
//
// A [Pointer] is an offset into the buffer plus a gravity. Gravity only
// matters when an edit happens exactly at the pointer's offset: on an
// insertion there, a [Backward] pointer stays in front of the new text
// and a [Forward] pointer ends up after it. On a deletion, every pointer
// inside the removed span collapses onto its start.
//
// The [Container] keeps its pointers in a registry sorted by offset,
// with Backward pointers before Forward pointers at the same offset.
// Each edit shifts the affected pointers in a single pass over the
// registry. Membership is weak: a pointer nobody references is dropped
// the next time a pointer is registered, so callers never have to
// release pointers. [Pointer.Freeze] detaches a pointer immediately and
// turns it into a fixed snapshot.
//
// # Change notifications
//
// Every edit runs inside a change block. Subscribers see three
// notifications:
//
//   - OnChanging -- before each individual edit
//   - OnChange -- after each individual edit, with its [Edit]
//   - OnChanged -- once, when the outermost block closes, with a
//     [ChangeSummary] of the whole block
//
// Callers batch several edits into one OnChanged delivery with
// [Container.BeginChange] and [Container.EndChange]. The container is
// read-only while OnChanging and OnChange subscribers run; editing from
// inside one of them panics.
//
// # Errors
//
// Bad offsets and ranges return errors ([ErrOffsetOutOfRange],
// [ErrInvalidRange]). Contract violations panic: unbalanced
// BeginChange/EndChange, edits during notification dispatch, and a
// registry that has lost track of a pointer.
//
// A Container is confined to one goroutine. It performs no locking.
package maskedtext
