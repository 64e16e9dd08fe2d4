// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"encoding/hex"
	"log/slog"
	"maps"
	"slices"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
)

// Recorder subscribes to a container's notifications and records them
// as events. Recording starts at NewRecorder and stops at Close.
type Recorder struct {
	container      *maskedtext.Container
	fingerprintKey *[32]byte
	logger         *slog.Logger

	events       []Event
	unsubscribes []func()
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFingerprintKey records a keyed content fingerprint on every
// Changed event. Without a key, events carry no content-derived data
// beyond lengths.
func WithFingerprintKey(key *[32]byte) RecorderOption {
	return func(r *Recorder) {
		r.fingerprintKey = key
	}
}

// WithLogger logs every recorded event at debug level.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder starts recording container's notifications.
func NewRecorder(container *maskedtext.Container, options ...RecorderOption) *Recorder {
	r := &Recorder{
		container: container,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(r)
	}

	r.unsubscribes = append(r.unsubscribes,
		container.OnChanging(func() {
			r.record(Event{Kind: Changing})
		}),
		container.OnChange(func(edit maskedtext.Edit) {
			r.record(Event{Kind: Change, Edit: &edit})
		}),
		container.OnChanged(func(summary maskedtext.ChangeSummary) {
			event := Event{Kind: Changed, Summary: &summary}
			if r.fingerprintKey != nil {
				digest := container.Fingerprint(r.fingerprintKey)
				event.Fingerprint = hex.EncodeToString(digest[:])
			}
			r.record(event)
		}),
	)
	return r
}

// Events returns the events recorded so far.
func (r *Recorder) Events() []Event {
	return slices.Clone(r.events)
}

// Trace returns the recorded events together with a snapshot of the
// container and the given named pointers.
func (r *Recorder) Trace(pointers map[string]*maskedtext.Pointer) *Trace {
	return &Trace{
		Events: r.Events(),
		Final:  Snapshot(r.container, pointers),
	}
}

// Close stops recording. Recorded events remain available.
func (r *Recorder) Close() {
	for _, unsubscribe := range r.unsubscribes {
		unsubscribe()
	}
	r.unsubscribes = nil
}

func (r *Recorder) record(event Event) {
	event.Sequence = len(r.events) + 1
	event.Length = r.container.Len()
	event.Generation = r.container.Generation()
	r.events = append(r.events, event)

	r.logger.Debug("edit event",
		"sequence", event.Sequence,
		"kind", event.Kind,
		"length", event.Length,
		"generation", event.Generation,
	)
}

// Snapshot captures the container and the named pointers. Pointers are
// listed in name order.
func Snapshot(container *maskedtext.Container, pointers map[string]*maskedtext.Pointer) State {
	state := State{
		Length:     container.Len(),
		Masked:     container.MaskedText(),
		Generation: container.Generation(),
		Pointers:   []PointerState{},
	}
	for _, name := range slices.Sorted(maps.Keys(pointers)) {
		pointer := pointers[name]
		state.Pointers = append(state.Pointers, PointerState{
			Name:    name,
			Offset:  pointer.Offset(),
			Gravity: pointer.Gravity(),
			Frozen:  pointer.IsFrozen(),
		})
	}
	return state
}
