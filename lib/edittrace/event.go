// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"fmt"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
)

// EventKind identifies which container notification produced an
// event.
type EventKind int

const (
	// Changing is recorded before each individual edit.
	Changing EventKind = iota
	// Change is recorded after each individual edit.
	Change
	// Changed is recorded when the outermost change block closes.
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Changing:
		return "changing"
	case Change:
		return "change"
	case Changed:
		return "changed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	if k < Changing || k > Changed {
		return nil, fmt.Errorf("edittrace: invalid event kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "changing":
		*k = Changing
	case "change":
		*k = Change
	case "changed":
		*k = Changed
	default:
		return fmt.Errorf("edittrace: unknown event kind %q", text)
	}
	return nil
}

// Event is one recorded notification. Length and Generation describe
// the container at the moment the notification was delivered.
type Event struct {
	Sequence   int                       `json:"sequence"`
	Kind       EventKind                 `json:"kind"`
	Edit       *maskedtext.Edit          `json:"edit,omitempty"`
	Summary    *maskedtext.ChangeSummary `json:"summary,omitempty"`
	Length     int                       `json:"length"`
	Generation uint64                    `json:"generation"`

	// Fingerprint is the hex keyed digest of the content, recorded on
	// Changed events when the recorder has a fingerprint key.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// PointerState is a named pointer as seen at the end of a trace.
type PointerState struct {
	Name    string               `json:"name"`
	Offset  int                  `json:"offset"`
	Gravity maskedtext.Direction `json:"gravity"`
	Frozen  bool                 `json:"frozen,omitempty"`
}

// State is a snapshot of a container and its named pointers. It holds
// nothing derived from the content beyond its length and mask.
type State struct {
	Length     int            `json:"length"`
	Masked     string         `json:"masked"`
	Generation uint64         `json:"generation"`
	Pointers   []PointerState `json:"pointers"`
}

// Trace is a complete recording: every event in order plus the final
// state.
type Trace struct {
	Events []Event `json:"events"`
	Final  State   `json:"final"`
}
