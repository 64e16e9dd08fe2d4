// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import "fmt"

// Direction is a logical direction within the buffer. It is used both
// for navigation (which way to read or move) and as a pointer's
// gravity: the side of an insertion made exactly at the pointer's
// offset that the pointer binds to.
type Direction int

const (
	// Backward points toward offset 0. A Backward-gravity pointer stays
	// in front of text inserted at its offset.
	Backward Direction = iota

	// Forward points toward the end of the buffer. A Forward-gravity
	// pointer is pushed past text inserted at its offset.
	Forward
)

// String returns "backward" or "forward".
func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Backward && d != Forward {
		return nil, fmt.Errorf("maskedtext: invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses "backward" or "forward".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "backward":
		return Backward, nil
	case "forward":
		return Forward, nil
	default:
		return 0, fmt.Errorf("maskedtext: unknown direction %q (want backward or forward)", s)
	}
}

// Context classifies what lies next to a pointer in a given direction.
// A masked buffer is a flat run of characters, so the only structural
// boundaries are its two ends.
type Context int

const (
	// ContextNone means the pointer sits at the buffer end in that
	// direction.
	ContextNone Context = iota

	// ContextText means at least one masked character lies in that
	// direction.
	ContextText
)

func (c Context) String() string {
	switch c {
	case ContextNone:
		return "none"
	case ContextText:
		return "text"
	default:
		return fmt.Sprintf("Context(%d)", int(c))
	}
}
