// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/passfield/lib/secret"
)

// Container owns a confidential buffer, the registry of pointers into
// it, and the change-notification state. It is the only way to edit
// the buffer.
//
// A Container is not safe for concurrent use. All calls, including
// those made from notification callbacks, must come from the goroutine
// that owns the field.
type Container struct {
	buffer    *secret.Runes
	registry  registry
	mask      rune
	maxLength int
	verify    bool
	logger    *slog.Logger
	closed    bool

	depth      int
	notifying  bool
	pending    []Edit
	generation uint64

	changing subscribers[func()]
	change   subscribers[func(Edit)]
	changed  subscribers[func(ChangeSummary)]
}

// New creates an empty container.
func New(options ...Option) (*Container, error) {
	settings := defaultSettings()
	for _, option := range options {
		option(&settings)
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}

	buffer, err := secret.NewRunes(settings.initialCapacity)
	if err != nil {
		return nil, fmt.Errorf("maskedtext: allocating buffer: %w", err)
	}

	c := &Container{
		buffer:    buffer,
		mask:      settings.mask,
		maxLength: settings.maxLength,
		verify:    settings.verify,
		logger:    settings.logger,
	}
	c.registry.logger = settings.logger
	return c, nil
}

// Len returns the number of characters in the buffer.
func (c *Container) Len() int {
	return c.buffer.Len()
}

// MaskChar returns the character substituted for every buffer character.
func (c *Container) MaskChar() rune {
	return c.mask
}

// MaxLength returns the configured maximum length, or 0 for unlimited.
func (c *Container) MaxLength() int {
	return c.maxLength
}

// MaskedText returns the whole buffer as mask characters.
func (c *Container) MaskedText() string {
	if c.closed {
		return ""
	}
	return strings.Repeat(string(c.mask), c.buffer.Len())
}

// Generation returns a counter incremented by every recorded edit.
// Collaborators compare generations to detect stale cached state.
func (c *Container) Generation() uint64 {
	return c.generation
}

// PointerCount returns the number of registered pointers that are
// still reachable. Frozen pointers are not registered.
func (c *Container) PointerCount() int {
	return c.registry.live()
}

// Equal reports whether the buffer holds the same characters as value,
// in constant time for equal lengths.
func (c *Container) Equal(value *secret.Runes) bool {
	if c.closed {
		return false
	}
	return c.buffer.Equal(value)
}

// Fingerprint returns a keyed BLAKE3 digest of the buffer content.
// See [secret.Runes.Fingerprint].
func (c *Container) Fingerprint(key *[32]byte) [secret.FingerprintSize]byte {
	return c.buffer.Fingerprint(key)
}

// Password returns a private copy of the content. The caller owns the
// copy and must Close it.
func (c *Container) Password() (*secret.Runes, error) {
	if c.closed {
		return nil, ErrClosed
	}
	return c.buffer.Copy()
}

// CreatePointerAtOffset registers a new pointer at offset with the
// given gravity.
func (c *Container) CreatePointerAtOffset(offset int, gravity Direction) (*Pointer, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if offset < 0 || offset > c.buffer.Len() {
		return nil, fmt.Errorf("creating pointer at %d (length %d): %w", offset, c.buffer.Len(), ErrOffsetOutOfRange)
	}
	return c.newPointer(offset, gravity), nil
}

// Start returns a new Backward-gravity pointer at offset 0.
func (c *Container) Start() *Pointer {
	return c.newPointer(0, Backward)
}

// End returns a new Forward-gravity pointer at the end of the buffer.
func (c *Container) End() *Pointer {
	return c.newPointer(c.buffer.Len(), Forward)
}

// InsertText inserts text at position. Backward-gravity pointers at
// that offset stay in front of the new text; Forward-gravity pointers
// there and everything after move past it.
//
// With a maximum length configured, text is truncated to the room
// left; if there is no room at all nothing is inserted and
// ErrMaxLengthExceeded is returned.
func (c *Container) InsertText(position *Pointer, text string) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if err := c.checkPointer(position); err != nil {
		return err
	}

	chars := []rune(text)
	defer secret.ZeroRunes(chars)

	length := c.buffer.Len()
	if c.maxLength > 0 {
		room := c.maxLength - length
		if room <= 0 && len(chars) > 0 {
			return fmt.Errorf("inserting %d characters at length %d: %w", len(chars), length, ErrMaxLengthExceeded)
		}
		if len(chars) > room {
			chars = chars[:room]
		}
	}
	if len(chars) == 0 {
		return nil
	}

	offset := position.Offset()
	if offset < 0 || offset > length {
		return fmt.Errorf("inserting at %d (length %d): %w", offset, length, ErrOffsetOutOfRange)
	}
	// Growing first means the insert below cannot fail halfway.
	if err := c.buffer.Reserve(length + len(chars)); err != nil {
		return fmt.Errorf("maskedtext: growing buffer: %w", err)
	}

	c.BeginChange()
	defer c.EndChange()

	c.notifyChanging()
	if err := c.buffer.Insert(offset, chars); err != nil {
		return fmt.Errorf("maskedtext: inserting: %w", err)
	}
	c.registry.updatePositions(offset, len(chars))
	c.checkRegistry()
	c.recordEdit(Edit{Start: offset, Count: len(chars), Kind: Added})
	return nil
}

// DeleteContent removes the characters between start and end. Pointers
// inside the removed span collapse onto its start; pointers after it
// move back by the span length. An empty span is a no-op.
func (c *Container) DeleteContent(start, end *Pointer) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if err := c.checkPointer(start); err != nil {
		return err
	}
	if err := c.checkPointer(end); err != nil {
		return err
	}

	from, to := start.Offset(), end.Offset()
	length := c.buffer.Len()
	if from < 0 || to > length {
		return fmt.Errorf("deleting [%d, %d) (length %d): %w", from, to, length, ErrOffsetOutOfRange)
	}
	if to < from {
		return fmt.Errorf("deleting [%d, %d): %w", from, to, ErrInvalidRange)
	}
	if to == from {
		return nil
	}

	c.BeginChange()
	defer c.EndChange()

	count := to - from
	c.notifyChanging()
	c.buffer.RemoveRange(from, count)
	c.registry.updatePositions(from, -count)
	c.checkRegistry()
	c.recordEdit(Edit{Start: from, Count: count, Kind: Removed})
	return nil
}

// SetPassword replaces the whole content with a private copy of value.
// It runs inside its own change block, so subscribers see a Removed
// edit for the old content, an Added edit for the new content, and a
// single aggregate. Every pointer collapses to 0 on the removal and
// then follows its gravity on the insertion. The maximum length does
// not apply to programmatic replacement.
func (c *Container) SetPassword(value *secret.Runes) error {
	if err := c.checkMutable(); err != nil {
		return err
	}

	newLength := 0
	if value != nil {
		newLength = value.Len()
	}
	if err := c.buffer.Reserve(newLength); err != nil {
		return fmt.Errorf("maskedtext: growing buffer: %w", err)
	}

	c.BeginChange()
	defer c.EndChange()

	oldLength := c.buffer.Len()
	if oldLength > 0 {
		c.notifyChanging()
		c.buffer.Clear()
		c.registry.updatePositions(0, -oldLength)
		c.checkRegistry()
		c.recordEdit(Edit{Start: 0, Count: oldLength, Kind: Removed})
	}

	if newLength > 0 {
		c.notifyChanging()
		if err := c.buffer.ReplaceWith(value); err != nil {
			return fmt.Errorf("maskedtext: copying password: %w", err)
		}
		c.registry.updatePositions(0, newLength)
		c.checkRegistry()
		c.recordEdit(Edit{Start: 0, Count: newLength, Kind: Added})
	}

	c.logger.Debug("password replaced", "old_length", oldLength, "new_length", newLength)
	return nil
}

// Close zeroes and releases the buffer. Pointers remain readable but
// every mutation afterwards returns ErrClosed.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	if c.notifying {
		panic("maskedtext: container closed during change notification")
	}
	c.closed = true
	return c.buffer.Close()
}

// Verify checks the registry ordering and bounds invariants.
func (c *Container) Verify() error {
	if err := c.registry.verify(); err != nil {
		return err
	}
	return c.registry.verifyBounds(c.buffer.Len())
}

// checkMutable rejects edits on a closed container and panics on an
// edit attempted from inside a notification callback.
func (c *Container) checkMutable() error {
	if c.notifying {
		panic("maskedtext: container modified during change notification")
	}
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Container) checkPointer(p *Pointer) error {
	if p == nil || p.container != c {
		return ErrForeignPointer
	}
	return nil
}

// checkRegistry panics if registry verification is enabled and an
// invariant no longer holds.
func (c *Container) checkRegistry() {
	if !c.verify {
		return
	}
	if err := c.Verify(); err != nil {
		panic(err.Error())
	}
}

func (c *Container) newPointer(offset int, gravity Direction) *Pointer {
	p := &Pointer{container: c}
	p.anchor = newAnchor(p, offset, gravity)
	c.registry.add(p.anchor)
	return p
}
