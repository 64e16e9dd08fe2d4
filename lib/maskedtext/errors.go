// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import "errors"

// Errors returned by container and pointer operations. Contract
// violations (unbalanced change blocks, edits during notification
// dispatch, registry corruption) panic instead.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a delete whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrForeignPointer indicates a pointer created by another container.
	ErrForeignPointer = errors.New("pointer belongs to a different container")

	// ErrFrozen indicates an attempt to move or re-gravitate a frozen pointer.
	ErrFrozen = errors.New("pointer is frozen")

	// ErrMaxLengthExceeded indicates an insertion into a field that is
	// already at its configured maximum length.
	ErrMaxLengthExceeded = errors.New("maximum length exceeded")

	// ErrClosed indicates use of a container after Close.
	ErrClosed = errors.New("container is closed")
)
