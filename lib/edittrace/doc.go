// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package edittrace records the change notifications of a
// [maskedtext.Container] and encodes them.
//
// A [Recorder] subscribes to all three notifications and stores each as
// an [Event] stamped with the container's length and generation at
// delivery time. A [Trace] pairs the events with a final [State]
// snapshot of the container and a set of named pointers.
//
// Traces contain no plaintext. The only content-derived values are
// lengths, the masked rendering, and (when a key is supplied) a keyed
// BLAKE3 fingerprint on Changed events, which lets two traces be
// checked for equal content without revealing it.
//
// Traces encode as text, JSON lines, or deterministic CBOR (see
// lib/codec). The CBOR form is byte-stable across replays of the same
// script when fingerprints are off.
package edittrace
