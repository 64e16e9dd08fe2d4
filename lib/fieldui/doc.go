// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fieldui is an interactive terminal password field built on
// [maskedtext.Container]. It is a bubbletea model: keystrokes become
// container edits at a caret pointer, and the view renders only the
// masked text.
//
// The caret has forward gravity so typed text lands before it. A
// selection is a second pointer with backward gravity, created on the
// first shift-arrow and dropped when the caret moves without shift.
// Every keystroke runs in its own change block, so replacing a
// selection by typing produces a single Changed notification.
//
// Keystrokes reach the model as bubbletea messages on the Go heap.
// They are inserted immediately and not retained by the model.
package fieldui
