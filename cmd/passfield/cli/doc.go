// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the passfield
// binary: a tree of [Command] values with pflag flag sets, help
// output, typo suggestions for commands and flags, and a stderr logger
// that switches between text and JSON depending on whether stderr is a
// terminal.
package cli
