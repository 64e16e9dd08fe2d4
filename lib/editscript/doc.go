// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package editscript replays scripted editing sessions against a
// [maskedtext.Container].
//
// Scripts are authored as JSONC (JSON with comments and trailing
// commas). Each step either edits the container, manipulates a named
// pointer, opens or closes a change block, or checks an expectation:
//
//	{
//	  "initial": "abcde",
//	  "steps": [
//	    {"op": "create", "name": "p1", "offset": 1, "gravity": "backward"},
//	    {"op": "create", "name": "end", "offset": 4, "gravity": "forward"},
//	    {"op": "delete", "from": "p1", "to": "end"},
//	    {"op": "expect", "pointer": "end", "offset": 1},
//	    {"op": "expect-length", "length": 2, "masked": "●●"},
//	  ],
//	}
//
// The typical flow is ReadFile, then [Runner.Run], which validates the
// script before executing it. A failed expectation is reported as an
// [*ExpectationError] wrapped with the step number.
//
// Dropping a pointer with the drop op only forgets its name. The
// container releases it once the garbage collector reclaims it.
package editscript
