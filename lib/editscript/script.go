// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package editscript

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
)

// Op names a step operation.
type Op string

const (
	OpCreate       Op = "create"
	OpClone        Op = "clone"
	OpInsert       Op = "insert"
	OpDelete       Op = "delete"
	OpSetPassword  Op = "set-password"
	OpMove         Op = "move"
	OpJump         Op = "jump"
	OpGravity      Op = "gravity"
	OpFreeze       Op = "freeze"
	OpDrop         Op = "drop"
	OpBegin        Op = "begin"
	OpEnd          Op = "end"
	OpExpect       Op = "expect"
	OpExpectLength Op = "expect-length"
)

// Script is a sequence of edits and expectations replayed against one
// container.
type Script struct {
	Description string `json:"description,omitempty"`

	// Initial is loaded before the first step without a Changed
	// notification.
	Initial string `json:"initial,omitempty"`

	Steps []Step `json:"steps"`
}

// Step is one script operation. Which fields apply depends on Op:
//
//   - create: Name, Offset, Gravity
//   - clone: Name, From, Distance, Gravity
//   - insert: At, Text
//   - delete: From, To
//   - set-password: Text
//   - move: Pointer, Delta
//   - jump: Pointer, Direction
//   - gravity: Pointer, Gravity
//   - freeze, drop: Pointer
//   - begin: nothing; end: Silent
//   - expect: Pointer, Offset, optionally Gravity and Frozen
//   - expect-length: Length, optionally Masked
//
// Any edit step may set Error to require that it fail with that error.
type Step struct {
	Op Op `json:"op"`

	Name    string `json:"name,omitempty"`
	Pointer string `json:"pointer,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	At      string `json:"at,omitempty"`

	Offset    *int                  `json:"offset,omitempty"`
	Distance  int                   `json:"distance,omitempty"`
	Delta     int                   `json:"delta,omitempty"`
	Gravity   *maskedtext.Direction `json:"gravity,omitempty"`
	Direction *maskedtext.Direction `json:"direction,omitempty"`
	Text      *string               `json:"text,omitempty"`
	Silent    bool                  `json:"silent,omitempty"`
	Length    *int                  `json:"length,omitempty"`
	Masked    *string               `json:"masked,omitempty"`
	Frozen    *bool                 `json:"frozen,omitempty"`

	Error string `json:"error,omitempty"`
}

// stepErrors maps the names a step may give in Error to the errors
// they stand for.
var stepErrors = map[string]error{
	"offset-out-of-range": maskedtext.ErrOffsetOutOfRange,
	"invalid-range":       maskedtext.ErrInvalidRange,
	"frozen":              maskedtext.ErrFrozen,
	"max-length-exceeded": maskedtext.ErrMaxLengthExceeded,
}

// pointerNamePattern matches valid pointer names.
var pointerNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Script. The script is not validated.
func Parse(data []byte) (*Script, error) {
	stripped := jsonc.ToJSON(data)

	var script Script
	if err := json.Unmarshal(stripped, &script); err != nil {
		return nil, fmt.Errorf("parsing edit script: %w", err)
	}
	return &script, nil
}

// ReadFile reads and parses a JSONC script file.
func ReadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// Validate checks a script for structural issues and returns a list of
// human-readable descriptions. An empty list means the script is valid.
//
// Pointer references are checked in step order: a pointer must be
// created or cloned before use and is unknown again after drop.
// Change blocks must balance by the end of the script.
func Validate(script *Script) []string {
	var issues []string

	if len(script.Steps) == 0 {
		issues = append(issues, "script has no steps (at least one step is required)")
	}

	defined := map[string]bool{}
	depth := 0
	for index, step := range script.Steps {
		prefix := fmt.Sprintf("steps[%d] %s", index, step.Op)
		if step.Op == "" {
			prefix = fmt.Sprintf("steps[%d]", index)
		}

		requireName := func(field, name string) {
			switch {
			case name == "":
				issues = append(issues, fmt.Sprintf("%s: %s is required", prefix, field))
			case !defined[name]:
				issues = append(issues, fmt.Sprintf("%s: %s %q is not a defined pointer", prefix, field, name))
			}
		}
		newName := func() {
			switch {
			case step.Name == "":
				issues = append(issues, fmt.Sprintf("%s: name is required", prefix))
			case !pointerNamePattern.MatchString(step.Name):
				issues = append(issues, fmt.Sprintf("%s: name %q must match %s", prefix, step.Name, pointerNamePattern))
			case defined[step.Name]:
				issues = append(issues, fmt.Sprintf("%s: pointer %q is already defined", prefix, step.Name))
			default:
				defined[step.Name] = true
			}
		}
		requireGravity := func() {
			if step.Gravity == nil {
				issues = append(issues, fmt.Sprintf("%s: gravity is required", prefix))
			}
		}

		switch step.Op {
		case OpCreate:
			if step.Offset == nil {
				issues = append(issues, fmt.Sprintf("%s: offset is required", prefix))
			}
			requireGravity()
			newName()
		case OpClone:
			requireName("from", step.From)
			requireGravity()
			newName()
		case OpInsert:
			requireName("at", step.At)
			if step.Text == nil {
				issues = append(issues, fmt.Sprintf("%s: text is required", prefix))
			}
		case OpDelete:
			requireName("from", step.From)
			requireName("to", step.To)
		case OpSetPassword:
			if step.Text == nil {
				issues = append(issues, fmt.Sprintf("%s: text is required", prefix))
			}
		case OpMove:
			requireName("pointer", step.Pointer)
		case OpJump:
			requireName("pointer", step.Pointer)
			if step.Direction == nil {
				issues = append(issues, fmt.Sprintf("%s: direction is required", prefix))
			}
		case OpGravity:
			requireName("pointer", step.Pointer)
			requireGravity()
		case OpFreeze:
			requireName("pointer", step.Pointer)
		case OpDrop:
			requireName("pointer", step.Pointer)
			delete(defined, step.Pointer)
		case OpBegin:
			depth++
		case OpEnd:
			if depth == 0 {
				issues = append(issues, fmt.Sprintf("%s: no open change block", prefix))
			} else {
				depth--
			}
		case OpExpect:
			requireName("pointer", step.Pointer)
			if step.Offset == nil {
				issues = append(issues, fmt.Sprintf("%s: offset is required", prefix))
			}
		case OpExpectLength:
			if step.Length == nil {
				issues = append(issues, fmt.Sprintf("%s: length is required", prefix))
			}
		case "":
			issues = append(issues, fmt.Sprintf("%s: op is required", prefix))
		default:
			issues = append(issues, fmt.Sprintf("%s: unknown op", prefix))
		}

		if step.Error != "" {
			if _, known := stepErrors[step.Error]; !known {
				issues = append(issues, fmt.Sprintf("%s: unknown error name %q", prefix, step.Error))
			}
			switch step.Op {
			case OpBegin, OpEnd, OpExpect, OpExpectLength, OpDrop:
				issues = append(issues, fmt.Sprintf("%s: error is not allowed on %s steps", prefix, step.Op))
			}
		}
	}

	if depth > 0 {
		issues = append(issues, fmt.Sprintf("script leaves %d change block(s) open", depth))
	}
	return issues
}
