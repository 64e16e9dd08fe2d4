// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package editscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/bureau-foundation/passfield/lib/maskedtext"
	"github.com/bureau-foundation/passfield/lib/secret"
)

// ExpectationError reports a script expectation that did not hold.
// Other errors returned by [Runner.Run] mean the script itself could
// not be executed.
type ExpectationError struct {
	Message string
}

func (e *ExpectationError) Error() string {
	return "expectation failed: " + e.Message
}

func expectationf(format string, args ...any) error {
	return &ExpectationError{Message: fmt.Sprintf(format, args...)}
}

// Runner executes scripts against a container, keeping a table of
// named pointers across steps.
type Runner struct {
	container *maskedtext.Container
	pointers  map[string]*maskedtext.Pointer
	logger    *slog.Logger

	// open counts change blocks opened by begin steps and not yet
	// closed.
	open int
}

// NewRunner creates a runner for container. A nil logger discards.
func NewRunner(container *maskedtext.Container, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		container: container,
		pointers:  make(map[string]*maskedtext.Pointer),
		logger:    logger,
	}
}

// Pointers returns the currently named pointers.
func (r *Runner) Pointers() map[string]*maskedtext.Pointer {
	return maps.Clone(r.pointers)
}

// Run validates script and executes its steps in order. It stops at
// the first failing step; the returned error names the step and wraps
// the cause, which is an [*ExpectationError] when an expectation did
// not hold. Change blocks left open by a failed script are closed
// silently. Cancelling ctx stops the run between steps.
func (r *Runner) Run(ctx context.Context, script *Script) error {
	if issues := Validate(script); len(issues) > 0 {
		return fmt.Errorf("invalid edit script:\n  %s", strings.Join(issues, "\n  "))
	}
	defer r.closeOpenBlocks()

	if script.Initial != "" {
		if err := r.loadInitial(script.Initial); err != nil {
			return fmt.Errorf("loading initial content: %w", err)
		}
	}

	for index, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runStep(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", index+1, step.Op, err)
		}
		r.logger.Debug("step complete",
			"step", index+1,
			"op", step.Op,
			"length", r.container.Len(),
			"generation", r.container.Generation(),
		)
	}
	return nil
}

func (r *Runner) loadInitial(text string) error {
	value, err := secret.NewRunesFromString(text)
	if err != nil {
		return err
	}
	defer value.Close()

	scope := r.container.ChangeBlock()
	defer scope.EndSilent()
	return r.container.SetPassword(value)
}

func (r *Runner) closeOpenBlocks() {
	for ; r.open > 0; r.open-- {
		r.container.EndChangeSilent()
	}
}

// runStep executes one step and reconciles its outcome with the step's
// expected error, if any.
func (r *Runner) runStep(step Step) error {
	err := r.execute(step)
	if step.Error == "" {
		return err
	}

	want := stepErrors[step.Error]
	switch {
	case err == nil:
		return expectationf("expected error %q, step succeeded", step.Error)
	case errors.Is(err, want):
		return nil
	default:
		var expectation *ExpectationError
		if errors.As(err, &expectation) {
			return err
		}
		return expectationf("expected error %q, got: %v", step.Error, err)
	}
}

func (r *Runner) execute(step Step) error {
	switch step.Op {
	case OpCreate:
		pointer, err := r.container.CreatePointerAtOffset(*step.Offset, *step.Gravity)
		if err != nil {
			return err
		}
		r.pointers[step.Name] = pointer

	case OpClone:
		from, err := r.lookup(step.From)
		if err != nil {
			return err
		}
		pointer, err := from.CreatePointer(step.Distance, *step.Gravity)
		if err != nil {
			return err
		}
		r.pointers[step.Name] = pointer

	case OpInsert:
		at, err := r.lookup(step.At)
		if err != nil {
			return err
		}
		return r.container.InsertText(at, *step.Text)

	case OpDelete:
		from, err := r.lookup(step.From)
		if err != nil {
			return err
		}
		to, err := r.lookup(step.To)
		if err != nil {
			return err
		}
		return r.container.DeleteContent(from, to)

	case OpSetPassword:
		value, err := secret.NewRunesFromString(*step.Text)
		if err != nil {
			return err
		}
		defer value.Close()
		return r.container.SetPassword(value)

	case OpMove:
		pointer, err := r.lookup(step.Pointer)
		if err != nil {
			return err
		}
		return pointer.MoveByOffset(step.Delta)

	case OpJump:
		pointer, err := r.lookup(step.Pointer)
		if err != nil {
			return err
		}
		_, err = pointer.MoveToNextContextPosition(*step.Direction)
		return err

	case OpGravity:
		pointer, err := r.lookup(step.Pointer)
		if err != nil {
			return err
		}
		return pointer.SetGravity(*step.Gravity)

	case OpFreeze:
		pointer, err := r.lookup(step.Pointer)
		if err != nil {
			return err
		}
		pointer.Freeze()

	case OpDrop:
		if _, err := r.lookup(step.Pointer); err != nil {
			return err
		}
		delete(r.pointers, step.Pointer)

	case OpBegin:
		r.container.BeginChange()
		r.open++

	case OpEnd:
		if r.open == 0 {
			return fmt.Errorf("no open change block")
		}
		r.open--
		if step.Silent {
			r.container.EndChangeSilent()
		} else {
			r.container.EndChange()
		}

	case OpExpect:
		return r.expectPointer(step)

	case OpExpectLength:
		if length := r.container.Len(); length != *step.Length {
			return expectationf("length is %d, want %d", length, *step.Length)
		}
		if step.Masked != nil {
			if masked := r.container.MaskedText(); masked != *step.Masked {
				return expectationf("masked text is %q, want %q", masked, *step.Masked)
			}
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (r *Runner) expectPointer(step Step) error {
	pointer, err := r.lookup(step.Pointer)
	if err != nil {
		return err
	}
	if offset := pointer.Offset(); offset != *step.Offset {
		return expectationf("pointer %q is at %d, want %d", step.Pointer, offset, *step.Offset)
	}
	if step.Gravity != nil && pointer.Gravity() != *step.Gravity {
		return expectationf("pointer %q has gravity %s, want %s", step.Pointer, pointer.Gravity(), *step.Gravity)
	}
	if step.Frozen != nil && pointer.IsFrozen() != *step.Frozen {
		return expectationf("pointer %q frozen is %t, want %t", step.Pointer, pointer.IsFrozen(), *step.Frozen)
	}
	return nil
}

func (r *Runner) lookup(name string) (*maskedtext.Pointer, error) {
	pointer, ok := r.pointers[name]
	if !ok {
		return nil, fmt.Errorf("pointer %q is not defined", name)
	}
	return pointer, nil
}
