// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/edittrace"
	"github.com/bureau-foundation/passfield/lib/fieldui"
	"github.com/bureau-foundation/passfield/lib/maskedtext"
	"github.com/bureau-foundation/passfield/lib/sealed"
)

// The interactive field reads keys from terminalInput and draws on
// terminalOutput, leaving stdout for sealed output. Tests replace both.
var (
	terminalInput  io.Reader = os.Stdin
	terminalOutput io.Writer = os.Stderr
)

type typeParams struct {
	configPath string
	prompt     string
	recipients []string
	output     string
	keyFile    string
	tracePath  string
	trace      traceOutput
}

func typeCommand(stdout io.Writer, level *slog.LevelVar) *cli.Command {
	var params typeParams

	return &cli.Command{
		Name:    "type",
		Summary: "Enter a password in an interactive masked field",
		Description: `Open an interactive password field on the terminal. The field shows
only mask characters. Enter submits, Esc cancels.

On submit the password can be sealed to age recipients (--recipient),
producing a seed file for "passfield replay --identity", and its keyed
fingerprint printed (--fingerprint-key-file). --trace records every
change notification of the session; the trace holds no plaintext.

Cancelling exits with status 1.`,
		Usage: "passfield type [flags]",
		Examples: []cli.Example{
			{Description: "Seal a typed password", Command: "passfield type --recipient age1... -o seed.age"},
			{Description: "Record how a password was typed", Command: "passfield type --trace session.json --format json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("type", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "field config file")
			flagSet.StringVar(&params.prompt, "prompt", "Password: ", "prompt shown before the field")
			flagSet.StringArrayVarP(&params.recipients, "recipient", "r", nil, "age public key to seal the password to (repeatable)")
			flagSet.StringVarP(&params.output, "output", "o", "", "write the sealed password to this file instead of stdout")
			flagSet.StringVar(&params.keyFile, "fingerprint-key-file", "", "print the password fingerprint under a key derived from this file")
			flagSet.StringVar(&params.tracePath, "trace", "", "write the session's change trace to this file")
			params.trace.addFlags(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			return runType(ctx, params, stdout, level, logger)
		},
	}
}

func runType(ctx context.Context, params typeParams, stdout io.Writer, level *slog.LevelVar, logger *slog.Logger) error {
	if params.output != "" && len(params.recipients) == 0 {
		return fmt.Errorf("--output requires at least one --recipient")
	}
	for _, recipient := range params.recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			return err
		}
	}
	if params.tracePath != "" {
		if err := params.trace.validate(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(params.configPath)
	if err != nil {
		return err
	}
	configured, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	level.Set(configured)
	logger = logger.With("command", "type")

	field, err := maskedtext.NewFromConfig(cfg.Field, logger)
	if err != nil {
		return fmt.Errorf("creating field: %w", err)
	}
	defer field.Close()

	var recorder *edittrace.Recorder
	if params.tracePath != "" {
		recorder = edittrace.NewRecorder(field, edittrace.WithLogger(logger))
		defer recorder.Close()
	}

	model := fieldui.NewModel(field, params.prompt)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(terminalInput),
		tea.WithOutput(terminalOutput),
	)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running field: %w", err)
	}
	model = final.(fieldui.Model)

	if recorder != nil {
		recorder.Close()
		trace := recorder.Trace(map[string]*maskedtext.Pointer{})
		if err := params.trace.write(trace, params.tracePath, stdout); err != nil {
			return err
		}
	}

	if model.Outcome() != fieldui.Submitted {
		logger.Info("field cancelled")
		return &cli.ExitError{Code: 1}
	}
	logger.Info("field submitted", "length", field.Len(), "generation", field.Generation())

	if params.keyFile != "" {
		key, err := deriveFingerprintKey(params.keyFile)
		if err != nil {
			return err
		}
		defer key.Close()
		fingerprint := field.Fingerprint(edittrace.KeyOf(key))
		fmt.Fprintf(terminalOutput, "fingerprint: %s\n", hex.EncodeToString(fingerprint[:]))
	}

	if len(params.recipients) > 0 {
		return sealPassword(field, params.recipients, params.output, stdout, logger)
	}
	return nil
}

// sealPassword seals the field content to recipients, writing to path
// or to stdout when path is empty.
func sealPassword(field *maskedtext.Container, recipients []string, path string, stdout io.Writer, logger *slog.Logger) error {
	password, err := field.Password()
	if err != nil {
		return err
	}
	defer password.Close()
	if password.Len() == 0 {
		return fmt.Errorf("refusing to seal an empty password")
	}
	encoded, err := password.EncodeUTF8()
	if err != nil {
		return err
	}
	defer encoded.Close()

	if path == "" {
		return sealed.Seal(stdout, encoded, recipients)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating sealed password: %w", err)
	}
	if err := sealed.Seal(file, encoded, recipients); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("password sealed", "path", path, "recipients", len(recipients))
	return nil
}
