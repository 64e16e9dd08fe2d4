// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/editscript"
	"github.com/bureau-foundation/passfield/lib/edittrace"
	"github.com/bureau-foundation/passfield/lib/maskedtext"
	"github.com/bureau-foundation/passfield/lib/sealed"
	"github.com/bureau-foundation/passfield/lib/secret"
)

type replayParams struct {
	configPath  string
	seedFile    string
	output      string
	trace       traceOutput
	identity    string
	fingerprint bool
	keyFile     string
}

func replayCommand(stdout io.Writer, level *slog.LevelVar) *cli.Command {
	var params replayParams

	return &cli.Command{
		Name:    "replay",
		Summary: "Replay an edit script and print its change trace",
		Description: `Replay a JSONC edit script against a fresh password field and print
every change notification it produced, followed by the final state of
the field and its named pointers.

The field is created from the config file (--config, or the file named
by PASSFIELD_CONFIG, or built-in defaults). --seed-file loads initial
content from a file before the script runs; "-" reads it from stdin,
prompting without echo when stdin is a terminal. With --identity the
seed file is an age-sealed seed (see "passfield seed seal") opened with
that identity file. Seed content never appears in the trace.

--fingerprint records a keyed content fingerprint on every changed
event using a random key, so fingerprints are only comparable within
one run. --fingerprint-key-file derives the key from a file instead,
making fingerprints comparable across runs that share the file.

The command exits with status 1 when a script expectation fails. The
trace up to the failing step is still written.`,
		Usage: "passfield replay <script> [flags]",
		Examples: []cli.Example{
			{Description: "Replay a script and print a readable trace", Command: "passfield replay typing.jsonc"},
			{Description: "Record a compressed golden CBOR trace", Command: "passfield replay --format cbor --compress zstd -o typing.cbor.zst typing.jsonc"},
			{Description: "Seed the field from a prompt", Command: "passfield replay --seed-file - edits.jsonc"},
			{Description: "Seed the field from a sealed seed", Command: "passfield replay --seed-file seed.age --identity key.txt edits.jsonc"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "field config file")
			flagSet.StringVar(&params.seedFile, "seed-file", "", `file holding initial content ("-" for stdin)`)
			params.trace.addFlags(flagSet)
			flagSet.StringVarP(&params.output, "output", "o", "", "write the trace to this file instead of stdout")
			flagSet.StringVar(&params.identity, "identity", "", "age identity file for opening a sealed --seed-file")
			flagSet.BoolVar(&params.fingerprint, "fingerprint", false, "record a content fingerprint with a per-run random key on each changed event")
			flagSet.StringVar(&params.keyFile, "fingerprint-key-file", "", "derive the fingerprint key from this file (implies --fingerprint)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one script path, got %d arguments", len(args))
			}
			return runReplay(ctx, args[0], params, stdout, level, logger)
		},
	}
}

func runReplay(ctx context.Context, scriptPath string, params replayParams, stdout io.Writer, level *slog.LevelVar, logger *slog.Logger) error {
	if err := params.trace.validate(); err != nil {
		return err
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
	logger = logger.With("command", "replay", "script", scriptPath)

	script, err := editscript.ReadFile(scriptPath)
	if err != nil {
		return err
	}

	container, err := maskedtext.NewFromConfig(cfg.Field, logger)
	if err != nil {
		return fmt.Errorf("creating field: %w", err)
	}
	defer container.Close()

	if params.identity != "" && params.seedFile == "" {
		return fmt.Errorf("--identity requires --seed-file")
	}
	if params.seedFile != "" {
		if err := seedContainer(container, params.seedFile, params.identity); err != nil {
			return err
		}
	}

	var recorderOptions []edittrace.RecorderOption
	recorderOptions = append(recorderOptions, edittrace.WithLogger(logger))
	switch {
	case params.keyFile != "":
		key, err := deriveFingerprintKey(params.keyFile)
		if err != nil {
			return err
		}
		defer key.Close()
		recorderOptions = append(recorderOptions, edittrace.WithFingerprintKey(edittrace.KeyOf(key)))
	case params.fingerprint:
		var key [edittrace.FingerprintKeySize]byte
		rand.Read(key[:])
		recorderOptions = append(recorderOptions, edittrace.WithFingerprintKey(&key))
	}
	recorder := edittrace.NewRecorder(container, recorderOptions...)
	runner := editscript.NewRunner(container, logger)

	runErr := runner.Run(ctx, script)
	recorder.Close()
	trace := recorder.Trace(runner.Pointers())

	var expectation *editscript.ExpectationError
	if runErr != nil && !errors.As(runErr, &expectation) {
		return runErr
	}

	if err := params.trace.write(trace, params.output, stdout); err != nil {
		return err
	}

	if runErr != nil {
		logger.Error("script expectation failed", "error", runErr)
		return &cli.ExitError{Code: 1}
	}
	logger.Info("replay complete",
		"steps", len(script.Steps),
		"events", len(trace.Events),
		"length", container.Len(),
		"generation", container.Generation(),
	)
	return nil
}

// seedContainer loads initial content without a Changed notification.
func seedContainer(container *maskedtext.Container, path, identityPath string) error {
	buffer, err := readSeed(path, identityPath)
	if err != nil {
		return err
	}
	defer buffer.Close()

	value, err := secret.NewRunesFromBuffer(buffer)
	if err != nil {
		return fmt.Errorf("decoding seed: %w", err)
	}
	defer value.Close()

	scope := container.ChangeBlock()
	defer scope.EndSilent()
	if err := container.SetPassword(value); err != nil {
		return fmt.Errorf("seeding field: %w", err)
	}
	return nil
}

// readSeed reads a plain seed, or opens a sealed one when identityPath
// is set.
func readSeed(path, identityPath string) (*secret.Buffer, error) {
	if identityPath == "" {
		buffer, err := secret.ReadFromPath(path, "Seed password: ")
		if err != nil {
			return nil, fmt.Errorf("reading seed: %w", err)
		}
		return buffer, nil
	}

	identity, err := secret.ReadFromPath(identityPath, "")
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}
	defer identity.Close()

	var source io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading sealed seed: %w", err)
		}
		defer file.Close()
		source = file
	}
	buffer, err := sealed.Open(source, identity)
	if err != nil {
		return nil, fmt.Errorf("opening sealed seed %s: %w", path, err)
	}
	return buffer, nil
}

func deriveFingerprintKey(path string) (*secret.Buffer, error) {
	material, err := secret.ReadFromPath(path, "")
	if err != nil {
		return nil, fmt.Errorf("reading fingerprint key file: %w", err)
	}
	defer material.Close()
	return edittrace.DeriveFingerprintKey(material)
}
