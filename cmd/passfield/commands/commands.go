// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the passfield command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/config"
	"github.com/bureau-foundation/passfield/lib/version"
)

// Root builds the command tree. Command output goes to stdout. level is
// the level of the logger handed to Execute; commands lower or raise it
// to the configured log level.
func Root(stdout io.Writer, level *slog.LevelVar) *cli.Command {
	return &cli.Command{
		Name: "passfield",
		Description: `passfield: tools for the masked password field text model.

Replay scripted editing sessions against a confidential buffer and
record the resulting change notifications without exposing content.`,
		Subcommands: []*cli.Command{
			replayCommand(stdout, level),
			typeCommand(stdout, level),
			scriptCommand(stdout),
			traceCommand(stdout),
			seedCommand(stdout),
			configCommand(stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(context.Context, []string, *slog.Logger) error {
					fmt.Fprintf(stdout, "passfield %s\n", version.Full())
					return nil
				},
			},
		},
	}
}

// loadConfig loads path when given, otherwise the file named by
// PASSFIELD_CONFIG, otherwise the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
