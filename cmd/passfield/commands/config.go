// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
)

func configCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect field configuration",
		Subcommands: []*cli.Command{
			{
				Name:    "check",
				Summary: "Validate a config file and print the effective settings",
				Description: `Load a field config file, apply the overrides for its environment,
validate it, and print the settings a field would be created with.

Without a path, the file named by PASSFIELD_CONFIG is checked, or the
built-in defaults when that is unset.`,
				Usage: "passfield config check [path]",
				Examples: []cli.Example{
					{Description: "Check a production config", Command: "passfield config check deploy/field.yaml"},
				},
				Run: func(_ context.Context, args []string, logger *slog.Logger) error {
					if len(args) > 1 {
						return fmt.Errorf("expected at most one config path, got %d arguments", len(args))
					}
					path := ""
					if len(args) == 1 {
						path = args[0]
					}

					cfg, err := loadConfig(path)
					if err != nil {
						return err
					}
					logger.Debug("config loaded", "path", path, "environment", cfg.Environment)

					fmt.Fprintf(stdout, "environment:      %s\n", cfg.Environment)
					fmt.Fprintf(stdout, "mask_char:        %s\n", cfg.Field.MaskChar)
					fmt.Fprintf(stdout, "max_length:       %d\n", cfg.Field.MaxLength)
					fmt.Fprintf(stdout, "initial_capacity: %d\n", cfg.Field.InitialCapacity)
					fmt.Fprintf(stdout, "verify_registry:  %t\n", cfg.Field.VerifyRegistry)
					fmt.Fprintf(stdout, "log.level:        %s\n", cfg.Log.Level)
					return nil
				},
			},
		},
	}
}
