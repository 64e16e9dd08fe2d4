// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/editscript"
)

func scriptCommand(stdout io.Writer) *cli.Command {
	var (
		printScript bool
		color       string
	)

	return &cli.Command{
		Name:    "script",
		Summary: "Work with edit scripts",
		Subcommands: []*cli.Command{
			{
				Name:    "check",
				Summary: "Validate an edit script without running it",
				Description: `Parse a JSONC edit script and report every structural problem:
unknown operations or error names, pointers used before they are
created or after they are dropped, and unbalanced begin/end blocks.

--print writes the script back as plain JSON with comments and
trailing commas removed, syntax-highlighted on a terminal.

Exits with status 1 when the script has problems.`,
				Usage: "passfield script check <script> [flags]",
				Examples: []cli.Example{
					{Description: "Lint a script", Command: "passfield script check typing.jsonc"},
					{Description: "Normalize a script to JSON", Command: "passfield script check --print --color never typing.jsonc > typing.json"},
				},
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
					flagSet.BoolVar(&printScript, "print", false, "print the normalized script")
					flagSet.StringVar(&color, "color", "auto", "highlight printed JSON: auto, always, never")
					return flagSet
				},
				Run: func(_ context.Context, args []string, logger *slog.Logger) error {
					if len(args) != 1 {
						return fmt.Errorf("expected exactly one script path, got %d arguments", len(args))
					}
					highlight, err := useColor(color, stdout)
					if err != nil {
						return err
					}

					script, err := editscript.ReadFile(args[0])
					if err != nil {
						return err
					}
					if issues := editscript.Validate(script); len(issues) > 0 {
						for _, issue := range issues {
							fmt.Fprintf(stdout, "%s: %s\n", args[0], issue)
						}
						logger.Debug("script has problems", "path", args[0], "issues", len(issues))
						return &cli.ExitError{Code: 1}
					}

					if !printScript {
						fmt.Fprintf(stdout, "%s: ok (%d steps)\n", args[0], len(script.Steps))
						return nil
					}
					normalized, err := json.MarshalIndent(script, "", "  ")
					if err != nil {
						return fmt.Errorf("encoding script: %w", err)
					}
					if highlight {
						return quick.Highlight(stdout, string(normalized)+"\n", "json", "terminal256", "monokai")
					}
					_, err = fmt.Fprintf(stdout, "%s\n", normalized)
					return err
				},
			},
		},
	}
}

// useColor resolves an auto/always/never color flag against w.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		file, ok := w.(*os.File)
		return ok && term.IsTerminal(int(file.Fd())), nil
	default:
		return false, fmt.Errorf("unknown --color %q (want auto, always, or never)", mode)
	}
}
