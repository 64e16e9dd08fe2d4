// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func execute(command *Command, args ...string) error {
	return command.Execute(context.Background(), args, slog.New(slog.DiscardHandler))
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "passfield",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "replay",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "replay"
					return nil
				},
			},
		},
	}

	if err := execute(root, "replay"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "replay" {
		t.Errorf("dispatched to %q, want %q", called, "replay")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "passfield",
		Subcommands: []*Command{
			{
				Name: "config",
				Subcommands: []*Command{
					{
						Name: "check",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := execute(root, "config", "check", "field.yaml"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "field.yaml" {
		t.Errorf("args = %v, want [field.yaml]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var format string
	var script string

	command := &Command{
		Name: "replay",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.StringVar(&format, "format", "text", "trace format")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				script = args[0]
			}
			return nil
		},
	}

	if err := execute(command, "--format", "json", "typing.jsonc"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if format != "json" {
		t.Errorf("format = %q, want %q", format, "json")
	}
	if script != "typing.jsonc" {
		t.Errorf("script = %q, want %q", script, "typing.jsonc")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "replay",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.Bool("fingerprint", false, "record fingerprints")
			flagSet.String("format", "text", "trace format")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := execute(command, "--fromat", "json")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	message := err.Error()
	if !strings.Contains(message, "did you mean --format") {
		t.Errorf("error = %q, want suggestion for '--format'", message)
	}
	if !strings.Contains(message, "fromat") || !strings.Contains(message, "--help") {
		t.Errorf("error = %q, should mention the bad flag and --help", message)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "replay",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.Bool("fingerprint", false, "record fingerprints")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := execute(command, "--zzzzzzzzz")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "passfield",
		Subcommands: []*Command{
			{Name: "replay"},
			{Name: "config"},
			{Name: "version"},
		},
	}

	err := execute(root, "replya")
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "replay"`) {
		t.Errorf("error = %q, want suggestion for 'replay'", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "passfield",
				Summary: "Masked password field tools",
				Subcommands: []*Command{
					{Name: "replay", Summary: "Replay an edit script"},
				},
			}
			if err := execute(root, helpArg); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name:        "passfield",
		Subcommands: []*Command{{Name: "replay", Summary: "Replay an edit script"}},
	}

	err := execute(root)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %v, want 'subcommand required'", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "passfield",
		Description: "Tools for the masked password field.",
		Subcommands: []*Command{
			{Name: "replay", Summary: "Replay an edit script"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{Description: "Replay a script as JSON lines", Command: "passfield replay --format json typing.jsonc"},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Tools for the masked password field.",
		"Usage:",
		"passfield <command> [flags]",
		"Commands:",
		"replay",
		"Replay an edit script",
		"Examples:",
		"# Replay a script as JSON lines",
		"passfield replay --format json typing.jsonc",
		"Run 'passfield <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:  "replay",
		Usage: "passfield replay <script> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
			flagSet.String("format", "text", "trace format")
			flagSet.Bool("fingerprint", false, "record fingerprints")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{"passfield replay <script> [flags]", "Flags:", "--format", "--fingerprint"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "passfield"}
	config := &Command{Name: "config", parent: root}
	check := &Command{Name: "check", parent: config}

	if got := check.fullName(); got != "passfield config check" {
		t.Errorf("check.fullName() = %q, want %q", got, "passfield config check")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok || coder.ExitCode() != 3 {
		t.Errorf("ExitError does not report its code")
	}
}

func TestNewLogger(t *testing.T) {
	var output bytes.Buffer
	newLogger(&output, false, slog.LevelInfo).Info("replayed", "steps", 3)
	if !strings.HasPrefix(output.String(), "{") || !strings.Contains(output.String(), `"steps":3`) {
		t.Errorf("non-terminal logger should emit JSON, got %q", output.String())
	}

	output.Reset()
	newLogger(&output, true, slog.LevelInfo).Debug("hidden")
	if output.Len() != 0 {
		t.Errorf("debug record emitted at info level: %q", output.String())
	}
}
