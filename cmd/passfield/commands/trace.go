// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/edittrace"
)

// traceOutput holds the flags that control how a trace is written.
type traceOutput struct {
	format      string
	compression string
	color       string
}

func (o *traceOutput) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.format, "format", string(edittrace.FormatText), "trace format: text, json, cbor, diag")
	flagSet.StringVar(&o.compression, "compress", string(edittrace.CompressionNone), "compress json or cbor traces: none, zstd, lz4")
	flagSet.StringVar(&o.color, "color", "auto", "color text traces: auto, always, never")
}

func (o *traceOutput) validate() error {
	format, err := edittrace.ParseFormat(o.format)
	if err != nil {
		return err
	}
	compression, err := edittrace.ParseCompression(o.compression)
	if err != nil {
		return err
	}
	if compression != edittrace.CompressionNone && format != edittrace.FormatJSON && format != edittrace.FormatCBOR {
		return fmt.Errorf("--compress applies only to json and cbor traces")
	}
	switch o.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown --color %q (want auto, always, or never)", o.color)
	}
	return nil
}

// write encodes trace to path, or to stdout when path is empty. Call
// validate first.
func (o *traceOutput) write(trace *edittrace.Trace, path string, stdout io.Writer) error {
	if path == "" {
		return o.encode(stdout, trace)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace output: %w", err)
	}
	if err := o.encode(file, trace); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

func (o *traceOutput) encode(w io.Writer, trace *edittrace.Trace) error {
	format := edittrace.Format(o.format)
	if format == edittrace.FormatText {
		var options []edittrace.TextOption
		switch o.color {
		case "auto":
			options = append(options, edittrace.WithStyles(edittrace.NewStyles(w, nil)))
		case "always":
			profile := termenv.ANSI256
			options = append(options, edittrace.WithStyles(edittrace.NewStyles(w, &profile)))
		}
		return edittrace.WriteText(w, trace, options...)
	}

	compressed, err := edittrace.NewCompressWriter(w, edittrace.Compression(o.compression))
	if err != nil {
		return err
	}
	if err := edittrace.Write(compressed, trace, format); err != nil {
		compressed.Close()
		return err
	}
	return compressed.Close()
}

func traceCommand(stdout io.Writer) *cli.Command {
	var output traceOutput

	return &cli.Command{
		Name:    "trace",
		Summary: "Inspect recorded change traces",
		Subcommands: []*cli.Command{
			{
				Name:    "show",
				Summary: "Re-render a stored trace",
				Description: `Read a trace recorded with "passfield replay --format json" or
"--format cbor", compressed or not, and write it in another format.`,
				Usage: "passfield trace show <trace> [flags]",
				Examples: []cli.Example{
					{Description: "Read a compressed golden trace", Command: "passfield trace show typing.cbor.zst"},
					{Description: "Dump CBOR diagnostic notation", Command: "passfield trace show --format diag typing.cbor"},
				},
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
					output.addFlags(flagSet)
					return flagSet
				},
				Run: func(_ context.Context, args []string, logger *slog.Logger) error {
					if len(args) != 1 {
						return fmt.Errorf("expected exactly one trace path, got %d arguments", len(args))
					}
					if err := output.validate(); err != nil {
						return err
					}
					trace, err := edittrace.ReadFile(args[0])
					if err != nil {
						return err
					}
					logger.Debug("trace loaded", "path", args[0], "events", len(trace.Events))
					return output.write(trace, "", stdout)
				},
			},
		},
	}
}
