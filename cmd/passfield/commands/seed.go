// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/passfield/cmd/passfield/cli"
	"github.com/bureau-foundation/passfield/lib/sealed"
	"github.com/bureau-foundation/passfield/lib/secret"
)

func seedCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "seed",
		Summary: "Manage age-sealed seed passwords",
		Description: `Seal seed passwords with age so replay scripts can be checked in
alongside an encrypted starting value. Open them with
"passfield replay --seed-file <file> --identity <key>".`,
		Subcommands: []*cli.Command{
			seedKeygenCommand(stdout),
			seedSealCommand(stdout),
		},
	}
}

func seedKeygenCommand(stdout io.Writer) *cli.Command {
	var output string

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity file",
		Description: `Generate an age x25519 keypair. The identity is written to --output
(mode 0600) in age-keygen format, and the public key is printed.`,
		Usage: "passfield seed keygen --output <file>",
		Examples: []cli.Example{
			{Description: "Create a key for sealing seeds", Command: "passfield seed keygen -o key.txt"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "identity file to create")
			return flagSet
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("creating identity file: %w", err)
			}
			fmt.Fprintf(file, "# created: %s\n# public key: %s\n", time.Now().UTC().Format(time.RFC3339), keypair.PublicKey)
			if _, err := file.Write(keypair.PrivateKey.Bytes()); err != nil {
				file.Close()
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			logger.Info("identity created", "path", output)
			fmt.Fprintf(stdout, "%s\n", keypair.PublicKey)
			return nil
		},
	}
}

func seedSealCommand(stdout io.Writer) *cli.Command {
	var (
		recipients []string
		seedFile   string
		output     string
	)

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a seed password to age recipients",
		Description: `Read a seed password and write it age-encrypted and ASCII-armored
to every --recipient. The seed is read from --seed-file, or prompted
for without echo when that is "-" and stdin is a terminal.`,
		Usage: "passfield seed seal --recipient <age1...> [flags]",
		Examples: []cli.Example{
			{Description: "Seal a prompted seed", Command: "passfield seed seal --recipient age1... -o seed.age"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			flagSet.StringArrayVarP(&recipients, "recipient", "r", nil, "age public key to seal to (repeatable)")
			flagSet.StringVar(&seedFile, "seed-file", "-", `file holding the seed ("-" for stdin)`)
			flagSet.StringVarP(&output, "output", "o", "", "write the sealed seed to this file instead of stdout")
			return flagSet
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if len(recipients) == 0 {
				return fmt.Errorf("at least one --recipient is required")
			}
			for _, recipient := range recipients {
				if err := sealed.ParsePublicKey(recipient); err != nil {
					return err
				}
			}

			seed, err := secret.ReadFromPath(seedFile, "Seed password: ")
			if err != nil {
				return fmt.Errorf("reading seed: %w", err)
			}
			defer seed.Close()

			if output == "" {
				return sealed.Seal(stdout, seed, recipients)
			}
			file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("creating sealed seed: %w", err)
			}
			if err := sealed.Seal(file, seed, recipients); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			logger.Info("seed sealed", "path", output, "recipients", len(recipients))
			return nil
		},
	}
}
