// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadFromPath reads a secret from a file path, or from stdin if path is
// "-". When stdin is a terminal the secret is read with echo disabled
// after writing prompt to stderr. The returned buffer is mmap-backed and
// must be closed by the caller. Leading/trailing whitespace is trimmed
// before storing. Returns an error if the source is empty after trimming.
func ReadFromPath(path, prompt string) (*Buffer, error) {
	var data []byte

	if path == "-" {
		var err error
		data, err = readStdin(prompt)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	return fromTrimmed(data)
}

// ReadFrom reads a single line secret from reader. Used for piped
// input where stdin is not a terminal.
func ReadFrom(reader io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		return nil, fmt.Errorf("secret input is empty")
	}
	return fromTrimmed(scanner.Bytes())
}

func readStdin(prompt string) ([]byte, error) {
	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			return nil, fmt.Errorf("stdin is empty")
		}
		return scanner.Bytes(), nil
	}

	if prompt != "" {
		fmt.Fprint(os.Stderr, prompt)
	}
	data, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password from terminal: %w", err)
	}
	return data, nil
}

// fromTrimmed moves the trimmed content of data into a protected buffer
// and zeros data entirely.
func fromTrimmed(data []byte) (*Buffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret is empty")
	}

	// NewFromBytes copies into mmap-backed memory and zeros trimmed.
	buffer, err := NewFromBytes(trimmed)
	// Zero remaining bytes (whitespace prefix/suffix) not covered by trimmed.
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
