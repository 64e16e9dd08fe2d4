// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects a stream compressor for stored traces.
type Compression string

const (
	CompressionNone Compression = "none"
	// CompressionZstd suits archived golden traces.
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 trades ratio for speed on large fuzz traces.
	CompressionLZ4 Compression = "lz4"
)

// Frame magic numbers used to recognize compressed traces on read.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression validates a compression name.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case CompressionNone, CompressionZstd, CompressionLZ4:
		return Compression(name), nil
	default:
		return "", fmt.Errorf("unknown trace compression %q (want one of none, zstd, lz4)", name)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewCompressWriter wraps w so that everything written is compressed.
// Close flushes the compressed stream but does not close w.
func NewCompressWriter(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown trace compression %q", compression)
	}
}

// NewDecompressReader returns a reader over the decompressed content
// of r, recognizing zstd and lz4 frames by their magic numbers. Other
// input is returned unchanged.
func NewDecompressReader(r io.Reader) (io.Reader, error) {
	buffered := bufio.NewReader(r)
	magic, _ := buffered.Peek(4)
	switch {
	case bytes.Equal(magic, zstdMagic):
		decoder, err := zstd.NewReader(buffered, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), nil
	case bytes.Equal(magic, lz4Magic):
		return lz4.NewReader(buffered), nil
	default:
		return buffered, nil
	}
}

// Read decodes a stored trace, detecting compression and then the
// encoding: JSON lines when the content starts with '{', CBOR
// otherwise. Text and diagnostic traces cannot be read back.
func Read(r io.Reader) (*Trace, error) {
	decompressed, err := NewDecompressReader(r)
	if err != nil {
		return nil, err
	}
	buffered := bufio.NewReader(decompressed)
	for {
		next, err := buffered.Peek(1)
		if err != nil {
			return nil, fmt.Errorf("reading trace: %w", err)
		}
		switch next[0] {
		case ' ', '\t', '\r', '\n':
			buffered.ReadByte()
			continue
		case '{':
			return ReadJSON(buffered)
		default:
			return ReadCBOR(buffered)
		}
	}
}

// ReadFile reads a stored trace from path.
func ReadFile(path string) (*Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer file.Close()
	trace, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trace, nil
}
