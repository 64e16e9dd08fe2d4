// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/passfield/lib/codec"
)

// Format selects a trace encoding.
type Format string

const (
	// FormatText is a line per event for reading in a terminal.
	FormatText Format = "text"
	// FormatJSON is JSON lines: one object per event, then one object
	// holding the final state.
	FormatJSON Format = "json"
	// FormatCBOR is the whole trace as one deterministic CBOR item.
	FormatCBOR Format = "cbor"
	// FormatDiagnostic is the CBOR encoding in RFC 8949 diagnostic
	// notation.
	FormatDiagnostic Format = "diag"
)

// Formats lists every supported format name.
var Formats = []Format{FormatText, FormatJSON, FormatCBOR, FormatDiagnostic}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if string(format) == name {
			return format, nil
		}
	}
	names := make([]string, len(Formats))
	for index, format := range Formats {
		names[index] = string(format)
	}
	return "", fmt.Errorf("unknown trace format %q (want one of %s)", name, strings.Join(names, ", "))
}

// Write encodes trace to w in format.
func Write(w io.Writer, trace *Trace, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, trace)
	case FormatJSON:
		return WriteJSON(w, trace)
	case FormatCBOR:
		return WriteCBOR(w, trace)
	case FormatDiagnostic:
		return WriteDiagnostic(w, trace)
	default:
		return fmt.Errorf("unknown trace format %q", format)
	}
}

// WriteText writes a human-readable rendering of trace.
func WriteText(w io.Writer, trace *Trace, options ...TextOption) error {
	var styles Styles
	for _, option := range options {
		option(&styles)
	}

	buffered := bufio.NewWriter(w)
	for _, event := range trace.Events {
		fmt.Fprintf(buffered, "#%d %s", event.Sequence, styles.kind(event.Kind).Render(fmt.Sprintf("%-8s", event.Kind)))
		switch {
		case event.Edit != nil:
			fmt.Fprintf(buffered, " %s start=%d count=%d", event.Edit.Kind, event.Edit.Start, event.Edit.Count)
		case event.Summary != nil:
			fmt.Fprintf(buffered, " +%d -%d edits=%d", event.Summary.Added, event.Summary.Removed, len(event.Summary.Edits))
		}
		fmt.Fprintf(buffered, " length=%d generation=%d", event.Length, event.Generation)
		if event.Fingerprint != "" {
			fmt.Fprintf(buffered, " fingerprint=%s", event.Fingerprint)
		}
		fmt.Fprintln(buffered)
	}

	final := trace.Final
	fmt.Fprintf(buffered, "%s length=%d generation=%d masked=%q\n", styles.Final.Render("final"), final.Length, final.Generation, final.Masked)
	for _, pointer := range final.Pointers {
		fmt.Fprintf(buffered, "  %s offset=%d gravity=%s", styles.Pointer.Render(pointer.Name), pointer.Offset, pointer.Gravity)
		if pointer.Frozen {
			fmt.Fprint(buffered, " "+styles.Frozen.Render("frozen"))
		}
		fmt.Fprintln(buffered)
	}
	return buffered.Flush()
}

// finalLine is the last record of a JSON lines trace.
type finalLine struct {
	Final State `json:"final"`
}

// WriteJSON writes trace as JSON lines.
func WriteJSON(w io.Writer, trace *Trace) error {
	encoder := json.NewEncoder(w)
	for _, event := range trace.Events {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("encoding event %d: %w", event.Sequence, err)
		}
	}
	if err := encoder.Encode(finalLine{Final: trace.Final}); err != nil {
		return fmt.Errorf("encoding final state: %w", err)
	}
	return nil
}

// ReadJSON decodes a trace written by WriteJSON.
func ReadJSON(r io.Reader) (*Trace, error) {
	decoder := json.NewDecoder(r)
	trace := &Trace{}
	for line := 1; ; line++ {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("trace ended without a final state after %d lines", line-1)
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var probe struct {
			Final *State `json:"final"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if probe.Final != nil {
			trace.Final = *probe.Final
			return trace, nil
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, fmt.Errorf("line %d: decoding event: %w", line, err)
		}
		trace.Events = append(trace.Events, event)
	}
}

// WriteCBOR writes trace as a single deterministic CBOR item.
func WriteCBOR(w io.Writer, trace *Trace) error {
	if err := codec.NewEncoder(w).Encode(trace); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return nil
}

// ReadCBOR decodes a trace written by WriteCBOR.
func ReadCBOR(r io.Reader) (*Trace, error) {
	var trace Trace
	if err := codec.NewDecoder(r).Decode(&trace); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	return &trace, nil
}

// WriteDiagnostic writes the CBOR encoding of trace in diagnostic
// notation followed by a newline.
func WriteDiagnostic(w io.Writer, trace *Trace) error {
	data, err := codec.Marshal(trace)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	notation, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("diagnosing trace: %w", err)
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}
