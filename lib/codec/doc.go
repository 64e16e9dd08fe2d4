// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration used for edit
// traces.
//
// Traces are written as JSON lines for people and as CBOR for tools
// that diff or archive them. The encoder uses Core Deterministic
// Encoding: sorted map keys, smallest integer encoding, no
// indefinite-length items. Replaying the same script twice therefore
// yields identical bytes, which is what lets a recorded trace serve as
// a golden file.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct tags
//
// Types serialized to both JSON and CBOR carry only `json` tags.
// fxamacker/cbor reads `json` tags when `cbor` tags are absent, so one
// tag names the field in both formats. Types that are only ever CBOR
// use `cbor` tags. Never put both on the same field.
package codec
