// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package edittrace

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/bureau-foundation/passfield/lib/secret"
)

// FingerprintKeySize is the size of a trace fingerprint key.
const FingerprintKeySize = 32

// hkdfInfoFingerprint separates trace fingerprint keys from any other
// use of the same key material. Changing it changes every recorded
// fingerprint.
var hkdfInfoFingerprint = []byte("passfield.trace.fingerprint.v1")

// DeriveFingerprintKey derives a trace fingerprint key from arbitrary
// key material with HKDF-SHA256. Traces recorded with keys derived from
// the same material carry comparable fingerprints, so two runs can be
// checked for identical content without either revealing it.
//
// The material is borrowed and not closed. The returned buffer must be
// closed by the caller; pass it to the recorder with [KeyOf].
func DeriveFingerprintKey(material *secret.Buffer) (*secret.Buffer, error) {
	reader := hkdf.New(sha256.New, material.Bytes(), nil, hkdfInfoFingerprint)
	derived := make([]byte, FingerprintKeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("deriving fingerprint key: %w", err)
	}
	// NewFromBytes zeros the heap slice.
	return secret.NewFromBytes(derived)
}

// KeyOf views a derived key buffer as a fingerprint key without copying
// it out of protected memory. Panics if the buffer is not
// FingerprintKeySize bytes.
func KeyOf(key *secret.Buffer) *[FingerprintKeySize]byte {
	return (*[FingerprintKeySize]byte)(key.Bytes())
}
