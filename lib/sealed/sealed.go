// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/passfield/lib/secret"
)

// Keypair holds an age x25519 keypair. The private key is kept in a
// secret.Buffer in the identity file format written by age-keygen, so
// it can be stored and later passed to [Open] unchanged.
//
// The caller must call Close when the keypair is no longer needed.
type Keypair struct {
	// PrivateKey holds the identity line (AGE-SECRET-KEY-1...) in mmap
	// memory outside the Go heap. Must never be logged.
	PrivateKey *secret.Buffer

	// PublicKey is the corresponding recipient in age1... format.
	PublicKey string
}

// Close releases the private key memory. Idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair generates a new age x25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}

	// identity.String() leaves a heap copy that is collected normally;
	// age exposes no byte-oriented encoder.
	privateKey, err := secret.NewFromBytes([]byte(identity.String() + "\n"))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}

	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Seal encrypts seed to every recipient and writes the ASCII-armored
// age file to w. The seed buffer is borrowed and not closed.
func Seal(w io.Writer, seed *secret.Buffer, recipientKeys []string) error {
	if len(recipientKeys) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	armored := armor.NewWriter(w)
	writer, err := age.Encrypt(armored, recipients...)
	if err != nil {
		return fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(seed.Bytes()); err != nil {
		return fmt.Errorf("writing seed to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armored.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// Open decrypts an age file read from r with the identities in
// identityFile, which uses the age-keygen format: one identity per
// line, with blank lines and # comments ignored. Both armored and
// binary files are accepted. The identity buffer is borrowed and not
// closed.
//
// The returned buffer holds the seed and must be closed by the caller.
func Open(r io.Reader, identityFile *secret.Buffer) (*secret.Buffer, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(identityFile.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}

	source := bufio.NewReader(r)
	var ciphertext io.Reader = source
	if start, _ := source.Peek(len(armor.Header)); string(start) == armor.Header {
		ciphertext = armor.NewReader(source)
	}

	reader, err := age.Decrypt(ciphertext, identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("reading decrypted seed: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed seed is empty")
	}

	// NewFromBytes zeros the heap copy.
	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting decrypted seed: %w", err)
	}
	return buffer, nil
}

// ParsePublicKey validates an age x25519 recipient string.
func ParsePublicKey(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}
