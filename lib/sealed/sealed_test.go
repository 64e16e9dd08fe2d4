// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"strings"
	"testing"

	"filippo.io/age"

	"github.com/bureau-foundation/passfield/lib/secret"
)

func newKeypair(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}
	t.Cleanup(func() { keypair.Close() })
	return keypair
}

func newSeed(t *testing.T, content string) *secret.Buffer {
	t.Helper()
	seed, err := secret.NewFromBytes([]byte(content))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { seed.Close() })
	return seed
}

func seal(t *testing.T, content string, recipients ...string) []byte {
	t.Helper()
	var sealed bytes.Buffer
	if err := Seal(&sealed, newSeed(t, content), recipients); err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	return sealed.Bytes()
}

func TestGenerateKeypair(t *testing.T) {
	keypair := newKeypair(t)

	if !bytes.HasPrefix(keypair.PrivateKey.Bytes(), []byte("AGE-SECRET-KEY-1")) {
		t.Error("PrivateKey does not start with AGE-SECRET-KEY-1")
	}
	if !strings.HasPrefix(keypair.PublicKey, "age1") {
		t.Errorf("PublicKey = %q, want prefix age1", keypair.PublicKey)
	}
	if err := ParsePublicKey(keypair.PublicKey); err != nil {
		t.Errorf("ParsePublicKey(generated) error: %v", err)
	}

	other := newKeypair(t)
	if other.PublicKey == keypair.PublicKey {
		t.Error("two generated keypairs share a public key")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	keypair := newKeypair(t)
	sealed := seal(t, "correct horse", keypair.PublicKey)

	if !bytes.HasPrefix(sealed, []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
		t.Errorf("sealed seed is not armored:\n%s", sealed)
	}
	if bytes.Contains(sealed, []byte("correct horse")) {
		t.Fatal("sealed output contains the plaintext seed")
	}

	opened, err := Open(bytes.NewReader(sealed), keypair.PrivateKey)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer opened.Close()
	if string(opened.Bytes()) != "correct horse" {
		t.Errorf("Open() = %q, want %q", opened.Bytes(), "correct horse")
	}
}

func TestSealOpen_MultipleRecipients(t *testing.T) {
	first := newKeypair(t)
	second := newKeypair(t)
	sealed := seal(t, "shared", first.PublicKey, second.PublicKey)

	for name, keypair := range map[string]*Keypair{"first": first, "second": second} {
		opened, err := Open(bytes.NewReader(sealed), keypair.PrivateKey)
		if err != nil {
			t.Fatalf("Open(%s) error: %v", name, err)
		}
		if string(opened.Bytes()) != "shared" {
			t.Errorf("Open(%s) = %q", name, opened.Bytes())
		}
		opened.Close()
	}
}

func TestOpen_BinaryFile(t *testing.T) {
	keypair := newKeypair(t)
	recipient, err := age.ParseX25519Recipient(keypair.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	var binary bytes.Buffer
	writer, err := age.Encrypt(&binary, recipient)
	if err != nil {
		t.Fatal(err)
	}
	writer.Write([]byte("unarmored"))
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	opened, err := Open(&binary, keypair.PrivateKey)
	if err != nil {
		t.Fatalf("Open(binary) error: %v", err)
	}
	defer opened.Close()
	if string(opened.Bytes()) != "unarmored" {
		t.Errorf("Open(binary) = %q", opened.Bytes())
	}
}

func TestOpen_IdentityFileWithComments(t *testing.T) {
	keypair := newKeypair(t)
	sealed := seal(t, "commented", keypair.PublicKey)

	content := "# created: 2026-01-01T00:00:00Z\n# public key: " + keypair.PublicKey + "\n\n" + string(keypair.PrivateKey.Bytes())
	identityFile := newSeed(t, content)

	opened, err := Open(bytes.NewReader(sealed), identityFile)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer opened.Close()
	if string(opened.Bytes()) != "commented" {
		t.Errorf("Open() = %q", opened.Bytes())
	}
}

func TestOpen_WrongKey(t *testing.T) {
	sealed := seal(t, "secret data", newKeypair(t).PublicKey)

	_, err := Open(bytes.NewReader(sealed), newKeypair(t).PrivateKey)
	if err == nil || !strings.Contains(err.Error(), "decrypting") {
		t.Errorf("Open() with wrong key error = %v, want decrypting error", err)
	}
}

func TestOpen_InvalidIdentityFile(t *testing.T) {
	sealed := seal(t, "data", newKeypair(t).PublicKey)

	_, err := Open(bytes.NewReader(sealed), newSeed(t, "not-a-valid-private-key"))
	if err == nil || !strings.Contains(err.Error(), "parsing identity file") {
		t.Errorf("error = %v, want 'parsing identity file'", err)
	}
}

func TestSeal_Errors(t *testing.T) {
	seed := newSeed(t, "data")

	if err := Seal(&bytes.Buffer{}, seed, nil); err == nil || !strings.Contains(err.Error(), "at least one recipient") {
		t.Errorf("Seal() with no recipients error = %v", err)
	}
	if err := Seal(&bytes.Buffer{}, seed, []string{"not-a-valid-key"}); err == nil || !strings.Contains(err.Error(), "parsing recipient key") {
		t.Errorf("Seal() with invalid recipient error = %v", err)
	}
}

func TestParsePublicKey_Invalid(t *testing.T) {
	if err := ParsePublicKey("age1invalid"); err == nil {
		t.Error("ParsePublicKey(age1invalid) should fail")
	}
}
