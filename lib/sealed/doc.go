// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed stores password field seeds as age-encrypted files.
// It wraps filippo.io/age for the operations passfield needs: generate
// x25519 keypairs, seal a seed to one or more recipients, and open a
// sealed seed with an identity file.
//
// Sealed seeds are written ASCII-armored so they can live beside edit
// scripts in a repository. [Open] accepts armored and binary files.
// Identities and opened seeds are [secret.Buffer] values backed by mmap
// memory outside the Go heap.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair in a secret.Buffer
//   - [Seal] -- encrypt a seed to age public key recipients
//   - [Open] -- decrypt a sealed seed with an identity file
//   - [ParsePublicKey] -- recipient validation
//
// Depends on lib/secret for secure memory allocation.
package sealed
