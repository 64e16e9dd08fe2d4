// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides memory-safe storage for passwords and other
// confidential input.
//
// All storage is allocated outside the Go heap via mmap(MAP_ANONYMOUS),
// locked into physical RAM via mlock (preventing swap), and marked
// excluded from core dumps via madvise(MADV_DONTDUMP). Released regions
// are zeroed before they are unlocked and unmapped. Because the memory
// lives outside the Go heap, the garbage collector cannot copy or
// relocate it.
//
// Two types are provided:
//
//   - [Buffer] -- a fixed-size byte secret, used for material read
//     from files or a terminal ([ReadFromPath], [ReadFrom])
//   - [Runes] -- an editable character sequence backing a password
//     field. It supports positional insert and remove, wholesale
//     replacement, and copying, but never yields its content to the
//     heap: reads are limited to [Runes.Len], [Runes.Mask],
//     [Runes.Equal], [Runes.Fingerprint], and [Runes.EncodeUTF8],
//     which encodes into a new protected [Buffer]
//
// Growing a [Runes] region maps a larger region, copies, and releases
// the old one, so reallocation never leaves a stale copy behind.
//
// After Close, any access panics. Close is idempotent.
//
// Depends on golang.org/x/sys/unix, golang.org/x/term, and
// github.com/zeebo/blake3.
package secret
