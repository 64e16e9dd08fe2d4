// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/zeebo/blake3"
)

// runeSize is the number of bytes each rune occupies in the region.
// Fixed-width storage keeps rune offsets and byte offsets trivially
// related, so insertion and removal are a single memmove.
const runeSize = 4

// minimumRuneCapacity is the smallest region a Runes buffer allocates
// once it holds any content.
const minimumRuneCapacity = 16

// FingerprintSize is the length of a [Runes.Fingerprint] digest.
const FingerprintSize = 32

// Runes is an editable confidential character sequence. Characters are
// stored as fixed-width code points in an mmap region that is locked
// against swapping and excluded from core dumps. When the region has to
// grow, the old region is zeroed and unmapped before the new one is
// used, so no stale copy of the content survives a reallocation.
//
// Runes never returns its content as a string or slice. The only
// observable reads are the length, masked runs, constant-time
// comparison, a keyed fingerprint, and [Runes.EncodeUTF8] into another
// protected buffer.
//
// A Runes buffer must not be copied after creation. After Close, every
// method except Close and Len panics.
type Runes struct {
	mu     sync.Mutex
	data   []byte
	length int
	closed bool
}

// NewRunes creates an empty buffer with room for capacity runes.
// A capacity of zero defers allocation until the first insertion.
func NewRunes(capacity int) (*Runes, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("secret: rune capacity must not be negative, got %d", capacity)
	}
	r := &Runes{}
	if capacity > 0 {
		data, err := mapRegion(capacity * runeSize)
		if err != nil {
			return nil, err
		}
		r.data = data
	}
	return r, nil
}

// NewRunesFromString creates a buffer holding the characters of s.
// The string itself cannot be zeroed; use it only where the plaintext
// already lives on the heap (test fixtures, scripted input).
func NewRunesFromString(s string) (*Runes, error) {
	r, err := NewRunes(utf8.RuneCountInString(s))
	if err != nil {
		return nil, err
	}
	index := 0
	for _, char := range s {
		r.put(index, char)
		index++
	}
	r.length = index
	return r, nil
}

// NewRunesFromBuffer decodes the UTF-8 content of a [Buffer] into a new
// Runes buffer without an intermediate heap copy. Invalid sequences
// decode as utf8.RuneError.
func NewRunesFromBuffer(source *Buffer) (*Runes, error) {
	data := source.Bytes()
	r, err := NewRunes(utf8.RuneCount(data))
	if err != nil {
		return nil, err
	}
	index := 0
	for len(data) > 0 {
		char, size := utf8.DecodeRune(data)
		r.put(index, char)
		index++
		data = data[size:]
	}
	r.length = index
	return r, nil
}

// Len returns the number of characters in the buffer. Len is valid
// after Close and returns zero.
func (r *Runes) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.length
}

// Cap returns the number of characters the current region can hold
// without growing.
func (r *Runes) Cap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.data) / runeSize
}

// Reserve grows the region so that it holds at least capacity runes
// without further allocation. Callers reserve before a multi-step edit
// so the edit cannot fail partway through.
func (r *Runes) Reserve(capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	return r.reserve(capacity)
}

// InsertAt inserts a single character at offset.
func (r *Runes) InsertAt(offset int, char rune) error {
	return r.Insert(offset, []rune{char})
}

// Insert inserts chars at offset, shifting the tail right. The region
// is grown before anything moves, so on error the buffer is unchanged.
// Panics if offset is outside [0, Len].
func (r *Runes) Insert(offset int, chars []rune) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	if offset < 0 || offset > r.length {
		panic(fmt.Sprintf("secret: insert offset %d out of range [0, %d]", offset, r.length))
	}
	if len(chars) == 0 {
		return nil
	}
	if err := r.reserve(r.length + len(chars)); err != nil {
		return err
	}

	start := offset * runeSize
	shift := len(chars) * runeSize
	copy(r.data[start+shift:], r.data[start:r.length*runeSize])
	for index, char := range chars {
		r.put(offset+index, char)
	}
	r.length += len(chars)
	return nil
}

// RemoveAt removes the character at offset.
func (r *Runes) RemoveAt(offset int) {
	r.RemoveRange(offset, 1)
}

// RemoveRange removes count characters starting at offset and zeroes
// the vacated tail. Panics if the span is outside the buffer.
func (r *Runes) RemoveRange(offset, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	if offset < 0 || count < 0 || offset+count > r.length {
		panic(fmt.Sprintf("secret: remove span [%d, %d) out of range [0, %d]", offset, offset+count, r.length))
	}
	if count == 0 {
		return
	}

	end := r.length * runeSize
	copy(r.data[offset*runeSize:], r.data[(offset+count)*runeSize:end])
	r.length -= count
	Zero(r.data[r.length*runeSize : end])
}

// Clear zeroes the content and sets the length to zero. The region is
// kept for reuse.
func (r *Runes) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	Zero(r.data[:r.length*runeSize])
	r.length = 0
}

// ReplaceWith replaces the content with a private copy of other's
// content. Replacing a buffer with itself is a no-op.
func (r *Runes) ReplaceWith(other *Runes) error {
	if r == other {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	r.checkOpen()
	other.checkOpen()

	if err := r.reserve(other.length); err != nil {
		return err
	}
	used := r.length * runeSize
	copied := copy(r.data, other.data[:other.length*runeSize])
	if copied < used {
		Zero(r.data[copied:used])
	}
	r.length = other.length
	return nil
}

// Copy returns an independent buffer with the same content.
func (r *Runes) Copy() (*Runes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	duplicate, err := NewRunes(r.length)
	if err != nil {
		return nil, err
	}
	copy(duplicate.data, r.data[:r.length*runeSize])
	duplicate.length = r.length
	return duplicate, nil
}

// EncodeUTF8 returns the content UTF-8 encoded in a new [Buffer]. The
// encoding is written directly into the buffer's protected region, so
// this is the hand-off point for consumers of the password (sealing,
// authentication) that need bytes. The caller must close the buffer.
func (r *Runes) EncodeUTF8() (*Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	size := 0
	for index := range r.length {
		size += utf8.RuneLen(r.get(index))
	}
	if size <= 0 {
		return nil, fmt.Errorf("secret: cannot encode an empty rune buffer")
	}

	buffer, err := New(size)
	if err != nil {
		return nil, err
	}
	target := buffer.Bytes()
	written := 0
	for index := range r.length {
		written += utf8.EncodeRune(target[written:], r.get(index))
	}
	return buffer, nil
}

// Mask returns the mask character repeated once for every character in
// [start, end). The content itself is never read. Panics if the span is
// outside the buffer.
func (r *Runes) Mask(start, end int, mask rune) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	if start < 0 || end < start || end > r.length {
		panic(fmt.Sprintf("secret: mask span [%d, %d) out of range [0, %d]", start, end, r.length))
	}
	return strings.Repeat(string(mask), end-start)
}

// Equal reports whether r and other hold the same characters. The
// comparison of content runs in constant time for equal lengths.
func (r *Runes) Equal(other *Runes) bool {
	if r == other {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	other.mu.Lock()
	defer other.mu.Unlock()

	r.checkOpen()
	other.checkOpen()

	if r.length != other.length {
		return false
	}
	used := r.length * runeSize
	return subtle.ConstantTimeCompare(r.data[:used], other.data[:used]) == 1
}

// Fingerprint returns a BLAKE3 keyed hash of the content. Two buffers
// with equal content produce equal fingerprints under the same key;
// without the key the digest reveals nothing about the content. Use a
// per-process random key so fingerprints cannot be compared across
// runs.
func (r *Runes) Fingerprint(key *[32]byte) [FingerprintSize]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkOpen()
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("secret: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(r.length))
	hasher.Write(length[:])
	hasher.Write(r.data[:r.length*runeSize])

	var digest [FingerprintSize]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Close zeros the content, unlocks and unmaps the region. Close is
// idempotent.
func (r *Runes) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.length = 0

	err := releaseRegion(r.data)
	r.data = nil
	return err
}

// reserve guarantees room for capacity runes, moving the content into
// a larger region if needed. The old region is released (zeroed and
// unmapped) after the copy. Caller holds r.mu.
func (r *Runes) reserve(capacity int) error {
	current := len(r.data) / runeSize
	if capacity <= current {
		return nil
	}

	grown := max(current*2, capacity, minimumRuneCapacity)
	data, err := mapRegion(grown * runeSize)
	if err != nil {
		return err
	}
	copy(data, r.data[:r.length*runeSize])

	old := r.data
	r.data = data
	return releaseRegion(old)
}

// get loads the rune at index, substituting utf8.RuneError for values
// that are not valid code points.
func (r *Runes) get(index int) rune {
	char := rune(binary.LittleEndian.Uint32(r.data[index*runeSize:]))
	if !utf8.ValidRune(char) {
		return utf8.RuneError
	}
	return char
}

// put stores char at index. Caller guarantees capacity.
func (r *Runes) put(index int, char rune) {
	binary.LittleEndian.PutUint32(r.data[index*runeSize:], uint32(char))
}

func (r *Runes) checkOpen() {
	if r.closed {
		panic("secret: use of closed rune buffer")
	}
}
