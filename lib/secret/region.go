// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapRegion allocates size bytes of anonymous memory outside the Go
// heap, locks it into physical RAM, and excludes it from core dumps.
// The returned slice is zero-filled.
func mapRegion(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: region size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap failed: %w", err)
	}

	// Lock the memory to prevent it from being swapped to disk.
	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: mlock failed: %w", err)
	}

	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(data)
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP) failed: %w", err)
	}

	return data, nil
}

// releaseRegion zeros data, then unlocks and unmaps it. A nil region
// is a no-op. Errors from munlock/munmap are returned but the contents
// are always zeroed first.
func releaseRegion(data []byte) error {
	if data == nil {
		return nil
	}

	Zero(data)

	var firstError error
	if err := unix.Munlock(data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munlock failed: %w", err)
	}
	if err := unix.Munmap(data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	return firstError
}

// Zero overwrites every byte of data with zero. Use it on heap slices
// that briefly held secret material before it was moved into a
// protected region.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}

// ZeroRunes overwrites every element of runes with zero.
func ZeroRunes(runes []rune) {
	for index := range runes {
		runes[index] = 0
	}
}
