// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package maskedtext

import (
	"fmt"
	"log/slog"
	"unicode"

	"github.com/bureau-foundation/passfield/lib/config"
)

// DefaultMaskChar is the mask used when none is configured.
const DefaultMaskChar = '●'

// Option configures a Container during creation.
type Option func(*settings)

type settings struct {
	mask            rune
	maxLength       int
	initialCapacity int
	verify          bool
	logger          *slog.Logger
}

func defaultSettings() settings {
	return settings{
		mask:   DefaultMaskChar,
		logger: slog.New(slog.DiscardHandler),
	}
}

func (s settings) validate() error {
	if s.mask == 0 || !unicode.IsPrint(s.mask) {
		return fmt.Errorf("maskedtext: mask character %U is not printable", s.mask)
	}
	if s.maxLength < 0 {
		return fmt.Errorf("maskedtext: max length must not be negative, got %d", s.maxLength)
	}
	if s.initialCapacity < 0 {
		return fmt.Errorf("maskedtext: initial capacity must not be negative, got %d", s.initialCapacity)
	}
	return nil
}

// WithMaskChar sets the character shown in place of every buffer
// character.
func WithMaskChar(mask rune) Option {
	return func(s *settings) {
		s.mask = mask
	}
}

// WithMaxLength limits the number of characters user insertions may
// bring the buffer to. Zero means unlimited.
func WithMaxLength(max int) Option {
	return func(s *settings) {
		s.maxLength = max
	}
}

// WithInitialCapacity preallocates room for capacity characters.
func WithInitialCapacity(capacity int) Option {
	return func(s *settings) {
		s.initialCapacity = capacity
	}
}

// WithRegistryVerification makes every edit check the pointer registry
// invariants and panic on a violation. Intended for tests and
// debugging collaborators.
func WithRegistryVerification() Option {
	return func(s *settings) {
		s.verify = true
	}
}

// WithLogger sets the logger for debug events. Content is never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFromConfig creates a container from a field configuration.
func NewFromConfig(field config.FieldConfig, logger *slog.Logger) (*Container, error) {
	mask, err := field.MaskRune()
	if err != nil {
		return nil, err
	}
	options := []Option{
		WithMaskChar(mask),
		WithMaxLength(field.MaxLength),
		WithInitialCapacity(field.InitialCapacity),
		WithLogger(logger),
	}
	if field.VerifyRegistry {
		options = append(options, WithRegistryVerification())
	}
	return New(options...)
}
