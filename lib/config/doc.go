// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for password fields.
//
// Configuration is loaded from a single file specified by either the
// PASSFIELD_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file search.
//
// The file may contain environment-specific sections (development,
// production) that override base values when [Config].Environment
// matches. Development turns on pointer registry verification unless
// the development section says otherwise.
//
//	environment: production
//	field:
//	  mask_char: "*"
//	  max_length: 64
//	  initial_capacity: 32
//	log:
//	  level: info
//	production:
//	  log:
//	    level: warn
//
// Key exports:
//
//   - [Config] -- master struct with Field and Log sections
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other passfield packages.
package config
