// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"replay", "replya", 2},
	}

	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if reverse := levenshtein(test.b, test.a); reverse != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, not symmetric", test.b, test.a, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "replay"}, {Name: "config"}, {Name: "version"}}

	tests := []struct {
		input string
		want  string
	}{
		{"replya", "replay"},
		{"confg", "config"},
		{"vrsion", "version"},
		{"zzzzzzzzz", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flagSet.StringP("output", "o", "", "output path")
	flagSet.String("seed-file", "", "seed path")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--ouptut", "trace.cbor"}, "--output"},
		{[]string{"--seed-fiel=-"}, "--seed-file"},
		{[]string{"-o", "x", "--sed-file", "y"}, "--seed-file"},
		{[]string{"--completely-different"}, ""},
		{[]string{"--", "--ouptut"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
