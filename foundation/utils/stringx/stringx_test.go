// File: stringx_test.go
// Title: Unit Tests for Core String Utilities
// Description: Table driven tests for tokenizing and prefix helpers.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-12

package stringx

import (
	"reflect"
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"single space", " ", true},
		{"mixed whitespace", " \t\n\r ", true},
		{"string with content", "hello", false},
		{"string with spaces around", " hello ", false},
		{"unicode content", "こんにちは", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsBlank(tt.input); result != tt.expected {
				t.Errorf("IsBlank(%q) = %v; want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single", "echo", []string{"echo"}},
		{"collapses runs", "math   add\t1  2", []string{"math", "add", "1", "2"}},
		{"trims edges", "  whoami  ", []string{"whoami"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tokenize(tt.input)
			if len(result) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Tokenize(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTokenizeForCompletion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty line", "", []string{""}},
		{"partial word", "ma", []string{"ma"}},
		{"word then space", "math ", []string{"math", ""}},
		{"second partial", "math a", []string{"math", "a"}},
		{"only spaces", "   ", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TokenizeForCompletion(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("TokenizeForCompletion(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHasPrefixFold(t *testing.T) {
	tests := []struct {
		s, prefix string
		expected  bool
	}{
		{"Storm", "st", true},
		{"storm", "STO", true},
		{"rain", "st", false},
		{"st", "storm", false},
		{"anything", "", true},
		{"\u212Aelvin", "ke", true},
		{"kelvin", "\u212A", true},
		{"Ölfeld", "öl", true},
		{"öl", "\xc3", false},
		{"ab", "abc", false},
	}

	for _, tt := range tests {
		if result := HasPrefixFold(tt.s, tt.prefix); result != tt.expected {
			t.Errorf("HasPrefixFold(%q, %q) = %v; want %v", tt.s, tt.prefix, result, tt.expected)
		}
	}
}

func TestFilterPrefixFold(t *testing.T) {
	candidates := []string{"storm", "Clear", "rain", "stop", "storm", "clear"}

	got := FilterPrefixFold(candidates, "c")
	want := []string{"Clear", "clear"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterPrefixFold(c) = %q; want %q", got, want)
	}

	got = FilterPrefixFold(candidates, "st")
	want = []string{"stop", "storm"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterPrefixFold(st) = %q; want %q", got, want)
	}

	if got := FilterPrefixFold(nil, ""); len(got) != 0 {
		t.Errorf("FilterPrefixFold(nil) = %q; want empty", got)
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"none", nil, ""},
		{"single", []string{"teleport"}, "teleport"},
		{"shared", []string{"ticket", "tick", "tickle"}, "tick"},
		{"disjoint", []string{"math", "echo"}, ""},
		{"unicode", []string{"größe", "größer"}, "größe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CommonPrefix(tt.values); result != tt.expected {
				t.Errorf("CommonPrefix(%q) = %q; want %q", tt.values, result, tt.expected)
			}
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	got := RemoveDuplicates([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveDuplicates() = %q; want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		suffix   string
		expected string
	}{
		{"hello world", 8, "...", "hello..."},
		{"short", 10, "...", "short"},
		{"hello", 0, "...", ""},
		{"hello", 2, "...", ".."},
		{"Hallo, 世界!", 8, "…", "Hallo, …"},
	}

	for _, tt := range tests {
		if result := Truncate(tt.input, tt.maxLen, tt.suffix); result != tt.expected {
			t.Errorf("Truncate(%q, %d, %q) = %q; want %q", tt.input, tt.maxLen, tt.suffix, result, tt.expected)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	line := "ticket close 4f1c7a2e-3b1d-4c0a-9b8e-2f1d3c4b5a6e the customer confirmed the fix"
	for i := 0; i < b.N; i++ {
		Tokenize(line)
	}
}
