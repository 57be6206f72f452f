// File: stringx.go
// Title: Core String Utility Functions
// Description: Tokenizing, blank checks and prefix helpers used by the
//              dispatcher and completion code.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-12 v0.3.0: Tokenize, TokenizeForCompletion, prefix filtering

package stringx

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsEmpty checks if a string is empty
func IsEmpty(s string) bool {
	return len(s) == 0
}

// IsBlank checks if a string is empty or contains only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Tokenize splits a line into whitespace separated tokens.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// TokenizeForCompletion splits a partially typed line. When the line is empty
// or ends in whitespace, an empty token is appended for the word being typed.
func TokenizeForCompletion(line string) []string {
	tokens := strings.Fields(line)
	if line == "" {
		return []string{""}
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	if unicode.IsSpace(last) {
		tokens = append(tokens, "")
	}
	return tokens
}

// HasPrefixFold reports whether s begins with prefix under Unicode simple
// case folding. Runes are compared one by one, so folds that change the
// encoded length (the Kelvin sign and "k") still match.
func HasPrefixFold(s, prefix string) bool {
	for prefix != "" {
		if s == "" {
			return false
		}
		sr, sn := utf8.DecodeRuneInString(s)
		pr, pn := utf8.DecodeRuneInString(prefix)
		if sr != pr && !strings.EqualFold(string(sr), string(pr)) {
			return false
		}
		s, prefix = s[sn:], prefix[pn:]
	}
	return true
}

// FilterPrefixFold returns the sorted, de-duplicated candidates that start
// with prefix, ignoring case.
func FilterPrefixFold(candidates []string, prefix string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !HasPrefixFold(c, prefix) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CommonPrefix returns the longest prefix shared by all values
func CommonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		for !strings.HasPrefix(v, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// RemoveDuplicates returns a new slice with duplicate strings removed,
// keeping first occurrences in order
func RemoveDuplicates(slice []string) []string {
	if len(slice) == 0 {
		return slice
	}

	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, s := range slice {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			result = append(result, s)
		}
	}
	return result
}

// Truncate shortens s to at most maxLen runes, appending suffix when cut
func Truncate(s string, maxLen int, suffix string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	suffixLen := utf8.RuneCountInString(suffix)
	if suffixLen >= maxLen {
		return string([]rune(suffix)[:maxLen])
	}
	runes := []rune(s)
	return string(runes[:maxLen-suffixLen]) + suffix
}
