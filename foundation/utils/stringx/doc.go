// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides the small set of string helpers used
//              by the command engine: tokenizing input lines, blank checks and
//              case-insensitive prefix filtering for completion.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-12 v0.3.0: Reduced to tokenizing and completion helpers

// Package stringx provides string helpers shared by the command engine.
//
// Tokenizing
//
// Input lines are split on runs of whitespace. Tokenize drops empty tokens,
// TokenizeForCompletion keeps a trailing empty token when the line ends in
// whitespace so a completer knows a new word has started:
//
//	stringx.Tokenize("math  add 1 2")          // ["math" "add" "1" "2"]
//	stringx.TokenizeForCompletion("math ")     // ["math" ""]
//
// Completion filtering
//
// FilterPrefixFold keeps candidates that start with a prefix regardless of
// case, removes duplicates and sorts the result. CommonPrefix returns the
// longest shared prefix, which the console uses to extend a partial word.
package stringx
