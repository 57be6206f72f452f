// Package convert maps argument type keys to conversion functions and
// optional completion-candidate providers.
//
// Converters run on the dispatch path while the manager holds its read
// lock. They must be pure and fast: a converter that performs network or
// disk I/O stalls every concurrent dispatch.
package convert

import "github.com/msto63/cmdcore/pkg/core/sender"

// Converter turns one raw token into a typed value. The boolean reports
// whether a value was produced, so a valid false or zero value stays
// distinguishable from a failed conversion.
type Converter interface {
	Convert(raw string) (any, bool)
}

// Func adapts an ordinary function to the Converter interface.
type Func func(raw string) (any, bool)

// Convert calls f(raw).
func (f Func) Convert(raw string) (any, bool) {
	return f(raw)
}

// CompleteFunc returns completion candidates for a partially typed token.
// Results are filtered by the caller, so a completer may return its full
// candidate set.
type CompleteFunc func(s sender.Sender, partial string) []string

// Of wraps a typed conversion function.
func Of[T any](fn func(raw string) (T, bool)) Converter {
	return Func(func(raw string) (any, bool) {
		v, ok := fn(raw)
		if !ok {
			return nil, false
		}
		return v, true
	})
}

// Registration is the pair stored for one type key.
type Registration struct {
	Converter Converter
	Completer CompleteFunc
}
