// Package argument declares positional command arguments and binds raw
// tokens to typed values.
package argument

import (
	"strings"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/foundation/utils/stringx"
	"github.com/msto63/cmdcore/pkg/core/convert"
)

// Spec declares one positional argument.
type Spec struct {
	Name    string
	TypeKey string

	// Optional arguments may be omitted; they are reported absent.
	Optional bool
	// Infinite arguments join every remaining token with single spaces and
	// convert the result once. Only the last spec may be infinite.
	Infinite bool

	// Converter and Completer replace the registry entry for TypeKey for
	// this argument only.
	Converter convert.Converter
	Completer convert.CompleteFunc

	// Choices restricts the converted value to a closed set and doubles as
	// the completion candidates when no completer exists.
	Choices []string

	Description string
}

// Required declares a required argument of the given type.
func Required(name, typeKey string) Spec {
	return Spec{Name: name, TypeKey: typeKey}
}

// Opt declares an optional argument of the given type.
func Opt(name, typeKey string) Spec {
	return Spec{Name: name, TypeKey: typeKey, Optional: true}
}

// Rest declares a required infinite argument of the given type.
func Rest(name, typeKey string) Spec {
	return Spec{Name: name, TypeKey: typeKey, Infinite: true}
}

// WithChoices returns a copy of s restricted to choices.
func (s Spec) WithChoices(choices ...string) Spec {
	s.Choices = append([]string(nil), choices...)
	return s
}

// WithCompleter returns a copy of s using fn for completion.
func (s Spec) WithCompleter(fn convert.CompleteFunc) Spec {
	s.Completer = fn
	return s
}

// WithConverter returns a copy of s using c for conversion.
func (s Spec) WithConverter(c convert.Converter) Spec {
	s.Converter = c
	return s
}

// Describe returns a copy of s with a description.
func (s Spec) Describe(description string) Spec {
	s.Description = description
	return s
}

// Usage renders the spec as <name>, [name], <name...> or [name...].
func (s Spec) Usage() string {
	name := s.Name
	if len(s.Choices) > 0 {
		name = strings.Join(s.Choices, "|")
	}
	if s.Infinite {
		name += "..."
	}
	if s.Optional {
		return "[" + name + "]"
	}
	return "<" + name + ">"
}

// Usage renders a whole spec list separated by spaces.
func Usage(specs []Spec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.Usage()
	}
	return strings.Join(parts, " ")
}

// Validate checks the ordering and naming rules of a spec list. Failures are
// configuration errors with code INVALID_SPEC or DUPLICATE_ARGUMENT.
func Validate(specs []Spec) error {
	seen := make(map[string]struct{}, len(specs))
	sawOptional := ""

	for i, s := range specs {
		if stringx.IsBlank(s.Name) {
			return specError("argument name cannot be blank", i, s)
		}
		if _, dup := seen[s.Name]; dup {
			return mdwerror.Newf("argument %q declared more than once", s.Name).
				WithCode(mdwerror.CodeDuplicateArgument).
				WithOperation("argument.Validate").
				WithDetail("argument", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.Converter == nil && stringx.IsBlank(s.TypeKey) {
			return specError("argument needs a type key or a converter", i, s)
		}
		if i > 0 && specs[i-1].Infinite {
			return specError("no argument may follow an infinite argument", i, s)
		}
		if s.Optional {
			sawOptional = s.Name
		} else if sawOptional != "" {
			return specError("required argument follows optional argument "+sawOptional, i, s)
		}
	}
	return nil
}

func specError(message string, index int, s Spec) error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeInvalidSpec).
		WithOperation("argument.Validate").
		WithDetail("argument", s.Name).
		WithDetail("position", index)
}
