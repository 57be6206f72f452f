package argument

import (
	"fmt"
	"strings"

	"github.com/msto63/cmdcore/pkg/core/convert"
)

// Result is the outcome of Parse. Exactly one of Arguments and Err is set.
type Result struct {
	Arguments *Arguments
	Err       *ParseError
	Consumed  int
}

// OK reports whether parsing succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Parse binds tokens to specs in declared order. An inline converter on a
// spec wins over the registry entry for its type key. Tokens left over after
// the last spec, when no infinite spec absorbed them, fail with
// ArgumentTooLong. Parsing stops at the first failure and discards any
// partial bindings.
func Parse(specs []Spec, tokens []string, registry *convert.Registry) Result {
	args := newArguments(specs)
	cursor := 0

	for _, spec := range specs {
		remaining := len(tokens) - cursor

		if spec.Infinite {
			if remaining == 0 {
				if spec.Optional {
					continue
				}
				return fail(MissingRequired, spec, "", "a value is required")
			}
			raw := strings.Join(tokens[cursor:], " ")
			cursor = len(tokens)
			value, perr := convertOne(spec, raw, registry)
			if perr != nil {
				return Result{Err: perr}
			}
			args.values[spec.Name] = value
			continue
		}

		if remaining == 0 {
			if spec.Optional {
				continue
			}
			return fail(MissingRequired, spec, "", "a value is required")
		}

		raw := tokens[cursor]
		value, perr := convertOne(spec, raw, registry)
		if perr != nil {
			return Result{Err: perr}
		}
		args.values[spec.Name] = value
		cursor++
	}

	if cursor < len(tokens) {
		last := Spec{}
		if len(specs) > 0 {
			last = specs[len(specs)-1]
		}
		extra := len(tokens) - cursor
		return fail(ArgumentTooLong, last, strings.Join(tokens[cursor:], " "),
			fmt.Sprintf("%d unexpected trailing token(s)", extra))
	}

	args.consumed = cursor
	return Result{Arguments: args, Consumed: cursor}
}

func convertOne(spec Spec, raw string, registry *convert.Registry) (any, *ParseError) {
	converter := spec.Converter
	if converter == nil {
		var ok bool
		if registry != nil {
			converter, ok = registry.Converter(spec.TypeKey)
		}
		if !ok {
			return nil, parseError(TypeNotFound, spec, raw, fmt.Sprintf("no converter for type %q", spec.TypeKey))
		}
	}

	value, ok := converter.Convert(raw)
	if !ok {
		return nil, parseError(ConversionFailed, spec, raw, describeConversion(spec, raw))
	}

	if len(spec.Choices) > 0 && !matchesChoice(value, spec.Choices) {
		return nil, parseError(InvalidFormat, spec, raw,
			fmt.Sprintf("must be one of %s", strings.Join(spec.Choices, ", ")))
	}
	return value, nil
}

func matchesChoice(value any, choices []string) bool {
	s := fmt.Sprint(value)
	for _, c := range choices {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

func describeConversion(spec Spec, raw string) string {
	if spec.TypeKey == "" {
		return fmt.Sprintf("%q is not valid", raw)
	}
	return fmt.Sprintf("%q is not a valid %s", raw, spec.TypeKey)
}

func parseError(kind ErrorKind, spec Spec, input, message string) *ParseError {
	return &ParseError{Kind: kind, Argument: spec.Name, Input: input, Message: message}
}

func fail(kind ErrorKind, spec Spec, input, message string) Result {
	return Result{Err: parseError(kind, spec, input, message)}
}
