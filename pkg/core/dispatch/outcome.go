package dispatch

import (
	"fmt"

	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/command"
)

// Kind classifies an Outcome.
type Kind int

const (
	Executed Kind = iota
	NoSuchCommand
	RequirementFailed
	PermissionDenied
	ParseFailed
)

func (k Kind) String() string {
	switch k {
	case Executed:
		return "executed"
	case NoSuchCommand:
		return "no-such-command"
	case RequirementFailed:
		return "requirement-failed"
	case PermissionDenied:
		return "permission-denied"
	case ParseFailed:
		return "parse-failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of one dispatch. Every path through Execute
// returns one; nothing is reported by panicking or through error returns.
type Outcome struct {
	Kind Kind

	// Label is the base label as typed.
	Label string
	// Path is the resolved path, empty when nothing matched.
	Path string
	// Node is set whenever a node was resolved, including a group node
	// reported as NoSuchCommand.
	Node *command.Node

	// Message is the failing requirement's message.
	Message string
	// Permission is the permission that was refused.
	Permission string
	// ParseError is set for ParseFailed.
	ParseError *argument.ParseError

	Args *argument.Arguments
	// Consumed counts every token bound, base label and path segments
	// included.
	Consumed int

	// Err is the handler's error on an Executed outcome.
	Err error
}

// OK reports whether the handler ran and returned no error.
func (o Outcome) OK() bool {
	return o.Kind == Executed && o.Err == nil
}

// Usage returns the resolved node's usage line prefixed with its path, or ""
// when no node was resolved.
func (o Outcome) Usage() string {
	if o.Node == nil {
		return ""
	}
	return usageLine(o.Path, o.Node)
}

func usageLine(path string, n *command.Node) string {
	usage := n.Usage()
	display := commandDisplay(path)
	if usage == "" {
		return display
	}
	return display + " " + usage
}

// commandDisplay renders a dot path the way it is typed.
func commandDisplay(path string) string {
	out := []byte(path)
	for i := range out {
		if out[i] == '.' {
			out[i] = ' '
		}
	}
	return string(out)
}
