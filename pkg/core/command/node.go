// Package command holds the declarative description of a command: its
// label, aliases, argument specs, requirements, permission, children and
// handler. Nodes are immutable once built.
package command

import (
	"context"
	"strings"

	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Handler runs a command after resolution, gating and parsing succeeded.
type Handler func(ctx context.Context, inv *Invocation) error

// Invocation carries everything a handler needs for one execution.
type Invocation struct {
	Sender sender.Sender
	Node   *Node

	// Label is the base label as typed, Path the resolved dot path.
	Label string
	Path  string

	Args *argument.Arguments
	// Raw holds the tokens that were bound to arguments.
	Raw []string
}

// Node describes one command. A node without a handler is a group: it only
// exists to hold children.
type Node struct {
	label        string
	aliases      []string
	specs        []argument.Spec
	requirements []Requirement
	permission   string
	description  string
	children     []*Node
	handler      Handler
}

// Label returns the node's label relative to its parent. It may contain dots.
func (n *Node) Label() string { return n.label }

// Aliases returns the absolute alias paths of the node.
func (n *Node) Aliases() []string { return append([]string(nil), n.aliases...) }

// Specs returns the declared arguments in order.
func (n *Node) Specs() []argument.Spec { return n.specs }

// Requirements returns the requirements in evaluation order.
func (n *Node) Requirements() []Requirement { return n.requirements }

// Permission returns the permission string, or "" when none is required.
func (n *Node) Permission() string { return n.permission }

// Description returns the human readable description.
func (n *Node) Description() string { return n.description }

// Children returns the child nodes in declaration order.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Handler returns the handler, nil for groups.
func (n *Node) Handler() Handler { return n.handler }

// IsGroup reports whether the node has no handler of its own.
func (n *Node) IsGroup() bool { return n.handler == nil }

// Usage renders the argument list, e.g. "<x> <y> [z]".
func (n *Node) Usage() string {
	if n.IsGroup() && len(n.specs) == 0 {
		labels := make([]string, len(n.children))
		for i, c := range n.children {
			labels[i] = c.label
		}
		return "<" + strings.Join(labels, "|") + ">"
	}
	return argument.Usage(n.specs)
}
