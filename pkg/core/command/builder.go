package command

import (
	"strings"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/foundation/utils/stringx"
	"github.com/msto63/cmdcore/pkg/core/argument"
)

// Builder assembles a Node. Build validates the result.
type Builder struct {
	node Node
}

// New starts a command with the given label. The label may span several
// segments, e.g. "math.add".
func New(label string) *Builder {
	return &Builder{node: Node{label: label}}
}

// Alias adds absolute alias paths.
func (b *Builder) Alias(paths ...string) *Builder {
	b.node.aliases = append(b.node.aliases, paths...)
	return b
}

// Arg appends argument specs.
func (b *Builder) Arg(specs ...argument.Spec) *Builder {
	b.node.specs = append(b.node.specs, specs...)
	return b
}

// Require appends requirements, evaluated in the order given.
func (b *Builder) Require(reqs ...Requirement) *Builder {
	b.node.requirements = append(b.node.requirements, reqs...)
	return b
}

// Permission sets the permission checked through the injected predicate.
func (b *Builder) Permission(permission string) *Builder {
	b.node.permission = permission
	return b
}

// Description sets the help text.
func (b *Builder) Description(description string) *Builder {
	b.node.description = description
	return b
}

// Child adds a built subcommand. A later child with the same label replaces
// an earlier one.
func (b *Builder) Child(children ...*Node) *Builder {
	for _, c := range children {
		if c == nil {
			continue
		}
		replaced := false
		for i, existing := range b.node.children {
			if existing.label == c.label {
				b.node.children[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			b.node.children = append(b.node.children, c)
		}
	}
	return b
}

// Executes sets the handler.
func (b *Builder) Executes(h Handler) *Builder {
	b.node.handler = h
	return b
}

// Build validates and returns the node. Errors carry the codes
// INVALID_LABEL, INVALID_SPEC, DUPLICATE_ARGUMENT or MISSING_HANDLER.
func (b *Builder) Build() (*Node, error) {
	n := b.node

	if err := ValidatePath(n.label); err != nil {
		return nil, err
	}
	for _, alias := range n.aliases {
		if err := ValidatePath(alias); err != nil {
			return nil, mdwerror.Wrap(err, "invalid alias").WithDetail("command", n.label)
		}
	}
	if err := argument.Validate(n.specs); err != nil {
		return nil, mdwerror.Wrap(err, "invalid arguments").
			WithOperation("command.Build").
			WithDetail("command", n.label)
	}
	if n.handler == nil && len(n.children) == 0 {
		return nil, mdwerror.Newf("command %q has neither a handler nor subcommands", n.label).
			WithCode(mdwerror.CodeMissingHandler).
			WithOperation("command.Build").
			WithDetail("command", n.label)
	}

	n.aliases = append([]string(nil), n.aliases...)
	n.specs = append([]argument.Spec(nil), n.specs...)
	n.requirements = append([]Requirement(nil), n.requirements...)
	n.children = append([]*Node(nil), n.children...)
	return &n, nil
}

// MustBuild is Build for static command tables; it panics on error.
func (b *Builder) MustBuild() *Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// ValidatePath checks that path is a non-empty dot path without blank
// segments or whitespace.
func ValidatePath(path string) error {
	if stringx.IsBlank(path) {
		return labelError(path, "label cannot be blank")
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return labelError(path, "label has an empty segment")
		}
		if strings.ContainsAny(seg, " \t\r\n") {
			return labelError(path, "label segment contains whitespace")
		}
	}
	return nil
}

func labelError(path, message string) error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeInvalidLabel).
		WithOperation("command.ValidatePath").
		WithDetail("label", path)
}
