package dispatch

import (
	"github.com/msto63/cmdcore/foundation/utils/stringx"
	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/command"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Complete returns candidates for the last element of tokens, the word
// being typed, which may be empty. With no tokens the base label itself is
// completed against the root labels.
//
// While every earlier token names a path segment, child labels (aliases
// included) are offered together with the resolved command's candidates
// for that argument position. Past the path only argument candidates are
// offered. Results are filtered by prefix ignoring case, de-duplicated and
// sorted. Commands the sender lacks permission for are hidden.
func (m *Manager) Complete(s sender.Sender, base string, tokens []string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(tokens) == 0 {
		return stringx.FilterPrefixFold(m.childLabels(s, ""), base)
	}

	prior := tokens[:len(tokens)-1]
	partial := tokens[len(tokens)-1]

	match, found := m.tree.Find(base, prior)
	if match.Walked == 0 {
		return []string{}
	}

	var candidates []string
	if match.Walked == len(prior)+1 {
		candidates = append(candidates, m.childLabels(s, match.WalkedPath)...)
	}
	if found && m.allowed(s, match.Node) {
		position := len(prior) + 1 - match.Consumed
		candidates = append(candidates, m.argumentCandidates(s, match.Node.Specs(), position, partial)...)
	}
	return stringx.FilterPrefixFold(candidates, partial)
}

// CompleteLine completes the last word of a partially typed line. A line
// ending in whitespace completes a new, empty word.
func (m *Manager) CompleteLine(s sender.Sender, line string) []string {
	tokens := stringx.TokenizeForCompletion(line)
	return m.Complete(s, tokens[0], tokens[1:])
}

func (m *Manager) childLabels(s sender.Sender, path string) []string {
	children := m.tree.Children(path)
	labels := make([]string, 0, len(children))
	for _, c := range children {
		if c.Node != nil && !m.allowed(s, c.Node) {
			continue
		}
		labels = append(labels, c.Label)
	}
	return labels
}

func (m *Manager) allowed(s sender.Sender, n *command.Node) bool {
	p := n.Permission()
	return p == "" || m.permission(s, p)
}

// argumentCandidates returns the candidates of the spec at position. An
// infinite spec only offers its own completer or choices, since its value
// spans the rest of the line.
func (m *Manager) argumentCandidates(s sender.Sender, specs []argument.Spec, position int, partial string) []string {
	if position < 0 || position >= len(specs) {
		return nil
	}
	spec := specs[position]

	if spec.Completer != nil {
		return spec.Completer(s, partial)
	}
	if !spec.Infinite && spec.Converter == nil {
		if out := m.converters.Complete(spec.TypeKey, s, partial); len(out) > 0 {
			return out
		}
	}
	return spec.Choices
}
