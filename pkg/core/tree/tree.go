// Package tree indexes commands by dot-separated path segments.
//
// A Tree is a prefix trie rooted at an implicit root. Every entry may hold a
// node; alias entries hold the same node identity as the entry they point
// to. The tree is not synchronised. Callers serialise writes against reads.
package tree

import (
	"sort"
	"strings"

	"github.com/msto63/cmdcore/pkg/core/command"
)

// Options configures a Tree.
type Options struct {
	// CaseInsensitive folds segment keys so "Math.ADD" finds "math.add".
	CaseInsensitive bool
}

type entry struct {
	label    string
	node     *command.Node
	alias    bool
	children map[string]*entry
}

func newEntry(label string) *entry {
	return &entry{label: label, children: make(map[string]*entry)}
}

// Tree is the command trie.
type Tree struct {
	root *entry
	fold bool
}

// New creates an empty tree.
func New(opts Options) *Tree {
	return &Tree{root: newEntry(""), fold: opts.CaseInsensitive}
}

// Match is the result of Find.
type Match struct {
	Node *command.Node
	// Path is the dot path of the entry holding Node, using registered labels.
	Path string
	// Consumed counts the segments, base included, down to Node's entry.
	Consumed int
	// Walked counts every segment that matched an entry, which may be more
	// than Consumed when the walk passed through entries without a node.
	Walked int
	// WalkedPath is the dot path of the deepest walked entry.
	WalkedPath string
	// Alias reports whether Node was reached through an alias entry.
	Alias bool
}

// Child describes one entry directly below a path.
type Child struct {
	Label string
	// Node is nil for intermediate entries that only lead further down.
	Node  *command.Node
	Alias bool
}

func (t *Tree) key(segment string) string {
	if t.fold {
		return strings.ToLower(segment)
	}
	return segment
}

// Add installs node at path. A different node already stored there is
// evicted with its subtree and every alias entry pointing into that subtree,
// so lookups afterwards only reach node.
func (t *Tree) Add(path string, node *command.Node) error {
	return t.install(path, node, false)
}

// AddAlias installs node at an alias path. The node is not re-validated.
func (t *Tree) AddAlias(path string, node *command.Node) error {
	return t.install(path, node, true)
}

func (t *Tree) install(path string, node *command.Node, alias bool) error {
	if err := command.ValidatePath(path); err != nil {
		return err
	}
	e := t.root
	for _, seg := range strings.Split(path, ".") {
		k := t.key(seg)
		next, ok := e.children[k]
		if !ok {
			next = newEntry(seg)
			e.children[k] = next
		}
		e = next
	}
	old := e.node
	replaced := !alias && !e.alias && old != nil && old != node
	e.node = node
	e.alias = alias
	if replaced {
		t.evict(e, old, node)
	}
	return nil
}

// evict clears the subtree below e, which now holds keep in place of old,
// and drops every alias entry that pointed at old or its descendants.
func (t *Tree) evict(e *entry, old, keep *command.Node) {
	stale := collectNodes(e, []*command.Node{old})
	e.children = make(map[string]*entry)
	for _, n := range stale {
		if n != keep {
			t.dropNode(t.root, n)
		}
	}
}

// collectNodes appends the nodes stored below e, alias entries excluded.
func collectNodes(e *entry, out []*command.Node) []*command.Node {
	for _, c := range e.children {
		if c.node != nil && !c.alias {
			out = append(out, c.node)
		}
		out = collectNodes(c, out)
	}
	return out
}

// Find resolves base plus as many of remaining as match child entries
// exactly. It returns the deepest entry on the walked path that holds a
// node. Siblings are never tried.
func (t *Tree) Find(base string, remaining []string) (Match, bool) {
	e, ok := t.root.children[t.key(base)]
	if !ok {
		return Match{}, false
	}

	walked := []*entry{e}
	for _, seg := range remaining {
		next, ok := e.children[t.key(seg)]
		if !ok {
			break
		}
		e = next
		walked = append(walked, e)
	}

	for i := len(walked) - 1; i >= 0; i-- {
		if walked[i].node == nil {
			continue
		}
		return Match{
			Node:       walked[i].node,
			Path:       joinLabels(walked[:i+1]),
			Consumed:   i + 1,
			Walked:     len(walked),
			WalkedPath: joinLabels(walked),
			Alias:      walked[i].alias,
		}, true
	}
	return Match{Walked: len(walked), WalkedPath: joinLabels(walked)}, false
}

// Get returns the node stored exactly at path.
func (t *Tree) Get(path string) (*command.Node, bool) {
	e := t.lookup(path)
	if e == nil || e.node == nil {
		return nil, false
	}
	return e.node, true
}

// Children lists the entries directly below path, sorted by label. An empty
// path lists the root labels.
func (t *Tree) Children(path string) []Child {
	e := t.root
	if path != "" {
		e = t.lookup(path)
	}
	if e == nil {
		return nil
	}
	out := make([]Child, 0, len(e.children))
	for _, c := range e.children {
		out = append(out, Child{Label: c.label, Node: c.node, Alias: c.alias})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Remove deletes the subtree at path together with every alias entry that
// resolves to the node stored at path. Empty intermediate entries are
// pruned. Descendants still reachable through their own aliases stay. When
// path is itself an alias entry only that entry and its subtree go; the
// aliased command stays at its own path.
func (t *Tree) Remove(path string) bool {
	segments := strings.Split(path, ".")
	parents := make([]*entry, 0, len(segments))
	e := t.root
	for _, seg := range segments {
		next, ok := e.children[t.key(seg)]
		if !ok {
			return false
		}
		parents = append(parents, e)
		e = next
	}

	removed := e.node
	if e.alias {
		removed = nil
	}
	delete(parents[len(parents)-1].children, t.key(segments[len(segments)-1]))
	t.pruneUp(parents, segments[:len(segments)-1])

	if removed != nil {
		t.dropNode(t.root, removed)
	}
	return true
}

// pruneUp removes now-empty entries along a walked path, deepest first.
func (t *Tree) pruneUp(parents []*entry, segments []string) {
	for i := len(segments) - 1; i >= 0; i-- {
		child := parents[i].children[t.key(segments[i])]
		if child == nil || child.node != nil || len(child.children) > 0 {
			return
		}
		delete(parents[i].children, t.key(segments[i]))
	}
}

// dropNode clears every entry below e holding node and prunes entries left
// empty. It reports whether e itself became empty.
func (t *Tree) dropNode(e *entry, node *command.Node) bool {
	for k, c := range e.children {
		if c.node == node {
			c.node = nil
			c.alias = false
		}
		if t.dropNode(c, node) {
			delete(e.children, k)
		}
	}
	return e != t.root && e.node == nil && len(e.children) == 0
}

// Walk visits every entry holding a node in depth-first, label order.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(path string, node *command.Node, alias bool) bool) {
	t.walk(t.root, "", fn)
}

func (t *Tree) walk(e *entry, prefix string, fn func(string, *command.Node, bool) bool) bool {
	keys := make([]string, 0, len(e.children))
	for k := range e.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		c := e.children[k]
		path := c.label
		if prefix != "" {
			path = prefix + "." + c.label
		}
		if c.node != nil && !fn(path, c.node, c.alias) {
			return false
		}
		if !t.walk(c, path, fn) {
			return false
		}
	}
	return true
}

// Len returns the number of entries holding a node, aliases included.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(string, *command.Node, bool) bool {
		n++
		return true
	})
	return n
}

func (t *Tree) lookup(path string) *entry {
	e := t.root
	for _, seg := range strings.Split(path, ".") {
		next, ok := e.children[t.key(seg)]
		if !ok {
			return nil
		}
		e = next
	}
	return e
}

func joinLabels(entries []*entry) string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.label
	}
	return strings.Join(labels, ".")
}
