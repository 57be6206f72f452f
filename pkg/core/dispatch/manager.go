// Package dispatch resolves token sequences against registered commands,
// gates them, binds their arguments and runs their handlers.
package dispatch

import (
	"context"
	"sync"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/foundation/utils/stringx"
	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/command"
	"github.com/msto63/cmdcore/pkg/core/convert"
	"github.com/msto63/cmdcore/pkg/core/sender"
	"github.com/msto63/cmdcore/pkg/core/tree"
)

// Manager owns a command tree and a converter registry. It is safe for
// concurrent use: registration takes a write lock, dispatch and completion
// take a read lock which is released before the handler runs.
type Manager struct {
	mu         sync.RWMutex
	tree       *tree.Tree
	converters *convert.Registry
	permission PermissionFunc
	logger     *mdwlog.Logger

	hookMu sync.Mutex
	hooks  []func()
}

// New creates a manager.
func New(opts Options) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		tree:       tree.New(tree.Options{CaseInsensitive: opts.CaseInsensitive}),
		converters: opts.Converters,
		permission: opts.Permission,
		logger:     opts.Logger.WithField("component", "dispatch"),
	}
}

// OnChange adds fn to the functions called after commands or converters
// were registered or removed. Hooks run outside the manager's lock.
func (m *Manager) OnChange(fn func()) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	m.hooks = append(m.hooks, fn)
}

func (m *Manager) changed() {
	m.hookMu.Lock()
	hooks := append([]func(){}, m.hooks...)
	m.hookMu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Converters returns the manager's converter registry.
func (m *Manager) Converters() *convert.Registry {
	return m.converters
}

type install struct {
	path  string
	node  *command.Node
	alias bool
}

func collect(path string, n *command.Node, out []install) []install {
	out = append(out, install{path: path, node: n})
	for _, a := range n.Aliases() {
		out = append(out, install{path: a, node: n, alias: true})
	}
	for _, c := range n.Children() {
		out = append(out, collect(path+"."+c.Label(), c, nil)...)
	}
	return out
}

// Register installs node at its label, its children below it and every
// alias of the whole subtree. An occupied path is replaced together with
// the old command's subtree and aliases. Nothing is installed if any path
// is invalid.
func (m *Manager) Register(node *command.Node) error {
	if node == nil {
		return mdwerror.New("command node cannot be nil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("dispatch.Register")
	}

	installs := collect(node.Label(), node, nil)
	for _, in := range installs {
		if err := command.ValidatePath(in.path); err != nil {
			return mdwerror.Wrap(err, "cannot register command").
				WithOperation("dispatch.Register").
				WithDetail("command", node.Label())
		}
	}

	m.mu.Lock()
	err := m.installAll(installs)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Info("command registered", mdwlog.Fields{
		"path":    node.Label(),
		"entries": len(installs),
	})
	m.changed()
	return nil
}

func (m *Manager) installAll(installs []install) error {
	for _, in := range installs {
		var err error
		if in.alias {
			err = m.tree.AddAlias(in.path, in.node)
		} else {
			err = m.tree.Add(in.path, in.node)
		}
		if err != nil {
			return mdwerror.Wrap(err, "cannot register command").
				WithOperation("dispatch.Register").
				WithDetail("path", in.path)
		}
	}
	return nil
}

// MustRegister registers nodes and panics on the first error.
func (m *Manager) MustRegister(nodes ...*command.Node) {
	for _, n := range nodes {
		if err := m.Register(n); err != nil {
			panic(err)
		}
	}
}

// RegisterConverter installs a converter under typeKey, replacing any
// previous one.
func (m *Manager) RegisterConverter(typeKey string, c convert.Converter, complete convert.CompleteFunc) {
	m.converters.Register(typeKey, c, complete)
	m.logger.Debug("converter registered", mdwlog.Fields{"type": typeKey})
	m.changed()
}

// Unregister removes the command at path with its subtree and aliases.
func (m *Manager) Unregister(path string) bool {
	m.mu.Lock()
	removed := m.tree.Remove(path)
	m.mu.Unlock()

	if removed {
		m.logger.Info("command unregistered", mdwlog.Fields{"path": path})
		m.changed()
	}
	return removed
}

// Lookup returns the node stored exactly at path.
func (m *Manager) Lookup(path string) (*command.Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tree.Get(path)
}

// Execute resolves base and tokens, checks requirements and permission,
// parses arguments and runs the handler.
func (m *Manager) Execute(ctx context.Context, s sender.Sender, base string, tokens []string) Outcome {
	outcome, handler, inv := m.resolve(s, base, tokens)
	if handler == nil {
		m.logDispatch(s, outcome)
		return outcome
	}

	outcome.Err = handler(ctx, inv)
	m.logDispatch(s, outcome)
	return outcome
}

// ExecuteLine splits line on whitespace and executes it.
func (m *Manager) ExecuteLine(ctx context.Context, s sender.Sender, line string) Outcome {
	tokens := stringx.Tokenize(line)
	if len(tokens) == 0 {
		return Outcome{Kind: NoSuchCommand}
	}
	return m.Execute(ctx, s, tokens[0], tokens[1:])
}

// resolve runs every step up to the handler under the read lock.
func (m *Manager) resolve(s sender.Sender, base string, tokens []string) (Outcome, command.Handler, *command.Invocation) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.tree.Find(base, tokens)
	if !ok {
		return Outcome{Kind: NoSuchCommand, Label: base}, nil, nil
	}

	node := match.Node
	outcome := Outcome{Label: base, Path: match.Path, Node: node, Consumed: match.Consumed}

	if node.IsGroup() {
		outcome.Kind = NoSuchCommand
		return outcome, nil, nil
	}

	for _, req := range node.Requirements() {
		if !req.Check(s) {
			outcome.Kind = RequirementFailed
			outcome.Message = req.ErrorMessage()
			return outcome, nil, nil
		}
	}

	if p := node.Permission(); p != "" && !m.permission(s, p) {
		outcome.Kind = PermissionDenied
		outcome.Permission = p
		return outcome, nil, nil
	}

	rest := tokens[match.Consumed-1:]
	result := argument.Parse(node.Specs(), rest, m.converters)
	if result.Err != nil {
		outcome.Kind = ParseFailed
		outcome.ParseError = result.Err
		return outcome, nil, nil
	}

	outcome.Kind = Executed
	outcome.Args = result.Arguments
	outcome.Consumed += result.Consumed

	inv := &command.Invocation{
		Sender: s,
		Node:   node,
		Label:  base,
		Path:   match.Path,
		Args:   result.Arguments,
		Raw:    append([]string(nil), rest...),
	}
	return outcome, node.Handler(), inv
}

func (m *Manager) logDispatch(s sender.Sender, o Outcome) {
	if o.Err == nil && !m.logger.IsLevelEnabled(mdwlog.LevelDebug) {
		return
	}
	fields := mdwlog.Fields{
		"label":   o.Label,
		"path":    o.Path,
		"outcome": o.Kind.String(),
	}
	if s != nil {
		fields["sender"] = s.Name()
	}
	if o.Err != nil {
		m.logger.WarnWithErr("command handler failed", o.Err, fields)
		return
	}
	m.logger.Debug("command dispatched", fields)
}

// CommandInfo describes one registered path for listings.
type CommandInfo struct {
	Path        string   `json:"path"`
	Usage       string   `json:"usage"`
	Description string   `json:"description,omitempty"`
	Permission  string   `json:"permission,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Alias       bool     `json:"alias,omitempty"`
	Group       bool     `json:"group,omitempty"`
}

// Commands lists every registered path in sorted order.
func (m *Manager) Commands() []CommandInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []CommandInfo
	m.tree.Walk(func(path string, n *command.Node, alias bool) bool {
		out = append(out, CommandInfo{
			Path:        path,
			Usage:       usageLine(path, n),
			Description: n.Description(),
			Permission:  n.Permission(),
			Aliases:     n.Aliases(),
			Alias:       alias,
			Group:       n.IsGroup(),
		})
		return true
	})
	return out
}

// Len returns the number of registered paths, aliases included.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tree.Len()
}
