// Package console is an interactive terminal host for a dispatch manager
// with Tab completion and history.
package console

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/foundation/utils/stringx"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
	"github.com/msto63/cmdcore/pkg/core/message"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

const maxScrollback = 500

// Options configures the console.
type Options struct {
	Manager  *dispatch.Manager
	Messages *message.Handler
	Sender   sender.Sender
	Prompt   string
	// HistorySize bounds the Up/Down history.
	HistorySize int
	Logger      *mdwlog.Logger
}

// drainer is implemented by senders that buffer handler replies.
type drainer interface {
	Drain() []string
}

// outcomeMsg carries a finished dispatch back into the update loop.
type outcomeMsg struct {
	line    string
	outcome dispatch.Outcome
	replies []string
}

// Model is the bubbletea model of the console.
type Model struct {
	ctx      context.Context
	manager  *dispatch.Manager
	messages *message.Handler
	sender   sender.Sender
	logger   *mdwlog.Logger

	prompt     string
	input      textinput.Model
	history    *history
	scrollback []string
	candidates []string
	busy       bool

	width  int
	height int
}

// NewModel creates a console model. ctx is handed to every dispatch.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Messages == nil {
		opts.Messages = message.New(nil)
	}
	if opts.Sender == nil {
		opts.Sender = sender.Console
	}
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = PromptStyle.Render(opts.Prompt)
	ti.Placeholder = "type a command, Tab to complete"
	ti.CharLimit = 1024
	ti.Focus()

	return Model{
		ctx:      ctx,
		manager:  opts.Manager,
		messages: opts.Messages,
		sender:   opts.Sender,
		logger:   opts.Logger.WithField("component", "console"),
		prompt:   opts.Prompt,
		input:    ti,
		history:  newHistory(opts.HistorySize),
	}
}

// Run starts the console on the terminal and blocks until it quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit

		case "esc":
			m.candidates = nil
			return m, nil

		case "tab":
			m.complete()
			return m, nil

		case "up":
			if line, ok := m.history.prev(); ok {
				m.setInput(line)
			}
			return m, nil

		case "down":
			if line, ok := m.history.next(); ok {
				m.setInput(line)
			}
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.candidates = nil
			if line == "" {
				return m, nil
			}
			m.history.add(line)
			m.appendLines(EchoStyle.Render(m.prompt + line))
			m.busy = true
			return m, m.execute(line)
		}

	case outcomeMsg:
		m.busy = false
		m.showOutcome(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// execute runs line off the update loop; handlers may block.
func (m Model) execute(line string) tea.Cmd {
	return func() tea.Msg {
		out := m.manager.ExecuteLine(m.ctx, m.sender, line)
		var replies []string
		if d, ok := m.sender.(drainer); ok {
			replies = d.Drain()
		}
		return outcomeMsg{line: line, outcome: out, replies: replies}
	}
}

func (m *Model) showOutcome(msg outcomeMsg) {
	for _, r := range msg.replies {
		m.appendLines(ReplyStyle.Render(r))
	}
	if text := m.messages.Format(msg.outcome); text != "" {
		m.appendLines(ErrorStyle.Render(text))
	}
	if msg.outcome.Err != nil {
		m.logger.Debug("command failed", mdwlog.Fields{"line": msg.line, "error": msg.outcome.Err.Error()})
	}
}

// complete applies Tab completion to the input. A single candidate replaces
// the partial token; several extend it to their common prefix and are
// listed below the input.
func (m *Model) complete() {
	value := m.input.Value()
	candidates := m.manager.CompleteLine(m.sender, value)
	m.candidates = nil

	switch len(candidates) {
	case 0:
		return
	case 1:
		m.setInput(replacePartial(value, candidates[0]) + " ")
	default:
		partial := lastToken(value)
		if prefix := stringx.CommonPrefix(candidates); len([]rune(prefix)) > len([]rune(partial)) {
			m.setInput(replacePartial(value, prefix))
		}
		m.candidates = candidates
	}
}

func (m *Model) setInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

func (m *Model) appendLines(lines ...string) {
	m.scrollback = append(m.scrollback, lines...)
	if len(m.scrollback) > maxScrollback {
		m.scrollback = m.scrollback[len(m.scrollback)-maxScrollback:]
	}
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	lines := m.scrollback
	if m.height > 0 {
		room := m.height - 3
		if room < 0 {
			room = 0
		}
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	if len(m.candidates) > 0 {
		b.WriteString(CandidateStyle.Render(strings.Join(m.candidates, "  ")))
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(HelpStyle.Render("tab complete • ↑/↓ history • esc clear • ctrl+c quit"))
	return b.String()
}

// lastToken returns the token being typed, "" after trailing whitespace.
func lastToken(line string) string {
	tokens := stringx.TokenizeForCompletion(line)
	return tokens[len(tokens)-1]
}

// replacePartial swaps the token being typed for replacement.
func replacePartial(line, replacement string) string {
	if line == "" || strings.HasSuffix(line, " ") {
		return line + replacement
	}
	i := strings.LastIndexAny(line, " \t")
	return line[:i+1] + replacement
}

