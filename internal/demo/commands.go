package demo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/command"
	"github.com/msto63/cmdcore/pkg/core/convert"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Type key of the user argument converter.
const TypeUser = "user"

// PermissionTeleport guards the teleport command.
const PermissionTeleport = "cmdcore.teleport"

// ErrTicketNotFound is returned by ticket.close for unknown ids.
var ErrTicketNotFound = mdwerror.New("ticket not found").WithCode(mdwerror.CodeNotFound)

// Ticket is an open support ticket.
type Ticket struct {
	ID       uuid.UUID
	Title    string
	Owner    string
	OpenedAt time.Time
}

type commandSet struct {
	manager   *dispatch.Manager
	directory *Directory

	mu      sync.Mutex
	tickets map[uuid.UUID]Ticket
	weather string
}

// Register installs the demo commands into m with an empty user directory.
func Register(m *dispatch.Manager) error {
	return RegisterWithDirectory(m, NewDirectory())
}

// RegisterWithDirectory installs the demo commands and the "user" argument
// type backed by dir.
func RegisterWithDirectory(m *dispatch.Manager, dir *Directory) error {
	set := &commandSet{
		manager:   m,
		directory: dir,
		tickets:   make(map[uuid.UUID]Ticket),
		weather:   "clear",
	}

	m.RegisterConverter(TypeUser, convert.Of(set.convertUser), set.completeUser)

	nodes, err := set.build()
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := m.Register(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *commandSet) build() ([]*command.Node, error) {
	inWorld := command.Require("You must be in the world to do that.", func(s sender.Sender) bool {
		u, ok := s.(*User)
		return ok && u.InWorld()
	})
	isUser := command.SenderIs[*User]("Only users can do that.")

	builders := []*command.Builder{
		command.New("echo").
			Description("Repeat a message").
			Arg(argument.Rest("text", convert.TypeString)).
			Executes(c.echo),

		command.New("math").
			Description("Integer arithmetic").
			Child(
				command.New("add").
					Description("Add two integers").
					Arg(argument.Required("a", convert.TypeInt), argument.Required("b", convert.TypeInt)).
					Executes(c.add).
					MustBuild(),
				command.New("mul").
					Alias("mul").
					Description("Multiply two integers").
					Arg(argument.Required("a", convert.TypeInt), argument.Required("b", convert.TypeInt)).
					Executes(c.mul).
					MustBuild(),
			),

		command.New("join").
			Description("Enter the world").
			Require(isUser).
			Executes(c.join),

		command.New("leave").
			Description("Leave the world").
			Require(inWorld).
			Executes(c.leave),

		command.New("teleport").
			Alias("tp").
			Description("Move to a position").
			Require(inWorld).
			Permission(PermissionTeleport).
			Arg(
				argument.Required("x", convert.TypeFloat),
				argument.Required("y", convert.TypeFloat),
				argument.Opt("z", convert.TypeFloat),
			).
			Executes(c.teleport),

		command.New("weather").
			Description("Change the weather").
			Arg(
				argument.Required("kind", convert.TypeString).WithChoices("clear", "rain", "storm"),
				argument.Opt("duration", convert.TypeDuration),
			).
			Executes(c.setWeather),

		command.New("sub").
			Child(
				command.New("inner").
					Alias("sub").
					Description("Echo an integer").
					Arg(argument.Required("value", convert.TypeInt)).
					Executes(c.inner).
					MustBuild(),
			),

		command.New("whoami").
			Description("Show your name and permissions").
			Executes(c.whoami),

		command.New("msg").
			Alias("tell").
			Description("Send a private message").
			Arg(argument.Required("to", TypeUser), argument.Rest("text", convert.TypeString)).
			Executes(c.msg),

		command.New("ticket").
			Description("Support tickets").
			Child(
				command.New("open").
					Description("Open a ticket").
					Arg(argument.Rest("title", convert.TypeString)).
					Executes(c.openTicket).
					MustBuild(),
				command.New("close").
					Description("Close a ticket").
					Arg(
						argument.Required("id", convert.TypeUUID).WithCompleter(c.completeTicket),
						argument.Spec{Name: "reason", TypeKey: convert.TypeString, Optional: true, Infinite: true},
					).
					Executes(c.closeTicket).
					MustBuild(),
				command.New("list").
					Description("List open tickets").
					Executes(c.listTickets).
					MustBuild(),
			),

		command.New("help").
			Alias("?").
			Description("List commands or show one command's usage").
			Arg(argument.Spec{Name: "command", TypeKey: convert.TypeString, Optional: true, Infinite: true}.
				WithCompleter(c.completeHelp)).
			Executes(c.help),
	}

	nodes := make([]*command.Node, 0, len(builders))
	for _, b := range builders {
		n, err := b.Build()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func reply(inv *command.Invocation, format string, args ...any) {
	if r, ok := inv.Sender.(Replier); ok {
		r.Reply(fmt.Sprintf(format, args...))
	}
}

func (c *commandSet) echo(_ context.Context, inv *command.Invocation) error {
	reply(inv, "%s", argument.MustGet[string](inv.Args, "text"))
	return nil
}

func (c *commandSet) add(_ context.Context, inv *command.Invocation) error {
	a := argument.MustGet[int](inv.Args, "a")
	b := argument.MustGet[int](inv.Args, "b")
	reply(inv, "%d", a+b)
	return nil
}

func (c *commandSet) mul(_ context.Context, inv *command.Invocation) error {
	a := argument.MustGet[int](inv.Args, "a")
	b := argument.MustGet[int](inv.Args, "b")
	reply(inv, "%d", a*b)
	return nil
}

func (c *commandSet) join(_ context.Context, inv *command.Invocation) error {
	u := inv.Sender.(*User)
	u.Join()
	c.directory.Add(u)
	reply(inv, "Welcome, %s.", u.Name())
	return nil
}

func (c *commandSet) leave(_ context.Context, inv *command.Invocation) error {
	u := inv.Sender.(*User)
	u.Leave()
	reply(inv, "Goodbye, %s.", u.Name())
	return nil
}

func (c *commandSet) teleport(_ context.Context, inv *command.Invocation) error {
	u := inv.Sender.(*User)
	pos := Position{
		X: argument.MustGet[float64](inv.Args, "x"),
		Y: argument.MustGet[float64](inv.Args, "y"),
	}
	if z, ok, err := argument.Optional[float64](inv.Args, "z"); err != nil {
		return err
	} else if ok {
		pos.Z = z
	} else {
		pos.Z = u.Position().Z
	}
	u.moveTo(pos)
	reply(inv, "Teleported to %s.", pos)
	return nil
}

func (c *commandSet) setWeather(_ context.Context, inv *command.Invocation) error {
	kind := strings.ToLower(argument.MustGet[string](inv.Args, "kind"))
	duration, hasDuration, err := argument.Optional[time.Duration](inv.Args, "duration")
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.weather = kind
	c.mu.Unlock()

	if hasDuration {
		reply(inv, "Weather set to %s for %s.", kind, duration)
		return nil
	}
	reply(inv, "Weather set to %s.", kind)
	return nil
}

func (c *commandSet) inner(_ context.Context, inv *command.Invocation) error {
	reply(inv, "%d", argument.MustGet[int](inv.Args, "value"))
	return nil
}

func (c *commandSet) whoami(_ context.Context, inv *command.Invocation) error {
	if u, ok := inv.Sender.(*User); ok {
		perms := u.Permissions()
		if len(perms) == 0 {
			reply(inv, "%s (no permissions)", u.Name())
			return nil
		}
		reply(inv, "%s (%s)", u.Name(), strings.Join(perms, ", "))
		return nil
	}
	reply(inv, "%s", inv.Sender.Name())
	return nil
}

func (c *commandSet) msg(_ context.Context, inv *command.Invocation) error {
	to := argument.MustGet[*User](inv.Args, "to")
	text := argument.MustGet[string](inv.Args, "text")
	to.Reply(fmt.Sprintf("[%s] %s", inv.Sender.Name(), text))
	reply(inv, "Message sent to %s.", to.Name())
	return nil
}

func (c *commandSet) openTicket(_ context.Context, inv *command.Invocation) error {
	t := Ticket{
		ID:       uuid.New(),
		Title:    argument.MustGet[string](inv.Args, "title"),
		Owner:    inv.Sender.Name(),
		OpenedAt: time.Now(),
	}

	c.mu.Lock()
	c.tickets[t.ID] = t
	c.mu.Unlock()

	reply(inv, "Ticket %s opened.", t.ID)
	return nil
}

func (c *commandSet) closeTicket(_ context.Context, inv *command.Invocation) error {
	id := argument.MustGet[uuid.UUID](inv.Args, "id")
	reason, hasReason, err := argument.Optional[string](inv.Args, "reason")
	if err != nil {
		return err
	}

	c.mu.Lock()
	t, ok := c.tickets[id]
	delete(c.tickets, id)
	c.mu.Unlock()

	if !ok {
		return mdwerror.Wrap(ErrTicketNotFound, "cannot close ticket").
			WithOperation("demo.ticket.close").
			WithDetail("id", id.String())
	}
	if hasReason {
		reply(inv, "Ticket %s (%s) closed: %s", t.ID, t.Title, reason)
		return nil
	}
	reply(inv, "Ticket %s (%s) closed.", t.ID, t.Title)
	return nil
}

func (c *commandSet) listTickets(_ context.Context, inv *command.Invocation) error {
	tickets := c.openTickets()
	if len(tickets) == 0 {
		reply(inv, "No open tickets.")
		return nil
	}
	for _, t := range tickets {
		reply(inv, "%s %s (%s)", t.ID, t.Title, t.Owner)
	}
	return nil
}

func (c *commandSet) openTickets() []Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Ticket, 0, len(c.tickets))
	for _, t := range c.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out
}

func (c *commandSet) help(_ context.Context, inv *command.Invocation) error {
	target, hasTarget, err := argument.Optional[string](inv.Args, "command")
	if err != nil {
		return err
	}

	if !hasTarget {
		for _, info := range c.manager.Commands() {
			if info.Alias || info.Group {
				continue
			}
			reply(inv, "%s", helpLine(info))
		}
		return nil
	}

	path := strings.Join(strings.Fields(target), ".")
	node, ok := c.manager.Lookup(path)
	if !ok {
		reply(inv, "No help for %q.", target)
		return nil
	}
	for _, info := range c.manager.Commands() {
		if info.Alias {
			continue
		}
		if info.Path == path || strings.HasPrefix(info.Path, path+".") {
			reply(inv, "%s", helpLine(info))
		}
	}
	if aliases := node.Aliases(); len(aliases) > 0 {
		reply(inv, "Aliases: %s", strings.Join(aliases, ", "))
	}
	return nil
}

func helpLine(info dispatch.CommandInfo) string {
	if info.Description == "" {
		return info.Usage
	}
	return info.Usage + " - " + info.Description
}

func (c *commandSet) convertUser(raw string) (*User, bool) {
	return c.directory.Get(raw)
}

func (c *commandSet) completeUser(s sender.Sender, _ string) []string {
	names := c.directory.Names()
	out := names[:0]
	for _, n := range names {
		if s == nil || !strings.EqualFold(n, s.Name()) {
			out = append(out, n)
		}
	}
	return out
}

func (c *commandSet) completeTicket(sender.Sender, string) []string {
	tickets := c.openTickets()
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID.String()
	}
	return out
}

func (c *commandSet) completeHelp(sender.Sender, string) []string {
	var out []string
	for _, info := range c.manager.Commands() {
		if !strings.Contains(info.Path, ".") {
			out = append(out, info.Path)
		}
	}
	return out
}
