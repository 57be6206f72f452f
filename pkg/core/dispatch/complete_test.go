package dispatch

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/command"
	"github.com/msto63/cmdcore/pkg/core/convert"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

func completionManager(t *testing.T) *Manager {
	t.Helper()
	noop := func(context.Context, *command.Invocation) error { return nil }
	players := func(sender.Sender, string) []string { return []string{"alice", "bob", "Albert"} }

	m := New(Options{Permission: hasPerm})
	m.RegisterConverter("player", convert.String, players)
	m.MustRegister(
		command.New("math").Child(
			command.New("add").Arg(argument.Required("a", convert.TypeInt), argument.Required("b", convert.TypeInt)).Executes(noop).MustBuild(),
			command.New("mul").Alias("mul").Arg(argument.Required("a", convert.TypeInt), argument.Required("b", convert.TypeInt)).Executes(noop).MustBuild(),
		).MustBuild(),
		command.New("weather").
			Arg(argument.Required("kind", convert.TypeString).WithChoices("clear", "rain", "storm"), argument.Opt("for", convert.TypeDuration)).
			Executes(noop).MustBuild(),
		command.New("msg").Arg(argument.Required("to", "player"), argument.Rest("text", convert.TypeString)).Executes(noop).MustBuild(),
		command.New("say").Arg(argument.Rest("text", convert.TypeString).WithChoices("hello", "bye")).Executes(noop).MustBuild(),
		command.New("toggle").Arg(argument.Required("on", convert.TypeBool)).Executes(noop).MustBuild(),
		command.New("secret").Permission("cmdcore.secret").Arg(argument.Required("who", "player")).Executes(noop).MustBuild(),
		command.New("give").
			Arg(argument.Required("item", convert.TypeString).WithCompleter(func(sender.Sender, string) []string { return []string{"sword", "shield"} })).
			Child(command.New("all").Executes(noop).MustBuild()).
			Executes(noop).MustBuild(),
	)
	return m
}

func TestCompleteLine(t *testing.T) {
	m := completionManager(t)
	admin := &player{name: "admin", perms: map[string]bool{"cmdcore.secret": true}}

	tests := []struct {
		name   string
		sender sender.Sender
		line   string
		want   []string
	}{
		{"root labels", sender.Console, "", []string{"give", "math", "msg", "mul", "say", "toggle", "weather"}},
		{"root prefix", sender.Console, "m", []string{"math", "msg", "mul"}},
		{"root prefix ignores case", sender.Console, "MA", []string{"math"}},
		{"hidden without permission", sender.Console, "se", []string{}},
		{"shown with permission", admin, "se", []string{"secret"}},
		{"children", sender.Console, "math ", []string{"add", "mul"}},
		{"child prefix", sender.Console, "math a", []string{"add"}},
		{"unknown base", sender.Console, "fly ", []string{}},
		{"int has no candidates", sender.Console, "math add ", []string{}},
		{"choices", sender.Console, "weather ", []string{"clear", "rain", "storm"}},
		{"choices prefix", sender.Console, "weather s", []string{"storm"}},
		{"no completer for duration", sender.Console, "weather rain ", []string{}},
		{"past last spec", sender.Console, "weather rain 5m ", []string{}},
		{"registry completer", sender.Console, "msg a", []string{"Albert", "alice"}},
		{"infinite without completer", sender.Console, "msg bob ", []string{}},
		{"infinite choices", sender.Console, "say h", []string{"hello"}},
		{"past infinite position", sender.Console, "say hello ", []string{}},
		{"bool", sender.Console, "toggle ", []string{"false", "true"}},
		{"node args denied", sender.Console, "secret ", []string{}},
		{"node args allowed", admin, "secret b", []string{"bob"}},
		{"children union arguments", sender.Console, "give ", []string{"all", "shield", "sword"}},
		{"union filtered", sender.Console, "give s", []string{"shield", "sword"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.CompleteLine(tt.sender, tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CompleteLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestCompleteBaseOnly(t *testing.T) {
	m := completionManager(t)
	got := m.Complete(sender.Console, "we", nil)
	if diff := cmp.Diff([]string{"weather"}, got); diff != "" {
		t.Errorf("Complete(we) mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteAliasSlot(t *testing.T) {
	m := New(Options{})
	noop := func(context.Context, *command.Invocation) error { return nil }
	m.MustRegister(command.New("sub").Child(
		command.New("inner").Alias("sub").Arg(argument.Required("value", convert.TypeInt)).Executes(noop).MustBuild(),
	).MustBuild())

	if diff := cmp.Diff([]string{"inner"}, m.CompleteLine(sender.Console, "sub ")); diff != "" {
		t.Errorf("alias slot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{}, m.CompleteLine(sender.Console, "sub inner ")); diff != "" {
		t.Errorf("argument slot mismatch (-want +got):\n%s", diff)
	}
}
