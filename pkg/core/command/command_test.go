package command

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/convert"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

func noop(context.Context, *Invocation) error { return nil }

func TestBuild(t *testing.T) {
	leaf := New("inner").Executes(noop).MustBuild()

	tests := []struct {
		name     string
		builder  *Builder
		wantCode mdwerror.Code
	}{
		{"bare command", New("whoami").Executes(noop), ""},
		{"multi segment label", New("math.add").Arg(argument.Required("a", "int")).Executes(noop), ""},
		{"group", New("sub").Child(leaf), ""},
		{"blank label", New("  ").Executes(noop), mdwerror.CodeInvalidLabel},
		{"empty segment", New("math..add").Executes(noop), mdwerror.CodeInvalidLabel},
		{"whitespace segment", New("math add").Executes(noop), mdwerror.CodeInvalidLabel},
		{"bad alias", New("a").Alias("b.").Executes(noop), mdwerror.CodeInvalidLabel},
		{"optional before required", New("tp").Arg(argument.Opt("x", "float"), argument.Required("y", "float")).Executes(noop), mdwerror.CodeInvalidSpec},
		{"duplicate argument", New("tp").Arg(argument.Required("x", "float"), argument.Required("x", "float")).Executes(noop), mdwerror.CodeDuplicateArgument},
		{"spec after infinite", New("say").Arg(argument.Rest("text", "string"), argument.Opt("n", "int")).Executes(noop), mdwerror.CodeInvalidSpec},
		{"no handler no children", New("empty"), mdwerror.CodeMissingHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := tt.builder.Build()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Build() error = %v", err)
				}
				if node == nil {
					t.Fatal("Build() returned nil node")
				}
				return
			}
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Errorf("Build() error = %v, want code %s", err, tt.wantCode)
			}
			if node != nil {
				t.Error("Build() should not return a node on error")
			}
		})
	}
}

func TestBuildCopiesState(t *testing.T) {
	b := New("echo").Arg(argument.Rest("text", convert.TypeString)).Executes(noop)
	first := b.MustBuild()
	b.Arg(argument.Opt("extra", convert.TypeString))

	if len(first.Specs()) != 1 {
		t.Errorf("built node changed after builder reuse: %d specs", len(first.Specs()))
	}
}

func TestChildReplacesSameLabel(t *testing.T) {
	a := New("add").Description("first").Executes(noop).MustBuild()
	b := New("add").Description("second").Executes(noop).MustBuild()
	group := New("math").Child(a, b).MustBuild()

	children := group.Children()
	if len(children) != 1 || children[0] != b {
		t.Errorf("Children() = %v, want only the second add", children)
	}
}

func TestUsage(t *testing.T) {
	tp := New("teleport").Arg(
		argument.Required("x", convert.TypeFloat),
		argument.Required("y", convert.TypeFloat),
		argument.Opt("z", convert.TypeFloat),
	).Executes(noop).MustBuild()
	if got := tp.Usage(); got != "<x> <y> [z]" {
		t.Errorf("Usage() = %q", got)
	}

	group := New("math").Child(
		New("add").Executes(noop).MustBuild(),
		New("mul").Executes(noop).MustBuild(),
	).MustBuild()
	if got := group.Usage(); got != "<add|mul>" {
		t.Errorf("group Usage() = %q", got)
	}
	if !group.IsGroup() || tp.IsGroup() {
		t.Error("IsGroup() mismatch")
	}
}

type player struct{ name string }

func (p player) Name() string { return p.name }

func TestRequirements(t *testing.T) {
	inWorld := SenderIs[player]("only players can do this")

	if inWorld.Check(sender.Console) {
		t.Error("console should fail a player requirement")
	}
	if !inWorld.Check(player{"alice"}) {
		t.Error("player should pass a player requirement")
	}
	if inWorld.ErrorMessage() != "only players can do this" {
		t.Errorf("ErrorMessage() = %q", inWorld.ErrorMessage())
	}

	named := Require("not bob", func(s sender.Sender) bool { return s.Name() != "bob" })
	node := New("x").Require(inWorld, named).Permission("x.use").Alias("y", "z.w").Executes(noop).MustBuild()

	if diff := cmp.Diff([]string{"y", "z.w"}, node.Aliases()); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}
	if len(node.Requirements()) != 2 || node.Permission() != "x.use" {
		t.Errorf("requirements/permission not kept: %d %q", len(node.Requirements()), node.Permission())
	}
}
