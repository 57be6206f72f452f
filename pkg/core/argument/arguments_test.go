package argument

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/convert"
)

func bind(t *testing.T, specs []Spec, tokens ...string) *Arguments {
	t.Helper()
	res := Parse(specs, tokens, convert.NewDefaultRegistry())
	if res.Err != nil {
		t.Fatalf("Parse(%q) error = %v", tokens, res.Err)
	}
	return res.Arguments
}

func TestLookupDistinguishesMissingFromAbsent(t *testing.T) {
	args := bind(t, []Spec{Required("a", convert.TypeInt), Opt("b", convert.TypeInt)}, "1")

	if _, present, err := args.Lookup("b"); err != nil || present {
		t.Errorf("Lookup(b) = present %v, err %v; want absent without error", present, err)
	}

	_, _, err := args.Lookup("nope")
	if !errors.Is(err, ErrArgumentNotExist) {
		t.Errorf("Lookup(nope) err = %v, want ErrArgumentNotExist", err)
	}
	if !mdwerror.HasCode(err, mdwerror.CodeArgumentNotExist) {
		t.Errorf("Lookup(nope) code = %v", mdwerror.GetCode(err))
	}
}

func TestGetErrors(t *testing.T) {
	args := bind(t, []Spec{Required("a", convert.TypeInt), Opt("b", convert.TypeInt)}, "1")

	tests := []struct {
		name   string
		call   func() error
		target error
	}{
		{"absent", func() error { _, err := Get[int](args, "b"); return err }, ErrArgumentAbsent},
		{"wrong type", func() error { _, err := Get[string](args, "a"); return err }, ErrArgumentType},
		{"undeclared", func() error { _, err := Get[int](args, "c"); return err }, ErrArgumentNotExist},
		{"optional wrong type", func() error { _, _, err := Optional[string](args, "a"); return err }, ErrArgumentType},
		{"optional undeclared", func() error { _, _, err := Optional[int](args, "c"); return err }, ErrArgumentNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestArgumentsAccessors(t *testing.T) {
	args := bind(t, []Spec{Required("a", convert.TypeInt), Opt("b", convert.TypeString)}, "7", "x")

	if diff := cmp.Diff([]string{"a", "b"}, args.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 7, "b": "x"}, args.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
	if args.Len() != 2 || args.Consumed() != 2 {
		t.Errorf("Len() = %d, Consumed() = %d; want 2, 2", args.Len(), args.Consumed())
	}
	if got := MustGet[int](args, "a"); got != 7 {
		t.Errorf("MustGet(a) = %d", got)
	}
}

func TestNilArguments(t *testing.T) {
	var args *Arguments
	if _, _, err := args.Lookup("a"); !errors.Is(err, ErrArgumentNotExist) {
		t.Errorf("nil Lookup err = %v", err)
	}
	if args.Has("a") || args.Len() != 0 || args.Consumed() != 0 || len(args.Map()) != 0 {
		t.Error("nil Arguments should behave as empty")
	}
}

func TestMustGetPanics(t *testing.T) {
	args := bind(t, []Spec{Opt("b", convert.TypeInt)})
	defer func() {
		if recover() == nil {
			t.Error("MustGet on absent argument should panic")
		}
	}()
	MustGet[int](args, "b")
}
