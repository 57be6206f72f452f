package argument

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/cmdcore/pkg/core/convert"
)

func TestParseSingleInt(t *testing.T) {
	specs := []Spec{Required("test", convert.TypeInt)}
	reg := convert.NewDefaultRegistry()

	tests := []struct {
		name     string
		tokens   []string
		wantKind ErrorKind
		wantErr  bool
		want     int
	}{
		{name: "valid", tokens: []string{"5"}, want: 5},
		{name: "not a number", tokens: []string{"x"}, wantErr: true, wantKind: ConversionFailed},
		{name: "missing", tokens: nil, wantErr: true, wantKind: MissingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(specs, tt.tokens, reg)
			if tt.wantErr {
				if res.Err == nil {
					t.Fatalf("Parse(%q) succeeded, want %s", tt.tokens, tt.wantKind)
				}
				if res.Err.Kind != tt.wantKind || res.Err.Argument != "test" {
					t.Errorf("Parse(%q) error = %+v, want kind %s on argument test", tt.tokens, res.Err, tt.wantKind)
				}
				if res.Arguments != nil {
					t.Error("partial bindings must not be exposed")
				}
				return
			}
			if res.Err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.tokens, res.Err)
			}
			got, err := Get[int](res.Arguments, "test")
			if err != nil || got != tt.want {
				t.Errorf("Get(test) = %v, %v; want %d", got, err, tt.want)
			}
			if res.Consumed != 1 {
				t.Errorf("Consumed = %d, want 1", res.Consumed)
			}
		})
	}
}

func TestParseInfiniteJoinsRemainder(t *testing.T) {
	specs := []Spec{Required("target", convert.TypeString), Rest("message", convert.TypeString)}
	reg := convert.NewDefaultRegistry()

	for _, n := range []int{1, 2, 5, 12} {
		words := make([]string, n)
		for i := range words {
			words[i] = "w"
		}
		tokens := append([]string{"bob"}, words...)

		res := Parse(specs, tokens, reg)
		if res.Err != nil {
			t.Fatalf("Parse(%d words) error = %v", n, res.Err)
		}
		got, _ := Get[string](res.Arguments, "message")
		if want := strings.Join(words, " "); got != want {
			t.Errorf("message = %q, want %q", got, want)
		}
		if res.Consumed != n+1 {
			t.Errorf("Consumed = %d, want %d", res.Consumed, n+1)
		}
	}
}

func TestParseInfiniteEmpty(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	res := Parse([]Spec{Rest("text", convert.TypeString)}, nil, reg)
	if res.Err == nil || res.Err.Kind != MissingRequired {
		t.Errorf("required infinite with no tokens: err = %v, want MISSING_REQUIRED", res.Err)
	}

	optional := Rest("reason", convert.TypeString)
	optional.Optional = true
	res = Parse([]Spec{optional}, nil, reg)
	if res.Err != nil {
		t.Fatalf("optional infinite with no tokens: err = %v", res.Err)
	}
	if res.Arguments.Has("reason") {
		t.Error("optional infinite should be absent")
	}
}

func TestParseInfiniteConversionFailureConsumesAll(t *testing.T) {
	reg := convert.NewDefaultRegistry()
	res := Parse([]Spec{Rest("n", convert.TypeInt)}, []string{"1", "2"}, reg)
	if res.Err == nil || res.Err.Kind != ConversionFailed {
		t.Fatalf("err = %v, want CONVERSION_FAILED", res.Err)
	}
	if res.Err.Input != "1 2" {
		t.Errorf("Input = %q, want %q", res.Err.Input, "1 2")
	}
}

func TestParseOptionalDoesNotAdvance(t *testing.T) {
	specs := []Spec{
		Required("x", convert.TypeFloat),
		Required("y", convert.TypeFloat),
		Opt("z", convert.TypeFloat),
	}
	res := Parse(specs, []string{"1", "2"}, convert.NewDefaultRegistry())
	if res.Err != nil {
		t.Fatalf("Parse() error = %v", res.Err)
	}

	z, ok, err := Optional[float64](res.Arguments, "z")
	if err != nil || ok || z != 0 {
		t.Errorf("Optional(z) = %v, %v, %v; want 0, false, nil", z, ok, err)
	}
	if res.Consumed != 2 {
		t.Errorf("Consumed = %d, want 2", res.Consumed)
	}
}

func TestParseTypeNotFound(t *testing.T) {
	res := Parse([]Spec{Required("who", "player")}, []string{"alice"}, convert.NewDefaultRegistry())
	if res.Err == nil || res.Err.Kind != TypeNotFound {
		t.Fatalf("err = %v, want TYPE_NOT_FOUND", res.Err)
	}

	res = Parse([]Spec{Required("who", convert.TypeString)}, []string{"alice"}, nil)
	if res.Err == nil || res.Err.Kind != TypeNotFound {
		t.Errorf("nil registry: err = %v, want TYPE_NOT_FOUND", res.Err)
	}
}

func TestParseInlineConverterOverridesRegistry(t *testing.T) {
	upper := convert.Of(func(raw string) (string, bool) { return strings.ToUpper(raw), true })
	specs := []Spec{Required("code", convert.TypeInt).WithConverter(upper)}

	res := Parse(specs, []string{"abc"}, convert.NewDefaultRegistry())
	if res.Err != nil {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	if got, _ := Get[string](res.Arguments, "code"); got != "ABC" {
		t.Errorf("code = %q, want ABC", got)
	}
}

func TestParseChoices(t *testing.T) {
	specs := []Spec{Required("kind", convert.TypeString).WithChoices("clear", "rain", "storm")}
	reg := convert.NewDefaultRegistry()

	if res := Parse(specs, []string{"Rain"}, reg); res.Err != nil {
		t.Errorf("Parse(Rain) error = %v", res.Err)
	}
	res := Parse(specs, []string{"snow"}, reg)
	if res.Err == nil || res.Err.Kind != InvalidFormat {
		t.Errorf("Parse(snow) err = %v, want INVALID_FORMAT", res.Err)
	}
}

func TestParseTrailingTokens(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	res := Parse([]Spec{Required("a", convert.TypeInt)}, []string{"1", "2", "3"}, reg)
	want := &ParseError{Kind: ArgumentTooLong, Argument: "a", Input: "2 3", Message: "2 unexpected trailing token(s)"}
	if diff := cmp.Diff(want, res.Err); diff != "" {
		t.Errorf("trailing tokens mismatch (-want +got):\n%s", diff)
	}

	res = Parse(nil, []string{"extra"}, reg)
	if res.Err == nil || res.Err.Kind != ArgumentTooLong || res.Err.Argument != "" {
		t.Errorf("no specs: err = %+v, want ARGUMENT_TOO_LONG without argument", res.Err)
	}

	if res := Parse(nil, nil, reg); res.Err != nil || res.Consumed != 0 {
		t.Errorf("empty parse = %+v", res)
	}
}

func TestParseBoolFalseIsPresent(t *testing.T) {
	res := Parse([]Spec{Required("flag", convert.TypeBool)}, []string{"false"}, convert.NewDefaultRegistry())
	if res.Err != nil {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	v, present, err := res.Arguments.Lookup("flag")
	if err != nil || !present || v != false {
		t.Errorf("Lookup(flag) = %v, %v, %v; want false, true, nil", v, present, err)
	}
}

func TestParseErrorString(t *testing.T) {
	err := &ParseError{Kind: ConversionFailed, Argument: "test", Input: "x", Message: `"x" is not a valid int`}
	if got := err.Error(); got != `CONVERSION_FAILED: argument "test": "x" is not a valid int` {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ParseError{Kind: ArgumentTooLong, Message: "m"}).Error(); got != "ARGUMENT_TOO_LONG: m" {
		t.Errorf("Error() = %q", got)
	}
}
