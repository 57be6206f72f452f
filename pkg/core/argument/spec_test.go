package argument

import (
	"testing"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/convert"
)

func TestValidate(t *testing.T) {
	optRest := Rest("rest", convert.TypeString)
	optRest.Optional = true

	tests := []struct {
		name     string
		specs    []Spec
		wantCode mdwerror.Code
	}{
		{"empty", nil, ""},
		{"required then optional", []Spec{Required("a", "int"), Opt("b", "int")}, ""},
		{"optional infinite last", []Spec{Required("a", "int"), optRest}, ""},
		{"inline converter without key", []Spec{{Name: "a", Converter: convert.String}}, ""},
		{"optional before required", []Spec{Opt("a", "int"), Required("b", "int")}, mdwerror.CodeInvalidSpec},
		{"spec after infinite", []Spec{Rest("a", "string"), Opt("b", "int")}, mdwerror.CodeInvalidSpec},
		{"two infinite", []Spec{Rest("a", "string"), Rest("b", "string")}, mdwerror.CodeInvalidSpec},
		{"duplicate name", []Spec{Required("a", "int"), Required("a", "int")}, mdwerror.CodeDuplicateArgument},
		{"blank name", []Spec{Required(" ", "int")}, mdwerror.CodeInvalidSpec},
		{"missing type", []Spec{{Name: "a"}}, mdwerror.CodeInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.specs)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	specs := []Spec{
		Required("id", convert.TypeUUID),
		Opt("when", convert.TypeDuration),
		Required("kind", convert.TypeString).WithChoices("clear", "rain"),
	}
	if got, want := Usage(specs), "<id> [when] <clear|rain>"; got != want {
		t.Errorf("Usage() = %q, want %q", got, want)
	}

	reason := Rest("reason", convert.TypeString)
	reason.Optional = true
	if got := reason.Usage(); got != "[reason...]" {
		t.Errorf("Usage() = %q", got)
	}
	if got := Rest("text", convert.TypeString).Usage(); got != "<text...>" {
		t.Errorf("Usage() = %q", got)
	}
}
