package convert

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/msto63/cmdcore/pkg/core/sender"
)

func TestDefaultConverters(t *testing.T) {
	id := uuid.MustParse("4f1c7a2e-3b1d-4c0a-9b8e-2f1d3c4b5a6e")

	tests := []struct {
		name   string
		key    string
		raw    string
		want   any
		wantOK bool
	}{
		{"string", TypeString, "hello", "hello", true},
		{"int", TypeInt, "5", 5, true},
		{"negative int", TypeInt, "-12", -12, true},
		{"int rejects text", TypeInt, "x", nil, false},
		{"int rejects float", TypeInt, "1.5", nil, false},
		{"int64", TypeInt64, "9000000000", int64(9000000000), true},
		{"float", TypeFloat, "1.25", 1.25, true},
		{"float rejects text", TypeFloat, "north", nil, false},
		{"bool true", TypeBool, "yes", true, true},
		{"bool false is a value", TypeBool, "OFF", false, true},
		{"bool rejects", TypeBool, "maybe", nil, false},
		{"duration", TypeDuration, "90s", 90 * time.Second, true},
		{"duration rejects", TypeDuration, "soon", nil, false},
		{"uuid", TypeUUID, id.String(), id, true},
		{"uuid rejects", TypeUUID, "not-a-uuid", nil, false},
	}

	r := NewDefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := r.Converter(tt.key)
			if !ok {
				t.Fatalf("no converter for %q", tt.key)
			}
			got, ok := c.Convert(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Convert(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(TypeInt, Of(func(string) (int, bool) { return 42, true }), nil)

	c, _ := r.Converter(TypeInt)
	got, ok := c.Convert("1")
	if !ok || got != 42 {
		t.Errorf("Convert() = %v, %v; want 42, true", got, ok)
	}
}

func TestLookupMissing(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Converter("player"); ok {
		t.Error("Converter() on empty registry should report a miss")
	}
	if got := r.Complete("player", sender.Console, ""); got != nil {
		t.Errorf("Complete() = %v, want nil", got)
	}
}

func TestComplete(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register("player", String, func(s sender.Sender, partial string) []string {
		return []string{"alice", "bob", s.Name()}
	})

	if diff := cmp.Diff([]string{"true", "false"}, r.Complete(TypeBool, sender.Console, "t")); diff != "" {
		t.Errorf("bool completion mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alice", "bob", "console"}, r.Complete("player", sender.Console, "")); diff != "" {
		t.Errorf("player completion mismatch (-want +got):\n%s", diff)
	}
	if got := r.Complete(TypeInt, sender.Console, ""); got != nil {
		t.Errorf("int completion = %v, want nil", got)
	}
}

func TestUnregisterAndKeys(t *testing.T) {
	r := NewDefaultRegistry()
	if !r.Unregister(TypeUUID) {
		t.Fatal("Unregister(uuid) = false")
	}
	if r.Unregister(TypeUUID) {
		t.Error("second Unregister(uuid) should report false")
	}

	want := []string{"bool", "duration", "float", "int", "int64", "string"}
	if diff := cmp.Diff(want, r.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
