package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Type keys of the built-in converters.
const (
	TypeString   = "string"
	TypeInt      = "int"
	TypeInt64    = "int64"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeDuration = "duration"
	TypeUUID     = "uuid"
)

// NewDefaultRegistry returns a registry preloaded with the built-in
// converters.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults installs the built-in converters into r.
func RegisterDefaults(r *Registry) {
	r.Register(TypeString, String, nil)
	r.Register(TypeInt, Int, nil)
	r.Register(TypeInt64, Int64, nil)
	r.Register(TypeFloat, Float, nil)
	r.Register(TypeBool, Bool, completeBool)
	r.Register(TypeDuration, Duration, nil)
	r.Register(TypeUUID, UUID, nil)
}

var (
	// String accepts any token as-is.
	String = Of(func(raw string) (string, bool) { return raw, true })

	// Int parses a base 10 int.
	Int = Of(func(raw string) (int, bool) {
		v, err := strconv.Atoi(raw)
		return v, err == nil
	})

	// Int64 parses a base 10 int64.
	Int64 = Of(func(raw string) (int64, bool) {
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	})

	// Float parses a float64.
	Float = Of(func(raw string) (float64, bool) {
		v, err := strconv.ParseFloat(raw, 64)
		return v, err == nil
	})

	// Bool accepts true/false, yes/no and on/off in any case.
	Bool = Of(parseBool)

	// Duration parses time.ParseDuration syntax such as 90s or 5m.
	Duration = Of(func(raw string) (time.Duration, bool) {
		v, err := time.ParseDuration(raw)
		return v, err == nil
	})

	// UUID parses a canonical UUID.
	UUID = Of(func(raw string) (uuid.UUID, bool) {
		v, err := uuid.Parse(raw)
		return v, err == nil
	})
)

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func completeBool(sender.Sender, string) []string {
	return []string{"true", "false"}
}
