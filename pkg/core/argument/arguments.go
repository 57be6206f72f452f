package argument

import (
	"fmt"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
)

// Arguments holds the values bound for one invocation, keyed by the
// declared argument names.
type Arguments struct {
	names    []string
	declared map[string]struct{}
	values   map[string]any
	consumed int
}

func newArguments(specs []Spec) *Arguments {
	a := &Arguments{
		names:    make([]string, len(specs)),
		declared: make(map[string]struct{}, len(specs)),
		values:   make(map[string]any, len(specs)),
	}
	for i, s := range specs {
		a.names[i] = s.Name
		a.declared[s.Name] = struct{}{}
	}
	return a
}

// Lookup returns the value bound to name. present is false for an optional
// argument that was not supplied. An undeclared name is an error.
func (a *Arguments) Lookup(name string) (value any, present bool, err error) {
	if a == nil {
		return nil, false, notExist(name)
	}
	if _, ok := a.declared[name]; !ok {
		return nil, false, notExist(name)
	}
	v, ok := a.values[name]
	return v, ok, nil
}

// Has reports whether name was supplied.
func (a *Arguments) Has(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[name]
	return ok
}

// Names returns the declared argument names in order.
func (a *Arguments) Names() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.names...)
}

// Len returns the number of supplied arguments.
func (a *Arguments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Consumed returns how many raw tokens were bound.
func (a *Arguments) Consumed() int {
	if a == nil {
		return 0
	}
	return a.consumed
}

// Map returns a copy of the supplied values.
func (a *Arguments) Map() map[string]any {
	out := make(map[string]any, a.Len())
	if a == nil {
		return out
	}
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Get returns the value of a supplied argument as T.
func Get[T any](a *Arguments, name string) (T, error) {
	var zero T
	v, present, err := a.Lookup(name)
	if err != nil {
		return zero, err
	}
	if !present {
		return zero, mdwerror.Newf("argument %q was not supplied", name).
			WithCode(mdwerror.CodeArgumentAbsent).
			WithDetail("argument", name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, mdwerror.Newf("argument %q is %T, not %T", name, v, zero).
			WithCode(mdwerror.CodeArgumentType).
			WithDetail("argument", name)
	}
	return typed, nil
}

// Optional returns the value of an argument that may be absent. Absence is
// reported through ok and is never an error.
func Optional[T any](a *Arguments, name string) (value T, ok bool, err error) {
	v, present, err := a.Lookup(name)
	if err != nil || !present {
		return value, false, err
	}
	typed, isT := v.(T)
	if !isT {
		return value, false, mdwerror.Newf("argument %q is %T, not %T", name, v, value).
			WithCode(mdwerror.CodeArgumentType).
			WithDetail("argument", name)
	}
	return typed, true, nil
}

// MustGet is Get for handlers whose declarations guarantee presence and type.
func MustGet[T any](a *Arguments, name string) T {
	v, err := Get[T](a, name)
	if err != nil {
		panic(fmt.Sprintf("argument.MustGet: %v", err))
	}
	return v
}

func notExist(name string) error {
	return mdwerror.Newf("argument %q is not declared", name).
		WithCode(mdwerror.CodeArgumentNotExist).
		WithDetail("argument", name)
}
