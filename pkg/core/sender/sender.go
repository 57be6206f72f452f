// Package sender defines the generic identity a command is executed for.
//
// Hosts translate their own user, player or connection objects into a
// Sender. The engine only ever asks for a name; requirements and the
// permission predicate type-assert to the host's concrete type when they
// need more.
package sender

// Sender is whoever issued a command line.
type Sender interface {
	Name() string
}

// Named is a minimal Sender carrying only a name.
type Named string

// Name returns the string value.
func (n Named) Name() string { return string(n) }

// Console is the sender used for input typed on the process console.
var Console Sender = Named("console")
