package dispatch

import (
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/pkg/core/convert"
	"github.com/msto63/cmdcore/pkg/core/sender"
)

// PermissionFunc decides whether s holds permission.
type PermissionFunc func(s sender.Sender, permission string) bool

// AllowAll grants every permission.
func AllowAll(sender.Sender, string) bool { return true }

// DenyAll refuses every permission.
func DenyAll(sender.Sender, string) bool { return false }

// Options configures a Manager. Zero values pick the defaults noted below.
type Options struct {
	// Logger defaults to a logger that discards everything.
	Logger *mdwlog.Logger
	// Converters defaults to convert.NewDefaultRegistry().
	Converters *convert.Registry
	// Permission defaults to DenyAll: commands declaring a permission are
	// refused until the host supplies a predicate.
	Permission PermissionFunc
	// CaseInsensitive makes label matching ignore case.
	CaseInsensitive bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = mdwlog.NewNop()
	}
	if o.Converters == nil {
		o.Converters = convert.NewDefaultRegistry()
	}
	if o.Permission == nil {
		o.Permission = DenyAll
	}
	return o
}
