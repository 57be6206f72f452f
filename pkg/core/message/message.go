// Package message renders dispatch outcomes as user-facing text.
//
// Templates are plain strings keyed by outcome kind, with %name%
// placeholders. The dispatch engine never formats text itself; hosts pass
// each Outcome through a Handler.
package message

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	"github.com/msto63/cmdcore/pkg/core/argument"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
)

// Template keys.
const (
	KeyNoSuchCommand     = "no-such-command"
	KeyGroup             = "group"
	KeyRequirementFailed = "requirement-failed"
	KeyPermissionDenied  = "permission-denied"
	KeyHandlerFailed     = "handler-failed"
)

// ParseKey returns the template key for a parse error kind.
func ParseKey(kind argument.ErrorKind) string {
	return "parse." + kind.String()
}

// Templates maps keys to template strings.
type Templates map[string]string

// Defaults returns the built-in English templates.
func Defaults() Templates {
	return Templates{
		KeyNoSuchCommand:     `Unknown command "%command%".`,
		KeyGroup:             "Usage: %usage%",
		KeyRequirementFailed: "%requirement%",
		KeyPermissionDenied:  "You do not have permission to use %command%.",
		KeyHandlerFailed:     "Command %command% failed: %error%",

		ParseKey(argument.TypeNotFound):     "Argument %arg% has an unknown type.",
		ParseKey(argument.ConversionFailed): `Invalid value "%input%" for %arg%. Usage: %usage%`,
		ParseKey(argument.ArgumentTooLong):  `Too many arguments: "%input%". Usage: %usage%`,
		ParseKey(argument.MissingRequired):  "Missing argument %arg%. Usage: %usage%",
		ParseKey(argument.InvalidFormat):    `Invalid value "%input%" for %arg%: %message%.`,
	}
}

// Keys returns the keys in sorted order.
func (t Templates) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Handler renders outcomes. Templates can be swapped at runtime.
type Handler struct {
	mu        sync.RWMutex
	templates Templates
}

// New creates a handler using overrides on top of Defaults.
func New(overrides Templates) *Handler {
	h := &Handler{}
	h.Set(overrides)
	return h
}

// Set replaces the active templates with overrides on top of Defaults.
func (h *Handler) Set(overrides Templates) {
	merged := Defaults()
	for k, v := range overrides {
		merged[k] = v
	}

	h.mu.Lock()
	h.templates = merged
	h.mu.Unlock()
}

// Template returns the template for key.
func (h *Handler) Template(key string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.templates[key]
	return t, ok
}

// Render substitutes vars into the template for key. Unknown keys render as
// the key itself so a missing template is visible rather than silent.
func (h *Handler) Render(key string, vars map[string]string) string {
	tmpl, ok := h.Template(key)
	if !ok {
		return key
	}
	return Substitute(tmpl, vars)
}

// Substitute replaces every %name% in tmpl with vars[name]. Placeholders
// without a value are left untouched.
func Substitute(tmpl string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(tmpl, "%") {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "%"+k+"%", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Vars extracts the placeholder values of an outcome.
func Vars(o dispatch.Outcome) map[string]string {
	command := o.Label
	if o.Path != "" {
		command = strings.ReplaceAll(o.Path, ".", " ")
	}
	vars := map[string]string{
		"command":     command,
		"usage":       o.Usage(),
		"requirement": o.Message,
		"permission":  o.Permission,
	}
	if pe := o.ParseError; pe != nil {
		vars["arg"] = pe.Argument
		vars["input"] = pe.Input
		vars["message"] = pe.Message
	}
	if o.Err != nil {
		vars["error"] = o.Err.Error()
	}
	return vars
}

// Key returns the template key for an outcome, or "" for a successful
// execution, which has nothing to report.
func Key(o dispatch.Outcome) string {
	switch o.Kind {
	case dispatch.Executed:
		if o.Err != nil {
			return KeyHandlerFailed
		}
		return ""
	case dispatch.NoSuchCommand:
		if o.Node != nil {
			return KeyGroup
		}
		return KeyNoSuchCommand
	case dispatch.RequirementFailed:
		return KeyRequirementFailed
	case dispatch.PermissionDenied:
		return KeyPermissionDenied
	case dispatch.ParseFailed:
		if o.ParseError != nil {
			return ParseKey(o.ParseError.Kind)
		}
	}
	return fmt.Sprintf("outcome.%s", o.Kind)
}

// Format renders o, returning "" for a successful execution.
func (h *Handler) Format(o dispatch.Outcome) string {
	key := Key(o)
	if key == "" {
		return ""
	}
	return h.Render(key, Vars(o))
}

// Load reads templates from a TOML or YAML file. Nested tables are
// flattened with dots, so a [parse] table yields parse.* keys.
func Load(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot read message file").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("message.Load").
			WithDetail("path", path)
	}

	raw := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, mdwerror.Newf("unsupported message file format %q", filepath.Ext(path)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("message.Load").
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot parse message file").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("message.Load").
			WithDetail("path", path)
	}

	out := make(Templates)
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, in map[string]interface{}, out Templates) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// LoadFile replaces the active templates with those in path.
func (h *Handler) LoadFile(path string) error {
	t, err := Load(path)
	if err != nil {
		return err
	}
	h.Set(t)
	return nil
}
