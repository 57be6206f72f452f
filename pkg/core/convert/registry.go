package convert

import (
	"sort"
	"sync"

	"github.com/msto63/cmdcore/pkg/core/sender"
)

// Registry maps type keys to converters. It is safe for concurrent use;
// registering a key that already exists replaces the earlier entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register installs converter and completer under key. completer may be nil.
func (r *Registry) Register(key string, converter Converter, completer CompleteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = Registration{Converter: converter, Completer: completer}
}

// Unregister removes key and reports whether it was present.
func (r *Registry) Unregister(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)
	return true
}

// Lookup returns the registration for key.
func (r *Registry) Lookup(key string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[key]
	return reg, ok
}

// Converter returns only the converter for key.
func (r *Registry) Converter(key string) (Converter, bool) {
	reg, ok := r.Lookup(key)
	if !ok || reg.Converter == nil {
		return nil, false
	}
	return reg.Converter, true
}

// Complete returns the candidates of the completer registered for key, or
// nil when there is none.
func (r *Registry) Complete(key string, s sender.Sender, partial string) []string {
	reg, ok := r.Lookup(key)
	if !ok || reg.Completer == nil {
		return nil
	}
	return reg.Completer(s, partial)
}

// Keys returns the registered type keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
