package language

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds the languages known by name.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Language
	aliases map[string]string // alias -> canonical name
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Language),
		aliases: make(map[string]string),
	}
}

// DefaultRegistry is the registry used when no other is configured.
//
//nolint:gochecknoglobals // Package-level registry mirrors the usual driver pattern.
var DefaultRegistry = NewRegistry()

// Register adds a language under its name and optional aliases.
// Names and aliases are case-insensitive.
// If a language with the same name already exists, it is replaced.
func (r *Registry) Register(lang Language, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(lang.Name())
	r.byName[name] = lang
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Lookup retrieves a language by name or alias.
func (r *Registry) Lookup(name string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if lang, ok := r.byName[key]; ok {
		return lang, true
	}
	if canonical, ok := r.aliases[key]; ok {
		lang, ok := r.byName[canonical]
		return lang, ok
	}
	return nil, false
}

// Resolve is like Lookup but returns an error naming the known languages.
func (r *Registry) Resolve(name string) (Language, error) {
	if lang, ok := r.Lookup(name); ok {
		return lang, nil
	}
	return nil, fmt.Errorf("unknown language %q (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names returns the canonical language names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
