// Package langs registers the built-in languages.
package langs

import (
	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/langs/markdown"
	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/langs/tmpl"
	"github.com/yaklabco/relex/pkg/language"
)

// RegisterAll registers all built-in languages with the given registry.
func RegisterAll(registry *language.Registry) {
	registry.Register(plain.New(), "text", "txt")
	registry.Register(calc.New(), "expr")
	registry.Register(tmpl.New(), "template")
	registry.Register(tmpl.NewJoined(), "template-join")
	registry.Register(markdown.New(registry), "md")
}

// NewRegistry returns a registry holding the built-in languages.
func NewRegistry() *language.Registry {
	registry := language.NewRegistry()
	RegisterAll(registry)
	return registry
}
