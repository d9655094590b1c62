package language

import "strings"

// Path is the chain of languages from the outermost to the innermost one.
// Paths are immutable values.
type Path struct {
	langs []Language
	key   string
}

// Root returns the path of a top level list in lang.
func Root(lang Language) Path {
	return Path{langs: []Language{lang}, key: lang.Name()}
}

// Embedded returns the path extended with an inner language.
func (p Path) Embedded(lang Language) Path {
	langs := make([]Language, len(p.langs)+1)
	copy(langs, p.langs)
	langs[len(p.langs)] = lang
	return Path{langs: langs, key: p.key + "/" + lang.Name()}
}

// Parent returns the path without its innermost language.
// The parent of a root path is the zero Path.
func (p Path) Parent() Path {
	if len(p.langs) <= 1 {
		return Path{}
	}
	langs := p.langs[:len(p.langs)-1]
	return Path{langs: langs, key: p.key[:strings.LastIndexByte(p.key, '/')]}
}

// Inner returns the innermost language, or nil for the zero Path.
func (p Path) Inner() Language {
	if len(p.langs) == 0 {
		return nil
	}
	return p.langs[len(p.langs)-1]
}

// Outer returns the outermost language, or nil for the zero Path.
func (p Path) Outer() Language {
	if len(p.langs) == 0 {
		return nil
	}
	return p.langs[0]
}

// Depth is 1 for a root path and grows by one per embedding.
func (p Path) Depth() int {
	return len(p.langs)
}

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool {
	return len(p.langs) == 0
}

// Key returns a string uniquely identifying the path, e.g. "tmpl/calc".
func (p Path) Key() string {
	return p.key
}

// String implements fmt.Stringer.
func (p Path) String() string {
	return p.key
}

// Languages returns a copy of the languages in the path.
func (p Path) Languages() []Language {
	out := make([]Language, len(p.langs))
	copy(out, p.langs)
	return out
}
