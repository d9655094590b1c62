// Package langdetect picks the top level language of a source file.
// Configured globs win, then the file extension, then go-enry's linguist
// data, then a look at the content.
package langdetect

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/language"
)

// Source says how a language was chosen.
type Source string

// Detection sources, in the order they are tried.
const (
	SourceConfig    Source = "config"
	SourceExtension Source = "extension"
	SourceLinguist  Source = "linguist"
	SourceContent   Source = "content"
	SourceDefault   Source = "default"
)

// fallbackLanguage is used when nothing else matches.
const fallbackLanguage = "plain"

// sectionOpen marks template code sections.
var sectionOpen = []byte("<%")

// Result is the outcome of a detection.
type Result struct {
	Language language.Language
	Source   Source
}

// Detector maps file names to registered languages.
type Detector struct {
	registry *language.Registry
	cfg      *config.Config
}

// New creates a detector. cfg may be nil.
func New(registry *language.Registry, cfg *config.Config) *Detector {
	return &Detector{registry: registry, cfg: cfg}
}

// Detect picks the language for the file at path with the given content.
// It fails only when a configured glob names an unknown language.
func (d *Detector) Detect(path string, content []byte) (Result, error) {
	if name, ok := d.cfg.LanguageFor(path); ok {
		lang, err := d.registry.Resolve(name)
		if err != nil {
			return Result{}, fmt.Errorf("language for %s: %w", path, err)
		}
		return Result{Language: lang, Source: SourceConfig}, nil
	}

	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if lang, ok := d.registry.Lookup(ext); ok {
			return Result{Language: lang, Source: SourceExtension}, nil
		}
	}

	if name, safe := enry.GetLanguageByExtension(path); safe && name != "" {
		if lang, ok := d.registry.Lookup(normalize(name)); ok {
			return Result{Language: lang, Source: SourceLinguist}, nil
		}
	}

	if bytes.Contains(content, sectionOpen) {
		if lang, ok := d.registry.Lookup("tmpl"); ok {
			return Result{Language: lang, Source: SourceContent}, nil
		}
	}

	lang, err := d.registry.Resolve(fallbackLanguage)
	if err != nil {
		return Result{}, err
	}
	return Result{Language: lang, Source: SourceDefault}, nil
}

// normalize converts go-enry language names to registry names.
func normalize(lang string) string {
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}
