// Package config defines core configuration types for relex.
// These types are pure data structures with no dependency on how they are loaded.
package config

import (
	"path/filepath"
	"slices"
)

// OutputFormat specifies how token trees and change events are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// StressConfig configures the randomized differential tester.
type StressConfig struct {
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`

	// Iterations is the number of random documents to edit.
	Iterations int `mapstructure:"iterations" yaml:"iterations"`

	// Steps is the number of edits applied to each document.
	Steps int `mapstructure:"steps" yaml:"steps"`

	// MaxEditLength bounds the characters removed or inserted by one edit.
	MaxEditLength int `mapstructure:"max_edit_length" yaml:"max_edit_length"`

	// MaxDocumentLength bounds the length of generated documents.
	MaxDocumentLength int `mapstructure:"max_document_length" yaml:"max_document_length"`

	// Alphabet holds the characters random text is drawn from.
	Alphabet string `mapstructure:"alphabet" yaml:"alphabet"`

	// Language is the root language of generated documents.
	Language string `mapstructure:"language" yaml:"language"`
}

// Config is the root configuration structure for relex.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Lazy lexes the top level list only as far as it is read.
	Lazy bool `mapstructure:"lazy" yaml:"lazy"`

	// CheckInvariants validates the hierarchy after every update.
	CheckInvariants bool `mapstructure:"check_invariants" yaml:"check_invariants"`

	// DumpTokens logs a dump of every changed list at debug level.
	DumpTokens bool `mapstructure:"dump_tokens" yaml:"dump_tokens"`

	// Languages maps file name globs to language names. They take
	// precedence over detection.
	Languages map[string]string `mapstructure:"languages" yaml:"languages"`

	// Stress configures the stress command.
	Stress StressConfig `mapstructure:"stress" yaml:"stress"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Color controls colored text output.
	Color ColorMode `mapstructure:"-" yaml:"-"`
}

// DefaultAlphabet is the character set the stress tester draws from. It
// covers every token kind of the built-in languages.
const DefaultAlphabet = "ab1 .\n\"/*<%>=!#`"

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:        "info",
		CheckInvariants: false,
		Languages:       make(map[string]string),
		Stress: StressConfig{
			Iterations:        200,
			Steps:             20,
			MaxEditLength:     6,
			MaxDocumentLength: 80,
			Alphabet:          DefaultAlphabet,
			Language:          "tmpl",
		},
		Format: FormatText,
		Color:  ColorAuto,
	}
}

// LanguageFor returns the language configured for the file at path. Globs
// are matched against the base name and then against the whole path, in
// sorted order so the result does not depend on map iteration.
func (c *Config) LanguageFor(path string) (string, bool) {
	if c == nil || len(c.Languages) == 0 {
		return "", false
	}
	globs := make([]string, 0, len(c.Languages))
	for glob := range c.Languages {
		globs = append(globs, glob)
	}
	slices.Sort(globs)

	base := filepath.Base(path)
	for _, glob := range globs {
		if ok, _ := filepath.Match(glob, base); ok {
			return c.Languages[glob], true
		}
	}
	slashed := filepath.ToSlash(path)
	for _, glob := range globs {
		if ok, _ := filepath.Match(glob, slashed); ok {
			return c.Languages[glob], true
		}
	}
	return "", false
}
