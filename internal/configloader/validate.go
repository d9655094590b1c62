package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/relex/pkg/config"
	"github.com/yaklabco/relex/pkg/langs"
	"github.com/yaklabco/relex/pkg/language"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "stress.language").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownLogLevels lists valid log level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks a configuration against the built-in languages.
func Validate(cfg *config.Config) *ValidationResult {
	return ValidateWithRegistry(cfg, langs.NewRegistry())
}

// ValidateWithRegistry checks a configuration for errors and warnings.
// Language names must be known to registry.
func ValidateWithRegistry(cfg *config.Config, registry *language.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.errorf("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.errorf("format", cfg.Format, "invalid format %q; must be one of: text, json", cfg.Format)
	}
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.errorf("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.DumpTokens && !strings.EqualFold(cfg.LogLevel, "debug") {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "dump_tokens",
			Value:   true,
			Message: "dump_tokens has no effect unless log_level is debug",
		})
	}

	validateLanguages(cfg, registry, result)
	validateStress(cfg.Stress, registry, result)

	return result
}

// validateLanguages checks the glob to language overrides.
func validateLanguages(cfg *config.Config, registry *language.Registry, result *ValidationResult) {
	globs := make([]string, 0, len(cfg.Languages))
	for glob := range cfg.Languages {
		globs = append(globs, glob)
	}
	slices.Sort(globs)

	for _, glob := range globs {
		field := "languages." + glob
		if _, err := filepath.Match(glob, ""); err != nil {
			result.errorf(field, glob, "invalid glob pattern: %v", err)
		}
		if name := cfg.Languages[glob]; !known(registry, name) {
			result.errorf(field, name, "unknown language %q; known: %s", name, strings.Join(registry.Names(), ", "))
		}
	}
}

// validateStress checks the stress tester settings.
func validateStress(s config.StressConfig, registry *language.Registry, result *ValidationResult) {
	if s.Iterations < 0 {
		result.errorf("stress.iterations", s.Iterations, "iterations must be >= 0")
	}
	if s.Steps < 0 {
		result.errorf("stress.steps", s.Steps, "steps must be >= 0")
	}
	if s.MaxEditLength < 0 {
		result.errorf("stress.max_edit_length", s.MaxEditLength, "max_edit_length must be >= 0")
	}
	if s.MaxDocumentLength < 0 {
		result.errorf("stress.max_document_length", s.MaxDocumentLength, "max_document_length must be >= 0")
	}
	if s.Language != "" && !known(registry, s.Language) {
		result.errorf("stress.language", s.Language,
			"unknown language %q; known: %s", s.Language, strings.Join(registry.Names(), ", "))
	}
}

func known(registry *language.Registry, name string) bool {
	_, ok := registry.Lookup(name)
	return ok
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
