package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/relex/pkg/config"
)

// envVarPrefix is the prefix for all relex environment variables.
const envVarPrefix = "RELEX_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeUint
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LOG_LEVEL":                  {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn or error"},
	"LAZY":                       {field: "lazy", typ: envTypeBool, description: "Lex the top level list on demand: true or false"},
	"CHECK_INVARIANTS":           {field: "check_invariants", typ: envTypeBool, description: "Validate the hierarchy after every edit: true or false"},
	"DUMP_TOKENS":                {field: "dump_tokens", typ: envTypeBool, description: "Log token dumps after every edit: true or false"},
	"FORMAT":                     {field: "format", typ: envTypeString, description: "Output format: text or json"},
	"COLOR":                      {field: "color", typ: envTypeString, description: "Color mode: auto, always or never"},
	"STRESS_SEED":                {field: "stress.seed", typ: envTypeUint, description: "Stress seed (0 = random)"},
	"STRESS_ITERATIONS":          {field: "stress.iterations", typ: envTypeInt, description: "Stress documents to generate"},
	"STRESS_STEPS":               {field: "stress.steps", typ: envTypeInt, description: "Edits per stress document"},
	"STRESS_MAX_EDIT_LENGTH":     {field: "stress.max_edit_length", typ: envTypeInt, description: "Longest stress edit"},
	"STRESS_MAX_DOCUMENT_LENGTH": {field: "stress.max_document_length", typ: envTypeInt, description: "Longest generated document"},
	"STRESS_ALPHABET":            {field: "stress.alphabet", typ: envTypeString, description: "Characters stress text is drawn from"},
	"STRESS_LANGUAGE":            {field: "stress.language", typ: envTypeString, description: "Root language of stress documents"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with RELEX_ (e.g., RELEX_LOG_LEVEL).
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + envSuffix
		value := getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeUint:
		u, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer for %s: %q", envVar, value)
		}
		cfg.Stress.Seed = u
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	case "stress.alphabet":
		cfg.Stress.Alphabet = value
	case "stress.language":
		cfg.Stress.Language = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "lazy":
		cfg.Lazy = value
	case "check_invariants":
		cfg.CheckInvariants = value
	case "dump_tokens":
		cfg.DumpTokens = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "stress.iterations":
		cfg.Stress.Iterations = value
	case "stress.steps":
		cfg.Stress.Steps = value
	case "stress.max_edit_length":
		cfg.Stress.MaxEditLength = value
	case "stress.max_document_length":
		cfg.Stress.MaxDocumentLength = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.description
	}
	return out
}
