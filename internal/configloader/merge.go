package configloader

import (
	"maps"

	"github.com/yaklabco/relex/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, so flags can switch features on
//   - Maps: deep merge, with override's values taking precedence
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.Lazy {
		result.Lazy = true
	}
	if override.CheckInvariants {
		result.CheckInvariants = true
	}
	if override.DumpTokens {
		result.DumpTokens = true
	}

	if len(override.Languages) > 0 {
		if result.Languages == nil {
			result.Languages = make(map[string]string, len(override.Languages))
		}
		maps.Copy(result.Languages, override.Languages)
	}

	result.Stress = mergeStress(result.Stress, override.Stress)

	return result
}

// mergeStress merges stress settings field by field.
func mergeStress(base, override config.StressConfig) config.StressConfig {
	result := base
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.Iterations != 0 {
		result.Iterations = override.Iterations
	}
	if override.Steps != 0 {
		result.Steps = override.Steps
	}
	if override.MaxEditLength != 0 {
		result.MaxEditLength = override.MaxEditLength
	}
	if override.MaxDocumentLength != 0 {
		result.MaxDocumentLength = override.MaxDocumentLength
	}
	if override.Alphabet != "" {
		result.Alphabet = override.Alphabet
	}
	if override.Language != "" {
		result.Language = override.Language
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
