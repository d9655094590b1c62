package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string

	// Languages lists the registered language names to document.
	Languages []string
}

// GenerateTemplate creates a commented configuration file holding the
// defaults.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	defaults := NewConfig()
	if opts.Format == "json" {
		data, err := json.MarshalIndent(templateJSON(defaults), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n# Log level: debug, info, warn or error\n")
	fmt.Fprintf(&buf, "log_level: %s\n", defaults.LogLevel)
	buf.WriteString("\n# Lex the top level token list only as far as it is read\n")
	fmt.Fprintf(&buf, "lazy: %t\n", defaults.Lazy)
	buf.WriteString("\n# Validate the whole token hierarchy after every edit\n")
	fmt.Fprintf(&buf, "check_invariants: %t\n", defaults.CheckInvariants)
	buf.WriteString("\n# Log token list dumps after every edit (needs log_level: debug)\n")
	fmt.Fprintf(&buf, "dump_tokens: %t\n", defaults.DumpTokens)

	buf.WriteString("\n# Languages by file name glob. These win over detection.\n")
	if len(opts.Languages) > 0 {
		known := slices.Clone(opts.Languages)
		slices.Sort(known)
		fmt.Fprintf(&buf, "# %s\n", wrapComment("Known languages: "+strings.Join(known, ", "), commentWrapWidth))
	}
	buf.WriteString("# languages:\n#   \"*.tpl\": tmpl\n#   \"*.calc\": calc\n")

	buf.WriteString("\n# Randomized differential testing (relex stress)\n")
	buf.WriteString("stress:\n")
	buf.WriteString("  # Zero picks a random seed\n")
	fmt.Fprintf(&buf, "  seed: %d\n", defaults.Stress.Seed)
	fmt.Fprintf(&buf, "  iterations: %d\n", defaults.Stress.Iterations)
	fmt.Fprintf(&buf, "  steps: %d\n", defaults.Stress.Steps)
	fmt.Fprintf(&buf, "  max_edit_length: %d\n", defaults.Stress.MaxEditLength)
	fmt.Fprintf(&buf, "  max_document_length: %d\n", defaults.Stress.MaxDocumentLength)
	fmt.Fprintf(&buf, "  alphabet: %q\n", defaults.Stress.Alphabet)
	fmt.Fprintf(&buf, "  language: %s\n", defaults.Stress.Language)

	return buf.Bytes(), nil
}

func templateJSON(c *Config) map[string]any {
	return map[string]any{
		"log_level":        c.LogLevel,
		"lazy":             c.Lazy,
		"check_invariants": c.CheckInvariants,
		"dump_tokens":      c.DumpTokens,
		"languages":        map[string]string{},
		"stress": map[string]any{
			"seed":                c.Stress.Seed,
			"iterations":          c.Stress.Iterations,
			"steps":               c.Stress.Steps,
			"max_edit_length":     c.Stress.MaxEditLength,
			"max_document_length": c.Stress.MaxDocumentLength,
			"alphabet":            c.Stress.Alphabet,
			"language":            c.Stress.Language,
		},
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# relex configuration
# See: https://github.com/yaklabco/relex`
}
