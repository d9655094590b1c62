package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a sequence of edits replayed against a document.
//
//	language: tmpl
//	text: "a<%x%>b"
//	edits:
//	  - {start: 1, end: 1, text: "c"}
//	  - {start: 2, end: 4}
type Script struct {
	// Language optionally names the top level language.
	Language string `yaml:"language,omitempty"`

	// Text optionally replaces the initial document text.
	Text *string `yaml:"text,omitempty"`

	// Edits are applied in order, each against the result of the previous one.
	Edits []TextEdit `yaml:"edits"`
}

// ParseScript parses a YAML edit script.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return &script, nil
		}
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	return &script, nil
}

// LoadScript reads a YAML edit script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edit script: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// ToYAML serializes the script.
func (s *Script) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal edit script: %w", err)
	}
	return data, nil
}
