// Package document provides a mutable text buffer that reports every change
// as a lexer.Modification, together with edit scripts to drive it.
package document

// TextEdit represents a single text replacement in a document.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int `yaml:"start" json:"start"`

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int `yaml:"end" json:"end"`

	// NewText is the replacement text.
	NewText string `yaml:"text,omitempty" json:"text,omitempty"`
}

// EditBuilder accumulates text edits that are applied one after another.
// Each edit is expressed against the text left by the previous one.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
	return b
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) *EditBuilder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) *EditBuilder {
	return b.ReplaceRange(start, end, "")
}
