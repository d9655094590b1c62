package lexer

import "fmt"

// Modification describes one edit of the document text. Offsets are in
// document coordinates; the text has already been changed when the
// modification is handed to the hierarchy.
type Modification struct {
	// Offset is where the edit starts.
	Offset int `json:"offset" yaml:"offset"`

	// RemovedLength is the number of characters removed at Offset.
	RemovedLength int `json:"removed_length" yaml:"removed_length"`

	// InsertedLength is the number of characters inserted at Offset.
	InsertedLength int `json:"inserted_length" yaml:"inserted_length"`

	// RemovedText holds the removed characters. It is required whenever
	// RemovedLength > 0.
	RemovedText string `json:"removed_text,omitempty" yaml:"removed_text,omitempty"`
}

func (m Modification) diff() int {
	return m.InsertedLength - m.RemovedLength
}

// removedEnd is the end of the removed region before the edit.
func (m Modification) removedEnd() int {
	return m.Offset + m.RemovedLength
}

// String implements fmt.Stringer.
func (m Modification) String() string {
	return fmt.Sprintf("@%d -%d +%d", m.Offset, m.RemovedLength, m.InsertedLength)
}

// validate checks the modification against the text length after the edit.
func (m Modification) validate(textLen int) error {
	switch {
	case m.Offset < 0 || m.RemovedLength < 0 || m.InsertedLength < 0:
		return &PreconditionError{Mod: m, Message: "negative offset or length", Err: ErrOutOfRange}
	case m.Offset+m.InsertedLength > textLen:
		return &PreconditionError{
			Mod:     m,
			Message: fmt.Sprintf("inserted region ends past text length %d", textLen),
			Err:     ErrOutOfRange,
		}
	case m.RemovedLength > 0 && m.RemovedText == "":
		return &PreconditionError{Mod: m, Message: "removed text missing", Err: ErrMissingRemovedText}
	case len(m.RemovedText) != m.RemovedLength:
		return &PreconditionError{
			Mod:     m,
			Message: fmt.Sprintf("removed text has length %d", len(m.RemovedText)),
			Err:     ErrMissingRemovedText,
		}
	}
	return nil
}

// localMod is a modification expressed in the coordinates of one list.
type localMod struct {
	offset   int
	removed  int
	inserted int
}

func (m localMod) diff() int { return m.inserted - m.removed }

func (m localMod) removedEnd() int { return m.offset + m.removed }

func (m localMod) isNoop() bool { return m.removed == 0 && m.inserted == 0 }

func (m Modification) local() localMod {
	return localMod{offset: m.Offset, removed: m.RemovedLength, inserted: m.InsertedLength}
}
