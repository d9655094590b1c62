package document

import (
	"sort"

	"github.com/yaklabco/relex/pkg/gaplist"
	"github.com/yaklabco/relex/pkg/lexer"
)

// Document is an editable text. It implements lexer.Text, so a hierarchy can
// read it directly; every Apply returns the modification to hand to
// Hierarchy.Update.
type Document struct {
	buf   *gaplist.GapList[byte]
	lines []LineInfo // nil when stale
}

// New creates a document holding content.
func New(content string) *Document {
	d := &Document{buf: gaplist.New[byte](len(content) + 64)}
	d.buf.Append([]byte(content)...)
	return d
}

// Len implements lexer.Text.
func (d *Document) Len() int { return d.buf.Len() }

// ByteAt implements lexer.Text.
func (d *Document) ByteAt(offset int) byte { return d.buf.Get(offset) }

// Slice implements lexer.Text.
func (d *Document) Slice(start, end int) string { return string(d.buf.Slice(start, end)) }

// String returns the whole text.
func (d *Document) String() string { return d.Slice(0, d.Len()) }

// Apply performs edit and describes it as a modification.
func (d *Document) Apply(edit TextEdit) (lexer.Modification, error) {
	if err := ValidateEdit(edit, d.Len()); err != nil {
		return lexer.Modification{}, err
	}
	removed := d.Slice(edit.StartOffset, edit.EndOffset)
	d.buf.Remove(edit.StartOffset, len(removed))
	d.buf.Insert(edit.StartOffset, []byte(edit.NewText)...)
	d.lines = nil
	return lexer.Modification{
		Offset:         edit.StartOffset,
		RemovedLength:  len(removed),
		InsertedLength: len(edit.NewText),
		RemovedText:    removed,
	}, nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) (lexer.Modification, error) {
	return d.Apply(TextEdit{StartOffset: offset, EndOffset: offset, NewText: text})
}

// Delete removes [start, end).
func (d *Document) Delete(start, end int) (lexer.Modification, error) {
	return d.Apply(TextEdit{StartOffset: start, EndOffset: end})
}

// LineInfo describes the byte range of one line.
type LineInfo struct {
	// StartOffset is the offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator, or EndOffset when
	// the line has none.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// Lines returns the line table, building it on first use after an edit.
func (d *Document) Lines() []LineInfo {
	if d.lines == nil {
		d.lines = BuildLines([]byte(d.String()))
	}
	return d.lines
}

// BuildLines constructs line metadata from content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	lines := []LineInfo{}
	lineStart := 0

	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}
			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// The last line may not have a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})
	return lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) if the offset is out of range.
func (d *Document) LineAt(offset int) (int, int) {
	if offset < 0 || offset > d.Len() {
		return 0, 0
	}
	lines := d.Lines()
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].EndOffset > offset
	})
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	return idx + 1, offset - lines[idx].StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (d *Document) Offset(line, col int) (int, bool) {
	lines := d.Lines()
	if line < 1 || line > len(lines) || col < 1 {
		return 0, false
	}
	offset := lines[line-1].StartOffset + col - 1
	if offset > lines[line-1].EndOffset {
		return 0, false
	}
	return offset, true
}
