package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/lexer"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edit    document.TextEdit
		want    string
		wantMod lexer.Modification
	}{
		{
			name:    "insertion",
			content: "hello world",
			edit:    document.TextEdit{StartOffset: 5, EndOffset: 5, NewText: " big"},
			want:    "hello big world",
			wantMod: lexer.Modification{Offset: 5, InsertedLength: 4},
		},
		{
			name:    "deletion",
			content: "hello world",
			edit:    document.TextEdit{StartOffset: 5, EndOffset: 11},
			want:    "hello",
			wantMod: lexer.Modification{Offset: 5, RemovedLength: 6, RemovedText: " world"},
		},
		{
			name:    "replacement",
			content: "hello world",
			edit:    document.TextEdit{StartOffset: 0, EndOffset: 5, NewText: "hi"},
			want:    "hi world",
			wantMod: lexer.Modification{Offset: 0, RemovedLength: 5, InsertedLength: 2, RemovedText: "hello"},
		},
		{
			name:    "empty edit",
			content: "abc",
			edit:    document.TextEdit{StartOffset: 1, EndOffset: 1},
			want:    "abc",
			wantMod: lexer.Modification{Offset: 1},
		},
		{
			name:    "insert into empty document",
			content: "",
			edit:    document.TextEdit{NewText: "x"},
			want:    "x",
			wantMod: lexer.Modification{InsertedLength: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := document.New(tt.content)
			mod, err := doc.Apply(tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.String())
			assert.Equal(t, tt.wantMod, mod)
			assert.Equal(t, len(tt.want), doc.Len())
		})
	}
}

func TestApplyRejectsInvalidEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit document.TextEdit
	}{
		{name: "negative start", edit: document.TextEdit{StartOffset: -1, EndOffset: 0}},
		{name: "end before start", edit: document.TextEdit{StartOffset: 2, EndOffset: 1}},
		{name: "end past content", edit: document.TextEdit{StartOffset: 0, EndOffset: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := document.New("abc")
			_, err := doc.Apply(tt.edit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, document.ErrInvalidEdit))

			var verr *document.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.edit, verr.Edit)
			assert.Equal(t, "abc", doc.String(), "document must be unchanged")
		})
	}
}

func TestDocumentDrivesHierarchy(t *testing.T) {
	t.Parallel()

	doc := document.New("ab")
	h := lexer.New(doc, plain.New(), lexer.Options{CheckInvariants: true})

	ev, err := h.Edit(func() (lexer.Modification, error) {
		return doc.Insert(1, " ")
	})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "a b", doc.String())
	assert.Equal(t, 3, h.Root().Len())
}

func TestLineAt(t *testing.T) {
	t.Parallel()

	doc := document.New("ab\ncd\r\n\nx")
	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 2, wantLine: 1, wantCol: 3},
		{offset: 3, wantLine: 2, wantCol: 1},
		{offset: 7, wantLine: 3, wantCol: 1},
		{offset: 8, wantLine: 4, wantCol: 1},
		{offset: 9, wantLine: 4, wantCol: 2},
		{offset: 10, wantLine: 0, wantCol: 0},
		{offset: -1, wantLine: 0, wantCol: 0},
	}
	for _, tt := range tests {
		line, col := doc.LineAt(tt.offset)
		assert.Equal(t, tt.wantLine, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "column of offset %d", tt.offset)
	}

	lines := doc.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, 5, lines[1].NewlineStart, "CRLF terminator starts at the CR")

	off, ok := doc.Offset(2, 2)
	assert.True(t, ok)
	assert.Equal(t, 4, off)
	_, ok = doc.Offset(5, 1)
	assert.False(t, ok)
}

func TestLinesFollowEdits(t *testing.T) {
	t.Parallel()

	doc := document.New("a\nb")
	require.Len(t, doc.Lines(), 2)
	_, err := doc.Insert(1, "\n")
	require.NoError(t, err)
	assert.Len(t, doc.Lines(), 3)
}
