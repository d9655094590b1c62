package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
)

// editor drives a hierarchy over an editable document.
type editor struct {
	t    *testing.T
	lang language.Language
	doc  *document.Document
	h    *lexer.Hierarchy
}

func newEditor(t *testing.T, content string, lang language.Language, opts lexer.Options) *editor {
	t.Helper()
	opts.CheckInvariants = true
	doc := document.New(content)
	return &editor{t: t, lang: lang, doc: doc, h: lexer.New(doc, lang, opts)}
}

// replace swaps [start, end) for text and returns the update event.
func (e *editor) replace(start, end int, text string) *lexer.Event {
	e.t.Helper()
	ev, err := e.h.Edit(func() (lexer.Modification, error) {
		return e.doc.Apply(document.TextEdit{StartOffset: start, EndOffset: end, NewText: text})
	})
	require.NoError(e.t, err)
	require.NotNil(e.t, ev)
	return ev
}

// requireBatchEqual checks the hierarchy against a fresh lex of the text.
func (e *editor) requireBatchEqual() {
	e.t.Helper()
	want := lexer.Lex(e.doc.String(), e.lang).Flatten()
	require.Equal(e.t, want, e.h.Flatten(), "incremental tokens differ from a fresh lex of %q", e.doc.String())
	require.NoError(e.t, e.h.Validate())
}

// texts returns the text of every token of list.
func texts(t *testing.T, list lexer.TokenList) []string {
	t.Helper()
	out := make([]string, 0, list.Len())
	for i := range list.Len() {
		text, err := list.Text(i)
		require.NoError(t, err)
		out = append(out, text)
	}
	return out
}

// embeddedChanges collects every change below the root change.
func embeddedChanges(ev *lexer.Event) []*lexer.Change {
	var out []*lexer.Change
	ev.Root.Walk(func(c *lexer.Change, depth int) {
		if depth > 0 {
			out = append(out, c)
		}
	})
	return out
}

// recorder collects diagnostics messages.
type recorder struct {
	msgs []string
}

func (r *recorder) Debug(msg any, _ ...any) {
	if s, ok := msg.(string); ok {
		r.msgs = append(r.msgs, s)
	}
}
