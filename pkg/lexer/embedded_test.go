package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/langs/tmpl"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
)

func codePath() language.Path {
	return language.Root(tmpl.New()).Embedded(calc.New())
}

func TestEmbedded_DefaultList(t *testing.T) {
	t.Parallel()

	h := lexer.Lex("a<%x + 1%>b", tmpl.New())
	root := h.Root()
	require.Equal(t, []string{"a", "<%x + 1%>", "b"}, texts(t, root))

	none, err := root.Embedded(0)
	require.NoError(t, err)
	assert.Nil(t, none)

	etl, err := root.Embedded(1)
	require.NoError(t, err)
	require.NotNil(t, etl)
	assert.Equal(t, "tmpl/calc", etl.Path().Key())
	assert.Equal(t, []string{"x", " ", "+", " ", "1"}, texts(t, etl))
	assert.Equal(t, 3, etl.Offset(0))
	assert.Equal(t, 0, etl.LocalOffset(0))
	assert.Equal(t, 3, etl.Start())
	assert.Equal(t, 8, etl.End())
	assert.Equal(t, 1, etl.HostIndex())
	assert.Same(t, root, etl.Parent())

	again, err := root.Embedded(1)
	require.NoError(t, err)
	assert.Same(t, etl, again)
	assert.Equal(t, []*lexer.EmbeddedList{etl}, root.Embeddings(1))

	_, err = root.Embedded(7)
	require.ErrorIs(t, err, lexer.ErrOutOfRange)
	require.NoError(t, h.Validate())
}

func TestEmbedded_NestedLevels(t *testing.T) {
	t.Parallel()

	h := lexer.Lex(`<%"hi there"%>`, tmpl.New())
	code, err := h.Root().Embedded(0)
	require.NoError(t, err)
	require.Equal(t, 1, code.Len())
	assert.Equal(t, calc.String, code.Token(0).ID())

	str, err := code.Embedded(0)
	require.NoError(t, err)
	require.NotNil(t, str)
	assert.Equal(t, "tmpl/calc/plain", str.Path().Key())
	assert.Equal(t, []string{"hi", " ", "there"}, texts(t, str))
	assert.Equal(t, 3, str.Offset(0))
	assert.Equal(t, 3, str.Path().Depth())
	require.NoError(t, h.Validate())
}

func TestEmbedded_RemovedWithHost(t *testing.T) {
	t.Parallel()

	e := newEditor(t, "a<%x%>b", tmpl.New(), lexer.Options{})
	etl, err := e.h.Root().Embedded(1)
	require.NoError(t, err)

	ev := e.replace(1, 3, "")
	assert.Equal(t, []string{"ax%>b"}, texts(t, e.h.Root()))

	changes := embeddedChanges(ev)
	require.Len(t, changes, 1)
	ch := changes[0]
	assert.Equal(t, lexer.ChangeEmbeddingRemoved, ch.Kind)
	assert.Equal(t, "tmpl/calc", ch.Path.Key())
	assert.Same(t, etl, ch.List)
	require.Equal(t, 1, ch.Removed.Len())
	assert.Equal(t, calc.Ident, ch.Removed.Token(0).ID())

	_, err = ch.Removed.Text(0)
	require.ErrorIs(t, err, lexer.ErrUnsupported)
	_, err = ch.Removed.Embedded(0)
	require.ErrorIs(t, err, lexer.ErrUnsupported)

	assert.True(t, etl.Removed())
	assert.Equal(t, 1, etl.Len(), "removed lists keep their tokens")
	assert.Equal(t, 0, etl.Offset(0))
	_, err = etl.Text(0)
	require.ErrorIs(t, err, lexer.ErrUnsupported)
	_, err = etl.Embedded(0)
	require.ErrorIs(t, err, lexer.ErrUnsupported)
	e.requireBatchEqual()
}

func TestEmbedded_BoundsChangeKeepsList(t *testing.T) {
	t.Parallel()

	e := newEditor(t, "a<%x%>b", tmpl.New(), lexer.Options{})
	etl, err := e.h.Root().Embedded(1)
	require.NoError(t, err)

	ev := e.replace(4, 4, "y")
	assert.True(t, ev.Root.BoundsChange)

	changes := embeddedChanges(ev)
	require.Len(t, changes, 1)
	ch := changes[0]
	assert.Equal(t, lexer.ChangeTokens, ch.Kind)
	assert.Same(t, etl, ch.List)
	assert.Equal(t, 3, ch.Offset)
	assert.True(t, ch.BoundsChange)

	assert.False(t, etl.Removed())
	assert.Same(t, etl, e.h.Root().Embeddings(1)[0])
	assert.Equal(t, []string{"xy"}, texts(t, etl))
	e.requireBatchEqual()
}

func TestEmbedded_SkipChangeReplacesList(t *testing.T) {
	t.Parallel()

	// Closing an open section changes the end skip, so the list is replaced.
	e := newEditor(t, "a<%x", tmpl.New(), lexer.Options{})
	etl, err := e.h.Root().Embedded(1)
	require.NoError(t, err)
	assert.Equal(t, 0, etl.Embedding().EndSkip)

	ev := e.replace(4, 4, "%>")
	assert.True(t, ev.Root.BoundsChange)
	assert.True(t, etl.Removed())

	kinds := make([]lexer.ChangeKind, 0, 1)
	for _, ch := range embeddedChanges(ev) {
		kinds = append(kinds, ch.Kind)
	}
	assert.Equal(t, []lexer.ChangeKind{lexer.ChangeEmbeddingRemoved}, kinds)

	fresh, err := e.h.Root().Embedded(1)
	require.NoError(t, err)
	assert.NotSame(t, etl, fresh)
	assert.Equal(t, 2, fresh.Embedding().EndSkip)
	e.requireBatchEqual()
}

func TestEmbedded_ListsOfPathAreMaintained(t *testing.T) {
	t.Parallel()

	e := newEditor(t, "ab", tmpl.New(), lexer.Options{})
	lists, err := e.h.EmbeddedLists(codePath())
	require.NoError(t, err)
	assert.Empty(t, lists)

	ev := e.replace(1, 1, "<%y%>")
	changes := embeddedChanges(ev)
	require.Len(t, changes, 1)
	ch := changes[0]
	assert.Equal(t, lexer.ChangeEmbeddingAdded, ch.Kind)
	assert.Equal(t, 3, ch.Offset)
	assert.Equal(t, 1, ch.AddedLength)
	require.Len(t, ch.Added, 1)
	assert.Equal(t, calc.Ident, ch.Added[0].ID())

	lists, err = e.h.EmbeddedLists(codePath())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.False(t, lists[0].Joined())
	assert.Same(t, lists[0], ch.List)

	e.replace(0, 0, "<%z%>")
	lists, err = e.h.EmbeddedLists(codePath())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, []string{"z"}, texts(t, lists[0]))
	assert.Equal(t, []string{"y"}, texts(t, lists[1]))
	e.requireBatchEqual()
}

func TestEmbedded_ListsOfTopLevelPath(t *testing.T) {
	t.Parallel()

	h := lexer.Lex("a", plain.New())
	_, err := h.EmbeddedLists(h.Root().Path())
	require.ErrorIs(t, err, lexer.ErrUnsupported)
	_, err = h.JoinedList(h.Root().Path())
	require.ErrorIs(t, err, lexer.ErrUnsupported)
}

func TestEmbedded_DumpAndString(t *testing.T) {
	t.Parallel()

	h := lexer.Lex("<%x%>", tmpl.New())
	etl, err := h.Root().Embedded(0)
	require.NoError(t, err)

	assert.Equal(t, "tmpl/calc@2(1 tokens)", etl.String())
	dump := lexer.Dump(etl)
	assert.Contains(t, dump, "tmpl/calc (1 tokens)")
	assert.Contains(t, dump, `IDENT[1] la=1 st=0 "x"`)
}
