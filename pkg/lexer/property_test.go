package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yaklabco/relex/pkg/document"
	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/langs/tmpl"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
)

var editAlphabet = []rune("ab1 .\n\"/*<%>=!")

func propertyLanguages() map[string]func() language.Language {
	return map[string]func() language.Language{
		"calc":      func() language.Language { return calc.New() },
		"plain":     func() language.Language { return plain.New() },
		"tmpl":      func() language.Language { return tmpl.New() },
		"tmpl-join": func() language.Language { return tmpl.NewJoined() },
	}
}

func textGen() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.SampledFrom(editAlphabet), 0, 24, -1)
}

// drawEdit picks a random edit of a text of length n.
func drawEdit(t *rapid.T, n int) document.TextEdit {
	start := rapid.IntRange(0, n).Draw(t, "start")
	end := rapid.IntRange(start, min(n, start+6)).Draw(t, "end")
	return document.TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     rapid.StringOfN(rapid.SampledFrom(editAlphabet), 0, 5, -1).Draw(t, "text"),
	}
}

func TestProperty_IncrementalMatchesBatch(t *testing.T) {
	t.Parallel()

	for name, newLang := range propertyLanguages() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rapid.Check(t, func(rt *rapid.T) {
				doc := document.New(textGen().Draw(rt, "content"))
				h := lexer.New(doc, newLang(), lexer.Options{})
				h.Flatten()

				steps := rapid.IntRange(1, 8).Draw(rt, "steps")
				for range steps {
					edit := drawEdit(rt, doc.Len())
					_, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) })
					require.NoError(rt, err)

					want := lexer.Lex(doc.String(), newLang()).Flatten()
					require.Equal(rt, want, h.Flatten(), "text %q after %+v", doc.String(), edit)
					require.NoError(rt, h.Validate())
				}
			})
		})
	}
}

func TestProperty_LazyRootMatchesBatch(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		doc := document.New(textGen().Draw(rt, "content"))
		h := lexer.New(doc, calc.New(), lexer.Options{Lazy: true})
		h.Root().Token(0)

		steps := rapid.IntRange(1, 6).Draw(rt, "steps")
		for range steps {
			edit := drawEdit(rt, doc.Len())
			_, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) })
			require.NoError(rt, err)
		}
		want := lexer.Lex(doc.String(), calc.New()).Flatten()
		require.Equal(rt, want, h.Flatten(), "text %q", doc.String())
	})
}

func TestProperty_SnapshotKeepsOriginal(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		content := textGen().Draw(rt, "content")
		want := lexer.Lex(content, tmpl.New()).Root()
		wantTexts := make([]string, 0, want.Len())
		wantOffsets := make([]int, 0, want.Len())
		for i := range want.Len() {
			text, err := want.Text(i)
			require.NoError(rt, err)
			wantTexts = append(wantTexts, text)
			wantOffsets = append(wantOffsets, want.Offset(i))
		}

		doc := document.New(content)
		h := lexer.New(doc, tmpl.New(), lexer.Options{})
		snap := h.Snapshot()
		defer snap.Release()

		steps := rapid.IntRange(1, 6).Draw(rt, "steps")
		for range steps {
			edit := drawEdit(rt, doc.Len())
			_, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) })
			require.NoError(rt, err)

			require.Equal(rt, len(wantTexts), snap.Len())
			for i := range snap.Len() {
				text, err := snap.Text(i)
				require.NoError(rt, err)
				require.Equal(rt, wantTexts[i], text, "token %d", i)
				require.Equal(rt, wantOffsets[i], snap.Offset(i), "token %d", i)
			}
		}
	})
}

func TestProperty_SameTextReplacementKeepsTokens(t *testing.T) {
	t.Parallel()

	for name, newLang := range propertyLanguages() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rapid.Check(t, func(rt *rapid.T) {
				doc := document.New(textGen().Draw(rt, "content"))
				h := lexer.New(doc, newLang(), lexer.Options{})
				before := h.Flatten()

				start := rapid.IntRange(0, doc.Len()).Draw(rt, "start")
				end := rapid.IntRange(start, doc.Len()).Draw(rt, "end")
				same := doc.Slice(start, end)
				_, err := h.Edit(func() (lexer.Modification, error) {
					return doc.Apply(document.TextEdit{StartOffset: start, EndOffset: end, NewText: same})
				})
				require.NoError(rt, err)
				require.Equal(rt, before, h.Flatten())
			})
		})
	}
}

func TestProperty_AddedTokensBoundedByBatch(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		doc := document.New(textGen().Draw(rt, "content"))
		h := lexer.New(doc, calc.New(), lexer.Options{})
		h.Flatten()

		edit := drawEdit(rt, doc.Len())
		ev, err := h.Edit(func() (lexer.Modification, error) { return doc.Apply(edit) })
		require.NoError(rt, err)
		require.LessOrEqual(rt, ev.Root.AddedCount(), lexer.Lex(doc.String(), calc.New()).Root().Len())
	})
}

func FuzzIncrementalEdits(f *testing.F) {
	f.Add("a + b", 1, 2, "c")
	f.Add("<%x%>y<%z%>", 3, 9, "")
	f.Add("1/*\n2*/3", 2, 3, "")
	f.Add(`"a b"`, 0, 0, `"`)

	f.Fuzz(func(t *testing.T, content string, start, end int, text string) {
		n := len(content)
		if n > 64 || len(text) > 16 {
			t.Skip()
		}
		start = clamp(start, 0, n)
		end = clamp(end, start, n)

		for name, newLang := range propertyLanguages() {
			doc := document.New(content)
			h := lexer.New(doc, newLang(), lexer.Options{})
			h.Flatten()
			_, err := h.Edit(func() (lexer.Modification, error) {
				return doc.Apply(document.TextEdit{StartOffset: start, EndOffset: end, NewText: text})
			})
			require.NoError(t, err, name)
			want := lexer.Lex(doc.String(), newLang()).Flatten()
			require.Equal(t, want, h.Flatten(), "%s: %q", name, doc.String())
		}
	})
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
