package calc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/lexer"
)

// describe renders the top level tokens as "ID:text" with the end state
// appended when it is not the initial one.
func describe(t *testing.T, src string) []string {
	t.Helper()
	h := lexer.Lex(src, calc.New())
	require.NoError(t, h.Validate())
	root := h.Root()
	out := make([]string, 0, root.Len())
	for i := range root.Len() {
		text, err := root.Text(i)
		require.NoError(t, err)
		s := fmt.Sprintf("%s:%s", root.Token(i).ID(), text)
		if st := root.LAState(i).State; st != 0 {
			s += fmt.Sprintf("@%d", st)
		}
		out = append(out, s)
	}
	return out
}

func TestLexer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "empty",
			src:  "",
			want: []string{},
		},
		{
			name: "assignment",
			src:  "let x = 42",
			want: []string{"KEYWORD:let", "WHITESPACE: ", "IDENT:x", "WHITESPACE: ", "OPERATOR:=", "WHITESPACE: ", "NUMBER:42"},
		},
		{
			name: "two character operators",
			src:  "a==b!=c<=d",
			want: []string{"IDENT:a", "OPERATOR:==", "IDENT:b", "OPERATOR:!=", "IDENT:c", "OPERATOR:<=", "IDENT:d"},
		},
		{
			name: "fraction",
			src:  "3.14",
			want: []string{"NUMBER:3.14"},
		},
		{
			name: "dot without digit is not part of number",
			src:  "1.x",
			want: []string{"NUMBER:1", "ERROR:.", "IDENT:x"},
		},
		{
			name: "string with escape",
			src:  `"a\"b" c`,
			want: []string{`STRING:"a\"b"`, "WHITESPACE: ", "IDENT:c"},
		},
		{
			name: "unterminated string stops at line break",
			src:  "\"ab\nc",
			want: []string{`STRING:"ab`, "WHITESPACE:\n", "IDENT:c"},
		},
		{
			name: "line comment",
			src:  "x // note\ny",
			want: []string{"IDENT:x", "WHITESPACE: ", "LINE_COMMENT:// note", "WHITESPACE:\n", "IDENT:y"},
		},
		{
			name: "block comment split per line",
			src:  "/* a\nb */x",
			want: []string{"BLOCK_COMMENT:/* a\n@1", "BLOCK_COMMENT:b */", "IDENT:x"},
		},
		{
			name: "unterminated block comment",
			src:  "/* a",
			want: []string{"BLOCK_COMMENT:/* a@1"},
		},
		{
			name: "division",
			src:  "a/b",
			want: []string{"IDENT:a", "OPERATOR:/", "IDENT:b"},
		},
		{
			name: "lone bang",
			src:  "!a",
			want: []string{"ERROR:!", "IDENT:a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describe(t, tt.src))
		})
	}
}

func TestLookahead(t *testing.T) {
	t.Parallel()

	h := lexer.Lex("1.x", calc.New())
	root := h.Root()
	require.Equal(t, 3, root.Len())

	// "1." needs two characters past the number to reject the fraction.
	assert.Equal(t, 2, root.LAState(0).Lookahead)
	// The identifier at the end read EOF.
	assert.Equal(t, 1, root.LAState(2).Lookahead)
}

func TestFlyweights(t *testing.T) {
	t.Parallel()

	h := lexer.Lex("a + b + c", calc.New())
	root := h.Root()
	require.Equal(t, 9, root.Len())

	plus := root.Token(2)
	assert.True(t, plus.Flyweight())
	assert.Same(t, plus, root.Token(6))
	assert.False(t, root.Token(0).Flyweight())
}

func TestStringEmbedding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantNil bool
		start   int
		end     int
	}{
		{name: "terminated", src: `"ab"`, start: 1, end: 1},
		{name: "unterminated", src: `"ab`, start: 1, end: 0},
		{name: "escaped quote at end", src: `"a\"`, start: 1, end: 0},
		{name: "empty string", src: `""`, start: 1, end: 1},
		{name: "lone quote", src: `"`, wantNil: true},
	}

	lang := calc.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			emb := lang.Embedding(calc.String, tt.src, lexer.Lex("", lang).Root().Path())
			if tt.wantNil {
				assert.Nil(t, emb)
				return
			}
			require.NotNil(t, emb)
			assert.Equal(t, "plain", emb.Language.Name())
			assert.Equal(t, tt.start, emb.StartSkip)
			assert.Equal(t, tt.end, emb.EndSkip)
		})
	}
}

func TestIdentHasNoEmbedding(t *testing.T) {
	t.Parallel()

	lang := calc.New()
	assert.Nil(t, lang.Embedding(calc.Ident, "abc", lexer.Lex("", lang).Root().Path()))
}
