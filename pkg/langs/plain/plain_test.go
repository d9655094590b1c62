package plain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/language"
	"github.com/yaklabco/relex/pkg/lexer"
)

func TestLexer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		texts []string
		ids   []language.TokenID
	}{
		{name: "empty", src: "", texts: []string{}, ids: []language.TokenID{}},
		{
			name:  "words",
			src:   "hello world",
			texts: []string{"hello", " ", "world"},
			ids:   []language.TokenID{plain.Word, plain.Whitespace, plain.Word},
		},
		{
			name:  "punctuation is one token per character",
			src:   "hi!?",
			texts: []string{"hi", "!", "?"},
			ids:   []language.TokenID{plain.Word, plain.Punctuation, plain.Punctuation},
		},
		{
			name:  "apostrophes and digits stay in words",
			src:   "don't 42x",
			texts: []string{"don't", " ", "42x"},
			ids:   []language.TokenID{plain.Word, plain.Whitespace, plain.Word},
		},
		{
			name:  "multi-byte characters",
			src:   "héllo\t\n",
			texts: []string{"héllo", "\t\n"},
			ids:   []language.TokenID{plain.Word, plain.Whitespace},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := lexer.Lex(tt.src, plain.New()).Root()
			texts := make([]string, 0, root.Len())
			ids := make([]language.TokenID, 0, root.Len())
			for i := range root.Len() {
				text, err := root.Text(i)
				require.NoError(t, err)
				texts = append(texts, text)
				ids = append(ids, root.Token(i).ID())
			}
			assert.Equal(t, tt.texts, texts)
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestPunctuationIsFlyweight(t *testing.T) {
	t.Parallel()

	root := lexer.Lex("a.b.", plain.New()).Root()
	require.Equal(t, 4, root.Len())
	assert.True(t, root.Token(1).Flyweight())
	assert.True(t, root.Token(3).Flyweight())
	assert.False(t, root.Token(0).Flyweight())

	emb, err := root.Embedded(1)
	require.NoError(t, err)
	assert.Nil(t, emb)
}
