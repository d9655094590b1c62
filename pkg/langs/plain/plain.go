// Package plain implements a language of words, whitespace and punctuation.
package plain

import (
	"unicode"

	"github.com/yaklabco/relex/pkg/language"
)

// Name is the registry name of the language.
const Name = "plain"

// Token kinds.
//
//nolint:gochecknoglobals // Token kinds are fixed values shared by lexer and callers.
var (
	Word        = language.TokenID{Ordinal: 0, Name: "WORD"}
	Whitespace  = language.TokenID{Ordinal: 1, Name: "WHITESPACE"}
	Punctuation = language.TokenID{Ordinal: 2, Name: "PUNCTUATION"}
)

// Language is the plain text language.
type Language struct{}

// New creates the plain text language.
func New() *Language { return &Language{} }

// Name implements language.Language.
func (*Language) Name() string { return Name }

// NewLexer implements language.Language.
func (*Language) NewLexer(in language.Input, _ language.State) language.Lexer {
	return &lexer{in: in}
}

// Embedding implements language.Language. Plain text embeds nothing.
func (*Language) Embedding(language.TokenID, string, language.Path) *language.Embedding {
	return nil
}

type lexer struct {
	in language.Input
}

func (*lexer) State() language.State { return language.InitialState }

func (lx *lexer) NextToken() (language.Lexeme, bool) {
	c := lx.in.Read()
	switch {
	case c == language.EOF:
		lx.in.Backup(1)
		return language.Lexeme{}, false
	case isSpace(c):
		lx.skip(isSpace)
		return language.Lexeme{ID: Whitespace}, true
	case isWord(c):
		lx.skip(isWord)
		return language.Lexeme{ID: Word}, true
	default:
		return language.Lexeme{ID: Punctuation, Flyweight: true}, true
	}
}

func (lx *lexer) skip(ok func(int) bool) {
	for {
		c := lx.in.Read()
		if c == language.EOF || !ok(c) {
			lx.in.Backup(1)
			return
		}
	}
}

func isSpace(c int) bool { return c < 0x80 && unicode.IsSpace(rune(c)) }

// isWord treats every byte of a multi-byte character as a word character.
func isWord(c int) bool {
	return c >= 0x80 || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_' || c == '\''
}
