// Package calc implements a small expression language: identifiers,
// numbers, strings, operators and comments. Block comments are split into
// one token per line so an edit inside a long comment relexes one line.
package calc

import (
	"github.com/yaklabco/relex/pkg/langs/plain"
	"github.com/yaklabco/relex/pkg/language"
)

// Name is the registry name of the language.
const Name = "calc"

// Lexer states.
const (
	stateNormal       language.State = 0
	stateBlockComment language.State = 1
)

// Token kinds.
//
//nolint:gochecknoglobals // Token kinds are fixed values shared by lexer and callers.
var (
	Whitespace   = language.TokenID{Ordinal: 0, Name: "WHITESPACE"}
	Ident        = language.TokenID{Ordinal: 1, Name: "IDENT"}
	Keyword      = language.TokenID{Ordinal: 2, Name: "KEYWORD"}
	Number       = language.TokenID{Ordinal: 3, Name: "NUMBER"}
	String       = language.TokenID{Ordinal: 4, Name: "STRING"}
	Operator     = language.TokenID{Ordinal: 5, Name: "OPERATOR"}
	LineComment  = language.TokenID{Ordinal: 6, Name: "LINE_COMMENT"}
	BlockComment = language.TokenID{Ordinal: 7, Name: "BLOCK_COMMENT"}
	Error        = language.TokenID{Ordinal: 8, Name: "ERROR"}
)

//nolint:gochecknoglobals // Read-only keyword set.
var keywords = map[string]bool{
	"let": true, "if": true, "then": true, "else": true, "fn": true,
}

// Language is the calc language. Double quoted strings embed plain text.
type Language struct {
	strings language.Language
}

// New creates the calc language.
func New() *Language {
	return &Language{strings: plain.New()}
}

// Name implements language.Language.
func (*Language) Name() string { return Name }

// NewLexer implements language.Language.
func (*Language) NewLexer(in language.Input, state language.State) language.Lexer {
	return &lexer{in: in, state: state}
}

// Embedding implements language.Language.
func (l *Language) Embedding(id language.TokenID, text string, _ language.Path) *language.Embedding {
	if id != String || len(text) < 2 {
		return nil
	}
	end := 0
	if terminated(text) {
		end = 1
	}
	return &language.Embedding{Language: l.strings, StartSkip: 1, EndSkip: end}
}

func terminated(s string) bool {
	if len(s) < 2 || s[len(s)-1] != '"' {
		return false
	}
	escapes := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		escapes++
	}
	return escapes%2 == 0
}

type lexer struct {
	in    language.Input
	state language.State
}

func (lx *lexer) State() language.State { return lx.state }

func (lx *lexer) NextToken() (language.Lexeme, bool) {
	c := lx.in.Read()
	if c == language.EOF {
		lx.in.Backup(1)
		return language.Lexeme{}, false
	}
	if lx.state == stateBlockComment {
		return lx.blockComment(c), true
	}

	switch {
	case isSpace(c):
		lx.skip(isSpace)
		return language.Lexeme{ID: Whitespace}, true
	case isLetter(c):
		lx.skip(isIdentPart)
		if keywords[lx.in.ReadText()] {
			return language.Lexeme{ID: Keyword, Flyweight: true}, true
		}
		return language.Lexeme{ID: Ident}, true
	case isDigit(c):
		return lx.number(), true
	case c == '"':
		return lx.str(), true
	case c == '/':
		switch lx.in.Read() {
		case '/':
			lx.skip(func(c int) bool { return c != '\n' })
			return language.Lexeme{ID: LineComment}, true
		case '*':
			lx.state = stateBlockComment
			return lx.blockComment(lx.in.Read()), true
		default:
			lx.in.Backup(1)
			return language.Lexeme{ID: Operator, Flyweight: true}, true
		}
	case c == '=' || c == '!' || c == '<' || c == '>':
		if lx.in.Read() != '=' {
			lx.in.Backup(1)
			if c == '!' {
				return language.Lexeme{ID: Error}, true
			}
		}
		return language.Lexeme{ID: Operator, Flyweight: true}, true
	case isOperator(c):
		return language.Lexeme{ID: Operator, Flyweight: true}, true
	default:
		return language.Lexeme{ID: Error}, true
	}
}

// skip consumes characters while ok holds.
func (lx *lexer) skip(ok func(int) bool) {
	for {
		c := lx.in.Read()
		if c == language.EOF || !ok(c) {
			lx.in.Backup(1)
			return
		}
	}
}

// number reads digits with an optional fraction. A dot not followed by a
// digit is left for the next token.
func (lx *lexer) number() language.Lexeme {
	lx.skip(isDigit)
	if lx.in.Read() != '.' {
		lx.in.Backup(1)
		return language.Lexeme{ID: Number}
	}
	if c := lx.in.Read(); c == language.EOF || !isDigit(c) {
		lx.in.Backup(2)
		return language.Lexeme{ID: Number}
	}
	lx.skip(isDigit)
	return language.Lexeme{ID: Number}
}

// str reads a double quoted string. An unterminated string ends before the
// line break.
func (lx *lexer) str() language.Lexeme {
	for {
		switch lx.in.Read() {
		case '"':
			return language.Lexeme{ID: String}
		case '\\':
			if c := lx.in.Read(); c == language.EOF || c == '\n' {
				lx.in.Backup(1)
				return language.Lexeme{ID: String}
			}
		case '\n', language.EOF:
			lx.in.Backup(1)
			return language.Lexeme{ID: String}
		}
	}
}

// blockComment continues a block comment starting with c. The token ends
// after "*/", after a line break or at the end of input.
func (lx *lexer) blockComment(c int) language.Lexeme {
	for {
		switch c {
		case language.EOF:
			lx.in.Backup(1)
			return language.Lexeme{ID: BlockComment}
		case '\n':
			return language.Lexeme{ID: BlockComment}
		case '*':
			if lx.in.Read() == '/' {
				lx.state = stateNormal
				return language.Lexeme{ID: BlockComment}
			}
			lx.in.Backup(1)
		}
		c = lx.in.Read()
	}
}

func isSpace(c int) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isLetter(c int) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c int) bool { return c >= '0' && c <= '9' }

func isIdentPart(c int) bool { return isLetter(c) || isDigit(c) }

func isOperator(c int) bool {
	switch c {
	case '+', '-', '*', '%', '(', ')', ',', ';':
		return true
	}
	return false
}
