// Package tmpl implements a template language: literal text with code
// sections between "<%" and "%>". Code sections embed calc. The joined
// variant lexes all code sections of a document as one calc stream, so an
// expression or comment may continue from one section into the next.
package tmpl

import (
	"strings"

	"github.com/yaklabco/relex/pkg/langs/calc"
	"github.com/yaklabco/relex/pkg/language"
)

// Registry names.
const (
	Name       = "tmpl"
	JoinedName = "tmpl-join"
)

const (
	openDelim  = "<%"
	closeDelim = "%>"
)

// Token kinds.
//
//nolint:gochecknoglobals // Token kinds are fixed values shared by lexer and callers.
var (
	Text = language.TokenID{Ordinal: 0, Name: "TEXT"}
	Code = language.TokenID{Ordinal: 1, Name: "CODE"}
)

// Language is the template language.
type Language struct {
	name string
	join bool
	code language.Language
}

// New creates the template language with independent code sections.
func New() *Language {
	return &Language{name: Name, code: calc.New()}
}

// NewJoined creates the template language whose code sections are joined.
func NewJoined() *Language {
	return &Language{name: JoinedName, join: true, code: calc.New()}
}

// Name implements language.Language.
func (l *Language) Name() string { return l.name }

// NewLexer implements language.Language.
func (*Language) NewLexer(in language.Input, _ language.State) language.Lexer {
	return &lexer{in: in}
}

// Embedding implements language.Language.
func (l *Language) Embedding(id language.TokenID, text string, _ language.Path) *language.Embedding {
	if id != Code || !strings.HasPrefix(text, openDelim) {
		return nil
	}
	end := 0
	if len(text) >= len(openDelim)+len(closeDelim) && strings.HasSuffix(text, closeDelim) {
		end = len(closeDelim)
	}
	return &language.Embedding{Language: l.code, StartSkip: len(openDelim), EndSkip: end, JoinSections: l.join}
}

type lexer struct {
	in language.Input
}

func (*lexer) State() language.State { return language.InitialState }

func (lx *lexer) NextToken() (language.Lexeme, bool) {
	c := lx.in.Read()
	if c == language.EOF {
		lx.in.Backup(1)
		return language.Lexeme{}, false
	}
	if c == '<' {
		if lx.in.Read() == '%' {
			lx.code()
			return language.Lexeme{ID: Code}, true
		}
		lx.in.Backup(1)
	}
	lx.text()
	return language.Lexeme{ID: Text}, true
}

// text reads up to the next "<%" or the end of input.
func (lx *lexer) text() {
	for {
		c := lx.in.Read()
		switch c {
		case language.EOF:
			lx.in.Backup(1)
			return
		case '<':
			if lx.in.Read() == '%' {
				lx.in.Backup(2)
				return
			}
			lx.in.Backup(1)
		}
	}
}

// code reads through the closing "%>", or to the end of input when the
// section is not closed.
func (lx *lexer) code() {
	for {
		switch lx.in.Read() {
		case language.EOF:
			lx.in.Backup(1)
			return
		case '%':
			if lx.in.Read() == '>' {
				return
			}
			lx.in.Backup(1)
		}
	}
}
