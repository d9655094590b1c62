// Package markdown implements a line oriented Markdown language. Fenced
// code blocks are single tokens embedding the language named by their info
// string.
package markdown

import (
	"github.com/yaklabco/relex/pkg/language"
)

// Name is the registry name of the language.
const Name = "markdown"

// minFence is the shortest fence opening a code block.
const minFence = 3

// Token kinds.
//
//nolint:gochecknoglobals // Token kinds are fixed values shared by lexer and callers.
var (
	Heading    = language.TokenID{Ordinal: 0, Name: "HEADING"}
	Text       = language.TokenID{Ordinal: 1, Name: "TEXT"}
	Blank      = language.TokenID{Ordinal: 2, Name: "BLANK"}
	FencedCode = language.TokenID{Ordinal: 3, Name: "FENCED_CODE"}
)

// Language is the Markdown language. Info strings of fenced code blocks are
// resolved against a registry.
type Language struct {
	registry *language.Registry
}

// New creates the Markdown language resolving fence languages in registry.
func New(registry *language.Registry) *Language {
	return &Language{registry: registry}
}

// Name implements language.Language.
func (*Language) Name() string { return Name }

// NewLexer implements language.Language.
func (*Language) NewLexer(in language.Input, _ language.State) language.Lexer {
	return &lexer{in: in}
}

// Embedding implements language.Language.
func (l *Language) Embedding(id language.TokenID, text string, _ language.Path) *language.Embedding {
	if id != FencedCode {
		return nil
	}
	fence, ok := inspectFence([]byte(text))
	if !ok {
		return nil
	}
	lang := l.resolve(fence.info)
	if lang == nil {
		return nil
	}
	return &language.Embedding{Language: lang, StartSkip: fence.contentStart, EndSkip: len(text) - fence.contentEnd}
}

type lexer struct {
	in language.Input
}

func (*lexer) State() language.State { return language.InitialState }

func (lx *lexer) NextToken() (language.Lexeme, bool) {
	c := lx.in.Read()
	switch c {
	case language.EOF:
		lx.in.Backup(1)
		return language.Lexeme{}, false
	case '\n':
		return language.Lexeme{ID: Blank}, true
	case '#':
		lx.restOfLine()
		return language.Lexeme{ID: Heading}, true
	case '`', '~':
		n, next := lx.run(c)
		if n+1 >= minFence {
			if next != '\n' {
				lx.restOfLine()
			}
			if next != language.EOF {
				lx.fencedBody(c, n+1)
			}
			return language.Lexeme{ID: FencedCode}, true
		}
		if next != '\n' && next != language.EOF {
			lx.restOfLine()
		}
		return language.Lexeme{ID: Text}, true
	default:
		lx.restOfLine()
		return language.Lexeme{ID: Text}, true
	}
}

// run consumes further fence characters and returns how many there were
// together with the first other character, which is consumed too unless it
// is EOF.
func (lx *lexer) run(fence int) (int, int) {
	n := 0
	for {
		c := lx.in.Read()
		if c == fence {
			n++
			continue
		}
		if c == language.EOF {
			lx.in.Backup(1)
		}
		return n, c
	}
}

// restOfLine consumes through the next line break or to the end of input.
func (lx *lexer) restOfLine() {
	for {
		switch lx.in.Read() {
		case '\n':
			return
		case language.EOF:
			lx.in.Backup(1)
			return
		}
	}
}

// fencedBody consumes lines up to and including the closing fence.
func (lx *lexer) fencedBody(fence, length int) {
	for {
		c := lx.in.Read()
		if c == language.EOF {
			lx.in.Backup(1)
			return
		}
		if c != fence {
			if c != '\n' {
				lx.restOfLine()
			}
			continue
		}
		n, next := lx.run(fence)
		if next != '\n' && next != language.EOF {
			lx.restOfLine()
		}
		if n+1 >= length {
			return
		}
		if next == language.EOF {
			return
		}
	}
}
