package markdown

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/relex/pkg/language"
)

// fence describes the fenced code block a token holds.
type fence struct {
	info         string
	contentStart int
	contentEnd   int
}

// inspectFence parses a fenced code block token and locates its content.
// Blocks CommonMark does not accept as fenced code report false.
func inspectFence(src []byte) (fence, bool) {
	doc := newGoldmarkInstance().Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var block *ast.FencedCodeBlock
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			block = fcb
			break
		}
	}
	if block == nil {
		return fence{}, false
	}

	f := fence{info: string(block.Language(src))}
	lines := block.Lines()
	if lines.Len() == 0 {
		f.contentStart = headerEnd(src)
		f.contentEnd = f.contentStart
		return f, true
	}
	f.contentStart = lines.At(0).Start
	f.contentEnd = lines.At(lines.Len() - 1).Stop
	return f, true
}

// headerEnd returns the offset just past the opening fence line.
func headerEnd(src []byte) int {
	for i, c := range src {
		if c == '\n' {
			return i + 1
		}
	}
	return len(src)
}

// resolve maps an info string to a registered language. Names unknown to
// the registry are tried as linguist aliases, e.g. "golang" for "go".
func (l *Language) resolve(info string) language.Language {
	if info == "" || l.registry == nil {
		return nil
	}
	if lang, ok := l.registry.Lookup(info); ok {
		return lang
	}
	if name, ok := enry.GetLanguageByAlias(info); ok {
		if lang, ok := l.registry.Lookup(strings.ToLower(name)); ok {
			return lang
		}
	}
	return nil
}

// newGoldmarkInstance creates a CommonMark parser.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance() goldmark.Markdown {
	return goldmark.New()
}
