package lexer

import (
	"math"

	"github.com/yaklabco/relex/pkg/language"
)

// TokenList is the read view shared by all list variants.
type TokenList interface {
	// Path is the language path of the list.
	Path() language.Path

	// Len returns the number of tokens.
	Len() int

	// Token returns the token at index i.
	Token(i int) *Token

	// Offset returns the document offset of token i.
	Offset(i int) int

	// LAState returns the lookahead and end state of token i.
	LAState(i int) LAState

	// Text returns the characters of token i.
	Text(i int) (string, error)

	// Embedded returns the default embedded list of token i, creating it
	// on first use. It returns nil when the token hosts no embedding.
	Embedded(i int) (*EmbeddedList, error)
}

// hostList is a live list whose tokens can host embeddings.
type hostList interface {
	TokenList
	store() *tokenStore
	hierarchy() *Hierarchy
	language() language.Language
	base() int
	text() Text
}

// List is the top level token list of a document. Live lists must only be
// used by the goroutine updating the hierarchy; concurrent readers take a
// Snapshot.
type List struct {
	h    *Hierarchy
	lang language.Language
	path language.Path
	ts   *tokenStore

	// pending continues a lazy lex where the last one stopped.
	pending *inputOperation
}

func newList(h *Hierarchy, lang language.Language) *List {
	return &List{h: h, lang: lang, path: language.Root(lang), ts: newTokenStore()}
}

// Path implements TokenList.
func (l *List) Path() language.Path { return l.path }

// Len lexes the rest of the input and returns the number of tokens.
func (l *List) Len() int {
	if !l.ts.complete {
		l.h.mu.Lock()
		l.lexTo(math.MaxInt)
		l.h.mu.Unlock()
	}
	return l.ts.count()
}

// LexedLen returns the number of tokens lexed so far.
func (l *List) LexedLen() int { return l.ts.count() }

// Complete reports whether the list was lexed to the end of input.
func (l *List) Complete() bool { return l.ts.complete }

// Token implements TokenList.
func (l *List) Token(i int) *Token {
	l.ensure(i)
	return l.ts.at(i).tok
}

// Offset implements TokenList.
func (l *List) Offset(i int) int {
	l.ensure(i)
	return l.ts.offset(i)
}

// LAState implements TokenList.
func (l *List) LAState(i int) LAState {
	l.ensure(i)
	return l.ts.laState(i)
}

// Text implements TokenList.
func (l *List) Text(i int) (_ string, err error) {
	if i >= l.ts.count() && !l.ts.complete {
		l.h.mu.Lock()
		defer l.h.mu.Unlock()
		defer l.h.recoverConsistency(&err, "lex for text")
		l.lexTo(i)
	}
	if i < 0 || i >= l.ts.count() {
		return "", ErrOutOfRange
	}
	return tokenText(l, i), nil
}

// IndexAt returns the index of the token containing offset, or Len() when
// offset is at the end of the input.
func (l *List) IndexAt(offset int) int {
	for !l.ts.complete && l.ts.end() <= offset {
		l.ensure(l.ts.count())
	}
	return l.ts.indexAt(offset)
}

// Embedded implements TokenList.
func (l *List) Embedded(i int) (_ *EmbeddedList, err error) {
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	defer l.h.recoverConsistency(&err, "default embedding")
	l.lexTo(i)
	return defaultEmbedding(l, i)
}

// CreateEmbedding attaches an explicit embedding to token i, or returns the
// existing list of the same language path.
func (l *List) CreateEmbedding(i int, emb language.Embedding) (_ *EmbeddedList, err error) {
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	defer l.h.recoverConsistency(&err, "create embedding")
	l.lexTo(i)
	return createEmbedding(l, i, emb, true)
}

// Embeddings returns the embedded lists that currently exist for token i.
func (l *List) Embeddings(i int) []*EmbeddedList {
	l.ensure(i)
	return append([]*EmbeddedList(nil), l.ts.at(i).embs...)
}

func (l *List) store() *tokenStore           { return l.ts }
func (l *List) hierarchy() *Hierarchy        { return l.h }
func (l *List) language() language.Language { return l.lang }
func (l *List) base() int                    { return 0 }
func (l *List) text() Text                   { return l.h.text }

// ensure lexes on demand until token i exists or the input ends.
func (l *List) ensure(i int) {
	if l.ts.complete || i < l.ts.count() {
		return
	}
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	l.lexTo(i)
}

// lexTo lexes until token i exists or the input ends. Callers hold the write lock.
func (l *List) lexTo(i int) {
	for !l.ts.complete && l.ts.count() <= i {
		if l.pending == nil {
			n := l.ts.count()
			l.pending = newInputOperation(l.h.text, l.lang, n, l.ts.end(), l.ts.stateBefore(n))
		}
		lx, ok := l.pending.next()
		if !ok {
			l.ts.complete = true
			l.releasePending()
			return
		}
		l.ts.add(&entry{tok: lx.tok}, lx.las)
	}
}

func (l *List) releasePending() {
	if l.pending != nil {
		l.pending.release()
		l.pending = nil
	}
}

// tokenText reads the characters of token i of a live list.
func tokenText(l hostList, i int) string {
	st := l.store()
	off := st.offset(i)
	return l.text().Slice(off, off+st.at(i).tok.length)
}
