package lexer

import (
	"fmt"
	"math"

	"github.com/yaklabco/relex/pkg/language"
)

// EmbeddedList holds the tokens of one embedded language section. Its token
// offsets are kept relative to the start of the section, so moving the host
// token does not touch the list.
type EmbeddedList struct {
	h      *Hierarchy
	parent hostList
	host   *entry
	path   language.Path
	lang   language.Language
	emb    language.Embedding

	// explicit lists were requested through CreateEmbedding.
	explicit bool

	ts *tokenStore

	// length is the content length the tokens were lexed for.
	length int

	// tll is the token list list maintaining every section of the path, if any.
	tll *tokenListList

	removed bool
}

func newEmbeddedList(parent hostList, host *entry, path language.Path, emb language.Embedding, explicit bool) *EmbeddedList {
	etl := &EmbeddedList{
		h:        parent.hierarchy(),
		parent:   parent,
		host:     host,
		path:     path,
		lang:     emb.Language,
		emb:      emb,
		explicit: explicit,
		ts:       newTokenStore(),
	}
	host.embs = append(host.embs, etl)
	return etl
}

// Path implements TokenList.
func (l *EmbeddedList) Path() language.Path { return l.path }

// Len implements TokenList.
func (l *EmbeddedList) Len() int { return l.ts.count() }

// Token implements TokenList.
func (l *EmbeddedList) Token(i int) *Token { return l.ts.at(i).tok }

// Offset returns the document offset of token i. Once the list has been
// removed it returns the offset relative to the former section start.
func (l *EmbeddedList) Offset(i int) int {
	if l.removed {
		return l.ts.offset(i)
	}
	return l.base() + l.ts.offset(i)
}

// LocalOffset returns the offset of token i relative to the section start.
func (l *EmbeddedList) LocalOffset(i int) int { return l.ts.offset(i) }

// LAState implements TokenList.
func (l *EmbeddedList) LAState(i int) LAState { return l.ts.laState(i) }

// Text implements TokenList.
func (l *EmbeddedList) Text(i int) (string, error) {
	if l.removed {
		return "", unsupported("removed embedded list text")
	}
	if i < 0 || i >= l.ts.count() {
		return "", ErrOutOfRange
	}
	return tokenText(l, i), nil
}

// Embedded implements TokenList.
func (l *EmbeddedList) Embedded(i int) (_ *EmbeddedList, err error) {
	if l.removed {
		return nil, unsupported("embedding in removed list")
	}
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	defer l.h.recoverConsistency(&err, "default embedding")
	return defaultEmbedding(l, i)
}

// CreateEmbedding attaches an explicit embedding to token i.
func (l *EmbeddedList) CreateEmbedding(i int, emb language.Embedding) (_ *EmbeddedList, err error) {
	if l.removed {
		return nil, unsupported("embedding in removed list")
	}
	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	defer l.h.recoverConsistency(&err, "create embedding")
	return createEmbedding(l, i, emb, true)
}

// Embeddings returns the embedded lists that currently exist for token i.
func (l *EmbeddedList) Embeddings(i int) []*EmbeddedList {
	return append([]*EmbeddedList(nil), l.ts.at(i).embs...)
}

// Removed reports whether the list was dropped by an update.
func (l *EmbeddedList) Removed() bool { return l.removed }

// Parent returns the list holding the host token, nil once removed.
func (l *EmbeddedList) Parent() TokenList {
	if l.removed {
		return nil
	}
	return l.parent
}

// HostIndex returns the index of the host token in the parent list.
func (l *EmbeddedList) HostIndex() int {
	if l.removed {
		return -1
	}
	return l.parent.store().indexAt(l.parent.store().entryOffset(l.host))
}

// Embedding returns the embedding the list was created for.
func (l *EmbeddedList) Embedding() language.Embedding { return l.emb }

// Joined reports whether the list takes part in a joined section stream.
func (l *EmbeddedList) Joined() bool { return l.tll != nil && l.tll.joined }

// Start returns the document offset of the section content.
func (l *EmbeddedList) Start() int { return l.base() }

// End returns the document offset just past the section content.
func (l *EmbeddedList) End() int { return l.base() + l.contentLength() }

func (l *EmbeddedList) store() *tokenStore           { return l.ts }
func (l *EmbeddedList) hierarchy() *Hierarchy        { return l.h }
func (l *EmbeddedList) language() language.Language { return l.lang }

func (l *EmbeddedList) base() int {
	if l.removed {
		return 0
	}
	return l.hostOffset() + l.emb.StartSkip
}

// hostOffset returns the document offset of the host token.
func (l *EmbeddedList) hostOffset() int {
	return l.parent.base() + l.parent.store().entryOffset(l.host)
}

func (l *EmbeddedList) contentLength() int {
	return l.host.tok.length - l.emb.StartSkip - l.emb.EndSkip
}

func (l *EmbeddedList) text() Text {
	return window{src: l.h.text, start: l.base(), length: l.contentLength()}
}

// tokens returns the tokens of the list in order.
func (l *EmbeddedList) tokens() []*Token {
	toks := make([]*Token, l.ts.count())
	for i := range toks {
		toks[i] = l.ts.at(i).tok
	}
	return toks
}

// lexAll lexes the whole section into an empty list.
func (l *EmbeddedList) lexAll() {
	op := newInputOperation(l.text(), l.lang, 0, 0, language.InitialState)
	defer op.release()
	for {
		lx, ok := op.next()
		if !ok {
			break
		}
		l.ts.add(&entry{tok: lx.tok}, lx.las)
	}
	l.ts.complete = true
	l.length = l.contentLength()
}

// detach marks the list and everything below it as removed.
func (l *EmbeddedList) detach() {
	if l.host != nil {
		l.host.dropEmbedding(l)
	}
	l.removed = true
	l.host = nil
	l.parent = nil
}

// String implements fmt.Stringer.
func (l *EmbeddedList) String() string {
	if l.removed {
		return fmt.Sprintf("%s(removed, %d tokens)", l.path.Key(), l.ts.count())
	}
	return fmt.Sprintf("%s@%d(%d tokens)", l.path.Key(), l.base(), l.ts.count())
}

// embeddingFor asks the list language for the default embedding of token i.
func embeddingFor(l hostList, i int) *language.Embedding {
	e := l.store().at(i)
	if e.tok.kind != KindPlain {
		return nil
	}
	emb := l.language().Embedding(e.tok.id, tokenText(l, i), l.Path())
	if emb == nil || emb.Language == nil || !fitsToken(*emb, e.tok) {
		return nil
	}
	return emb
}

func fitsToken(emb language.Embedding, tok *Token) bool {
	return emb.StartSkip >= 0 && emb.EndSkip >= 0 && emb.StartSkip+emb.EndSkip <= tok.length
}

// defaultEmbedding returns the default embedded list of token i, creating
// it when needed. Callers hold the write lock.
func defaultEmbedding(l hostList, i int) (*EmbeddedList, error) {
	st := l.store()
	if i < 0 || i >= st.count() {
		return nil, ErrOutOfRange
	}
	emb := embeddingFor(l, i)
	if emb == nil {
		return nil, nil
	}
	e := st.at(i)
	path := l.Path().Embedded(emb.Language)
	if existing := e.embedding(path.Key()); existing != nil {
		return existing, nil
	}
	h := l.hierarchy()
	if emb.JoinSections || h.tlls[path.Key()] != nil {
		h.completeTLL(path)
		return e.embedding(path.Key()), nil
	}
	etl := h.attachEmbedding(l, i, path, *emb, false)
	etl.lexAll()
	return etl, nil
}

// createEmbedding attaches an explicit embedding. Callers hold the write lock.
func createEmbedding(l hostList, i int, emb language.Embedding, explicit bool) (*EmbeddedList, error) {
	st := l.store()
	if i < 0 || i >= st.count() {
		return nil, ErrOutOfRange
	}
	e := st.at(i)
	switch {
	case emb.Language == nil:
		return nil, fmt.Errorf("create embedding: %w: no language", ErrUnsupported)
	case e.tok.kind != KindPlain:
		return nil, fmt.Errorf("create embedding on %s token: %w", e.tok.kind, ErrUnsupported)
	case emb.JoinSections:
		return nil, fmt.Errorf("create joined embedding: %w", ErrUnsupported)
	case !fitsToken(emb, e.tok):
		return nil, fmt.Errorf("create embedding: skips %d+%d exceed token length %d: %w",
			emb.StartSkip, emb.EndSkip, e.tok.length, ErrOutOfRange)
	}
	path := l.Path().Embedded(emb.Language)
	if existing := e.embedding(path.Key()); existing != nil {
		return existing, nil
	}
	etl := l.hierarchy().attachEmbedding(l, i, path, emb, explicit)
	etl.lexAll()
	return etl, nil
}

// attachEmbedding creates an unlexed embedded list for token i.
func (h *Hierarchy) attachEmbedding(l hostList, i int, path language.Path, emb language.Embedding, explicit bool) *EmbeddedList {
	h.materialize(l, i)
	return newEmbeddedList(l, l.store().at(i), path, emb, explicit)
}

// materialize replaces a flyweight token by a list owned copy before it
// hosts an embedding.
func (h *Hierarchy) materialize(l hostList, i int) {
	e := l.store().at(i)
	if !e.tok.flyweight {
		return
	}
	if _, ok := l.(*List); ok {
		for _, s := range h.snapshots {
			if !s.canModifyToken(i) {
				s.freezeToken(i)
			}
		}
	}
	e.tok = e.tok.materialized()
}

// lexAllRoot lexes the top level list to the end of input.
func (h *Hierarchy) lexAllRoot() {
	h.root.lexTo(math.MaxInt)
}
