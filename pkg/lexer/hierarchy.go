package lexer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yaklabco/relex/pkg/language"
)

// Hierarchy owns the token lists of one document: the top level list, every
// embedded list hanging off its tokens and the snapshots taken from it.
//
// Updates and live list reads must come from one goroutine. Snapshots may be
// read from any goroutine.
type Hierarchy struct {
	mu sync.RWMutex

	id   uuid.UUID
	text Text
	lang language.Language
	root *List

	// tlls maps path keys to the lists maintained eagerly for that path.
	tlls map[string]*tokenListList

	snapshots []*Snapshot

	diag Diagnostics
	opts Options
}

// New creates the hierarchy of text lexed by lang. Unless opts.Lazy is set
// the whole text is lexed before New returns.
func New(text Text, lang language.Language, opts Options) *Hierarchy {
	h := &Hierarchy{
		id:   uuid.New(),
		text: text,
		lang: lang,
		tlls: make(map[string]*tokenListList),
		diag: opts.diagnostics(),
		opts: opts,
	}
	h.root = newList(h, lang)
	if !opts.Lazy {
		h.lexAllRoot()
	}
	h.diag.Debug("hierarchy created", "id", h.id, "language", lang.Name(), "length", text.Len(), "lazy", opts.Lazy)
	return h
}

// Lex lexes text eagerly with default options.
func Lex(text string, lang language.Language) *Hierarchy {
	return New(StringText(text), lang, DefaultOptions())
}

// ID identifies the hierarchy in events.
func (h *Hierarchy) ID() uuid.UUID { return h.id }

// Language returns the top level language.
func (h *Hierarchy) Language() language.Language { return h.lang }

// Root returns the top level list.
func (h *Hierarchy) Root() *List { return h.root }

// Text returns the document text the hierarchy reads.
func (h *Hierarchy) Text() Text { return h.text }

// Update brings the hierarchy in line with an edit already applied to the
// text. A rejected modification leaves the hierarchy untouched. When the
// update detects corrupted bookkeeping the hierarchy is rebuilt from the
// current text and a *ConsistencyError is returned.
func (h *Hierarchy) Update(mod Modification) (*Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.update(mod)
}

// Edit runs mutate, which changes the text and returns the modification it
// made, and updates the hierarchy. Snapshot readers never observe the text
// between the two.
func (h *Hierarchy) Edit(mutate func() (Modification, error)) (*Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	mod, err := mutate()
	if err != nil {
		return nil, fmt.Errorf("edit text: %w", err)
	}
	return h.update(mod)
}

func (h *Hierarchy) update(mod Modification) (ev *Event, err error) {
	if err := mod.validate(h.text.Len()); err != nil {
		return nil, err
	}
	if before := h.text.Len() - mod.diff(); h.root.ts.complete && h.root.ts.end() != before {
		return nil, &PreconditionError{
			Mod:     mod,
			Message: fmt.Sprintf("text length before edit is %d but %d characters were lexed", before, h.root.ts.end()),
			Err:     ErrOutOfRange,
		}
	}

	defer h.recoverConsistency(&err, mod.String())

	ev = newCascade(h, mod, false).run()

	if h.opts.DumpTokens {
		ev.Root.Walk(func(c *Change, _ int) {
			if l, ok := c.List.(hostList); ok && c.Kind != ChangeEmbeddingRemoved {
				h.diag.Debug("tokens", "dump", dumpStore(l.Path(), l.store()))
			}
		})
	}
	if h.opts.CheckInvariants {
		if verr := h.validate(); verr != nil {
			return nil, &ConsistencyError{
				Op:      "validate",
				Detail:  "hierarchy invalid after " + mod.String(),
				Rebuilt: h.tryRebuild(),
				Err:     verr,
			}
		}
	}
	return ev, nil
}

// recoverConsistency turns a consistency panic raised below a public entry
// point into a *ConsistencyError and rebuilds the hierarchy. It must be
// deferred directly, after the write lock is taken.
func (h *Hierarchy) recoverConsistency(errp *error, during string) {
	r := recover()
	if r == nil {
		return
	}
	cp, ok := r.(*consistencyPanic)
	if !ok {
		panic(r)
	}
	h.diag.Debug("consistency failure", "op", cp.op, "detail", cp.detail, "during", during)
	*errp = &ConsistencyError{Op: cp.op, Detail: cp.detail, Rebuilt: h.tryRebuild()}
}

// tryRebuild rebuilds the hierarchy and reports whether that succeeded.
// When lexing the text fails again the hierarchy is left empty and lazy,
// so the failure shows up on the next read instead of inside this one.
func (h *Hierarchy) tryRebuild() (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cp, isConsistency := r.(*consistencyPanic)
		if !isConsistency {
			panic(r)
		}
		h.diag.Debug("rebuild failed", "id", h.id, "op", cp.op, "detail", cp.detail)
		h.root.releasePending()
		h.root.ts.reset()
		h.tlls = make(map[string]*tokenListList)
		h.opts.Lazy = true
		ok = false
	}()
	h.rebuild()
	return true
}

// rebuild drops every list and lexes the current text again. Lists handed
// out before are marked removed; snapshots become invalid.
func (h *Hierarchy) rebuild() {
	for _, s := range h.snapshots {
		s.invalidate()
	}
	h.snapshots = nil

	h.root.releasePending()
	for i := range h.root.ts.count() {
		detachAll(h.root.ts.at(i))
	}
	h.root.ts.reset()
	h.tlls = make(map[string]*tokenListList)
	if !h.opts.Lazy {
		h.lexAllRoot()
	}
	h.diag.Debug("hierarchy rebuilt", "id", h.id, "length", h.text.Len())
}

func detachAll(e *entry) {
	e.dead = true
	for _, etl := range append([]*EmbeddedList(nil), e.embs...) {
		for i := range etl.ts.count() {
			detachAll(etl.ts.at(i))
		}
		etl.detach()
	}
}

// Validate checks the whole hierarchy and returns every violation found.
func (h *Hierarchy) Validate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.validate()
}

// JoinedList returns the logical list of a joined path, creating the lists
// of every section first.
func (h *Hierarchy) JoinedList(path language.Path) (_ *JoinList, err error) {
	if path.Depth() < 2 {
		return nil, fmt.Errorf("joined list of top level path %s: %w", path, ErrUnsupported)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.recoverConsistency(&err, "joined list "+path.Key())
	t := h.completeTLL(path)
	if !t.joined || t.join == nil {
		return nil, fmt.Errorf("path %s does not join sections: %w", path, ErrUnsupported)
	}
	return t.join, nil
}

// EmbeddedLists returns every embedded list of path in document order,
// creating the missing ones. From then on the lists of the path are kept
// up to date eagerly.
func (h *Hierarchy) EmbeddedLists(path language.Path) (_ []*EmbeddedList, err error) {
	if path.Depth() < 2 {
		return nil, fmt.Errorf("embedded lists of top level path %s: %w", path, ErrUnsupported)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	defer h.recoverConsistency(&err, "embedded lists "+path.Key())
	return append([]*EmbeddedList(nil), h.completeTLL(path).lists...), nil
}

// hasTLLAt reports whether any path of the given depth is kept eagerly.
func (h *Hierarchy) hasTLLAt(depth int) bool {
	for _, t := range h.tlls {
		if t.path.Depth() == depth {
			return true
		}
	}
	return false
}
