package lexer

import (
	"cmp"
	"slices"
	"sort"

	"github.com/yaklabco/relex/pkg/language"
)

// tokenListList keeps every embedded list of one language path, ordered by
// document offset. A hierarchy only keeps one for paths whose sections are
// joined, or whose descendants are: those are maintained eagerly, with a
// list for every host token.
type tokenListList struct {
	h      *Hierarchy
	path   language.Path
	joined bool

	lists []*EmbeddedList

	// membership changes collected while the parent level is processed
	pendingAdded   []*EmbeddedList
	pendingRemoved map[*EmbeddedList]bool

	// join is the logical list of a joined path. Once created it stays.
	join *JoinList
}

func newTokenListList(h *Hierarchy, path language.Path) *tokenListList {
	return &tokenListList{h: h, path: path, pendingRemoved: make(map[*EmbeddedList]bool)}
}

// Joining reports whether two or more sections are currently joined.
func (t *tokenListList) Joining() bool {
	return t.joined && len(t.lists) >= 2
}

// markAdded records a list to be inserted by the next replaceTokenLists.
func (t *tokenListList) markAdded(etl *EmbeddedList) {
	etl.tll = t
	t.joined = t.joined || etl.emb.JoinSections
	t.pendingAdded = append(t.pendingAdded, etl)
}

// markRemoved records a list to be dropped by the next replaceTokenLists.
func (t *tokenListList) markRemoved(etl *EmbeddedList) {
	t.pendingRemoved[etl] = true
}

// replaceTokenLists commits pending membership changes at once.
// Removed lists must be marked before their hosts become unreachable.
func (t *tokenListList) replaceTokenLists() {
	if len(t.pendingAdded) == 0 && len(t.pendingRemoved) == 0 {
		return
	}
	kept := t.lists[:0:0]
	for _, etl := range t.lists {
		if !t.pendingRemoved[etl] {
			kept = append(kept, etl)
		}
	}
	for _, etl := range t.pendingAdded {
		if !t.pendingRemoved[etl] {
			kept = append(kept, etl)
		}
	}
	slices.SortStableFunc(kept, func(a, b *EmbeddedList) int {
		return cmp.Compare(a.hostOffset(), b.hostOffset())
	})
	t.lists = kept
	t.pendingAdded = nil
	clear(t.pendingRemoved)
}

// indexAt returns the index of the last list starting at or before offset,
// or -1 when every list starts after it.
func (t *tokenListList) indexAt(offset int) int {
	i := sort.Search(len(t.lists), func(i int) bool {
		return t.lists[i].base() > offset
	})
	return i - 1
}

// listIndex returns the position of etl, or -1.
func (t *tokenListList) listIndex(etl *EmbeddedList) int {
	i := t.indexAt(etl.base())
	for ; i >= 0 && t.lists[i].base() == etl.base(); i-- {
		if t.lists[i] == etl {
			return i
		}
	}
	return slices.Index(t.lists, etl)
}

// completeTLL returns the token list list of path, building it with a list
// for every host token when it does not exist yet. Callers hold the write lock.
func (h *Hierarchy) completeTLL(path language.Path) *tokenListList {
	key := path.Key()
	if t := h.tlls[key]; t != nil {
		return t
	}

	var parents []hostList
	if path.Depth() == 2 {
		h.lexAllRoot()
		parents = []hostList{h.root}
	} else {
		for _, etl := range h.completeTLL(path.Parent()).lists {
			parents = append(parents, etl)
		}
	}

	t := newTokenListList(h, path)
	h.tlls[key] = t
	var added []*EmbeddedList
	for _, p := range parents {
		for i := range p.store().count() {
			emb := embeddingFor(p, i)
			if emb == nil || p.Path().Embedded(emb.Language).Key() != key {
				continue
			}
			t.joined = t.joined || emb.JoinSections
			etl := p.store().at(i).embedding(key)
			if etl == nil {
				etl = h.attachEmbedding(p, i, path, *emb, false)
			}
			added = append(added, etl)
		}
	}
	h.diag.Debug("token list list created", "path", key, "lists", len(added), "joined", t.joined)

	c := newCascade(h, Modification{}, true)
	c.item(path).added = added
	c.drain()
	return t
}
