package lexer

import (
	"github.com/yaklabco/relex/pkg/language"
)

// JoinList is the logical token list of a joined language path: the content
// of every section lexed as one stream. Tokens crossing a section boundary
// are join tokens whose parts live in the section lists.
type JoinList struct {
	h    *Hierarchy
	tll  *tokenListList
	path language.Path
	lang language.Language

	// ts holds logical entries in joined coordinates
	ts   *tokenStore
	text *joinedText
}

func newJoinList(tll *tokenListList, lang language.Language) *JoinList {
	ts := newTokenStore()
	ts.complete = true
	return &JoinList{h: tll.h, tll: tll, path: tll.path, lang: lang, ts: ts}
}

// Path implements TokenList.
func (j *JoinList) Path() language.Path { return j.path }

// Len implements TokenList.
func (j *JoinList) Len() int { return j.ts.count() }

// Token implements TokenList.
func (j *JoinList) Token(i int) *Token { return j.ts.at(i).tok }

// Offset returns the document offset of the first character of token i.
func (j *JoinList) Offset(i int) int {
	p := j.ts.at(i).parts[0]
	return p.list.base() + p.list.ts.entryOffset(p.e)
}

// JoinedOffset returns the offset of token i in the joined stream.
func (j *JoinList) JoinedOffset(i int) int { return j.ts.offset(i) }

// LAState implements TokenList.
func (j *JoinList) LAState(i int) LAState { return j.ts.laState(i) }

// Text implements TokenList.
func (j *JoinList) Text(i int) (string, error) {
	if i < 0 || i >= j.ts.count() {
		return "", ErrOutOfRange
	}
	off := j.ts.offset(i)
	return j.text.Slice(off, off+j.ts.at(i).tok.length), nil
}

// Embedded always fails: embeddings hang off the section lists.
func (j *JoinList) Embedded(int) (*EmbeddedList, error) {
	return nil, unsupported("embedding in joined list")
}

// Joining reports whether two or more sections currently take part in the
// stream. A list created for a single section keeps working when more appear.
func (j *JoinList) Joining() bool { return j.tll.Joining() }

// Sections returns the embedded lists joined by the list, in document order.
func (j *JoinList) Sections() []*EmbeddedList {
	return append([]*EmbeddedList(nil), j.tll.lists...)
}

// Parts returns the sections holding the characters of token i, one per part.
func (j *JoinList) Parts(i int) []*EmbeddedList {
	refs := j.ts.at(i).parts
	lists := make([]*EmbeddedList, len(refs))
	for k, r := range refs {
		lists[k] = r.list
	}
	return lists
}

// relexJoined relexes a joined path as one stream, then rebuilds the
// section lists the changed logical tokens fall into.
func (c *cascade) relexJoined(it *levelItem) {
	t := it.tll
	oldText := t.join.textOrNil()
	edited := make(map[*EmbeddedList]localMod, len(it.bounds))
	for _, b := range it.bounds {
		if !b.etl.removed {
			edited[b.etl] = b.mod
		}
	}
	added := make(map[*EmbeddedList]bool, len(it.added))
	for _, etl := range it.added {
		added[etl] = true
	}

	// Removed sections were detached already.
	t.replaceTokenLists()
	if t.join == nil {
		t.join = newJoinList(t, t.path.Inner())
	}
	jl := t.join
	newText := newJoinedText(c.h.text, t.lists)

	mod := joinedEdit(oldText, newText, edited)
	rx := &relexer{store: jl.ts, text: newText, lang: jl.lang, joined: newText, diag: c.diag, path: jl.path}
	res := rx.run(mod)
	res.apply(jl.ts)
	jl.text = newText

	affected := make(map[*EmbeddedList]bool)
	for _, e := range res.removedEntries {
		e.dead = true
		for _, p := range e.parts {
			affected[p.list] = true
		}
	}
	for k, e := range res.added {
		c.splitLogical(jl, e, res.index+k)
		for _, p := range e.parts {
			affected[p.list] = true
		}
	}
	for etl := range edited {
		affected[etl] = true
	}
	for etl := range added {
		affected[etl] = true
	}

	for si, etl := range t.lists {
		if etl.removed || !affected[etl] {
			continue
		}
		c.rebuildSection(jl, newText.segs[si], added[etl])
	}
}

func (j *JoinList) textOrNil() *joinedText {
	if j == nil {
		return nil
	}
	return j.text
}

// joinedEdit derives the edit of the joined stream from the section lists
// before and after the update. Sections that are the same list and were not
// edited delimit the changed region; an edited section at either end of the
// region narrows it to its own edit.
func joinedEdit(before, after *joinedText, edited map[*EmbeddedList]localMod) localMod {
	var old []segment
	oldSize := 0
	if before != nil {
		old, oldSize = before.segs, before.size
	}
	cur := after.segs

	same := func(a, b segment) bool {
		_, ok := edited[a.list]
		return a.list == b.list && !ok
	}

	p := 0
	prefix := 0
	for p < len(old) && p < len(cur) && same(old[p], cur[p]) {
		prefix += old[p].length
		p++
	}
	s := 0
	suffix := 0
	for s < len(old)-p && s < len(cur)-p && same(old[len(old)-1-s], cur[len(cur)-1-s]) {
		suffix += old[len(old)-1-s].length
		s++
	}

	head, tail := prefix, suffix
	if p < len(old) && p < len(cur) && old[p].list == cur[p].list {
		if m, ok := edited[old[p].list]; ok {
			head += m.offset
		}
	}
	lo, lc := len(old)-1-s, len(cur)-1-s
	if lo >= p && lc >= p && old[lo].list == cur[lc].list {
		if m, ok := edited[old[lo].list]; ok {
			tail += old[lo].length - m.removedEnd()
		}
	}

	limit := min(oldSize, after.size)
	head = min(head, limit)
	tail = min(tail, limit-head)
	return localMod{offset: head, removed: oldSize - head - tail, inserted: after.size - head - tail}
}

// splitLogical creates the section entries backing the logical entry e at
// index i of the joined list.
func (c *cascade) splitLogical(jl *JoinList, e *entry, i int) {
	spans := jl.text.split(jl.ts.offset(i), e.tok.length)
	e.parts = make([]partRef, len(spans))
	if len(spans) == 1 {
		e.parts[0] = partRef{list: jl.text.segs[spans[0].seg].list, e: &entry{tok: e.tok}}
		return
	}
	if e.tok.kind != KindJoin || len(e.tok.parts) != len(spans) {
		raise("joined relex", "token %s at %d does not match %d sections", e.tok, jl.ts.offset(i), len(spans))
	}
	for k, sp := range spans {
		e.parts[k] = partRef{list: jl.text.segs[sp.seg].list, e: &entry{tok: e.tok.parts[k]}}
	}
}

// sectionEntries returns the section entries of seg in order, with their
// lookahead states.
func sectionEntries(jl *JoinList, seg segment) ([]*entry, []LAState) {
	var entries []*entry
	var las []LAState
	if seg.length == 0 {
		return nil, nil
	}
	segEnd := seg.start + seg.length
	for i := jl.ts.indexAt(seg.start); i < jl.ts.count() && jl.ts.offset(i) < segEnd; i++ {
		e := jl.ts.at(i)
		logical := jl.ts.laState(i)
		for k, p := range e.parts {
			if p.list != seg.list {
				continue
			}
			entries = append(entries, p.e)
			if k == len(e.parts)-1 {
				las = append(las, logical)
			} else {
				las = append(las, LAState{State: logical.State})
			}
		}
	}
	return entries, las
}

// rebuildSection brings a section list in line with the logical tokens that
// fall into it.
func (c *cascade) rebuildSection(jl *JoinList, seg segment, isNew bool) {
	etl := seg.list
	entries, las := sectionEntries(jl, seg)
	st := etl.ts
	n := st.count()

	k := 0
	for k < n && k < len(entries) && st.at(k) == entries[k] {
		k++
	}
	s := 0
	for s < n-k && s < len(entries)-k && st.at(n-1-s) == entries[len(entries)-1-s] {
		s++
	}

	res := &relexResult{index: k, offset: st.end(), diff: seg.length - st.end(), complete: true}
	if k < n {
		res.offset = st.offset(k)
	}
	(&relexer{store: st}).collectRemoved(res, k, n-s)
	res.added = entries[k : len(entries)-s]
	res.addedLAs = las[k : len(las)-s]
	for _, e := range res.added {
		res.addedLength += e.tok.length
	}
	res.apply(st)
	etl.length = seg.length

	switch {
	case isNew:
		c.attach(etl.parent, &Change{
			Kind:        ChangeEmbeddingAdded,
			Path:        etl.path,
			List:        etl,
			Offset:      etl.base(),
			Added:       etl.tokens(),
			AddedLength: st.end(),
		}, etl)
	case !res.noop():
		c.attach(etl.parent, c.newChange(ChangeTokens, etl, res, etl.base()), etl)
	}
	c.processResult(etl, res, localMod{})
}
