package lexer

import (
	"slices"

	"github.com/yaklabco/relex/pkg/language"
)

// cascade carries one modification from the top level list down through
// every embedding level. Work is queued per level, so a level only starts
// after every list of the level above has been updated and its embedded
// lists were added or removed.
type cascade struct {
	h     *Hierarchy
	mod   Modification
	diag  Diagnostics
	quiet bool // build lists without reporting changes

	levels [][]*levelItem // indexed by path depth
	items  map[string]*levelItem

	changes map[TokenList]*Change
	root    *Change
}

// levelItem is the work scheduled for one language path.
type levelItem struct {
	path    language.Path
	tll     *tokenListList
	removed []*EmbeddedList
	added   []*EmbeddedList
	bounds  []boundsUpdate
}

// boundsUpdate is an embedded list whose host token only grew or shrank.
type boundsUpdate struct {
	etl *EmbeddedList
	mod localMod
}

func newCascade(h *Hierarchy, mod Modification, quiet bool) *cascade {
	return &cascade{
		h:       h,
		mod:     mod,
		diag:    h.diag,
		quiet:   quiet,
		items:   make(map[string]*levelItem),
		changes: make(map[TokenList]*Change),
	}
}

// item returns the work item of path, scheduling it on first use.
func (c *cascade) item(path language.Path) *levelItem {
	if it, ok := c.items[path.Key()]; ok {
		return it
	}
	it := &levelItem{path: path, tll: c.h.tlls[path.Key()]}
	c.items[path.Key()] = it
	depth := path.Depth()
	for len(c.levels) <= depth {
		c.levels = append(c.levels, nil)
	}
	c.levels[depth] = append(c.levels[depth], it)
	return it
}

// run updates the top level list and then every scheduled level.
func (c *cascade) run() *Event {
	root := c.h.root
	root.releasePending()

	rx := &relexer{store: root.ts, text: c.h.text, lang: root.lang, diag: c.diag, path: root.path}
	mod := c.mod.local()
	res := rx.run(mod)

	for _, s := range c.h.snapshots {
		s.beforeReplace(res, c.mod)
	}
	c.root = c.newChange(ChangeTokens, root, res, 0)
	c.changes[root] = c.root
	res.apply(root.ts)
	c.processResult(root, res, mod)

	c.drain()

	ev := &Event{Hierarchy: c.h.id, Modification: c.mod, Root: c.root}
	ev.computeAffected()
	return ev
}

// drain processes scheduled levels outermost first.
func (c *cascade) drain() {
	for depth := 0; depth < len(c.levels); depth++ {
		for i := 0; i < len(c.levels[depth]); i++ {
			it := c.levels[depth][i]
			c.processItem(it)
			delete(c.items, it.path.Key())
		}
		c.levels[depth] = nil
	}
}

func (c *cascade) processItem(it *levelItem) {
	for _, etl := range it.removed {
		c.removeList(etl)
	}
	if it.tll != nil {
		for _, etl := range it.added {
			it.tll.markAdded(etl)
		}
		if it.tll.joined {
			c.relexJoined(it)
			return
		}
		it.tll.replaceTokenLists()
	}
	for _, b := range it.bounds {
		if !b.etl.removed {
			c.relexEmbedded(b.etl, b.mod)
		}
	}
	for _, etl := range it.added {
		if !etl.removed {
			c.lexAdded(etl)
		}
	}
}

// processResult schedules the embedding work implied by a list change. The
// change has already been applied to the list.
func (c *cascade) processResult(l hostList, res *relexResult, mod localMod) {
	for i, e := range res.removedEntries {
		if res.boundsChange && i == 0 {
			continue
		}
		c.evict(e)
	}

	if res.boundsChange {
		c.transferEmbeddings(l, res, mod)
	}

	for j := range res.added {
		c.eagerEmbed(l, res.index+j)
	}
}

// evict drops an entry taken out of a list together with its embeddings.
func (c *cascade) evict(e *entry) {
	e.dead = true
	for _, etl := range e.embs {
		c.item(etl.path).removed = append(c.item(etl.path).removed, etl)
	}
}

// transferEmbeddings moves the embeddings of a token that only changed its
// bounds to its replacement, keeping those whose content saw the edit.
func (c *cascade) transferEmbeddings(l hostList, res *relexResult, mod localMod) {
	old, ne := res.removedEntries[0], res.added[0]
	oldTok := res.removed[0]
	ne.embs, old.embs = old.embs, nil
	old.dead = true
	if len(ne.embs) == 0 {
		return
	}
	for _, etl := range ne.embs {
		etl.host = ne
	}
	if ne.tok.flyweight {
		ne.tok = ne.tok.materialized()
	}

	rel := mod.offset - oldTok.offset
	var def *language.Embedding
	for _, etl := range slices.Clone(ne.embs) {
		ss, es := etl.emb.StartSkip, etl.emb.EndSkip
		retain := rel >= ss && rel+mod.removed <= oldTok.tok.length-es && fitsToken(etl.emb, ne.tok)
		if retain && !etl.explicit {
			if def == nil {
				def = embeddingFor(l, res.index)
			}
			retain = def != nil && def.Language.Name() == etl.lang.Name() &&
				def.StartSkip == ss && def.EndSkip == es && def.JoinSections == etl.emb.JoinSections
		}
		if retain {
			it := c.item(etl.path)
			it.bounds = append(it.bounds, boundsUpdate{etl: etl, mod: localMod{
				offset:   rel - ss,
				removed:  mod.removed,
				inserted: mod.inserted,
			}})
			continue
		}
		ne.dropEmbedding(etl)
		c.item(etl.path).removed = append(c.item(etl.path).removed, etl)
	}
}

// eagerEmbed creates the embedded list of token i when its path is
// maintained by a token list list.
func (c *cascade) eagerEmbed(l hostList, i int) {
	if !c.h.hasTLLAt(l.Path().Depth() + 1) {
		return
	}
	emb := embeddingFor(l, i)
	if emb == nil {
		return
	}
	path := l.Path().Embedded(emb.Language)
	if c.h.tlls[path.Key()] == nil || l.store().at(i).embedding(path.Key()) != nil {
		return
	}
	etl := c.h.attachEmbedding(l, i, path, *emb, false)
	c.item(path).added = append(c.item(path).added, etl)
}

// removeList reports and detaches a dropped embedded list and schedules the
// lists embedded in it.
func (c *cascade) removeList(etl *EmbeddedList) {
	if etl.removed {
		return
	}
	var offset int
	if parent := c.parentChange(etl); parent != nil {
		offset = parent.Offset
	}
	if etl.host != nil && !etl.host.dead {
		offset = etl.base()
	}

	tokens := make([]frozenToken, etl.ts.count())
	for i := range tokens {
		e := etl.ts.at(i)
		e.dead = true
		tokens[i] = frozenToken{tok: e.tok, offset: etl.ts.offset(i), las: etl.ts.laState(i)}
		for _, child := range e.embs {
			c.item(child.path).removed = append(c.item(child.path).removed, child)
		}
	}
	if etl.tll != nil {
		etl.tll.markRemoved(etl)
	}
	c.attach(etl.parent, &Change{
		Kind:    ChangeEmbeddingRemoved,
		Path:    etl.path,
		List:    etl,
		Offset:  offset,
		Removed: newRemovedList(etl.path, tokens),
	}, etl)
	c.diag.Debug("embedding removed", "path", etl.path.Key(), "tokens", len(tokens))
	etl.detach()
}

// relexEmbedded updates a list whose host token kept its kind.
func (c *cascade) relexEmbedded(etl *EmbeddedList, mod localMod) {
	rx := &relexer{store: etl.ts, text: etl.text(), lang: etl.lang, diag: c.diag, path: etl.path}
	res := rx.run(mod)
	res.apply(etl.ts)
	etl.length = etl.contentLength()
	if !res.noop() {
		c.attach(etl.parent, c.newChange(ChangeTokens, etl, res, etl.base()), etl)
	}
	c.processResult(etl, res, mod)
}

// lexAdded lexes a list created for a new host token.
func (c *cascade) lexAdded(etl *EmbeddedList) {
	if !etl.ts.complete {
		etl.lexAll()
	}
	c.attach(etl.parent, &Change{
		Kind:        ChangeEmbeddingAdded,
		Path:        etl.path,
		List:        etl,
		Offset:      etl.base(),
		Added:       etl.tokens(),
		AddedLength: etl.ts.end(),
	}, etl)
	for i := range etl.ts.count() {
		c.eagerEmbed(etl, i)
	}
}

func (c *cascade) newChange(kind ChangeKind, l hostList, res *relexResult, base int) *Change {
	return &Change{
		Kind:         kind,
		Path:         l.Path(),
		List:         l,
		Index:        res.index,
		Offset:       base + res.offset,
		Removed:      newRemovedList(l.Path(), res.removed),
		Added:        res.addedTokens(),
		AddedLength:  res.addedLength,
		BoundsChange: res.boundsChange,
	}
}

// attach hangs ch below the change of parent and records it for list.
func (c *cascade) attach(parent hostList, ch *Change, list TokenList) {
	if c.quiet {
		return
	}
	p := c.changeFor(parent)
	p.Embedded = append(p.Embedded, ch)
	c.changes[list] = ch
}

// parentChange returns the change recorded for the parent of etl, if any.
func (c *cascade) parentChange(etl *EmbeddedList) *Change {
	if c.quiet || etl.parent == nil {
		return nil
	}
	return c.changes[etl.parent]
}

// changeFor returns the change of a list, adding an empty one that only
// carries embedded changes when the list itself was not relexed.
func (c *cascade) changeFor(l hostList) *Change {
	if ch, ok := c.changes[l]; ok {
		return ch
	}
	etl, ok := l.(*EmbeddedList)
	if !ok {
		raise("change tree", "no change recorded for top level list")
	}
	ch := &Change{Kind: ChangeTokens, Path: etl.path, List: etl, Offset: etl.base()}
	parent := c.changeFor(etl.parent)
	parent.Embedded = append(parent.Embedded, ch)
	c.changes[l] = ch
	return ch
}
