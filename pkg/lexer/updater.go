package lexer

import (
	"math"

	"github.com/yaklabco/relex/pkg/language"
)

// relexer recomputes the tokens of one list around an edit.
type relexer struct {
	store  *tokenStore
	text   Text // list coordinates, after the edit
	lang   language.Language
	joined *joinedText
	diag   Diagnostics
	path   language.Path
}

// relexResult is a computed, not yet applied, token replacement.
type relexResult struct {
	index  int
	offset int // start of the replaced range, same before and after the edit
	diff   int

	removedEntries []*entry
	removed        []frozenToken // offsets before the edit

	added       []*entry
	addedLAs    []LAState
	addedLength int

	boundsChange bool
	complete     bool
}

func (r *relexResult) noop() bool {
	return len(r.removedEntries) == 0 && len(r.added) == 0
}

func (r *relexResult) addedTokens() []*Token {
	toks := make([]*Token, len(r.added))
	for i, e := range r.added {
		toks[i] = e.tok
	}
	return toks
}

// apply commits the replacement to the store it was computed for.
func (r *relexResult) apply(s *tokenStore) {
	s.replace(r.index, len(r.removedEntries), r.added, r.addedLAs, r.offset, r.diff)
	s.complete = r.complete
}

// run computes the minimal token replacement for mod.
func (rx *relexer) run(mod localMod) *relexResult {
	st := rx.store
	n := st.count()
	diff := mod.diff()
	modEnd := mod.removedEnd()
	lexedEnd := st.end()

	relexIndex := st.indexAt(mod.offset)
	relexOffset := lexedEnd
	if relexIndex < n {
		relexOffset = st.offset(relexIndex)
	}
	if mod.isNoop() {
		return &relexResult{index: relexIndex, offset: relexOffset, complete: st.complete}
	}
	relexIndex, relexOffset = rx.lookaheadStart(relexIndex, relexOffset, mod.offset)

	res := &relexResult{index: relexIndex, offset: relexOffset, diff: diff, complete: st.complete}
	if relexIndex == n && !st.complete {
		// Nothing lexed so far looked at the edited characters.
		return res
	}

	matchIndex := n
	if modEnd < lexedEnd {
		matchIndex = st.indexAt(modEnd)
		if st.offset(matchIndex) < modEnd {
			matchIndex++
		}
	}
	matchOffsetAt := func(i int) int {
		switch {
		case i < n:
			return st.offset(i) + diff
		case st.complete:
			return math.MaxInt
		default:
			return max(lexedEnd, modEnd) + diff
		}
	}
	matchOffset := matchOffsetAt(matchIndex)

	if mod.inserted == 0 && relexOffset == matchOffset &&
		st.stateBefore(relexIndex) == st.stateBefore(matchIndex) &&
		(relexIndex == 0 || lookaheadFits(st, st.laState(relexIndex-1).Lookahead, matchIndex)) {
		rx.collectRemoved(res, relexIndex, matchIndex)
		rx.trace(res, mod, "skipped")
		return res
	}

	op := rx.newInput(relexIndex, relexOffset, st.stateBefore(relexIndex))
	defer op.release()

	end := relexOffset
	for {
		lx, ok := op.next()
		if !ok {
			matchIndex = n
			res.complete = true
			break
		}
		res.added = append(res.added, &entry{tok: lx.tok})
		res.addedLAs = append(res.addedLAs, lx.las)
		end += lx.tok.length

		for matchIndex < n && matchOffset < end {
			matchIndex++
			matchOffset = matchOffsetAt(matchIndex)
		}
		if matchIndex == n {
			if !st.complete && end >= matchOffset {
				break
			}
			continue
		}
		if end == matchOffset && lx.las.State == st.stateBefore(matchIndex) &&
			lookaheadFits(st, lx.las.Lookahead, matchIndex) {
			break
		}
	}

	// Tokens relexed to exactly what they were keep their identity.
	for len(res.added) > 0 && matchIndex > relexIndex {
		last := len(res.added) - 1
		old := st.at(matchIndex - 1)
		if st.offset(matchIndex-1) < modEnd ||
			!sameToken(res.added[last].tok, old.tok) ||
			res.addedLAs[last] != st.laState(matchIndex-1) {
			break
		}
		res.added = res.added[:last]
		res.addedLAs = res.addedLAs[:last]
		matchIndex--
	}

	for _, e := range res.added {
		res.addedLength += e.tok.length
	}
	rx.collectRemoved(res, relexIndex, matchIndex)

	if len(res.removed) == 1 && len(res.added) == 1 {
		old, tok := res.removed[0], res.added[0].tok
		res.boundsChange = old.tok.id == tok.id &&
			old.tok.kind == KindPlain && tok.kind == KindPlain &&
			old.offset <= mod.offset && modEnd <= old.offset+old.tok.length
	}
	rx.trace(res, mod, "relexed")
	return res
}

// lookaheadStart walks back from the token containing the edit to the first
// token whose lookahead reached the edited characters.
func (rx *relexer) lookaheadStart(index, offset, modOffset int) (int, int) {
	st := rx.store
	i, off := index, offset
	for i > 0 {
		prevEnd := off
		off -= st.at(i - 1).tok.length
		i--
		if prevEnd+st.laState(i).Lookahead > modOffset {
			index, offset = i, off
			continue
		}
		if prevEnd+st.maxLookahead <= modOffset {
			break
		}
	}
	return index, offset
}

func (rx *relexer) newInput(index, offset int, state language.State) *inputOperation {
	if rx.joined != nil {
		return newJoinedInputOperation(rx.joined, rx.lang, index, offset, state)
	}
	return newInputOperation(rx.text, rx.lang, index, offset, state)
}

func (rx *relexer) collectRemoved(res *relexResult, from, to int) {
	st := rx.store
	for i := from; i < to; i++ {
		e := st.at(i)
		res.removedEntries = append(res.removedEntries, e)
		res.removed = append(res.removed, frozenToken{tok: e.tok, offset: st.offset(i), las: st.laState(i)})
	}
}

func (rx *relexer) trace(res *relexResult, mod localMod, outcome string) {
	rx.diag.Debug("relex "+outcome,
		"path", rx.path.Key(),
		"offset", mod.offset,
		"removed_length", mod.removed,
		"inserted_length", mod.inserted,
		"index", res.index,
		"removed", len(res.removed),
		"added", len(res.added),
		"bounds_change", res.boundsChange)
}

// lookaheadFits reports whether a lookahead reaching past the match point
// stays within the retained token at matchIndex.
func lookaheadFits(st *tokenStore, lookahead, matchIndex int) bool {
	if lookahead <= 1 {
		return true
	}
	return matchIndex < st.count() && lookahead <= st.at(matchIndex).tok.length
}

// sameToken compares the lexeme and, for join tokens, the split into parts.
func sameToken(a, b *Token) bool {
	if !a.sameLexeme(b) || len(a.parts) != len(b.parts) {
		return false
	}
	for i := range a.parts {
		if a.parts[i].length != b.parts[i].length {
			return false
		}
	}
	return true
}
