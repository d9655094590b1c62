package lexer

import (
	"sort"

	"github.com/yaklabco/relex/pkg/gaplist"
	"github.com/yaklabco/relex/pkg/language"
)

const (
	initialOffsetGap = 1 << 30
	minOffsetGap     = 1 << 20
)

// LAState is the lookahead and end state recorded for one token.
type LAState struct {
	// Lookahead is the number of characters past the token end the lexer
	// examined, including a read of the end of input.
	Lookahead int `json:"lookahead"`

	// State is the lexer state at the end of the token.
	State language.State `json:"state"`
}

// entry is one slot of a token store. Embedded lists hang off the slot,
// so replacing a slot drops every link from an evicted token into live lists.
type entry struct {
	tok *Token
	raw int

	// embeddings hosted by the token, at most one per language path
	embs []*EmbeddedList

	// logical entries of a joined list only: the physical slots backing the token
	parts []partRef

	// dead is set once the entry left its list for good.
	dead bool
}

type partRef struct {
	list *EmbeddedList
	e    *entry
}

func (e *entry) embedding(key string) *EmbeddedList {
	for _, etl := range e.embs {
		if etl.path.Key() == key {
			return etl
		}
	}
	return nil
}

func (e *entry) dropEmbedding(etl *EmbeddedList) {
	for i, x := range e.embs {
		if x == etl {
			e.embs = append(e.embs[:i], e.embs[i+1:]...)
			return
		}
	}
}

// tokenStore keeps the entries of a list together with the parallel
// lookahead/state track. Offsets are stored relative to an offset gap:
// entries before the gap hold their offset, entries after it hold their
// offset plus the gap length, so an edit only rewrites the offsets of the
// entries it crosses.
type tokenStore struct {
	entries  gaplist.GapList[*entry]
	lastates gaplist.GapList[LAState]

	gapStart  int // offset of the first entry after the gap
	gapLength int
	gapIndex  int // index of the first entry after the gap

	// complete is set once the lexer reported the end of input.
	complete bool

	// maxLookahead is the largest lookahead of the stored tokens.
	maxLookahead int
}

func newTokenStore() *tokenStore {
	return &tokenStore{gapLength: initialOffsetGap}
}

func (s *tokenStore) count() int { return s.entries.Len() }

func (s *tokenStore) at(i int) *entry { return s.entries.Get(i) }

func (s *tokenStore) laState(i int) LAState { return s.lastates.Get(i) }

func (s *tokenStore) absolute(raw int) int {
	if raw < s.gapStart {
		return raw
	}
	return raw - s.gapLength
}

func (s *tokenStore) entryOffset(e *entry) int { return s.absolute(e.raw) }

func (s *tokenStore) offset(i int) int { return s.absolute(s.at(i).raw) }

// end returns the offset just past the last stored token.
func (s *tokenStore) end() int {
	n := s.count()
	if n == 0 {
		return 0
	}
	last := s.at(n - 1)
	return s.absolute(last.raw) + last.tok.length
}

// stateBefore returns the lexer state in effect at the start of token i.
func (s *tokenStore) stateBefore(i int) language.State {
	if i == 0 {
		return language.InitialState
	}
	return s.laState(i - 1).State
}

// indexAt returns the index of the token containing offset, or count()
// when offset is at or past the end of the stored tokens.
func (s *tokenStore) indexAt(offset int) int {
	n := s.count()
	i := sort.Search(n, func(i int) bool {
		return s.offset(i) > offset
	})
	if i == 0 {
		return 0
	}
	if i == n && offset >= s.end() {
		return n
	}
	return i - 1
}

// add appends a token after the last stored one.
func (s *tokenStore) add(e *entry, las LAState) {
	e.raw = s.end() + s.gapLength
	if s.count() == s.gapIndex {
		s.gapStart = s.end()
	}
	s.entries.Append(e)
	s.lastates.Append(las)
	s.maxLookahead = max(s.maxLookahead, las.Lookahead)
}

// moveOffsetGap places the offset gap before the entry at index.
func (s *tokenStore) moveOffsetGap(index int) {
	if index == s.gapIndex {
		return
	}
	if index < s.gapIndex {
		for i := index; i < s.gapIndex; i++ {
			s.at(i).raw += s.gapLength
		}
	} else {
		for i := s.gapIndex; i < index; i++ {
			s.at(i).raw -= s.gapLength
		}
	}
	s.gapIndex = index
	if index < s.count() {
		s.gapStart = s.at(index).raw - s.gapLength
	} else if index > 0 {
		last := s.at(index - 1)
		s.gapStart = last.raw + last.tok.length
	} else {
		s.gapStart = 0
	}
}

// replace swaps removed entries at index for added ones. The added entries
// start at offset; entries after the replaced range shift by diff.
func (s *tokenStore) replace(index, removed int, added []*entry, las []LAState, offset, diff int) {
	if len(added) != len(las) {
		raise("replace", "%d entries but %d lookahead states", len(added), len(las))
	}
	if s.gapLength-diff < minOffsetGap {
		s.moveOffsetGap(s.count())
		s.gapLength = initialOffsetGap
		if s.gapLength-diff < 0 {
			raise("replace", "edit of %d characters exceeds offset gap", diff)
		}
	}

	s.moveOffsetGap(index + removed)
	dropsMax := false
	for i := index; i < index+removed && !dropsMax; i++ {
		dropsMax = s.laState(i).Lookahead >= s.maxLookahead
	}
	s.entries.Remove(index, removed)
	s.lastates.Remove(index, removed)

	addedMax := 0
	for i, e := range added {
		e.raw = offset
		offset += e.tok.length
		addedMax = max(addedMax, las[i].Lookahead)
	}
	s.entries.Insert(index, added...)
	s.lastates.Insert(index, las...)
	if dropsMax && addedMax < s.maxLookahead {
		s.recomputeMaxLookahead()
	} else {
		s.maxLookahead = max(s.maxLookahead, addedMax)
	}

	s.gapIndex = index + len(added)
	s.gapStart = offset
	s.gapLength -= diff
	if s.gapLength < 0 {
		raise("replace", "negative offset gap length %d", s.gapLength)
	}
}

// recomputeMaxLookahead scans the track after the token holding the largest
// lookahead left the store.
func (s *tokenStore) recomputeMaxLookahead() {
	s.maxLookahead = 0
	for _, las := range s.lastates.All() {
		s.maxLookahead = max(s.maxLookahead, las.Lookahead)
	}
}

// reset drops every entry.
func (s *tokenStore) reset() {
	s.entries.Clear()
	s.lastates.Clear()
	s.gapStart = 0
	s.gapLength = initialOffsetGap
	s.gapIndex = 0
	s.complete = false
	s.maxLookahead = 0
}
