package lexer

import (
	"strings"

	"github.com/yaklabco/relex/pkg/gaplist"
	"github.com/yaklabco/relex/pkg/language"
)

// Snapshot is a read-only view of the top level list and its text as they
// were when the snapshot was taken. It shares tokens with the live list and
// keeps copies only of what later updates replaced, so it is cheap while
// the document changes little. A Snapshot may be read from any goroutine.
type Snapshot struct {
	h *Hierarchy

	// Tokens [0, liveStart) are live ones. When frozen is set they are
	// followed by orig and then by the live tokens from liveEnd on, whose
	// offsets are offsetDiff ahead of the snapshot ones.
	frozen     bool
	liveStart  int
	orig       gaplist.GapList[frozenToken]
	liveEnd    int
	offsetDiff int

	// Text [tStart, tStart+len(tFrozen)) is held in tFrozen; past it the live
	// text is textDiff ahead.
	textFrozen bool
	tStart     int
	tFrozen    string
	textDiff   int
	textLen    int

	released bool
}

// Snapshot lexes the rest of the input and returns a snapshot of the top
// level list. Release it once it is no longer read.
func (h *Hierarchy) Snapshot() *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lexAllRoot()
	s := &Snapshot{h: h, textLen: h.text.Len()}
	h.snapshots = append(h.snapshots, s)
	h.diag.Debug("snapshot created", "id", h.id, "tokens", h.root.ts.count(), "open", len(h.snapshots))
	return s
}

// Release detaches the snapshot from the hierarchy. It reads as empty afterwards.
func (s *Snapshot) Release() {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.invalidate()
	for i, x := range s.h.snapshots {
		if x == s {
			s.h.snapshots = append(s.h.snapshots[:i], s.h.snapshots[i+1:]...)
			break
		}
	}
}

// Valid reports whether the snapshot can still be read. Releasing it or a
// rebuild of the hierarchy invalidates it.
func (s *Snapshot) Valid() bool {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return !s.released
}

func (s *Snapshot) invalidate() {
	s.released = true
	s.orig.Clear()
	s.tFrozen = ""
}

// Path implements TokenList.
func (s *Snapshot) Path() language.Path { return s.h.root.path }

// Len implements TokenList.
func (s *Snapshot) Len() int {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.length()
}

func (s *Snapshot) length() int {
	if s.released {
		return 0
	}
	n := s.h.root.ts.count()
	if !s.frozen {
		return n
	}
	return s.liveStart + s.orig.Len() + n - s.liveEnd
}

// Token implements TokenList.
func (s *Snapshot) Token(i int) *Token {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.token(i).tok
}

// Offset implements TokenList.
func (s *Snapshot) Offset(i int) int {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.token(i).offset
}

// LAState implements TokenList.
func (s *Snapshot) LAState(i int) LAState {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.token(i).las
}

// Text implements TokenList.
func (s *Snapshot) Text(i int) (string, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	if s.released {
		return "", unsupported("released snapshot text")
	}
	if i < 0 || i >= s.length() {
		return "", ErrOutOfRange
	}
	ft := s.token(i)
	return s.slice(ft.offset, ft.offset+ft.tok.length), nil
}

// Embedded always fails: snapshots cover the top level list only.
func (s *Snapshot) Embedded(int) (*EmbeddedList, error) {
	return nil, unsupported("snapshot embedding")
}

// TextLen returns the length of the text seen by the snapshot.
func (s *Snapshot) TextLen() int {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.textLen
}

// Slice returns the characters in [start, end) of the text seen by the
// snapshot.
func (s *Snapshot) Slice(start, end int) (string, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	switch {
	case s.released:
		return "", unsupported("released snapshot text")
	case start < 0 || end > s.textLen || start > end:
		return "", ErrOutOfRange
	}
	return s.slice(start, end), nil
}

func (s *Snapshot) token(i int) frozenToken {
	if s.released {
		raise("snapshot", "read token %d of released snapshot", i)
	}
	st := s.h.root.ts
	switch {
	case !s.frozen || i < s.liveStart:
		return frozenToken{tok: st.at(i).tok, offset: st.offset(i), las: st.laState(i)}
	case i < s.liveStart+s.orig.Len():
		return s.orig.Get(i - s.liveStart)
	default:
		li := i - s.liveStart - s.orig.Len() + s.liveEnd
		return frozenToken{tok: st.at(li).tok, offset: st.offset(li) - s.offsetDiff, las: st.laState(li)}
	}
}

func (s *Snapshot) slice(start, end int) string {
	live := s.h.text
	if !s.textFrozen {
		return live.Slice(start, end)
	}
	fEnd := s.tStart + len(s.tFrozen)
	var sb strings.Builder
	sb.Grow(end - start)
	if start < s.tStart {
		sb.WriteString(live.Slice(start, min(end, s.tStart)))
	}
	if lo, hi := max(start, s.tStart), min(end, fEnd); lo < hi {
		sb.WriteString(s.tFrozen[lo-s.tStart : hi-s.tStart])
	}
	if lo := max(start, fEnd); lo < end {
		sb.WriteString(live.Slice(lo+s.textDiff, end+s.textDiff))
	}
	return sb.String()
}

// beforeReplace preserves what a top level replacement is about to hide.
// The text already holds the edit; the store does not yet.
func (s *Snapshot) beforeReplace(res *relexResult, mod Modification) {
	if s.released {
		return
	}
	s.freeze(res.index, res.index+len(res.removedEntries), len(res.added), res.diff)
	s.freezeText(mod)
}

// canModifyToken reports whether the live token at index i is invisible to
// the snapshot.
func (s *Snapshot) canModifyToken(i int) bool {
	return s.released || (s.frozen && i >= s.liveStart && i < s.liveEnd)
}

// freezeToken copies the live token at index i into the snapshot.
func (s *Snapshot) freezeToken(i int) {
	s.freeze(i, i+1, 1, 0)
}

// freeze widens the frozen region so it covers the live range [from, to)
// that is about to be replaced by added tokens shifting later ones by diff.
func (s *Snapshot) freeze(from, to, added, diff int) {
	st := s.h.root.ts
	if !s.frozen {
		s.frozen = true
		s.liveStart, s.liveEnd = from, from
	}
	for i := s.liveStart - 1; i >= from; i-- {
		s.orig.Insert(0, frozenToken{tok: st.at(i).tok, offset: st.offset(i), las: st.laState(i)})
	}
	s.liveStart = min(s.liveStart, from)
	for i := s.liveEnd; i < to; i++ {
		s.orig.Append(frozenToken{tok: st.at(i).tok, offset: st.offset(i) - s.offsetDiff, las: st.laState(i)})
	}
	s.liveEnd = max(s.liveEnd, to) + added - (to - from)
	s.offsetDiff += diff
}

// freezeText keeps the characters mod replaced.
func (s *Snapshot) freezeText(mod Modification) {
	if mod.RemovedLength == 0 && mod.InsertedLength == 0 {
		return
	}
	pre := preEditText{post: s.h.text, mod: mod}
	modEnd := mod.removedEnd()
	if !s.textFrozen {
		s.textFrozen = true
		s.tStart = mod.Offset
		s.tFrozen = pre.Slice(mod.Offset, modEnd)
		s.textDiff = mod.diff()
		return
	}
	// Live coordinates before the edit.
	fEndLive := s.tStart + len(s.tFrozen) + s.textDiff
	var sb strings.Builder
	if mod.Offset < s.tStart {
		sb.WriteString(pre.Slice(mod.Offset, s.tStart))
	}
	sb.WriteString(s.tFrozen)
	if modEnd > fEndLive {
		sb.WriteString(pre.Slice(fEndLive, modEnd))
	}
	s.tStart = min(s.tStart, mod.Offset)
	s.tFrozen = sb.String()
	s.textDiff += mod.diff()
}
