package lexer

import (
	"github.com/google/uuid"

	"github.com/yaklabco/relex/pkg/language"
)

// ChangeKind classifies a Change.
type ChangeKind uint8

const (
	// ChangeTokens means tokens of a live list were replaced.
	ChangeTokens ChangeKind = iota

	// ChangeEmbeddingAdded means an embedded list was created and lexed.
	ChangeEmbeddingAdded

	// ChangeEmbeddingRemoved means an embedded list was dropped together
	// with all of its tokens.
	ChangeEmbeddingRemoved
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeTokens:
		return "tokens"
	case ChangeEmbeddingAdded:
		return "embedding-added"
	case ChangeEmbeddingRemoved:
		return "embedding-removed"
	default:
		return "unknown"
	}
}

// Change describes what one update did to one list.
type Change struct {
	// Kind classifies the change.
	Kind ChangeKind

	// Path is the language path of the changed list.
	Path language.Path

	// List is the list that changed. For removed embeddings it is the
	// detached list.
	List TokenList

	// Index is the index of the first replaced token.
	Index int

	// Offset is the document offset of the first replaced token after the edit.
	Offset int

	// Removed holds the tokens taken out of the list.
	Removed *RemovedList

	// Added holds the tokens put into the list, starting at Index.
	Added []*Token

	// AddedLength is the total length of Added.
	AddedLength int

	// BoundsChange is set when a single token was replaced by a token of the
	// same kind that only grew or shrank.
	BoundsChange bool

	// Embedded holds the changes of lists embedded in this one.
	Embedded []*Change
}

// RemovedCount returns the number of removed tokens.
func (c *Change) RemovedCount() int {
	if c.Removed == nil {
		return 0
	}
	return c.Removed.Len()
}

// AddedCount returns the number of added tokens.
func (c *Change) AddedCount() int {
	return len(c.Added)
}

// Empty reports whether neither this change nor its children touched a token.
func (c *Change) Empty() bool {
	if c.RemovedCount() > 0 || c.AddedCount() > 0 || c.Kind != ChangeTokens {
		return false
	}
	for _, child := range c.Embedded {
		if !child.Empty() {
			return false
		}
	}
	return true
}

// Walk visits c and its embedded changes depth first.
func (c *Change) Walk(fn func(c *Change, depth int)) {
	c.walk(fn, 0)
}

func (c *Change) walk(fn func(c *Change, depth int), depth int) {
	fn(c, depth)
	for _, child := range c.Embedded {
		child.walk(fn, depth+1)
	}
}

// Event is the result of one hierarchy update.
type Event struct {
	// Hierarchy identifies the hierarchy that produced the event.
	Hierarchy uuid.UUID

	// Modification is the edit that was applied.
	Modification Modification

	// Root is the change of the top level list. Embedded changes hang off it.
	Root *Change

	// AffectedStart and AffectedEnd bound, in document offsets after the
	// edit, every token that was added or relexed at any level.
	AffectedStart int
	AffectedEnd   int
}

// AffectedRange returns [AffectedStart, AffectedEnd).
func (e *Event) AffectedRange() (int, int) {
	return e.AffectedStart, e.AffectedEnd
}

// computeAffected sets the affected range from the change tree.
func (e *Event) computeAffected() {
	start, end := e.Modification.Offset, e.Modification.Offset+e.Modification.InsertedLength
	e.Root.Walk(func(c *Change, _ int) {
		if c.Kind == ChangeTokens && c.RemovedCount() == 0 && c.AddedCount() == 0 {
			return
		}
		start = min(start, c.Offset)
		end = max(end, c.Offset+c.AddedLength)
	})
	e.AffectedStart, e.AffectedEnd = start, end
}
