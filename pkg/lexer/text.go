package lexer

import (
	"sort"
	"strings"
)

// Text is read access to the current characters of a document.
type Text interface {
	// Len returns the number of characters.
	Len() int

	// ByteAt returns the character at offset.
	ByteAt(offset int) byte

	// Slice returns the characters in [start, end).
	Slice(start, end int) string
}

// StringText adapts a string to Text.
type StringText string

// Len implements Text.
func (s StringText) Len() int { return len(s) }

// ByteAt implements Text.
func (s StringText) ByteAt(offset int) byte { return s[offset] }

// Slice implements Text.
func (s StringText) Slice(start, end int) string { return string(s[start:end]) }

// window is the region of a parent text an embedded list is lexed from.
type window struct {
	src    Text
	start  int
	length int
}

func (w window) Len() int { return w.length }

func (w window) ByteAt(offset int) byte { return w.src.ByteAt(w.start + offset) }

func (w window) Slice(start, end int) string { return w.src.Slice(w.start+start, w.start+end) }

// segment is one section of a joined text.
type segment struct {
	list   *EmbeddedList
	src    int // absolute document offset of the section
	start  int // joined offset of the section
	length int
}

// joinedText concatenates the content of several embedded lists.
type joinedText struct {
	doc  Text
	segs []segment
	size int
}

func newJoinedText(doc Text, lists []*EmbeddedList) *joinedText {
	jt := &joinedText{doc: doc, segs: make([]segment, 0, len(lists))}
	for _, etl := range lists {
		n := etl.contentLength()
		jt.segs = append(jt.segs, segment{list: etl, src: etl.base(), start: jt.size, length: n})
		jt.size += n
	}
	return jt
}

func (j *joinedText) Len() int { return j.size }

// segmentAt returns the index of the non-empty segment containing offset.
func (j *joinedText) segmentAt(offset int) int {
	i := sort.Search(len(j.segs), func(i int) bool {
		return j.segs[i].start+j.segs[i].length > offset
	})
	if i == len(j.segs) {
		raise("joined text", "offset %d beyond joined length %d", offset, j.size)
	}
	return i
}

func (j *joinedText) ByteAt(offset int) byte {
	seg := j.segs[j.segmentAt(offset)]
	return j.doc.ByteAt(seg.src + offset - seg.start)
}

func (j *joinedText) Slice(start, end int) string {
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	for i := j.segmentAt(start); start < end; i++ {
		seg := j.segs[i]
		stop := min(end, seg.start+seg.length)
		if stop > start {
			sb.WriteString(j.doc.Slice(seg.src+start-seg.start, seg.src+stop-seg.start))
			start = stop
		}
	}
	return sb.String()
}

// span is the piece of a joined range that lies in one segment.
type span struct {
	seg    int
	start  int // offset local to the segment
	length int
}

// split cuts the joined range [start, start+length) at section boundaries.
func (j *joinedText) split(start, length int) []span {
	var spans []span
	end := start + length
	for i := j.segmentAt(start); start < end; i++ {
		seg := j.segs[i]
		stop := min(end, seg.start+seg.length)
		if stop > start {
			spans = append(spans, span{seg: i, start: start - seg.start, length: stop - start})
			start = stop
		}
	}
	return spans
}

// preEditText reads the document as it was before mod, given the text after it.
type preEditText struct {
	post Text
	mod  Modification
}

func (p preEditText) Len() int {
	return p.post.Len() - p.mod.InsertedLength + p.mod.RemovedLength
}

func (p preEditText) ByteAt(offset int) byte {
	switch {
	case offset < p.mod.Offset:
		return p.post.ByteAt(offset)
	case offset < p.mod.Offset+p.mod.RemovedLength:
		return p.mod.RemovedText[offset-p.mod.Offset]
	default:
		return p.post.ByteAt(offset + p.mod.diff())
	}
}

func (p preEditText) Slice(start, end int) string {
	var sb strings.Builder
	sb.Grow(end - start)
	modEnd := p.mod.Offset + p.mod.RemovedLength
	if start < p.mod.Offset {
		sb.WriteString(p.post.Slice(start, min(end, p.mod.Offset)))
	}
	if lo, hi := max(start, p.mod.Offset), min(end, modEnd); lo < hi {
		sb.WriteString(p.mod.RemovedText[lo-p.mod.Offset : hi-p.mod.Offset])
	}
	if lo := max(start, modEnd); lo < end {
		sb.WriteString(p.post.Slice(lo+p.mod.diff(), end+p.mod.diff()))
	}
	return sb.String()
}
