// Package gaplist provides a gap buffer backed list.
//
// A GapList keeps one relocatable hole inside its backing array so that
// runs of inserts and removals near the same index only move the elements
// that have to cross the hole.
package gaplist

import "iter"

const minCapacity = 8

// GapList is an ordered sequence of values with a movable gap.
// The zero value is an empty list ready to use.
type GapList[T any] struct {
	data     []T
	gapStart int
	gapLen   int
}

// New returns an empty list with room for capacity elements.
func New[T any](capacity int) *GapList[T] {
	capacity = max(capacity, 0)
	return &GapList[T]{
		data:   make([]T, capacity),
		gapLen: capacity,
	}
}

// Len returns the number of elements.
func (l *GapList[T]) Len() int {
	return len(l.data) - l.gapLen
}

// GapStart returns the index the gap currently sits at.
func (l *GapList[T]) GapStart() int {
	return l.gapStart
}

// Get returns the element at index.
func (l *GapList[T]) Get(index int) T {
	l.checkIndex(index)
	return l.data[l.raw(index)]
}

// Append adds values at the end of the list.
func (l *GapList[T]) Append(values ...T) {
	l.Insert(l.Len(), values...)
}

// Insert adds values before index. An index equal to Len appends.
func (l *GapList[T]) Insert(index int, values ...T) {
	if index < 0 || index > l.Len() {
		panic("gaplist: insert index out of range")
	}
	if len(values) == 0 {
		return
	}
	l.MoveGap(index)
	l.ensureGap(len(values))
	copy(l.data[l.gapStart:], values)
	l.gapStart += len(values)
	l.gapLen -= len(values)
}

// Remove deletes count elements starting at index.
func (l *GapList[T]) Remove(index, count int) {
	if count == 0 {
		return
	}
	if index < 0 || count < 0 || index+count > l.Len() {
		panic("gaplist: remove range out of bounds")
	}
	l.MoveGap(index)
	clear(l.data[l.gapStart+l.gapLen : l.gapStart+l.gapLen+count])
	l.gapLen += count
}

// MoveGap relocates the gap so that it starts at index.
func (l *GapList[T]) MoveGap(index int) {
	if index < 0 || index > l.Len() {
		panic("gaplist: gap index out of range")
	}
	// Only the slots the copy leaves behind are cleared; the rest of the
	// gap is already zero.
	switch {
	case index < l.gapStart:
		copy(l.data[index+l.gapLen:], l.data[index:l.gapStart])
		clear(l.data[index:min(l.gapStart, index+l.gapLen)])
	case index > l.gapStart:
		copy(l.data[l.gapStart:], l.data[l.gapStart+l.gapLen:index+l.gapLen])
		clear(l.data[max(index, l.gapStart+l.gapLen) : index+l.gapLen])
	default:
		return
	}
	l.gapStart = index
}

// Clear removes every element but keeps the backing array.
func (l *GapList[T]) Clear() {
	clear(l.data)
	l.gapStart = 0
	l.gapLen = len(l.data)
}

// Slice copies the elements in [start, end) into a new slice.
func (l *GapList[T]) Slice(start, end int) []T {
	if start < 0 || end > l.Len() || start > end {
		panic("gaplist: slice range out of bounds")
	}
	out := make([]T, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, l.data[l.raw(i)])
	}
	return out
}

// All iterates over the elements in order.
func (l *GapList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range l.Len() {
			if !yield(i, l.data[l.raw(i)]) {
				return
			}
		}
	}
}

func (l *GapList[T]) raw(index int) int {
	if index < l.gapStart {
		return index
	}
	return index + l.gapLen
}

func (l *GapList[T]) checkIndex(index int) {
	if index < 0 || index >= l.Len() {
		panic("gaplist: index out of range")
	}
}

// ensureGap grows the backing array until the gap can take n more elements.
func (l *GapList[T]) ensureGap(n int) {
	if l.gapLen >= n {
		return
	}
	size := l.Len()
	capacity := max(2*len(l.data), size+n, minCapacity)
	data := make([]T, capacity)
	copy(data, l.data[:l.gapStart])
	tail := size - l.gapStart
	copy(data[capacity-tail:], l.data[l.gapStart+l.gapLen:])
	l.data = data
	l.gapLen = capacity - size
}
