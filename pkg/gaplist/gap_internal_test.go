package gaplist

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// requireZeroGap fails unless every slot of the gap holds the zero value,
// so removed elements are not kept alive by the backing array.
func requireZeroGap(t require.TestingT, l *GapList[*int]) {
	for i, v := range l.data[l.gapStart : l.gapStart+l.gapLen] {
		require.Nil(t, v, "gap slot %d", l.gapStart+i)
	}
}

func TestMoveGap_ClearsVacatedSlots(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		l := New[*int](rapid.IntRange(0, 16).Draw(rt, "capacity"))
		for step := range rapid.IntRange(1, 40).Draw(rt, "steps") {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				v := step
				l.Insert(rapid.IntRange(0, l.Len()).Draw(rt, "at"), &v)
			case 1:
				if l.Len() == 0 {
					continue
				}
				at := rapid.IntRange(0, l.Len()-1).Draw(rt, "at")
				l.Remove(at, rapid.IntRange(0, l.Len()-at).Draw(rt, "count"))
			default:
				l.MoveGap(rapid.IntRange(0, l.Len()).Draw(rt, "gap"))
			}
			requireZeroGap(rt, l)
		}
	})
}

func TestMoveGap_LargeGapShortMove(t *testing.T) {
	t.Parallel()

	l := New[*int](1 << 16)
	vals := []int{1, 2, 3, 4}
	for i := range vals {
		l.Append(&vals[i])
	}
	for i := range 2000 {
		l.MoveGap(1 + i%3)
		requireZeroGap(t, l)
	}
	for i := range vals {
		require.Equal(t, vals[i], *l.Get(i))
	}
}

func BenchmarkMoveGap_OneStep(b *testing.B) {
	for _, gap := range []int{1 << 11, 1 << 15, 1 << 19} {
		b.Run("gap"+strconv.Itoa(gap), func(b *testing.B) {
			l := New[int](gap)
			l.Append(1, 2, 3)
			for i := 0; b.Loop(); i++ {
				l.MoveGap(1 + i%2)
			}
		})
	}
}
