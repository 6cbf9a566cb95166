package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterator(t *testing.T) {
	t.Run("FromCollect", func(t *testing.T) {
		require.Equal(t, []int{1, 2, 3}, From([]int{1, 2, 3}).Collect())
		require.Empty(t, From[int](nil).Collect())
	})

	t.Run("FilterTake", func(t *testing.T) {
		got := From([]int{1, 2, 3, 4, 5, 6}).Filter(func(v int) bool { return v%2 == 0 }).Take(2).Collect()
		require.Equal(t, []int{2, 4}, got)
		require.Empty(t, From([]int{1}).Take(0).Collect())
	})

	t.Run("TakeStopsSource", func(t *testing.T) {
		pulled := 0
		it := FromSeq(func(yield func(int) bool) {
			for i := 0; ; i++ {
				pulled++
				if !yield(i) {
					return
				}
			}
		})
		require.Equal(t, []int{0, 1, 2}, it.Take(3).Collect())
		require.Equal(t, 3, pulled)
	})

	t.Run("Reduce", func(t *testing.T) {
		require.Equal(t, 10, From([]int{1, 2, 3, 4}).Reduce(0, func(a, b int) int { return a + b }))
	})

	t.Run("FirstAnyCount", func(t *testing.T) {
		v, ok := From([]string{"a", "b"}).First()
		require.True(t, ok)
		require.Equal(t, "a", v)
		_, ok = From[string](nil).First()
		require.False(t, ok)
		require.True(t, From([]int{1, 5}).Any(func(v int) bool { return v > 4 }))
		require.Equal(t, 2, From([]int{1, 5}).Count())
	})

	t.Run("MapChain", func(t *testing.T) {
		doubled := Map(From([]int{1, 2}), func(v int) int { return v * 2 })
		require.Equal(t, []int{2, 4, 7}, Chain(doubled, From([]int{7})).Collect())
		require.Equal(t, []int{2}, Chain(From([]int{2, 3}), From([]int{9})).Take(1).Collect())
	})

	t.Run("Channel", func(t *testing.T) {
		ch := make(chan int, 3)
		ch <- 1
		ch <- 2
		close(ch)
		require.Equal(t, []int{1, 2}, FromChannel(ch).Collect())
	})

	t.Run("Pull", func(t *testing.T) {
		next, stop := From([]int{4, 5}).Pull()
		defer stop()
		v, ok := next()
		require.True(t, ok)
		require.Equal(t, 4, v)
	})
}
