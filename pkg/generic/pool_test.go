package generic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	created := 0
	p := NewResetPool(func() *[]int {
		created++
		s := make([]int, 0, 8)
		return &s
	}, func(s *[]int) { *s = (*s)[:0] })

	s := p.Get()
	require.Equal(t, 1, created)
	*s = append(*s, 1, 2, 3)
	p.Put(s)
	require.Empty(t, *s, "reset runs on Put")

	got := p.Get()
	require.Empty(t, *got)
	require.GreaterOrEqual(t, cap(*got), 8)
}

func TestPoolWithoutReset(t *testing.T) {
	p := NewPool(func() []byte { return make([]byte, 4) })
	b := p.Get()
	require.Len(t, b, 4)
	p.Put(b)
}
