package unsafecast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	words := []uint32{1, 2, 3}
	raw := Slice[uint32, byte](words)
	require.Len(t, raw, 12)

	back := Slice[byte, uint32](raw)
	require.Equal(t, words, back)

	back[1] = 7
	require.Equal(t, uint32(7), words[1], "cast must alias the original memory")
}

func TestSliceEmpty(t *testing.T) {
	require.Nil(t, Slice[byte, uint64](nil))
	require.Equal(t, 8, Sizeof[uint64]())
}
