package bench

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceSequential(t *testing.T) {
	require.Equal(t, []int64{0, 1, 2, 3, 4}, Sequence(5, Sequential, nil))
}

func TestSequenceRandomIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seq := Sequence(1000, Random, rng)
	require.Len(t, seq, 1000)
	require.NotEqual(t, Sequence(1000, Sequential, nil), seq)

	sorted := slices.Clone(seq)
	slices.Sort(sorted)
	require.Equal(t, Sequence(1000, Sequential, nil), sorted)
}

func TestParseStrategies(t *testing.T) {
	s, err := ParseAccessStrategy("RANDOM")
	require.NoError(t, err)
	require.Equal(t, Random, s)
	s, err = ParseAccessStrategy("sequential")
	require.NoError(t, err)
	require.Equal(t, Sequential, s)
	_, err = ParseAccessStrategy("zigzag")
	require.Error(t, err)

	a, err := ParseBufferAllocation("OFF_HEAP")
	require.NoError(t, err)
	require.Equal(t, Mmap, a)
	a, err = ParseBufferAllocation("heap")
	require.NoError(t, err)
	require.Equal(t, Heap, a)
	_, err = ParseBufferAllocation("gpu")
	require.Error(t, err)
}

func TestAllocate(t *testing.T) {
	for _, alloc := range []BufferAllocation{Heap, Mmap} {
		t.Run(alloc.String(), func(t *testing.T) {
			buf, err := Allocate(4096, alloc)
			require.NoError(t, err)
			require.Len(t, buf.B, 4096)
			require.Equal(t, make([]byte, 4096), []byte(buf.B))

			buf.B[0], buf.B[4095] = 1, 2
			require.NoError(t, buf.Release())
			require.Nil(t, buf.B)
			require.NoError(t, buf.Release())
		})
	}

	_, err := Allocate(0, Heap)
	require.Error(t, err)
}
