package blockfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/egodb/ego/mem"
)

func TestBlocksVisitsEveryBlockInOrder(t *testing.T) {
	var f mem.File
	bf, err := Init(&f, 512, 5)
	require.NoError(t, err)
	for i := range int64(5) {
		require.NoError(t, bf.Write(bytes.Repeat([]byte{byte(i)}, 512), i))
	}

	buf := make([]byte, 512)
	var seen []int64
	for i, err := range bf.Blocks(buf) {
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{byte(i)}, 512), buf)
		seen = append(seen, i)
	}
	require.Equal(t, []int64{0, 1, 2, 3, 4}, seen)

	// restartable
	count := 0
	for _, err := range bf.Blocks(buf) {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 5, count)
}

func TestBlocksStopsEarly(t *testing.T) {
	var f mem.File
	bf, err := Init(&f, 512, 5)
	require.NoError(t, err)

	var last int64
	for i := range bf.Blocks(make([]byte, 512)) {
		last = i
		if i == 2 {
			break
		}
	}
	require.Equal(t, int64(2), last)
}

func TestBlocksYieldsReadError(t *testing.T) {
	var f mem.File
	bf, err := Init(&f, 512, 5)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(3*512))

	var indices []int64
	var failure error
	for i, err := range bf.Blocks(make([]byte, 512)) {
		indices = append(indices, i)
		failure = err
	}
	require.Equal(t, []int64{0, 1, 2}, indices)
	require.ErrorIs(t, failure, ErrIncompleteTransfer)
}

func TestBlocksUndersizedBuffer(t *testing.T) {
	var f mem.File
	bf, err := Init(&f, 512, 5)
	require.NoError(t, err)

	n := 0
	for _, err := range bf.Blocks(make([]byte, 10)) {
		require.ErrorIs(t, err, ErrInvalidArgument)
		n++
	}
	require.Equal(t, 1, n)
}
