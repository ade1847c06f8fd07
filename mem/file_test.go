package mem

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAtGrowsWithZeroGap(t *testing.T) {
	var f File

	n, err := f.WriteAt([]byte("abc"), 5)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, int64(8), f.Size())
	require.Equal(t, []byte{0, 0, 0, 0, 0, 'a', 'b', 'c'}, f.Bytes())
}

func TestReadAtPastEnd(t *testing.T) {
	var f File
	require.NoError(t, f.Truncate(4))

	buf := make([]byte, 8)
	n, err := f.ReadAt(buf, 0)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 4, n)

	n, err = f.ReadAt(buf, 4)
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, n)
}

func TestNegativeOffset(t *testing.T) {
	var f File
	_, err := f.WriteAt([]byte{1}, -1)
	require.Error(t, err)
	_, err = f.ReadAt(make([]byte, 1), -1)
	require.Error(t, err)
}

func TestTruncateShrinkThenGrowClears(t *testing.T) {
	var f File
	_, err := f.WriteAt([]byte{1, 2, 3, 4}, 0)
	require.NoError(t, err)

	require.NoError(t, f.Truncate(2))
	require.Equal(t, []byte{1, 2}, f.Bytes())

	require.NoError(t, f.Truncate(4))
	require.Equal(t, []byte{1, 2, 0, 0}, f.Bytes())
}

func TestTransferLimit(t *testing.T) {
	var f File
	require.NoError(t, f.Truncate(16))
	f.SetTransferLimit(3)

	n, err := f.WriteAt([]byte{9, 9, 9, 9, 9}, 0)
	require.ErrorIs(t, err, io.ErrShortWrite)
	require.Equal(t, 3, n)

	buf := make([]byte, 5)
	n, err = f.ReadAt(buf, 0)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{9, 9, 9, 0, 0}, buf)

	f.SetTransferLimit(0)
	n, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestSyncAndClose(t *testing.T) {
	var f File
	require.NoError(t, f.Sync())
	require.NoError(t, f.Sync())
	require.Equal(t, 2, f.Syncs())

	_, err := f.WriteAt([]byte{1}, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Zero(t, f.Size())
}

func TestConcurrentDisjointWrites(t *testing.T) {
	var f File
	require.NoError(t, f.Truncate(64*8))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := make([]byte, 64)
			for j := range p {
				p[j] = byte(i)
			}
			_, err := f.WriteAt(p, int64(i)*64)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	data := f.Bytes()
	for i := range 8 {
		for _, b := range data[i*64 : (i+1)*64] {
			require.Equal(t, byte(i), b)
		}
	}
}
