// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package mem provides an in-memory implementation of ego.File.
package mem

import (
	"io"
	"sync"

	"github.com/egodb/ego"
)

// File is an in-memory implementation of the ego.File interface.
// It is safe for concurrent use by multiple goroutines.
//
// File requires no initialization - just declare and use:
//
//	var f File
//	f.WriteAt([]byte("hello"), 0)
type File struct {
	rw    sync.RWMutex
	data  []byte
	limit int
	syncs int
}

var (
	_ ego.File  = new(File)
	_ ego.Sizer = new(File)
)

// Close discards the file content. The file may be reused afterwards.
func (file *File) Close() error {
	file.rw.Lock()
	file.data = nil
	file.rw.Unlock()
	return nil
}

// Size returns the current size of the file in bytes.
func (file *File) Size() int64 {
	file.rw.RLock()
	defer file.rw.RUnlock()
	return int64(len(file.data))
}

// Bytes returns a copy of the file content.
func (file *File) Bytes() []byte {
	file.rw.RLock()
	defer file.rw.RUnlock()
	return append([]byte(nil), file.data...)
}

// Syncs reports how many times Sync has been called.
func (file *File) Syncs() int {
	file.rw.RLock()
	defer file.rw.RUnlock()
	return file.syncs
}

// SetTransferLimit caps the number of bytes a single ReadAt or WriteAt moves,
// simulating a device that performs partial I/O. Zero removes the cap.
func (file *File) SetTransferLimit(n int) {
	file.rw.Lock()
	file.limit = n
	file.rw.Unlock()
}

// WriteAt writes len(p) bytes from p to the file starting at byte offset off.
//
// If the write extends beyond the current size, the file grows and the gap is
// filled with zero bytes. A write cut short by the transfer limit returns
// io.ErrShortWrite.
func (file *File) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	file.rw.Lock()
	defer file.rw.Unlock()

	short := file.limit > 0 && len(p) > file.limit
	if short {
		p = p[:file.limit]
	}
	if end := off + int64(len(p)); end > int64(len(file.data)) {
		file.data = grow(file.data, end)
	}
	n = copy(file.data[off:], p)
	if short {
		err = io.ErrShortWrite
	}
	return
}

// ReadAt reads len(p) bytes into p starting at byte offset off in the file.
// It returns io.EOF when fewer than len(p) bytes are available.
func (file *File) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	file.rw.RLock()
	defer file.rw.RUnlock()

	if off >= int64(len(file.data)) {
		return 0, io.EOF
	}
	want := len(p)
	if file.limit > 0 && want > file.limit {
		want = file.limit
	}
	n = copy(p[:want], file.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Truncate changes the size of the file.
// Growing fills the new space with zero bytes.
func (file *File) Truncate(size int64) error {
	if size < 0 {
		return io.ErrUnexpectedEOF
	}
	file.rw.Lock()
	if size > int64(len(file.data)) {
		file.data = grow(file.data, size)
	} else {
		file.data = file.data[:size]
	}
	file.rw.Unlock()
	return nil
}

// Sync only records the call; memory needs no flushing.
func (file *File) Sync() error {
	file.rw.Lock()
	file.syncs++
	file.rw.Unlock()
	return nil
}

func grow(data []byte, size int64) []byte {
	if int64(cap(data)) >= size {
		tail := data[len(data):size]
		clear(tail)
		return data[:size]
	}
	out := make([]byte, size)
	copy(out, data)
	return out
}
