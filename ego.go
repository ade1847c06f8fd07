// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package ego defines the storage backend and the on-disk constants shared by
// the block file packages.
package ego

import "io"

// File provides access to a storage backend for a block file.
// All transfers are positioned; implementations must allow concurrent
// ReadAt and WriteAt calls on non-overlapping ranges.
//
// The *os.File type satisfies this interface.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Truncate changes the size of the file.
	Truncate(size int64) error

	// Sync commits the current contents of the file to stable storage.
	Sync() error
}

// Sizer is implemented by backends able to report their length without I/O.
type Sizer interface {
	Size() int64
}

const (
	// Magic identifies a block file. It is stored length-prefixed.
	Magic = "EGO"

	// Version is the current format version.
	Version = 1

	// HeaderSize is the fixed payload size reserved for the header record
	// at the start of the first block. It is also the minimum block size.
	HeaderSize = 512
)
