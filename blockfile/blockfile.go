// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package blockfile implements a file divided into equal-sized blocks.
//
// The first block holds the Header; data blocks are addressed by a zero-based
// index, and block i lives at byte offset (i+1)*BlockSize. The file length is
// fixed at creation. Every Read and Write is a single positioned transfer of
// exactly one block; nothing is cached.
//
// Read and Write may be called concurrently on non-overlapping blocks.
// Concurrent access to the same block has no atomicity guarantee.
package blockfile

import (
	"io"
	"math"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/egodb/ego"
)

type File = ego.File

// BlockFile is an open block file. It exclusively owns its backend.
type BlockFile struct {
	file   File
	header Header
	closed atomic.Bool
}

// Create creates (or truncates) the file at path and initializes it with
// blockCount blocks of blockSize bytes. On failure the file is removed.
func Create(path string, blockSize int, blockCount int64, opts ...Option) (bf *BlockFile, err error) {
	if err = validate(blockSize, blockCount); err != nil {
		return
	}

	o := newOptions(opts)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, o.mode)
	if err != nil {
		err = ego.NewIOError("create", 0, err)
		return
	}

	if bf, err = Init(file, blockSize, blockCount, opts...); err != nil {
		file.Close()
		os.Remove(path)
	}
	return
}

// Open opens an existing block file at path for reading and writing.
func Open(path string) (bf *BlockFile, err error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = errors.Wrapf(ErrNotFound, "%s", path)
		} else {
			err = ego.NewIOError("open", 0, err)
		}
		return
	}

	if bf, err = Load(file); err != nil {
		file.Close()
	}
	return
}

// Init writes a fresh header to file and sizes it to hold blockCount blocks
// of blockSize bytes. Existing content is overwritten.
func Init(file File, blockSize int, blockCount int64, opts ...Option) (*BlockFile, error) {
	if err := validate(blockSize, blockCount); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	record, err := Serialize(blockSize, blockCount)
	if err != nil {
		return nil, err
	}

	header := Header{
		Version:    ego.Version,
		BlockSize:  blockSize,
		BlockCount: blockCount,
	}
	size := header.FileSize()

	if err = file.Truncate(size); err != nil {
		return nil, ego.NewIOError("truncate", size, err)
	}
	if o.preallocate {
		if err = preallocate(file, size); err != nil {
			return nil, err
		}
	}

	block := make([]byte, blockSize)
	copy(block, record)
	n, err := file.WriteAt(block, 0)
	if err = transferred("write header", 0, n, blockSize, err); err != nil {
		return nil, err
	}

	if o.sync {
		if err = file.Sync(); err != nil {
			return nil, ego.NewIOError("sync", 0, err)
		}
	}

	return &BlockFile{file: file, header: header}, nil
}

// Load reads and validates the header of an already open file.
func Load(file File) (*BlockFile, error) {
	buffer := make([]byte, ego.HeaderSize)
	n, err := file.ReadAt(buffer, 0)
	if n < len(buffer) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(ErrFileTruncated, "header needs %d bytes, file has %d", len(buffer), n)
		}
		return nil, ego.NewIOError("read header", 0, err)
	}

	header, err := Parse(buffer)
	if err != nil {
		return nil, err
	}

	size := header.FileSize()
	if s, ok := file.(ego.Sizer); ok {
		if s.Size() < size {
			return nil, errors.Wrapf(ErrFileTruncated, "expected %d bytes, file has %d", size, s.Size())
		}
	} else if _, err = file.ReadAt([]byte{0}, size-1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(ErrFileTruncated, "expected %d bytes", size)
		}
		return nil, ego.NewIOError("read", size-1, err)
	}

	return &BlockFile{file: file, header: header}, nil
}

// Header returns the metadata loaded when the file was opened.
func (bf *BlockFile) Header() Header {
	return bf.header
}

// File returns the backend.
func (bf *BlockFile) File() File {
	return bf.file
}

// Read fills the first BlockSize bytes of buffer with the content of block.
func (bf *BlockFile) Read(buffer []byte, block int64) error {
	off, err := bf.check(buffer, block)
	if err != nil {
		return err
	}
	n, err := bf.file.ReadAt(buffer[:bf.header.BlockSize], off)
	return transferred("read", off, n, bf.header.BlockSize, err)
}

// Write stores the first BlockSize bytes of buffer into block.
// A failed write may leave the block partially overwritten.
func (bf *BlockFile) Write(buffer []byte, block int64) error {
	off, err := bf.check(buffer, block)
	if err != nil {
		return err
	}
	n, err := bf.file.WriteAt(buffer[:bf.header.BlockSize], off)
	return transferred("write", off, n, bf.header.BlockSize, err)
}

// Sync commits written blocks to stable storage.
func (bf *BlockFile) Sync() error {
	if bf.closed.Load() {
		return ErrClosed
	}
	if err := bf.file.Sync(); err != nil {
		return ego.NewIOError("sync", 0, err)
	}
	return nil
}

// Close releases the backend. Any later call fails with ErrClosed.
func (bf *BlockFile) Close() error {
	if bf.closed.Swap(true) {
		return ErrClosed
	}
	if err := bf.file.Close(); err != nil {
		return ego.NewIOError("close", 0, err)
	}
	return nil
}

func (bf *BlockFile) check(buffer []byte, block int64) (int64, error) {
	if bf.closed.Load() {
		return 0, ErrClosed
	}
	if len(buffer) < bf.header.BlockSize {
		return 0, errors.Wrapf(ErrInvalidArgument, "buffer has %d bytes, block size is %d",
			len(buffer), bf.header.BlockSize)
	}
	if block < 0 || block >= bf.header.BlockCount {
		return 0, errors.Wrapf(ErrOutOfRange, "block %d not in [0, %d)", block, bf.header.BlockCount)
	}
	return bf.header.Offset(block), nil
}

func validate(blockSize int, blockCount int64) error {
	if blockSize <= 0 || blockCount <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "block size %d, block count %d", blockSize, blockCount)
	}
	if blockSize < ego.HeaderSize {
		return errors.Wrapf(ErrInvalidArgument, "block size %d cannot hold the %d byte header",
			blockSize, ego.HeaderSize)
	}
	if blockSize > math.MaxInt32 || blockCount >= math.MaxInt64/int64(blockSize) {
		return errors.Wrapf(ErrInvalidArgument, "file of %d blocks of %d bytes is too large",
			blockCount, blockSize)
	}
	return nil
}

// transferred turns a short transfer into ErrIncompleteTransfer and any other
// backend failure into an IOError.
func transferred(op string, off int64, n, want int, err error) error {
	if n == want {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrShortWrite) {
		return errors.Wrapf(ErrIncompleteTransfer, "%s at offset %d: transferred %d of %d bytes", op, off, n, want)
	}
	return ego.NewIOError(op, off, err)
}
