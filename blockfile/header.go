// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package blockfile

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/egodb/ego"
)

// Header is the metadata record stored at the start of the first block.
// It is written once by Init and never modified afterwards.
//
// Layout, big-endian:
//
//	magic length  uint16 (3)
//	magic         "EGO"
//	version       int32
//	block size    int32
//	block count   int64
type Header struct {
	Version    int
	BlockSize  int
	BlockCount int64
}

const recordSize = 2 + len(ego.Magic) + 4 + 4 + 8

// FileSize returns the length of the backing storage described by the header.
func (h Header) FileSize() int64 {
	return (h.BlockCount + 1) * int64(h.BlockSize)
}

// Offset maps a logical block index to its physical byte offset.
func (h Header) Offset(block int64) int64 {
	return (block + 1) * int64(h.BlockSize)
}

// Serialize encodes the header record for a file of blockCount blocks of
// blockSize bytes. The result is not padded; the first block must be
// zero-filled up to blockSize before it is written.
func Serialize(blockSize int, blockCount int64) ([]byte, error) {
	if blockSize < 0 || blockSize > math.MaxInt32 {
		return nil, errors.Wrapf(ErrEncoding, "block size %d does not fit int32", blockSize)
	}

	p := make([]byte, 0, recordSize)
	p = binary.BigEndian.AppendUint16(p, uint16(len(ego.Magic)))
	p = append(p, ego.Magic...)
	p = binary.BigEndian.AppendUint32(p, uint32(ego.Version))
	p = binary.BigEndian.AppendUint32(p, uint32(blockSize))
	p = binary.BigEndian.AppendUint64(p, uint64(blockCount))

	if len(p) > ego.HeaderSize {
		return nil, errors.Wrapf(ErrEncoding, "header record is %d bytes, limit %d", len(p), ego.HeaderSize)
	}
	return p, nil
}

// Parse decodes the header record from the start of p, which is normally the
// first HeaderSize bytes of the file.
func Parse(p []byte) (h Header, err error) {
	if len(p) < 2 {
		err = errors.Wrap(ErrCorruptHeader, "missing magic")
		return
	}
	n := int(binary.BigEndian.Uint16(p))
	p = p[2:]
	if n != len(ego.Magic) || len(p) < n || string(p[:n]) != ego.Magic {
		err = errors.Wrapf(ErrCorruptHeader, "missing magic bytes %q", p[:min(n, len(p))])
		return
	}
	p = p[n:]

	if len(p) < 16 {
		err = errors.Wrapf(ErrCorruptHeader, "record truncated after magic: %d bytes left", len(p))
		return
	}
	h.Version = int(int32(binary.BigEndian.Uint32(p[0:])))
	h.BlockSize = int(int32(binary.BigEndian.Uint32(p[4:])))
	h.BlockCount = int64(binary.BigEndian.Uint64(p[8:]))

	if h.Version != ego.Version {
		err = errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
		return
	}
	if h.BlockSize < ego.HeaderSize {
		err = errors.Wrapf(ErrCorruptHeader, "block size %d below %d", h.BlockSize, ego.HeaderSize)
		return
	}
	if h.BlockCount <= 0 || h.BlockCount >= math.MaxInt64/int64(h.BlockSize) {
		err = errors.Wrapf(ErrCorruptHeader, "block count %d", h.BlockCount)
		return
	}
	return
}
