package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/egodb/ego/blockfile"
)

func printHeader(w io.Writer, bf *blockfile.BlockFile) {
	h := bf.Header()
	fmt.Fprintf(w, "version:     %d\n", h.Version)
	fmt.Fprintf(w, "block size:  %d\n", h.BlockSize)
	fmt.Fprintf(w, "block count: %d\n", h.BlockCount)
	fmt.Fprintf(w, "file size:   %d\n", h.FileSize())
}

func dumpBlock(w io.Writer, bf *blockfile.BlockFile, block int64) error {
	buf := make([]byte, bf.Header().BlockSize)
	if err := bf.Read(buf, block); err != nil {
		return err
	}
	fmt.Fprintf(w, "block %d @ %d\n", block, bf.Header().Offset(block))
	d := hex.Dumper(w)
	d.Write(buf)
	return d.Close()
}

func printSums(w io.Writer, bf *blockfile.BlockFile) error {
	buf := make([]byte, bf.Header().BlockSize)
	for i, err := range bf.Blocks(buf) {
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%10d  %016x\n", i, xxhash.Sum64(buf))
	}
	return nil
}

// export writes a zstd stream whose decompressed content is a byte-for-byte
// image of the block file, header block included.
func export(w io.Writer, bf *blockfile.BlockFile) (n int64, err error) {
	h := bf.Header()
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer func() {
		if cerr := enc.Close(); err == nil {
			err = errors.WithStack(cerr)
		}
	}()

	record, err := blockfile.Serialize(h.BlockSize, h.BlockCount)
	if err != nil {
		return
	}
	buf := make([]byte, h.BlockSize)
	copy(buf, record)
	if _, err = enc.Write(buf); err != nil {
		return n, errors.WithStack(err)
	}

	for _, err = range bf.Blocks(buf) {
		if err != nil {
			return
		}
		if _, err = enc.Write(buf); err != nil {
			return n, errors.WithStack(err)
		}
		n++
	}
	return
}
