// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package blockfile

import (
	"iter"

	"github.com/pkg/errors"
)

// Blocks returns a sequence over every block index in ascending order.
// Each step reads the block into buffer before yielding its index, so buffer
// holds that block's content until the next step. A failed read is yielded
// with its error and ends the sequence. The sequence can be ranged over again
// to restart from block 0.
//
//	for i, err := range bf.Blocks(buf) {
//	    if err != nil {
//	        return err
//	    }
//	    // buf[:BlockSize] holds block i
//	}
func (bf *BlockFile) Blocks(buffer []byte) iter.Seq2[int64, error] {
	return func(yield func(int64, error) bool) {
		if len(buffer) < bf.header.BlockSize {
			yield(0, errors.Wrapf(ErrInvalidArgument, "buffer has %d bytes, block size is %d",
				len(buffer), bf.header.BlockSize))
			return
		}
		for i := range bf.header.BlockCount {
			if err := bf.Read(buffer, i); err != nil {
				yield(i, err)
				return
			}
			if !yield(i, nil) {
				return
			}
		}
	}
}
