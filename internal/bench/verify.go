// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

const tagSize = 8

// ErrChecksum reports a block whose content does not match its tag.
var ErrChecksum = errors.New("block checksum mismatch")

// Tag fills block with pseudo-random bytes and stores their xxhash in the
// first eight bytes.
func Tag(block []byte, rng *rand.Rand) {
	payload := block[tagSize:]
	for i := 0; i < len(payload); i += 8 {
		var word [8]byte
		binary.LittleEndian.PutUint64(word[:], rng.Uint64())
		copy(payload[i:], word[:])
	}
	binary.LittleEndian.PutUint64(block, xxhash.Sum64(payload))
}

// Check verifies a block written by Tag. An all-zero block, never written,
// is accepted.
func Check(block []byte, index int64) error {
	want := binary.LittleEndian.Uint64(block)
	got := xxhash.Sum64(block[tagSize:])
	if want == got {
		return nil
	}
	if want == 0 && allZero(block[tagSize:]) {
		return nil
	}
	return errors.Wrapf(ErrChecksum, "block %d: stored %016x, computed %016x", index, want, got)
}

func allZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}
