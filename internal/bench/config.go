// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"time"

	"github.com/pkg/errors"

	"github.com/egodb/ego"
)

// Config describes one benchmark run.
type Config struct {
	BlockSize       int
	BlocksPerWorker int64
	Readers         int
	Writers         int
	Access          AccessStrategy
	Buffers         BufferAllocation

	// Duration bounds the run when Ops is zero.
	Duration time.Duration
	// Ops, when positive, is the exact number of transfers each worker makes.
	Ops int64

	// Verify tags every written block with a checksum and checks every read.
	// Readers and writers then work on disjoint blocks.
	Verify bool

	// Dir holds the temporary block file; empty means os.TempDir.
	Dir  string
	Seed uint64
}

// DefaultConfig mirrors the parameters the harness was first tuned with:
// 4 KiB blocks, 256 blocks per worker, four readers and two writers.
func DefaultConfig() Config {
	return Config{
		BlockSize:       4096,
		BlocksPerWorker: 256,
		Readers:         4,
		Writers:         2,
		Access:          Sequential,
		Buffers:         Heap,
		Duration:        10 * time.Second,
	}
}

// Validate checks that the configuration describes a runnable benchmark.
func (c Config) Validate() error {
	switch {
	case c.BlockSize < ego.HeaderSize:
		return errors.Errorf("block size %d below %d", c.BlockSize, ego.HeaderSize)
	case c.Verify && c.BlockSize <= tagSize:
		return errors.Errorf("block size %d cannot hold a checksum", c.BlockSize)
	case c.BlocksPerWorker <= 0:
		return errors.Errorf("blocks per worker must be positive, got %d", c.BlocksPerWorker)
	case c.Readers < 0 || c.Writers < 0 || c.Readers+c.Writers == 0:
		return errors.Errorf("need at least one worker, got %d readers and %d writers", c.Readers, c.Writers)
	case c.Ops < 0:
		return errors.Errorf("ops must not be negative, got %d", c.Ops)
	case c.Ops == 0 && c.Duration <= 0:
		return errors.New("either ops or duration must be set")
	}
	return nil
}

// Partitions returns how many disjoint block ranges the file is split into.
// Readers never share a range with other readers, nor writers with writers.
// Without Verify, reader i and writer i share range i.
func (c Config) Partitions() int {
	if c.Verify {
		return c.Readers + c.Writers
	}
	return max(c.Readers, c.Writers)
}

// BlockCount is the number of data blocks the run needs.
func (c Config) BlockCount() int64 {
	return int64(c.Partitions()) * c.BlocksPerWorker
}
