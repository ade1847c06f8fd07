// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"math/rand/v2"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// AccessStrategy is the order in which a worker visits its blocks.
type AccessStrategy int

const (
	Sequential AccessStrategy = iota
	Random
)

func (s AccessStrategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	}
	return "unknown"
}

// ParseAccessStrategy accepts "sequential" or "random", in any case.
func ParseAccessStrategy(name string) (AccessStrategy, error) {
	switch strings.ToLower(name) {
	case "sequential", "seq":
		return Sequential, nil
	case "random", "rand":
		return Random, nil
	}
	return 0, errors.Errorf("unknown access strategy %q", name)
}

// Sequence returns the block indices 0..n-1, shuffled by rng for Random.
func Sequence(n int64, strategy AccessStrategy, rng *rand.Rand) []int64 {
	seq := make([]int64, n)
	for i := range seq {
		seq[i] = int64(i)
	}
	if strategy == Random {
		rng.Shuffle(len(seq), func(i, j int) {
			seq[i], seq[j] = seq[j], seq[i]
		})
	}
	return seq
}

// BufferAllocation selects where I/O buffers live.
type BufferAllocation int

const (
	// Heap buffers are ordinary Go slices.
	Heap BufferAllocation = iota
	// Mmap buffers are anonymous mappings outside the Go heap.
	Mmap
)

func (a BufferAllocation) String() string {
	switch a {
	case Heap:
		return "heap"
	case Mmap:
		return "mmap"
	}
	return "unknown"
}

// ParseBufferAllocation accepts "heap" or "mmap", in any case.
func ParseBufferAllocation(name string) (BufferAllocation, error) {
	switch strings.ToLower(name) {
	case "heap", "on_heap":
		return Heap, nil
	case "mmap", "off_heap":
		return Mmap, nil
	}
	return 0, errors.Errorf("unknown buffer allocation %q", name)
}

// Buffer is an I/O buffer. B is valid until Release.
type Buffer struct {
	B []byte
	m mmap.MMap
}

// Allocate returns a zeroed buffer of size bytes.
func Allocate(size int, alloc BufferAllocation) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid buffer size %d", size)
	}
	switch alloc {
	case Heap:
		return &Buffer{B: make([]byte, size)}, nil
	case Mmap:
		m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "mmap %d bytes", size)
		}
		return &Buffer{B: m, m: m}, nil
	}
	return nil, errors.Errorf("unknown buffer allocation %d", alloc)
}

// Release unmaps an mmap buffer. It is a no-op for heap buffers.
func (b *Buffer) Release() error {
	b.B = nil
	if b.m == nil {
		return nil
	}
	m := b.m
	b.m = nil
	return errors.WithStack(m.Unmap())
}
