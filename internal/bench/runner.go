// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bench measures block file throughput with concurrent readers and
// writers, each confined to its own range of blocks.
package bench

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/egodb/ego/blockfile"
	"github.com/egodb/ego/internal/log"
)

type role int

const (
	reader role = iota
	writer
)

func (r role) String() string {
	if r == reader {
		return "reader"
	}
	return "writer"
}

type worker struct {
	role   role
	id     int
	blocks []int64
	rng    *rand.Rand
	stats  Stats
}

// Run creates a temporary block file sized for cfg, runs the workers against
// it and removes it. The run stops early if ctx is cancelled.
func Run(ctx context.Context, cfg Config, logger *log.Logger) (report Report, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if logger == nil {
		logger = log.Discard
	}

	dir, err := os.MkdirTemp(cfg.Dir, "blockbench")
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	defer os.RemoveAll(dir)

	bf, err := blockfile.Create(filepath.Join(dir, "block.dat"), cfg.BlockSize, cfg.BlockCount(), blockfile.WithSync(false))
	if err != nil {
		return
	}
	defer bf.Close()

	return RunFile(ctx, bf, cfg, logger)
}

// RunFile runs the workers against an open block file with at least
// cfg.BlockCount() blocks of cfg.BlockSize bytes.
func RunFile(ctx context.Context, bf *blockfile.BlockFile, cfg Config, logger *log.Logger) (report Report, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if logger == nil {
		logger = log.Discard
	}
	h := bf.Header()
	if h.BlockSize != cfg.BlockSize || h.BlockCount < cfg.BlockCount() {
		err = errors.Errorf("block file holds %d blocks of %d bytes, run needs %d of %d",
			h.BlockCount, h.BlockSize, cfg.BlockCount(), cfg.BlockSize)
		return
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	workers := plan(cfg, Sequence(cfg.BlockCount(), cfg.Access, rng))
	for _, w := range workers {
		w.rng = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}

	if cfg.Verify {
		if err = prefill(ctx, bf, cfg, workers, logger); err != nil {
			return
		}
	}

	logger.WithField("readers", cfg.Readers).WithField("writers", cfg.Writers).
		Info("running %d blocks of %d bytes, %s access, %s buffers", cfg.BlockCount(), cfg.BlockSize, cfg.Access, cfg.Buffers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Ops == 0 {
		runCtx, cancel = context.WithTimeout(runCtx, cfg.Duration)
		defer cancel()
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.run(runCtx, bf, cfg); err != nil {
				once.Do(func() {
					firstErr = errors.Wrapf(err, "%s %d", w.role, w.id)
					cancel()
				})
			}
			logger.WithField("role", w.role).WithField("worker", w.id).
				Debug("%d ops in %s", w.stats.Ops, w.stats.Elapsed)
		}()
	}
	wg.Wait()

	if firstErr != nil {
		err = firstErr
		return
	}

	report = Report{Config: cfg, Blocks: cfg.BlockCount()}
	for _, w := range workers {
		if w.role == reader {
			report.Read.add(w.stats)
		} else {
			report.Write.add(w.stats)
		}
	}

	if cfg.Verify {
		report.Verified, err = verifyAll(bf, cfg)
	}
	return
}

// plan hands each reader and each writer its own slice of seq.
func plan(cfg Config, seq []int64) []*worker {
	part := func(i int) []int64 {
		return seq[int64(i)*cfg.BlocksPerWorker : int64(i+1)*cfg.BlocksPerWorker]
	}
	workers := make([]*worker, 0, cfg.Readers+cfg.Writers)
	for i := range cfg.Readers {
		workers = append(workers, &worker{role: reader, id: i, blocks: part(i)})
	}
	for i := range cfg.Writers {
		p := i
		if cfg.Verify {
			p += cfg.Readers
		}
		workers = append(workers, &worker{role: writer, id: i, blocks: part(p)})
	}
	return workers
}

func (w *worker) run(ctx context.Context, bf *blockfile.BlockFile, cfg Config) (err error) {
	buf, err := Allocate(cfg.BlockSize, cfg.Buffers)
	if err != nil {
		return
	}
	defer func() {
		if rerr := buf.Release(); err == nil {
			err = rerr
		}
	}()

	start := time.Now()
	defer func() { w.stats.Elapsed = time.Since(start) }()

	for n := int64(0); cfg.Ops == 0 || n < cfg.Ops; n++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		block := w.blocks[n%int64(len(w.blocks))]
		if w.role == reader {
			if err = bf.Read(buf.B, block); err != nil {
				return
			}
			if cfg.Verify {
				if err = Check(buf.B, block); err != nil {
					return
				}
			}
		} else {
			if cfg.Verify {
				Tag(buf.B, w.rng)
			}
			if err = bf.Write(buf.B, block); err != nil {
				return
			}
		}
		w.stats.Ops++
		w.stats.Bytes += int64(cfg.BlockSize)
	}
	return
}

// prefill tags every reader block so reads have something to verify.
func prefill(ctx context.Context, bf *blockfile.BlockFile, cfg Config, workers []*worker, logger *log.Logger) error {
	buf := make([]byte, cfg.BlockSize)
	n := 0
	for _, w := range workers {
		if w.role != reader {
			continue
		}
		for _, block := range w.blocks {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			Tag(buf, w.rng)
			if err := bf.Write(buf, block); err != nil {
				return err
			}
			n++
		}
	}
	logger.Debug("prefilled %d blocks", n)
	return nil
}

func verifyAll(bf *blockfile.BlockFile, cfg Config) (n int64, err error) {
	buf := make([]byte, bf.Header().BlockSize)
	for i, err := range bf.Blocks(buf) {
		if err != nil {
			return n, err
		}
		if i >= cfg.BlockCount() {
			break
		}
		if err = Check(buf, i); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
