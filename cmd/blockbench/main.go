// blockbench measures block file throughput with concurrent readers and
// writers, each working on its own range of blocks.
//
// Usage:
//
//	blockbench -readers 4 -writers 2 -access random -buffers mmap -duration 10s
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/egodb/ego/internal/bench"
	"github.com/egodb/ego/internal/log"
)

func main() {
	def := bench.DefaultConfig()

	blockSize := flag.Int("block-size", def.BlockSize, "Bytes per block")
	blocksPerWorker := flag.Int64("blocks-per-worker", def.BlocksPerWorker, "Blocks in each worker's range")
	readers := flag.Int("readers", def.Readers, "Number of reader goroutines")
	writers := flag.Int("writers", def.Writers, "Number of writer goroutines")
	access := flag.String("access", def.Access.String(), "Block access order (sequential or random)")
	buffers := flag.String("buffers", def.Buffers.String(), "Buffer allocation (heap or mmap)")
	duration := flag.Duration("duration", def.Duration, "Duration to run the benchmark")
	ops := flag.Int64("ops", 0, "Transfers per worker; overrides -duration when positive")
	verify := flag.Bool("verify", false, "Checksum written blocks and verify reads")
	dir := flag.String("dir", "", "Directory for the temporary block file")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for random access order")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	resultsFile := flag.String("results", "", "File to write results to (in addition to stdout)")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	logger := log.New(log.WithLevel(lvl))

	cfg := bench.Config{
		BlockSize:       *blockSize,
		BlocksPerWorker: *blocksPerWorker,
		Readers:         *readers,
		Writers:         *writers,
		Duration:        *duration,
		Ops:             *ops,
		Verify:          *verify,
		Dir:             *dir,
		Seed:            *seed,
	}
	if cfg.Access, err = bench.ParseAccessStrategy(*access); err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}
	if cfg.Buffers, err = bench.ParseBufferAllocation(*buffers); err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Error("could not create CPU profile: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("could not start CPU profile: %v", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("GOMAXPROCS=%d seed=%d", runtime.GOMAXPROCS(0), cfg.Seed)
	report, err := bench.Run(ctx, cfg, logger)
	if err != nil {
		logger.Error("benchmark failed: %v", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}

	result := report.String()
	fmt.Print(result)

	if *resultsFile != "" {
		header := fmt.Sprintf("Benchmark Report (%s)\n", time.Now().Format(time.RFC3339))
		if err := os.WriteFile(*resultsFile, []byte(header+strings.TrimRight(result, "\n")+"\n"), 0644); err != nil {
			logger.Warn("failed to write results to file: %v", err)
		}
	}
}
