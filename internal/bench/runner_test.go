package bench

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/egodb/ego/blockfile"
	"github.com/egodb/ego/internal/log"
	"github.com/egodb/ego/mem"
)

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.BlockSize = 512
	cfg.BlocksPerWorker = 16
	cfg.Ops = 64
	cfg.Dir = t.TempDir()
	cfg.Seed = 42
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	for name, mutate := range map[string]func(*Config){
		"small block":   func(c *Config) { c.BlockSize = 100 },
		"no blocks":     func(c *Config) { c.BlocksPerWorker = 0 },
		"no workers":    func(c *Config) { c.Readers, c.Writers = 0, 0 },
		"negative ops":  func(c *Config) { c.Ops = -1 },
		"no stop rule":  func(c *Config) { c.Ops, c.Duration = 0, 0 },
		"negative read": func(c *Config) { c.Readers = -1 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestPlanPartitionsAreDisjointPerRole(t *testing.T) {
	cfg := testConfig(t)
	cfg.Readers, cfg.Writers = 3, 2
	workers := plan(cfg, Sequence(cfg.BlockCount(), Sequential, nil))
	require.Len(t, workers, 5)
	require.Equal(t, int64(48), cfg.BlockCount())

	seen := map[role]map[int64]bool{reader: {}, writer: {}}
	for _, w := range workers {
		require.Len(t, w.blocks, 16)
		for _, b := range w.blocks {
			require.False(t, seen[w.role][b], "%s %d reuses block %d", w.role, w.id, b)
			seen[w.role][b] = true
		}
	}
}

func TestPlanVerifySeparatesRoles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Readers, cfg.Writers, cfg.Verify = 2, 2, true
	require.Equal(t, int64(64), cfg.BlockCount())

	used := map[int64]role{}
	for _, w := range plan(cfg, Sequence(cfg.BlockCount(), Sequential, nil)) {
		for _, b := range w.blocks {
			_, taken := used[b]
			require.False(t, taken, "block %d shared", b)
			used[b] = w.role
		}
	}
}

func TestRunCountsOps(t *testing.T) {
	for _, access := range []AccessStrategy{Sequential, Random} {
		for _, alloc := range []BufferAllocation{Heap, Mmap} {
			t.Run(access.String()+"/"+alloc.String(), func(t *testing.T) {
				cfg := testConfig(t)
				cfg.Access, cfg.Buffers = access, alloc

				report, err := Run(context.Background(), cfg, nil)
				require.NoError(t, err)
				require.Equal(t, int64(64), report.Blocks)
				require.Equal(t, int64(4*64), report.Read.Ops)
				require.Equal(t, int64(2*64), report.Write.Ops)
				require.Equal(t, int64(2*64*512), report.Write.Bytes)
				require.Contains(t, report.String(), "read")
			})
		}
	}
}

func TestRunVerify(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verify = true
	cfg.Access = Random

	var out bytes.Buffer
	report, err := Run(context.Background(), cfg, log.New(log.WithOutput(&out), log.WithLevel(log.LevelDebug)))
	require.NoError(t, err)
	require.Equal(t, cfg.BlockCount(), report.Verified)
	require.Contains(t, report.String(), "verified 96 blocks")
	require.Contains(t, out.String(), "prefilled 64 blocks")
}

func TestRunFileDetectsCorruption(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verify = true
	cfg.Readers, cfg.Writers = 1, 0

	var f mem.File
	bf, err := blockfile.Init(&f, cfg.BlockSize, cfg.BlockCount())
	require.NoError(t, err)

	// flip a byte of block 5 once it has been prefilled
	corrupt := &corruptingFile{File: &f, off: bf.Header().Offset(5) + 100}
	bf, err = blockfile.Load(corrupt)
	require.NoError(t, err)

	_, err = RunFile(context.Background(), bf, cfg, nil)
	require.ErrorIs(t, err, ErrChecksum)
}

type corruptingFile struct {
	*mem.File
	off int64
}

func (c *corruptingFile) ReadAt(p []byte, off int64) (int, error) {
	n, err := c.File.ReadAt(p, off)
	if c.off >= off && c.off < off+int64(n) {
		p[c.off-off] ^= 0xFF
	}
	return n, err
}

func TestRunFileRejectsSmallFile(t *testing.T) {
	cfg := testConfig(t)
	var f mem.File
	bf, err := blockfile.Init(&f, cfg.BlockSize, 3)
	require.NoError(t, err)

	_, err = RunFile(context.Background(), bf, cfg, nil)
	require.Error(t, err)
}

func TestRunStopsOnDuration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ops = 0
	cfg.Duration = 50 * time.Millisecond

	start := time.Now()
	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Positive(t, report.Read.Ops)
	require.Positive(t, report.Write.Ops)
}

func TestRunHonoursCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ops = 0
	cfg.Duration = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := Run(ctx, cfg, nil)
	require.NoError(t, err)
}

func TestRunFileUsesExistingFile(t *testing.T) {
	cfg := testConfig(t)
	bf, err := blockfile.Create(filepath.Join(t.TempDir(), "b.dat"), cfg.BlockSize, cfg.BlockCount())
	require.NoError(t, err)
	defer bf.Close()

	report, err := RunFile(context.Background(), bf, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, int64(4*64), report.Read.Ops)
}
