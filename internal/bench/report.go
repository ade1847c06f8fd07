// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"fmt"
	"strings"
	"time"
)

// Stats accumulates the transfers of one role.
type Stats struct {
	Ops     int64
	Bytes   int64
	Elapsed time.Duration // longest worker wall time
}

func (s *Stats) add(o Stats) {
	s.Ops += o.Ops
	s.Bytes += o.Bytes
	s.Elapsed = max(s.Elapsed, o.Elapsed)
}

// OpsPerSecond is the aggregate transfer rate.
func (s Stats) OpsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Ops) / s.Elapsed.Seconds()
}

// MiBPerSecond is the aggregate bandwidth.
func (s Stats) MiBPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / (1 << 20) / s.Elapsed.Seconds()
}

// Report is the outcome of a run.
type Report struct {
	Config   Config
	Blocks   int64
	Read     Stats
	Write    Stats
	Verified int64
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Block File Benchmark (%d blocks x %d bytes, %s access, %s buffers)\n",
		r.Blocks, r.Config.BlockSize, r.Config.Access, r.Config.Buffers)
	line := func(name string, workers int, s Stats) {
		if workers == 0 {
			return
		}
		fmt.Fprintf(&b, "  %-6s %2d workers  %10d ops  %12.0f ops/sec  %9.2f MiB/sec\n",
			name, workers, s.Ops, s.OpsPerSecond(), s.MiBPerSecond())
	}
	line("read", r.Config.Readers, r.Read)
	line("write", r.Config.Writers, r.Write)
	if r.Config.Verify {
		fmt.Fprintf(&b, "  verified %d blocks\n", r.Verified)
	}
	return b.String()
}
