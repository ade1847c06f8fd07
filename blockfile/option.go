// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package blockfile

import "os"

type options struct {
	preallocate bool
	sync        bool
	mode        os.FileMode
}

func newOptions(opts []Option) options {
	o := options{
		sync: true,
		mode: 0600,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures Create and Init.
type Option func(*options)

// WithPreallocate reserves disk blocks for the whole file at creation instead
// of leaving it sparse. Backends without fallocate support are sized only.
func WithPreallocate(enabled bool) Option {
	return func(o *options) { o.preallocate = enabled }
}

// WithSync controls whether the header is synced to stable storage before
// Create returns. Enabled by default.
func WithSync(enabled bool) Option {
	return func(o *options) { o.sync = enabled }
}

// WithFileMode sets the permission bits of a newly created file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) { o.mode = mode }
}
