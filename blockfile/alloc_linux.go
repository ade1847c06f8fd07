// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package blockfile

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/egodb/ego"
)

type fder interface {
	Fd() uintptr
}

func preallocate(file ego.File, size int64) error {
	f, ok := file.(fder)
	if !ok {
		return nil
	}
	err := unix.Fallocate(int(f.Fd()), 0, 0, size)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EOPNOTSUPP), errors.Is(err, unix.ENOSYS):
		// the file is already sized by Truncate
		return nil
	default:
		return ego.NewIOError("fallocate", 0, err)
	}
}
