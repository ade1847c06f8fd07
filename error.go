// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package ego

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOutOfRange         = errors.New("out of range")
	ErrCorruptHeader      = errors.New("corrupt header")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrEncoding           = errors.New("encoding error")
	ErrFileTruncated      = errors.New("file truncated")
	ErrNotFound           = errors.New("not found")
	ErrIO                 = errors.New("i/o error")
	ErrIncompleteTransfer = errors.New("incomplete transfer")
	ErrClosed             = errors.New("closed")
)

// IOError records a failed backend operation and the byte offset it targeted.
// It matches ErrIO under errors.Is and unwraps to the backend error.
type IOError struct {
	Op  string
	Off int64
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Off, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// NewIOError wraps err, keeping a stack trace for the failing call site.
func NewIOError(op string, off int64, err error) error {
	return errors.WithStack(&IOError{Op: op, Off: off, Err: err})
}
