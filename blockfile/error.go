// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package blockfile

import (
	"github.com/egodb/ego"
)

var (
	ErrInvalidArgument    = ego.ErrInvalidArgument
	ErrOutOfRange         = ego.ErrOutOfRange
	ErrCorruptHeader      = ego.ErrCorruptHeader
	ErrUnsupportedVersion = ego.ErrUnsupportedVersion
	ErrEncoding           = ego.ErrEncoding
	ErrFileTruncated      = ego.ErrFileTruncated
	ErrNotFound           = ego.ErrNotFound
	ErrIO                 = ego.ErrIO
	ErrIncompleteTransfer = ego.ErrIncompleteTransfer
	ErrClosed             = ego.ErrClosed
)
