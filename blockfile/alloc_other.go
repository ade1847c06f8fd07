// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package blockfile

import "github.com/egodb/ego"

func preallocate(ego.File, int64) error {
	return nil
}
