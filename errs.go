// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import "github.com/petenewcomb/spmvbench-go/internal/table"

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrEmptySample = constError("empty sample")
const ErrInvalidPercentile = constError("percentile out of range")
const ErrInvalidBlock = constError("block size must be positive")
const ErrNoBaseline = constError("no sequential baseline")

// ErrMissingColumn and ErrMalformedValue are returned (wrapped) by the CSV
// readers.
const ErrMissingColumn = table.ErrMissingColumn
const ErrMalformedValue = table.ErrMalformedValue
