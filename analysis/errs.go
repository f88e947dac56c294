// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package analysis

import "github.com/petenewcomb/spmvbench-go/internal/table"

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrNoData = constError("no data")

const ErrMissingColumn = table.ErrMissingColumn
const ErrMalformedValue = table.ErrMalformedValue
