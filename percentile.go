// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"math"
	"slices"
)

// PercentileLower returns the q-th percentile of values using the "lower"
// rule: the element at index floor(q/100*(n-1)) of the sorted sample. The
// result is always one of the observed values. values is not modified.
func PercentileLower(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}
	if math.IsNaN(q) || q < 0 || q > 100 {
		return 0, ErrInvalidPercentile
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	idx := int(math.Floor(q / 100 * float64(len(sorted)-1)))
	return sorted[idx], nil
}
