// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package analysis_test

import (
	"math"
	"testing"

	"github.com/petenewcomb/spmvbench-go/analysis"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDerivedMetrics(t *testing.T) {
	chk := require.New(t)

	chk.Equal(2.0, analysis.Speedup(10, 5))
	chk.True(math.IsNaN(analysis.Speedup(10, 0)))
	chk.True(math.IsNaN(analysis.Speedup(0, 5)))
	chk.Equal(1.0, analysis.Efficiency(2, 2))
	chk.True(math.IsNaN(analysis.Efficiency(2, 0)))
	chk.Equal(25.0, analysis.MissRate(1, 4))
	chk.Equal(0.0, analysis.MissRate(7, 0))
	chk.Equal(0.5, analysis.Ratio(1, 2))
	chk.Equal(0.0, analysis.Ratio(1, 0))
}

func TestMissRateBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loads := rapid.Float64Range(1, 1e12).Draw(t, "loads")
		misses := rapid.Float64Range(0, 1).Draw(t, "fraction") * loads
		r := analysis.MissRate(misses, loads)
		if r < 0 || r > 100+1e-9 {
			t.Fatalf("miss rate %g out of range", r)
		}
	})
}
