// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package chart

import (
	"path/filepath"
	"slices"

	"github.com/petenewcomb/spmvbench-go/analysis"
	"gonum.org/v1/plot/vg"
)

// MissRate draws the LLC miss rate of each matrix against the thread count.
// Series keep their order, which MissRateByThreads makes smallest matrix
// first.
func MissRate(series []analysis.MissRateSeries, dir string) (string, error) {
	if len(series) == 0 {
		return "", ErrNothingToPlot
	}
	p := newPlot("LLC Miss Rate vs. thread number", "Thread Number", "LLC Miss Rate (%)")
	p.Legend.Add("Matrix (smaller to bigger)")

	colors := seriesColors(len(series))
	var threads []int
	for i, s := range series {
		if err := addSeries(p, s.Matrix, points(floats(s.Threads), s.Rates, false), colors[i]); err != nil {
			return "", err
		}
		threads = append(threads, s.Threads...)
	}
	slices.Sort(threads)
	p.X.Tick.Marker = intTicks(slices.Compact(threads))
	p.Y.Min = 0

	path := filepath.Join(dir, "llc_miss_rate_vs_threads.png")
	return path, save(p, 10*vg.Inch, 6*vg.Inch, path)
}
