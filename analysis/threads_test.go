// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package analysis_test

import (
	"math"
	"testing"

	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/analysis"
	"github.com/stretchr/testify/require"
)

func par(matrix string, threads, chunk int, sched string, p90 float64) spmvbench.Summary {
	return spmvbench.Summary{
		Key: spmvbench.Key{
			Matrix:   matrix,
			Compiler: "-O3",
			Threads:  spmvbench.Some(threads),
			Chunk:    spmvbench.Some(chunk),
			Schedule: sched,
		},
		P90: p90,
	}
}

func seq(matrix, compiler string, p90 float64) spmvbench.Summary {
	return spmvbench.Summary{
		Key: spmvbench.Key{Matrix: matrix, Compiler: compiler},
		P90: p90,
	}
}

func TestThreadSpeedups(t *testing.T) {
	chk := require.New(t)

	summaries := []spmvbench.Summary{
		seq("a.mtx", "-O3", 4),
		seq("a.mtx", "-O0", 8),
		par("a.mtx", 1, 10, "guided", 8),
		par("a.mtx", 2, 10, "static", 4),
		par("a.mtx", 4, 10, "static", 2),
		par("a.mtx", 4, 10, "dynamic", 1),
		par("a.mtx", 4, 100, "static", 0.5),
		par("b.mtx", 4, 10, "static", 0.1),
	}

	tbl, err := analysis.ThreadSpeedups(summaries, "a.mtx", 10, "")
	chk.NoError(err)
	chk.Equal(8.0, tbl.Sequential)
	chk.Equal([]int{1, 2, 4}, tbl.Threads)
	chk.Equal([]string{"static", "dynamic", "guided"}, tbl.Schedules)

	static := tbl.Speedups["static"]
	chk.True(math.IsNaN(static[0]))
	chk.Equal(2.0, static[1])
	chk.Equal(4.0, static[2])
	chk.Equal(1.0, tbl.Speedups["guided"][0])

	best, v := tbl.Best()
	chk.Equal("dynamic", best)
	chk.Equal(8.0, v)
	chk.Equal(8.0, tbl.Max())

	tbl, err = analysis.ThreadSpeedups(summaries, "a.mtx", 10, "-O3")
	chk.NoError(err)
	chk.Equal(4.0, tbl.Sequential)

	_, err = analysis.ThreadSpeedups(summaries, "b.mtx", 10, "")
	chk.ErrorIs(err, spmvbench.ErrNoBaseline)

	_, err = analysis.ThreadSpeedups(summaries, "a.mtx", 5, "")
	chk.ErrorIs(err, analysis.ErrNoData)
}

func TestChunkGrid(t *testing.T) {
	chk := require.New(t)

	summaries := []spmvbench.Summary{
		par("a.mtx", 2, 100, "static", 3),
		par("a.mtx", 2, 10, "static", 4),
		par("a.mtx", 4, 10, "other", 5),
	}
	g, err := analysis.NewChunkGrid(summaries, "a.mtx", "")
	chk.NoError(err)
	chk.True(math.IsNaN(g.Sequential))
	chk.Equal([]int{10, 100}, g.Chunks)
	chk.Equal([]int{2, 4}, g.Threads)
	chk.Equal([]string{"static", "other"}, g.Schedules)
	chk.Equal(4.0, g.Times[10]["static"][0])
	chk.True(math.IsNaN(g.Times[10]["static"][1]))
	chk.Equal(5.0, g.Times[10]["other"][1])
	chk.Equal(3.0, g.Times[100]["static"][0])

	_, err = analysis.NewChunkGrid(summaries, "b.mtx", "")
	chk.ErrorIs(err, analysis.ErrNoData)
}
