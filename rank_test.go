// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench_test

import (
	"testing"

	"github.com/petenewcomb/spmvbench-go"
	"github.com/stretchr/testify/require"
)

func summary(k spmvbench.Key, p90 float64) spmvbench.Summary {
	return spmvbench.Summary{Key: k, Rows: 3, Cols: 3, NZ: 4, P90: p90}
}

func TestFastest(t *testing.T) {
	chk := require.New(t)

	summaries := []spmvbench.Summary{
		summary(seqKey("a.mtx"), 5),
		summary(parKey("a.mtx", 2, 10, "static"), 3),
		summary(parKey("a.mtx", 4, 10, "static"), 1),
		summary(parKey("a.mtx", 4, 10, "guided"), 3),
	}
	top := spmvbench.Fastest(summaries, 3)
	chk.Len(top, 3)
	chk.Equal(1.0, top[0].P90)
	// Equal times fall back to key order.
	chk.Equal(parKey("a.mtx", 2, 10, "static"), top[1].Key)
	chk.Equal(parKey("a.mtx", 4, 10, "guided"), top[2].Key)

	chk.Len(spmvbench.Fastest(summaries, -1), 4)
	chk.Len(spmvbench.Fastest(summaries, 10), 4)
	chk.Empty(spmvbench.Fastest(nil, 3))
}

func TestBestChunksAndBaseline(t *testing.T) {
	chk := require.New(t)

	summaries := []spmvbench.Summary{
		summary(spmvbench.Key{Matrix: "a.mtx", Compiler: "-O3"}, 20),
		summary(spmvbench.Key{Matrix: "a.mtx", Compiler: "-O0"}, 40),
		summary(parKey("a.mtx", 4, 1000, "dynamic"), 4),
		summary(parKey("a.mtx", 4, 10, "dynamic"), 8),
		summary(parKey("b.mtx", 8, 100, "guided"), 2),
		summary(seqKey("b.mtx"), 1),
	}

	chk.Equal(map[string]int{"a.mtx": 1000, "b.mtx": 100}, spmvbench.BestChunks(summaries))

	base, err := spmvbench.SequentialBaseline(summaries, "a.mtx", "")
	chk.NoError(err)
	chk.Equal(40.0, base)

	base, err = spmvbench.SequentialBaseline(summaries, "a.mtx", "-O3")
	chk.NoError(err)
	chk.Equal(20.0, base)

	_, err = spmvbench.SequentialBaseline(summaries, "c.mtx", "")
	chk.ErrorIs(err, spmvbench.ErrNoBaseline)

	chk.Equal([]string{"a.mtx", "b.mtx"}, spmvbench.Matrices(summaries))
}
