// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

import (
	"testing"

	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/mtx"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testMatrices = []mtx.Info{
	{Name: "a.mtx", Path: "/data/a.mtx", Header: mtx.Header{Rows: 3, Cols: 3, NZ: 4}},
	{Name: "b.mtx", Path: "/data/b.mtx", Header: mtx.Header{Rows: 5, Cols: 5, NZ: 9}},
}

func TestNewPlanDefaultShape(t *testing.T) {
	chk := require.New(t)

	p := NewPlan(DefaultConfig, testMatrices)
	chk.Len(p.Stages, 6)

	for i, opt := range DefaultConfig.Compilers {
		s := p.Stages[i]
		chk.Equal(SweepSequential, s.Sweep)
		chk.Equal(opt, s.Build.Flags[0])
		chk.NotContains(s.Build.Flags, "-fopenmp")
		chk.Equal(len(testMatrices)*10, s.Trials.Len())

		first := s.Trials.Front()
		chk.Equal([]string{"/data/a.mtx"}, first.Args)
		chk.Equal(spmvbench.Key{Matrix: "a.mtx", Compiler: opt}, first.Key)
		// Matrix is the outer loop of the sequential sweep.
		chk.Equal("a.mtx", s.Trials.At(9).Key.Matrix)
		chk.Equal("b.mtx", s.Trials.At(10).Key.Matrix)
	}

	par := p.Stages[5]
	chk.Equal(SweepParallel, par.Sweep)
	chk.Equal([]string{"-O3", "-fopenmp", "-Iinclude"}, par.Build.Flags)
	chk.Equal([]string{"-lm"}, par.Build.LDFlags)
	chk.Equal(10*2*4*4*3, par.Trials.Len())

	first := par.Trials.Front()
	chk.Equal([]string{"/data/a.mtx", "1", "static", "1"}, first.Args)
	chk.Equal(spmvbench.Some(1), first.Key.Threads)
	chk.Equal(spmvbench.Some(1), first.Key.Chunk)
	chk.Equal("static", first.Key.Schedule)

	// Repetition is the outer loop of the parallel sweep.
	perRep := 2 * 4 * 4 * 3
	chk.Equal(0, par.Trials.At(perRep-1).Repetition)
	chk.Equal(1, par.Trials.At(perRep).Repetition)
	chk.Equal("b.mtx", par.Trials.At(perRep-1).Key.Matrix)
	chk.Equal([]string{"/data/b.mtx", "8", "guided", "1000"}, par.Trials.At(perRep-1).Args)

	chk.Equal(5*20+480, p.Trials())
}

func TestBuildSpecArgs(t *testing.T) {
	chk := require.New(t)
	spec := DefaultConfig.buildSpec("-O2", true)
	chk.Equal("gcc", spec.Compiler)
	chk.Equal([]string{
		"-O2", "-fopenmp", "-Iinclude",
		"src/main.c", "src/csr.c", "src/print.c",
		"-o", "bin/spmv", "-lm",
	}, spec.Args())
	chk.Equal("gcc -O2 -fopenmp -Iinclude src/main.c src/csr.c src/print.c -o bin/spmv -lm", spec.String())
}

func TestBinaryPath(t *testing.T) {
	chk := require.New(t)
	cfg := DefaultConfig
	chk.Equal("bin/spmv", cfg.binaryPath())
	cfg.Build.Output = "spmv"
	chk.Equal("./spmv", cfg.binaryPath())
	cfg.Build.Output = "/opt/spmv"
	chk.Equal("/opt/spmv", cfg.binaryPath())
}

func TestPlanTrialCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		cfg := DefaultConfig.clone()
		cfg.Repetitions = rapid.IntRange(1, 5).Draw(t, "reps")
		cfg.Compilers = cfg.Compilers[:rapid.IntRange(1, len(cfg.Compilers)).Draw(t, "compilers")]
		cfg.Threads = cfg.Threads[:rapid.IntRange(1, len(cfg.Threads)).Draw(t, "threads")]
		cfg.ChunkSizes = cfg.ChunkSizes[:rapid.IntRange(1, len(cfg.ChunkSizes)).Draw(t, "chunks")]
		cfg.Schedules = cfg.Schedules[:rapid.IntRange(1, len(cfg.Schedules)).Draw(t, "schedules")]
		m := testMatrices[:rapid.IntRange(0, len(testMatrices)).Draw(t, "matrices")]

		p := NewPlan(cfg, m)
		seq := len(cfg.Compilers) * len(m) * cfg.Repetitions
		par := cfg.Repetitions * len(m) * len(cfg.Threads) * len(cfg.ChunkSizes) * len(cfg.Schedules)
		chk.Equal(seq+par, p.Trials())
		chk.Len(p.Stages, len(cfg.Compilers)+1)
	})
}
