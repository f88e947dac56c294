// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/petenewcomb/spmvbench-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const smallMatrix = `%%MatrixMarket matrix coordinate real general
% 3x3 with four nonzeros
3 3 4
1 1 1.0
2 2 2.0
3 1 3.0
3 3 4.0
`

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "small.mtx"), []byte(smallMatrix), 0o644))

	cfg := DefaultConfig.clone()
	cfg.DataDir = data
	cfg.WorkDir = dir
	cfg.ResultsFile = filepath.Join(dir, "results", "time_results.csv")
	cfg.Repetitions = 2
	cfg.Compilers = []string{"-O0", "-O3"}
	cfg.Threads = []int{1, 2}
	cfg.ChunkSizes = []int{10}
	cfg.Schedules = []string{"static", "guided"}
	return cfg
}

func readResults(t *testing.T, path string) []spmvbench.TimingRecord {
	records, _, err := spmvbench.ReadTimingFile(path, spmvbench.ReadOptions{SkipInvalid: true})
	require.NoError(t, err)
	return records
}

func TestRunEndToEnd(t *testing.T) {
	chk := require.New(t)
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)

	runner := NewMockRunner(ctrl)
	runner.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	var calls [][]string
	runner.EXPECT().Run(gomock.Any(), "bin/spmv", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args []string) (string, error) {
			calls = append(calls, args)
			return "0.125\n", nil
		}).Times(2*2 + 2*2*2)

	stats, err := New(cfg, runner, nil).Run(context.Background())
	chk.NoError(err)
	chk.Equal(Stats{Compiles: 3, Trials: 12, Rows: 12}, stats)

	records := readResults(t, cfg.ResultsFile)
	chk.Len(records, 12)
	for _, r := range records {
		chk.Equal("small.mtx", r.Matrix)
		chk.Equal(3, r.Rows)
		chk.Equal(3, r.Cols)
		chk.Equal(4, r.NZ)
		chk.Equal(0.125, r.ExecTime)
	}
	chk.True(records[0].Sequential())
	chk.Equal("-O0", records[0].Compiler)
	chk.Equal("-O3", records[2].Compiler)
	chk.Equal(spmvbench.Some(1), records[4].Threads)
	chk.Equal("static", records[4].Schedule)

	abs := filepath.Join(cfg.DataDir, "small.mtx")
	chk.Equal([]string{abs}, calls[0])
	chk.Equal([]string{abs, "1", "static", "10"}, calls[4])
	chk.Equal([]string{abs, "2", "guided", "10"}, calls[7])
}

func TestRunAppendsToExistingResults(t *testing.T) {
	chk := require.New(t)
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)
	cfg.Sweeps = []string{SweepSequential}
	cfg.Compilers = []string{"-O2"}

	runner := NewMockRunner(ctrl)
	runner.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return("1.5", nil).Times(4)

	for range 2 {
		_, err := New(cfg, runner, nil).Run(context.Background())
		chk.NoError(err)
	}
	chk.Len(readResults(t, cfg.ResultsFile), 4)

	data, err := os.ReadFile(cfg.ResultsFile)
	chk.NoError(err)
	chk.Equal(1, strings.Count(string(data), "matrix_name,"))
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	chk := require.New(t)
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)
	cfg.Sweeps = []string{SweepSequential}
	cfg.Compilers = []string{"-O0"}
	cfg.Repetitions = 3

	core, logs := observer.New(zapcore.DebugLevel)
	runner := NewMockRunner(ctrl)
	runner.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(errors.New("gcc: not found"))
	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("exit status 127")),
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return("Error opening file\n", nil),
		runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return("2.0\n", nil),
	)

	stats, err := New(cfg, runner, zap.New(core)).Run(context.Background())
	chk.NoError(err)
	chk.Equal(Stats{Compiles: 1, CompileFailures: 1, Trials: 3, RunFailures: 1, Rows: 3}, stats)
	chk.Equal(1, logs.FilterMessage("Compile failed").Len())
	chk.Equal(1, logs.FilterMessage("Kernel output is not a number").Len())

	data, err := os.ReadFile(cfg.ResultsFile)
	chk.NoError(err)
	chk.Contains(string(data), "small.mtx,3,3,4,-O0,Nan,Nan,Nan,\n")
	chk.Contains(string(data), "small.mtx,3,3,4,-O0,Nan,Nan,Nan,Error opening file\n")

	records := readResults(t, cfg.ResultsFile)
	chk.Len(records, 1)
	chk.Equal(2.0, records[0].ExecTime)
}

func TestRunStopOnError(t *testing.T) {
	chk := require.New(t)
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)
	cfg.Sweeps = []string{SweepSequential}
	cfg.Compilers = []string{"-O0"}
	cfg.StopOnError = true

	boom := errors.New("exit status 1")
	runner := NewMockRunner(ctrl)
	runner.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

	stats, err := New(cfg, runner, nil).Run(context.Background())
	chk.ErrorIs(err, boom)
	chk.Equal(1, stats.RunFailures)
	chk.Zero(stats.Rows)
}

func TestRunDryRunInvokesNothing(t *testing.T) {
	chk := require.New(t)
	ctrl := gomock.NewController(t)
	cfg := testConfig(t)
	cfg.DryRun = true

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := New(cfg, NewMockRunner(ctrl), zap.New(core)).Run(context.Background())
	chk.NoError(err)
	chk.Equal(3, logs.FilterMessage("Would run stage").Len())
	_, err = os.Stat(cfg.ResultsFile)
	chk.True(os.IsNotExist(err))
}

func TestRunWithoutMatrices(t *testing.T) {
	chk := require.New(t)
	cfg := testConfig(t)
	cfg.DataDir = t.TempDir()
	_, err := New(cfg, NewMockRunner(gomock.NewController(t)), nil).Run(context.Background())
	chk.ErrorIs(err, ErrNoMatrices)
}
