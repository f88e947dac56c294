// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package driver runs benchmark campaigns: it discovers matrices, compiles
// the external kernel once per build configuration, invokes it for every
// trial of the plan and appends one timing row per trial.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"github.com/petenewcomb/spmvbench-go/mtx"
	"github.com/petenewcomb/spmvbench-go/otbench"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Stats counts what a campaign did.
type Stats struct {
	Compiles        int
	CompileFailures int
	Trials          int
	RunFailures     int
	Rows            int
}

// Driver executes a Config with a Runner.
type Driver struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
	runID  xid.ID
}

// New returns a driver. A nil logger discards logs.
func New(cfg Config, runner Runner, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := xid.New()
	return &Driver{
		cfg:    cfg,
		runner: runner,
		logger: logger.With(zap.Stringer("run_id", id)),
		runID:  id,
	}
}

// RunID identifies this driver's campaign in logs and spans.
func (d *Driver) RunID() string {
	return d.runID.String()
}

// Matrices scans the data directory. Paths are made absolute so the kernel
// can be invoked from another working directory.
func (d *Driver) Matrices() ([]mtx.Info, error) {
	matrices, err := mtx.ScanDir(d.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if len(matrices) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMatrices, d.cfg.DataDir)
	}
	for i := range matrices {
		abs, err := filepath.Abs(matrices[i].Path)
		if err != nil {
			return nil, err
		}
		matrices[i].Path = abs
	}
	return matrices, nil
}

// Run executes the configured sweeps and appends their rows to the results
// file.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := d.cfg.Validate(); err != nil {
		return stats, err
	}
	matrices, err := d.Matrices()
	if err != nil {
		return stats, err
	}
	for _, m := range matrices {
		d.logger.Info("Found matrix",
			zap.String("matrix", m.Name),
			zap.Int("rows", m.Rows),
			zap.Int("cols", m.Cols),
			zap.Int("nz", m.NZ))
	}

	plan := NewPlan(d.cfg, matrices)
	d.logger.Info("Plan ready",
		zap.Int("stages", len(plan.Stages)),
		zap.Int("trials", plan.Trials()))
	if d.cfg.DryRun {
		for _, s := range plan.Stages {
			d.logger.Info("Would run stage",
				zap.String("sweep", s.Sweep),
				zap.Stringer("build", s.Build),
				zap.Int("trials", s.Trials.Len()))
		}
		return stats, nil
	}

	w, err := spmvbench.OpenTimingCSV(d.cfg.ResultsFile)
	if err != nil {
		return stats, err
	}
	defer w.Close()

	ctx, span := otbench.StartSpan(ctx, "campaign", attribute.String("run_id", d.RunID()))
	defer span.End()

	for _, s := range plan.Stages {
		if err := d.runStage(ctx, s, w, &stats); err != nil {
			return stats, err
		}
	}
	d.logger.Info("Campaign finished",
		zap.Int("compiles", stats.Compiles),
		zap.Int("compile_failures", stats.CompileFailures),
		zap.Int("trials", stats.Trials),
		zap.Int("run_failures", stats.RunFailures),
		zap.Int("rows", stats.Rows),
		zap.String("results", d.cfg.ResultsFile))
	return stats, w.Close()
}

func (d *Driver) runStage(ctx context.Context, s *Stage, w *spmvbench.TimingWriter, stats *Stats) error {
	logger := d.logger.With(zap.String("sweep", s.Sweep))
	logger.Info("Compiling", zap.Stringer("build", s.Build))
	stats.Compiles++
	if err := d.runner.Compile(ctx, s.Build); err != nil {
		stats.CompileFailures++
		logger.Warn("Compile failed", zap.Error(err))
		if d.cfg.StopOnError {
			return err
		}
	}

	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, d.cfg.Concurrency)
	binary := d.cfg.binaryPath()
	operation := "trial." + s.Sweep

	for s.Trials.Len() > 0 {
		trial := s.Trials.PopFront()
		attrs := trialAttributes(d.RunID(), trial)
		err := sweep.Scatter(ctx, pool,
			otbench.InstrumentedTask(operation, attrs, func(ctx context.Context) (string, error) {
				return d.runner.Run(ctx, binary, trial.Args)
			}),
			otbench.InstrumentedGather(operation, attrs, func(_ context.Context, out string, err error) error {
				return d.record(logger, w, trial, out, err, stats)
			}),
		)
		if err != nil {
			return err
		}
	}
	return job.Close(ctx)
}

// record appends the row for one finished trial. Whatever the kernel printed
// is recorded, even when it failed or printed nothing.
func (d *Driver) record(logger *zap.Logger, w *spmvbench.TimingWriter, t Trial, out string, runErr error, stats *Stats) error {
	stats.Trials++
	text := strings.TrimSpace(out)
	if runErr != nil {
		stats.RunFailures++
		if d.cfg.StopOnError {
			return runErr
		}
	} else if _, err := strconv.ParseFloat(text, 64); err != nil {
		logger.Warn("Kernel output is not a number",
			zap.String("matrix", t.Key.Matrix),
			zap.String("output", text))
	}
	if err := w.AppendRaw(t.Record(), text); err != nil {
		return err
	}
	stats.Rows++
	return nil
}

func trialAttributes(runID string, t Trial) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("run_id", runID),
		attribute.String("matrix", t.Key.Matrix),
		attribute.String("compiler", t.Key.Compiler),
		attribute.String("threads", t.Key.Threads.String()),
		attribute.String("chunk", t.Key.Chunk.String()),
		attribute.String("schedule", t.Key.ScheduleString()),
		attribute.Int("repetition", t.Repetition),
	}
}
