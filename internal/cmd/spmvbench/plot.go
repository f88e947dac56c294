// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/analysis"
	"github.com/petenewcomb/spmvbench-go/chart"
	"go.uber.org/zap"
)

const plotUsage = `spmvbench plot - render a chart

Usage:
  spmvbench plot <kind> [options]

Kinds:
  speedup       Speedup per thread count and schedule, one chart per matrix
  strong        Best-schedule speedup of every matrix on one chart
  chunks        Execution time per chunk size, schedule and thread count
  llc           LLC miss rate per thread count
  mpi-speedup   Distributed strong scaling speedup (log-log)
  efficiency    Distributed strong scaling parallel efficiency
  breakdown     Computation and communication time per process count
  cnorm         Normalized communication volume and memory per rank

Options:
  -in FILE          Input file (default depends on kind)
  -out DIR          Output directory (default: plots)
  -chunk N          Chunk size for speedup and strong (default: best per matrix)
  -baseline FLAG    Compiler flag of the sequential baseline (default: first)
  -matrices LIST    Comma-separated matrices for strong (default: all)
  -type T           breakdown: strong or weak (default: strong)
  -log              breakdown: logarithmic time axis
  -linear           breakdown: linear time axis, overrides -log
  -h                Show this help

A missing input file is reported and the command exits successfully.
`

var plotKinds = []string{"speedup", "strong", "chunks", "llc", "mpi-speedup", "efficiency", "breakdown", "cnorm"}

// Input files tried in order when -in is not given.
var (
	timingInputs = []string{defaultTimingFile, "results/final_results_time.csv"}
	cacheInputs  = []string{"results/final_results_cache.csv"}
	strongInputs = []string{"results/strong_test.csv", "strong_scaling.csv"}
	weakInputs   = []string{"results/weak_test.csv", "weak_test.csv", "weak_scaling.csv"}
	cnormInputs  = append([]string{"result/weak_test.csv"}, weakInputs...)
)

type plotOptions struct {
	in       string
	out      string
	chunk    int
	baseline string
	matrices string
	scaling  string
	logScale bool
	linear   bool
}

func runPlot(args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprint(os.Stderr, plotUsage)
		if len(args) > 0 && (args[0] == "-h" || args[0] == "-help" || args[0] == "--help") {
			return flag.ErrHelp
		}
		return errors.New("missing plot kind")
	}
	kind := args[0]
	if !slices.Contains(plotKinds, kind) {
		fmt.Fprint(os.Stderr, plotUsage)
		return fmt.Errorf("unknown plot kind: %s", kind)
	}

	var o plotOptions
	fs := flag.NewFlagSet("plot "+kind, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, plotUsage) }
	fs.StringVar(&o.in, "in", "", "input file")
	fs.StringVar(&o.out, "out", "plots", "output directory")
	fs.IntVar(&o.chunk, "chunk", 0, "chunk size")
	fs.StringVar(&o.baseline, "baseline", "", "sequential compiler flag")
	fs.StringVar(&o.matrices, "matrices", "", "matrices to compare")
	fs.StringVar(&o.scaling, "type", "strong", "strong or weak")
	fs.BoolVar(&o.logScale, "log", false, "logarithmic time axis")
	fs.BoolVar(&o.linear, "linear", false, "linear time axis")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return plot(kind, o)
}

func plot(kind string, o plotOptions) error {
	var candidates []string
	switch kind {
	case "speedup", "strong", "chunks":
		candidates = timingInputs
	case "llc":
		candidates = cacheInputs
	case "mpi-speedup", "efficiency":
		candidates = strongInputs
	case "breakdown":
		switch o.scaling {
		case "strong":
			candidates = strongInputs
		case "weak":
			candidates = weakInputs
		default:
			return fmt.Errorf("-type %q: must be strong or weak", o.scaling)
		}
	case "cnorm":
		candidates = cnormInputs
	}
	in, ok := resolveInput(o.in, candidates)
	if !ok {
		tried := candidates
		if o.in != "" {
			tried = []string{o.in}
		}
		zap.L().Warn("Input file not found, nothing plotted", zap.String("kind", kind), zap.Strings("tried", tried))
		return nil
	}
	logger := zap.L().With(zap.String("kind", kind), zap.String("input", in))

	var paths []string
	var err error
	switch kind {
	case "speedup", "strong", "chunks":
		paths, err = plotThreads(kind, in, o, logger)
	case "llc":
		paths, err = plotCache(in, o)
	case "mpi-speedup", "efficiency":
		paths, err = plotStrong(kind, in, o)
	case "breakdown":
		paths, err = plotBreakdown(in, o)
	case "cnorm":
		paths, err = plotComm(in, o)
	}
	for _, p := range paths {
		logger.Info("Saved chart", zap.String("path", p))
	}
	return err
}

// resolveInput returns explicit if given, otherwise the first candidate
// that exists.
func resolveInput(explicit string, candidates []string) (string, bool) {
	if explicit != "" {
		candidates = []string{explicit}
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c, true
		}
	}
	return "", false
}

// breakdownLogScale decides the time axis of a breakdown chart: weak
// scaling defaults to log, -log forces it and -linear wins over both.
func breakdownLogScale(scaling string, logFlag, linear bool) bool {
	useLog := scaling == "weak" || logFlag
	if linear {
		useLog = false
	}
	return useLog
}

func plotThreads(kind, in string, o plotOptions, logger *zap.Logger) ([]string, error) {
	records, err := readTimings(in, true)
	if err != nil {
		return nil, err
	}
	agg := spmvbench.Aggregate(records)
	summaries := agg.Summaries
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%s: %w", in, analysis.ErrNoData)
	}

	matrices := spmvbench.Matrices(summaries)
	if o.matrices != "" {
		matrices = strings.Split(o.matrices, ",")
	}

	if kind == "chunks" {
		var paths []string
		for _, m := range matrices {
			g, err := analysis.NewChunkGrid(summaries, m, o.baseline)
			if err != nil {
				logger.Warn("Skipping matrix", zap.String("matrix", m), zap.Error(err))
				continue
			}
			p, err := chart.ChunkSearch(g, o.out)
			if err != nil {
				return paths, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}

	best := spmvbench.BestChunks(summaries)
	var tables []*analysis.SpeedupTable
	for _, m := range matrices {
		chunk, ok := o.chunk, o.chunk > 0
		if !ok {
			chunk, ok = best[m]
		}
		if !ok {
			logger.Warn("Skipping matrix without parallel results", zap.String("matrix", m))
			continue
		}
		t, err := analysis.ThreadSpeedups(summaries, m, chunk, o.baseline)
		if err != nil {
			logger.Warn("Skipping matrix", zap.String("matrix", m), zap.Error(err))
			continue
		}
		tables = append(tables, t)
	}

	if kind == "strong" {
		p, err := chart.StrongScalingBest(tables, o.out)
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}
	var paths []string
	for _, t := range tables {
		p, err := chart.Speedup(t, o.out)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func plotCache(in string, o plotOptions) ([]string, error) {
	records, err := analysis.ReadCacheFile(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	p, err := chart.MissRate(analysis.MissRateByThreads(records), o.out)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

func plotStrong(kind, in string, o plotOptions) ([]string, error) {
	t, err := analysis.ReadScalingFile(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	points, err := analysis.StrongScaling(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	render := chart.MPISpeedup
	if kind == "efficiency" {
		render = chart.Efficiency
	}
	p, err := render(points, o.out)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

func plotBreakdown(in string, o plotOptions) ([]string, error) {
	t, err := analysis.ReadScalingFile(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	useLog := breakdownLogScale(o.scaling, o.logScale, o.linear)

	if o.scaling == "weak" {
		recs, err := analysis.Breakdown(t, "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in, err)
		}
		path := chart.WeakBreakdownPath(o.out)
		if err := chart.Breakdown(recs, "Weak Scaling", useLog, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	if err := t.Require(analysis.ColMatrix); err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	var paths []string
	for _, m := range t.MatrixNames() {
		recs, err := analysis.Breakdown(t, m)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", m, err)
		}
		path := chart.StrongBreakdownPath(o.out, m)
		if err := chart.Breakdown(recs, m+" - Strong Scaling", useLog, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plotComm(in string, o plotOptions) ([]string, error) {
	t, err := analysis.ReadScalingFile(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	points, err := analysis.CommVolume(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	p, err := chart.CommMemory(points, o.out)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}
