// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/petenewcomb/spmvbench-go"
	"go.uber.org/zap"
)

const summarizeUsage = `spmvbench summarize - reduce raw timings to block percentiles

Usage:
  spmvbench summarize [options]

Groups trials by configuration, cuts each group into blocks of 10 and writes
the 90th percentile of every full block. Trials in incomplete trailing blocks
are dropped and reported.

Options:
  -in FILE          Timing CSV (default: results/time_results.csv)
  -o FILE           Summary CSV (default: standard output)
  -skip-invalid     Drop rows with malformed values instead of failing
  -h                Show this help
`

const defaultTimingFile = "results/time_results.csv"

func runSummarize(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, summarizeUsage) }
	in := fs.String("in", defaultTimingFile, "timing CSV")
	out := fs.String("o", "", "summary CSV")
	skipInvalid := fs.Bool("skip-invalid", false, "drop malformed rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := readTimings(*in, *skipInvalid)
	if err != nil {
		return err
	}
	agg := spmvbench.Aggregate(records)
	for _, p := range agg.Partial {
		zap.L().Debug("Dropped incomplete block", zap.Stringer("key", p.Key), zap.Int("trials", p.Count))
	}
	if agg.Discarded > 0 {
		zap.L().Warn("Trials in incomplete blocks were discarded",
			zap.Int("discarded", agg.Discarded),
			zap.Int("configurations", len(agg.Partial)),
		)
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := spmvbench.WriteSummaryCSV(w, agg.Summaries); err != nil {
		return err
	}
	zap.L().Info("Summarized timings",
		zap.Int("trials", len(records)),
		zap.Int("summaries", len(agg.Summaries)),
		zap.Int("discarded", agg.Discarded),
	)
	return nil
}

// readTimings reads a timing file and logs how many rows were skipped.
func readTimings(path string, skipInvalid bool) ([]spmvbench.TimingRecord, error) {
	records, stats, err := spmvbench.ReadTimingFile(path, spmvbench.ReadOptions{SkipInvalid: skipInvalid})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if stats.Skipped > 0 {
		zap.L().Warn("Skipped malformed rows",
			zap.String("path", path),
			zap.Int("skipped", stats.Skipped),
			zap.Int("rows", stats.Rows),
		)
	}
	return records, nil
}
