// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/analysis"
	"golang.org/x/perf/benchmath"
	"golang.org/x/perf/benchunit"
)

const reportUsage = `spmvbench report - print the fastest configurations

Usage:
  spmvbench report [options]

For every matrix, prints the fastest configuration by 90th percentile time and
its speedup over the sequential build, then the overall top configurations
with a confidence interval over all of their trials.

Options:
  -in FILE           Timing CSV (default: results/time_results.csv)
  -n N               Overall configurations to list (default: 10)
  -confidence C      Confidence level of the intervals (default: 0.95)
  -baseline FLAG     Compiler flag of the sequential baseline (default: first)
  -skip-invalid      Drop rows with malformed values instead of failing
  -h                 Show this help
`

var (
	headingColor = color.New(color.Bold)
	bestColor    = color.New(color.FgGreen)
	slowColor    = color.New(color.FgRed)
)

func runReport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, reportUsage) }
	in := fs.String("in", defaultTimingFile, "timing CSV")
	n := fs.Int("n", 10, "configurations to list")
	confidence := fs.Float64("confidence", 0.95, "confidence level")
	baseline := fs.String("baseline", "", "sequential compiler flag")
	skipInvalid := fs.Bool("skip-invalid", false, "drop malformed rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !(*confidence > 0 && *confidence < 1) {
		return fmt.Errorf("confidence %g: must be between 0 and 1", *confidence)
	}

	records, err := readTimings(*in, *skipInvalid)
	if err != nil {
		return err
	}
	agg := spmvbench.Aggregate(records)
	if len(agg.Summaries) == 0 {
		return fmt.Errorf("%s: %w", *in, analysis.ErrNoData)
	}
	return writeReport(stdout, records, agg, *n, *confidence, *baseline)
}

func writeReport(w io.Writer, records []spmvbench.TimingRecord, agg *spmvbench.Aggregation, n int, confidence float64, baseline string) error {
	headingColor.Fprintln(w, "Fastest configuration per matrix (p90)")
	for _, best := range spmvbench.FastestPerMatrix(agg.Summaries, false) {
		line := fmt.Sprintf("  %-32s %-44s %s", best.Matrix, configString(best.Key), formatMillis(best.P90))
		seq, err := spmvbench.SequentialBaseline(agg.Summaries, best.Matrix, baseline)
		if err == nil {
			s := analysis.Speedup(seq, best.P90)
			c := bestColor
			if s < 1 {
				c = slowColor
			}
			c.Fprintf(w, "%s  speedup %s\n", line, formatSpeedup(s))
			continue
		}
		fmt.Fprintln(w, line)
	}
	if agg.Discarded > 0 {
		slowColor.Fprintf(w, "  (%d trials in incomplete blocks were discarded)\n", agg.Discarded)
	}

	top := distinctFastest(agg.Summaries, n)
	intervals := map[spmvbench.Key]spmvbench.KeySummary{}
	for _, ks := range spmvbench.Confidence(records, confidence) {
		intervals[ks.Key] = ks
	}
	fmt.Fprintln(w)
	headingColor.Fprintf(w, "Top %d configurations (median of all trials, %.0f%% CI)\n", len(top), confidence*100)
	for _, s := range top {
		ks := intervals[s.Key]
		fmt.Fprintf(w, "  %-32s %-44s p90 %-10s median %s (n=%d)\n",
			s.Matrix, configString(s.Key), formatMillis(s.P90), formatSummary(&ks.Summary), ks.N)
	}
	return nil
}

// distinctFastest returns the n fastest summaries with at most one, the
// fastest block, per key.
func distinctFastest(summaries []spmvbench.Summary, n int) []spmvbench.Summary {
	var out []spmvbench.Summary
	seen := map[spmvbench.Key]bool{}
	for _, s := range spmvbench.Fastest(summaries, len(summaries)) {
		if len(out) >= n {
			break
		}
		if seen[s.Key] {
			continue
		}
		seen[s.Key] = true
		out = append(out, s)
	}
	return out
}

func configString(k spmvbench.Key) string {
	if k.Sequential() {
		return fmt.Sprintf("%s sequential", k.Compiler)
	}
	return fmt.Sprintf("%s threads=%s chunk=%s %s", k.Compiler, k.Threads, k.Chunk, k.Schedule)
}

func formatSpeedup(s float64) string {
	if math.IsNaN(s) {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", s)
}

// formatMillis scales a time in milliseconds to the closest SI prefix.
func formatMillis(ms float64) string {
	return benchunit.Scale(ms/1e3, benchunit.Decimal) + "s"
}

func formatRatio(n, d float64) string {
	switch {
	case d == 0:
		if n == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.2g", n)
	case math.Abs(n/d) < 1:
		return fmt.Sprintf("%.2g%%", math.Round(100*n/d))
	default:
		return fmt.Sprintf("%.2gx", n/d)
	}
}

func formatSummary(s *benchmath.Summary) string {
	center := formatMillis(s.Center)
	plus := formatRatio(s.Hi-s.Center, s.Center)
	minus := formatRatio(s.Center-s.Lo, s.Center)
	if plus == minus {
		return fmt.Sprintf("%s ±%s", center, plus)
	}
	return fmt.Sprintf("%s +%s -%s", center, plus, minus)
}
