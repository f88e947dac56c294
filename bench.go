// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/perf/benchfmt"
	"golang.org/x/perf/benchmath"
)

// BenchmarkName is the name under which trials are exported, without the
// "Benchmark" prefix that benchfmt adds.
const BenchmarkName = "SpMV"

// WriteBenchfmt exports raw trials in the Go benchmark format, one result per
// trial with the execution time converted to sec/op, so result files can be
// compared with benchstat. Configuration fields become name components.
func WriteBenchfmt(w io.Writer, records []TimingRecord) error {
	bw := benchfmt.NewWriter(w)
	for _, rec := range records {
		res := &benchfmt.Result{
			Config: []benchfmt.Config{
				{Key: "rows", Value: []byte(strconv.Itoa(rec.Rows))},
				{Key: "cols", Value: []byte(strconv.Itoa(rec.Cols))},
				{Key: "nz", Value: []byte(strconv.Itoa(rec.NZ))},
			},
			Name:  benchfmt.Name(benchName(rec.Key)),
			Iters: 1,
			Values: []benchfmt.Value{
				{Value: rec.ExecTime / 1e3, Unit: "sec/op"},
			},
		}
		if err := bw.Write(res); err != nil {
			return err
		}
	}
	return nil
}

func benchName(k Key) string {
	var b strings.Builder
	b.WriteString(BenchmarkName)
	part := func(name, value string) {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '/':
				return '_'
			}
			return r
		}, value))
	}
	part("matrix", k.Matrix)
	part("compiler", k.Compiler)
	part("threads", k.Threads.String())
	part("chunk", k.Chunk.String())
	part("schedule", k.ScheduleString())
	return b.String()
}

// KeySummary is a distribution-free summary of every trial of one key.
type KeySummary struct {
	Key Key
	N   int
	benchmath.Summary
}

// Confidence summarizes all trials of each key with a confidence interval
// around the median that assumes nothing about the distribution. Results are
// in key order.
func Confidence(records []TimingRecord, confidence float64) []KeySummary {
	byKey := map[Key][]float64{}
	for _, r := range records {
		byKey[r.Key] = append(byKey[r.Key], r.ExecTime)
	}
	keys := make([]Key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.Compare)

	out := make([]KeySummary, 0, len(keys))
	for _, k := range keys {
		sample := benchmath.NewSample(byKey[k], &benchmath.DefaultThresholds)
		out = append(out, KeySummary{
			Key:     k,
			N:       len(byKey[k]),
			Summary: benchmath.AssumeNothing.Summary(sample, confidence),
		})
	}
	return out
}
