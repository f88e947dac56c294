// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/petenewcomb/spmvbench-go"
)

const exportUsage = `spmvbench export - convert raw timings to Go benchmark format

Usage:
  spmvbench export [options]

The output can be compared with benchstat.

Options:
  -in FILE          Timing CSV (default: results/time_results.csv)
  -o FILE           Output file (default: standard output)
  -skip-invalid     Drop rows with malformed values instead of failing
  -h                Show this help
`

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, exportUsage) }
	in := fs.String("in", defaultTimingFile, "timing CSV")
	out := fs.String("o", "", "output file")
	skipInvalid := fs.Bool("skip-invalid", false, "drop malformed rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := readTimings(*in, *skipInvalid)
	if err != nil {
		return err
	}
	if *out == "" {
		return spmvbench.WriteBenchfmt(stdout, records)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := spmvbench.WriteBenchfmt(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
