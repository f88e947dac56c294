// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/petenewcomb/spmvbench-go/driver"
	"go.uber.org/zap"
)

const runUsage = `spmvbench run - compile the kernel and sweep every configuration

Usage:
  spmvbench run [options]

Options:
  -config FILE      YAML overrides for the default campaign
  -data DIR         Directory of .mtx inputs (overrides the config)
  -results FILE     Timing CSV to append to (overrides the config)
  -concurrency N    Trials in flight at once (overrides the config)
  -dry-run          Log the plan without compiling or running anything
  -h                Show this help
`

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, runUsage) }
	configFile := fs.String("config", "", "YAML config file")
	dataDir := fs.String("data", "", "matrix directory")
	results := fs.String("results", "", "timing CSV")
	concurrency := fs.Int("concurrency", 0, "trials in flight")
	dryRun := fs.Bool("dry-run", false, "log the plan only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := driver.DefaultConfig
	if *configFile != "" {
		var err error
		if cfg, err = driver.LoadConfig(*configFile); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *results != "" {
		cfg.ResultsFile = *results
	}
	if *concurrency != 0 {
		cfg.Concurrency = *concurrency
	}
	if *dryRun {
		cfg.DryRun = true
	}

	runner := &driver.ExecRunner{Dir: cfg.WorkDir, Timeout: cfg.Timeout}
	d := driver.New(cfg, runner, zap.L())
	stats, err := d.Run(ctx)
	if err != nil && stats.Rows > 0 {
		zap.L().Warn("Campaign stopped early",
			zap.String("run_id", d.RunID()),
			zap.Int("rows", stats.Rows),
			zap.String("results", cfg.ResultsFile))
	}
	return err
}
