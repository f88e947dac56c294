// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// spmvbench runs SpMV benchmark campaigns, generates synthetic inputs and
// turns result files into summaries, reports and charts.
//
// Usage:
//
//	spmvbench [global options] <command> [options]
//
// See 'spmvbench <command> -h' for command-specific options.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/petenewcomb/spmvbench-go/otbench"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `spmvbench - SpMV benchmark driver and analysis

Usage:
  spmvbench [global options] <command> [options]

Global options:
  -v            Debug logging
  -json         JSON logs
  -trace FILE   Write OpenTelemetry spans to FILE

Commands:
  run         Compile the kernel and sweep every configuration, appending timings
  generate    Write synthetic Matrix Market inputs
  summarize   Reduce raw timings to per-block 90th percentiles
  report      Print the fastest configurations and confidence intervals
  export      Convert raw timings to Go benchmark format
  plot        Render a chart (speedup, strong, chunks, llc, mpi-speedup,
              efficiency, breakdown, cnorm)

Run 'spmvbench <command> -h' for command-specific help.
`

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("spmvbench", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	verbose := fs.Bool("v", false, "debug logging")
	jsonLogs := fs.Bool("json", false, "JSON logs")
	traceFile := fs.String("trace", "", "write spans to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	logger, err := newLogger(*verbose, *jsonLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	zap.ReplaceGlobals(logger)
	atexit.Register(func() { _ = logger.Sync() })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *traceFile != "" {
		if err := installTracing(*traceFile); err != nil {
			logger.Error("Failed to set up tracing", zap.Error(err))
			return 1
		}
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	var cmdErr error
	switch cmd {
	case "run":
		cmdErr = runRun(ctx, cmdArgs)
	case "generate":
		cmdErr = runGenerate(cmdArgs)
	case "summarize":
		cmdErr = runSummarize(cmdArgs, stdout)
	case "report":
		cmdErr = runReport(cmdArgs, stdout)
	case "export":
		cmdErr = runExport(cmdArgs, stdout)
	case "plot":
		cmdErr = runPlot(cmdArgs)
	case "help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		fs.Usage()
		return 1
	}
	if cmdErr != nil {
		if errors.Is(cmdErr, flag.ErrHelp) {
			return 0
		}
		logger.Error("Command failed", zap.String("command", cmd), zap.Error(cmdErr))
		return 1
	}
	return 0
}

func newLogger(verbose, jsonLogs bool) (*zap.Logger, error) {
	var cfg zap.Config
	if jsonLogs {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func installTracing(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	shutdown, err := otbench.InstallStdoutTracer(f)
	if err != nil {
		f.Close()
		return err
	}
	atexit.Register(func() {
		_ = shutdown(context.Background())
		_ = f.Close()
	})
	return nil
}
