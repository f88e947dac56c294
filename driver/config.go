// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Sweep names.
const (
	SweepSequential = "sequential"
	SweepParallel   = "parallel"
)

var DefaultConfig = Config{
	DataDir:     "./data",
	ResultsFile: "results/time_results.csv",
	WorkDir:     ".",
	Repetitions: 10,
	Sweeps:      []string{SweepSequential, SweepParallel},
	Concurrency: 1,
	Build:       defaultBuildConfig,
	Compilers:   []string{"-O0", "-O1", "-O2", "-O3", "-Ofast"},
	ParallelOpt: "-O3",
	Threads:     []int{1, 2, 4, 8},
	ChunkSizes:  []int{1, 10, 100, 1000},
	Schedules:   []string{"static", "dynamic", "guided"},
}

var defaultBuildConfig = BuildConfig{
	Compiler:     "gcc",
	Sources:      []string{"src/main.c", "src/csr.c", "src/print.c"},
	IncludeDirs:  []string{"include"},
	Libraries:    []string{"m"},
	Output:       "bin/spmv",
	ParallelFlag: "-fopenmp",
}

// Config describes a benchmark campaign.
type Config struct {
	// DataDir holds the .mtx inputs.
	DataDir string `yaml:"data_dir"`

	// ResultsFile receives one row per trial, appended.
	ResultsFile string `yaml:"results_file"`

	// WorkDir is where the compiler and binary are invoked.
	WorkDir string `yaml:"work_dir"`

	Repetitions int      `yaml:"repetitions"`
	Sweeps      []string `yaml:"sweeps"`

	// Concurrency bounds how many trials run at once. Values above one
	// distort timings and are meant for smoke-testing a setup.
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds each compile and run; zero waits forever.
	Timeout time.Duration `yaml:"timeout"`

	// StopOnError aborts the sweep at the first failed compile or run
	// instead of recording the failure and continuing.
	StopOnError bool `yaml:"stop_on_error"`

	// DryRun logs the plan without invoking anything.
	DryRun bool `yaml:"dry_run"`

	Build       BuildConfig `yaml:"build"`
	Compilers   []string    `yaml:"compilers"`
	ParallelOpt string      `yaml:"parallel_opt"`
	Threads     []int       `yaml:"threads"`
	ChunkSizes  []int       `yaml:"chunk_sizes"`
	Schedules   []string    `yaml:"schedules"`
}

// BuildConfig describes how the external kernel is compiled.
type BuildConfig struct {
	Compiler     string   `yaml:"compiler"`
	Sources      []string `yaml:"sources"`
	IncludeDirs  []string `yaml:"include_dirs"`
	Libraries    []string `yaml:"libraries"`
	ExtraFlags   []string `yaml:"extra_flags"`
	Output       string   `yaml:"output"`
	ParallelFlag string   `yaml:"parallel_flag"`
}

// LoadConfig overlays the YAML document at path on DefaultConfig and
// validates the result.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig is LoadConfig on a reader. Unknown keys are rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig.clone()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) clone() Config {
	c.Sweeps = slices.Clone(c.Sweeps)
	c.Compilers = slices.Clone(c.Compilers)
	c.Threads = slices.Clone(c.Threads)
	c.ChunkSizes = slices.Clone(c.ChunkSizes)
	c.Schedules = slices.Clone(c.Schedules)
	c.Build.Sources = slices.Clone(c.Build.Sources)
	c.Build.IncludeDirs = slices.Clone(c.Build.IncludeDirs)
	c.Build.Libraries = slices.Clone(c.Build.Libraries)
	c.Build.ExtraFlags = slices.Clone(c.Build.ExtraFlags)
	return c
}

// Validate reports the first field that cannot drive a sweep.
func (c Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
	}
	switch {
	case c.DataDir == "":
		return invalid("data_dir", "must be set")
	case c.ResultsFile == "":
		return invalid("results_file", "must be set")
	case c.Repetitions <= 0:
		return invalid("repetitions", "must be positive, got %d", c.Repetitions)
	case c.Concurrency == 0:
		return invalid("concurrency", "must be non-zero")
	case c.Timeout < 0:
		return invalid("timeout", "must not be negative")
	case c.Build.Compiler == "":
		return invalid("build.compiler", "must be set")
	case len(c.Build.Sources) == 0:
		return invalid("build.sources", "must not be empty")
	case c.Build.Output == "":
		return invalid("build.output", "must be set")
	}
	for _, s := range c.Sweeps {
		switch s {
		case SweepSequential:
			if len(c.Compilers) == 0 {
				return invalid("compilers", "must not be empty for the sequential sweep")
			}
		case SweepParallel:
			if len(c.Threads) == 0 || len(c.ChunkSizes) == 0 || len(c.Schedules) == 0 {
				return invalid("threads/chunk_sizes/schedules", "must not be empty for the parallel sweep")
			}
		default:
			return invalid("sweeps", "unknown sweep %q", s)
		}
	}
	for _, t := range c.Threads {
		if t <= 0 {
			return invalid("threads", "must be positive, got %d", t)
		}
	}
	for _, cs := range c.ChunkSizes {
		if cs <= 0 {
			return invalid("chunk_sizes", "must be positive, got %d", cs)
		}
	}
	return nil
}

// Has reports whether the named sweep is enabled.
func (c Config) Has(sweep string) bool {
	return slices.Contains(c.Sweeps, sweep)
}
