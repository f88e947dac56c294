// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/petenewcomb/spmvbench-go/mtx"
	"go.uber.org/zap"
)

const generateUsage = `spmvbench generate - write synthetic Matrix Market inputs

Usage:
  spmvbench generate [options]

Writes synthetic_{N}x{N}_K{k}.mtx for N = 2^min-exp .. 2^max-exp, or a single
N x N matrix when -size is given.

Options:
  -outdir DIR         Output directory (default: weak_scaling_mtx)
  -nnz-per-row K      Nonzeros per row (default: 32)
  -seed S             Random seed (default: 1)
  -vmin V, -vmax V    Value range (default: -10, 10)
  -min-exp E          Smallest size exponent (default: 8)
  -max-exp E          Largest size exponent (default: 16)
  -size N             Generate one N x N matrix instead of a suite
  -h                  Show this help
`

func runGenerate(args []string) error {
	opts := mtx.DefaultSuiteOptions
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, generateUsage) }
	fs.StringVar(&opts.Dir, "outdir", opts.Dir, "output directory")
	fs.IntVar(&opts.NNZPerRow, "nnz-per-row", opts.NNZPerRow, "nonzeros per row")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	fs.Float64Var(&opts.VMin, "vmin", opts.VMin, "smallest value")
	fs.Float64Var(&opts.VMax, "vmax", opts.VMax, "largest value")
	fs.IntVar(&opts.MinExp, "min-exp", opts.MinExp, "smallest size exponent")
	fs.IntVar(&opts.MaxExp, "max-exp", opts.MaxExp, "largest size exponent")
	size := fs.Int("size", 0, "single matrix size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *size > 0 {
		path, err := generateOne(opts, *size)
		if err != nil {
			return err
		}
		zap.L().Info("Generated matrix", zap.String("path", path))
		return nil
	}

	paths, err := mtx.GenerateSuite(opts)
	for _, p := range paths {
		zap.L().Info("Generated matrix", zap.String("path", p))
	}
	return err
}

func generateOne(opts mtx.SuiteOptions, n int) (string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(opts.Dir, mtx.SyntheticName(n, opts.NNZPerRow))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	if err := mtx.Generate(f, n, opts.NNZPerRow, rng, opts.VMin, opts.VMax); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
