// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package mtx

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
)

// SyntheticName returns the file name used for an n×n matrix with k nonzeros
// per row.
func SyntheticName(n, k int) string {
	return fmt.Sprintf("synthetic_%dx%d_K%d%s", n, n, k, Extension)
}

// Generate writes an n×n matrix with exactly k nonzeros in every row. Each
// row's columns are drawn uniformly without replacement and written in
// ascending order; values are uniform in [vmin, vmax). All randomness comes
// from rng so a fixed seed reproduces the file exactly.
func Generate(w io.Writer, n, k int, rng *rand.Rand, vmin, vmax float64) error {
	if err := validate(n, k, vmin, vmax); err != nil {
		return err
	}
	mw, err := NewWriter(w, n, n, n*k, fmt.Sprintf("synthetic random, fixed nnz per row = %d", k))
	if err != nil {
		return err
	}
	chosen := make(map[int]struct{}, k)
	cols := make([]int, 0, k)
	for i := 1; i <= n; i++ {
		cols = sampleColumns(rng, n, k, chosen, cols[:0])
		for _, c := range cols {
			v := vmin + (vmax-vmin)*rng.Float64()
			if err := mw.Entry(i, c, v); err != nil {
				return err
			}
		}
	}
	return mw.Close()
}

func validate(n, k int, vmin, vmax float64) error {
	switch {
	case n <= 0 || k < 0:
		return fmt.Errorf("%w: n=%d k=%d", ErrInvalidShape, n, k)
	case k > n:
		return fmt.Errorf("%w: k=%d > N=%d", ErrTooManyNonzeros, k, n)
	case vmin > vmax:
		return fmt.Errorf("%w: vmin %g > vmax %g", ErrInvalidShape, vmin, vmax)
	}
	return nil
}

// sampleColumns picks k distinct 1-based columns from [1, n] with Floyd's
// algorithm and returns them sorted in dst.
func sampleColumns(rng *rand.Rand, n, k int, chosen map[int]struct{}, dst []int) []int {
	clear(chosen)
	for j := n - k + 1; j <= n; j++ {
		t := rng.IntN(j) + 1
		if _, dup := chosen[t]; dup {
			t = j
		}
		chosen[t] = struct{}{}
		dst = append(dst, t)
	}
	slices.Sort(dst)
	return dst
}

// SuiteOptions configures GenerateSuite.
type SuiteOptions struct {
	Dir       string
	MinExp    int
	MaxExp    int
	NNZPerRow int
	Seed      uint64
	VMin      float64
	VMax      float64
}

// DefaultSuiteOptions generates 2^8 through 2^16 with 32 nonzeros per row.
var DefaultSuiteOptions = SuiteOptions{
	Dir:       "weak_scaling_mtx",
	MinExp:    8,
	MaxExp:    16,
	NNZPerRow: 32,
	Seed:      1,
	VMin:      -10,
	VMax:      10,
}

// GenerateSuite writes one synthetic matrix per power-of-two size from a
// single seeded source. A size that fails validation is skipped without
// creating a file; its error is joined into the result and the remaining
// sizes are still generated. It returns the paths written.
func GenerateSuite(opts SuiteOptions) ([]string, error) {
	if opts.MinExp < 0 || opts.MaxExp < opts.MinExp || opts.MaxExp > 30 {
		return nil, fmt.Errorf("%w: exponents %d..%d", ErrInvalidShape, opts.MinExp, opts.MaxExp)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	var paths []string
	var errs []error
	for e := opts.MinExp; e <= opts.MaxExp; e++ {
		n := 1 << e
		if err := validate(n, opts.NNZPerRow, opts.VMin, opts.VMax); err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(opts.Dir, SyntheticName(n, opts.NNZPerRow))
		if err := generateFile(path, n, opts, rng); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func generateFile(path string, n int, opts SuiteOptions, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Generate(f, n, opts.NNZPerRow, rng, opts.VMin, opts.VMax)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
