// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package analysis

import (
	"cmp"
	"errors"
	"io"
	"os"
	"slices"

	"github.com/petenewcomb/spmvbench-go/internal/table"
	"gonum.org/v1/gonum/stat"
)

// Columns of cache counter files beyond the timing schema.
const (
	ColLLCLoads  = "LLC_loads"
	ColLLCMisses = "LLC_misses"
)

// CacheRecord is one trial with its last-level cache counters. Sequential
// trials have Threads 1.
type CacheRecord struct {
	Matrix  string
	NZ      int
	Threads int
	Loads   float64
	Misses  float64
}

// MissRate returns the record's LLC miss rate in percent.
func (r CacheRecord) MissRate() float64 {
	return MissRate(r.Misses, r.Loads)
}

// ReadCacheCSV parses a cache counter file. A not-applicable thread count
// means the sequential build and is read as one thread.
func ReadCacheCSV(r io.Reader) ([]CacheRecord, error) {
	tr, err := table.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := tr.Require("matrix_name", "nz", "thread_option", ColLLCLoads, ColLLCMisses); err != nil {
		return nil, err
	}
	var out []CacheRecord
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		rec := CacheRecord{Matrix: row.String("matrix_name"), Threads: 1}
		if rec.NZ, err = row.Int("nz"); err != nil {
			return nil, err
		}
		if t, ok, err := row.OptionalInt("thread_option"); err != nil {
			return nil, err
		} else if ok {
			rec.Threads = t
		}
		if rec.Loads, err = row.Float(ColLLCLoads); err != nil {
			return nil, err
		}
		if rec.Misses, err = row.Float(ColLLCMisses); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadCacheFile is ReadCacheCSV on a named file.
func ReadCacheFile(path string) ([]CacheRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCacheCSV(f)
}

// MissRateSeries is the mean miss rate of one matrix per thread count.
type MissRateSeries struct {
	Matrix  string
	NZ      int
	Threads []int
	Rates   []float64
}

// MissRateByThreads averages the miss rate per matrix and thread count.
// Series are ordered by nonzero count, smallest matrix first, and each
// series by thread count.
func MissRateByThreads(records []CacheRecord) []MissRateSeries {
	type key struct {
		matrix  string
		nz      int
		threads int
	}
	rates := map[key][]float64{}
	for _, r := range records {
		k := key{r.Matrix, r.NZ, r.Threads}
		rates[k] = append(rates[k], r.MissRate())
	}
	keys := make([]key, 0, len(rates))
	for k := range rates {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(a.nz, b.nz); c != 0 {
			return c
		}
		if c := cmp.Compare(a.matrix, b.matrix); c != 0 {
			return c
		}
		return cmp.Compare(a.threads, b.threads)
	})

	var out []MissRateSeries
	for _, k := range keys {
		if n := len(out); n == 0 || out[n-1].Matrix != k.matrix || out[n-1].NZ != k.nz {
			out = append(out, MissRateSeries{Matrix: k.matrix, NZ: k.nz})
		}
		s := &out[len(out)-1]
		s.Threads = append(s.Threads, k.threads)
		s.Rates = append(s.Rates, stat.Mean(rates[k], nil))
	}
	return out
}
