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
)

// Columns of distributed scaling result files.
const (
	ColMatrix        = "matrix_name"
	ColProcs         = "procs"
	ColComputation   = "computation_time"
	ColCommunication = "communication_time"
	ColAvgVol        = "avg_vol"
	ColMinVol        = "min_vol"
	ColMaxVol        = "max_vol"
	ColAvgLoad       = "avg_load"
	ColMinMem        = "min_mem_KB"
	ColAvgMem        = "avg_mem_KB"
	ColMaxMem        = "max_mem_KB"
)

var scalingFloatColumns = []string{
	ColComputation, ColCommunication,
	ColAvgVol, ColMinVol, ColMaxVol, ColAvgLoad,
	ColMinMem, ColAvgMem, ColMaxMem,
}

// ScalingRecord is one row of a strong or weak scaling file. Fields whose
// column is absent from the file are zero.
type ScalingRecord struct {
	Matrix        string
	Procs         int
	Computation   float64
	Communication float64
	AvgVol        float64
	MinVol        float64
	MaxVol        float64
	AvgLoad       float64
	MinMemKB      float64
	AvgMemKB      float64
	MaxMemKB      float64
}

// Total returns computation plus communication time.
func (r ScalingRecord) Total() float64 {
	return r.Computation + r.Communication
}

func (r *ScalingRecord) field(column string) *float64 {
	switch column {
	case ColComputation:
		return &r.Computation
	case ColCommunication:
		return &r.Communication
	case ColAvgVol:
		return &r.AvgVol
	case ColMinVol:
		return &r.MinVol
	case ColMaxVol:
		return &r.MaxVol
	case ColAvgLoad:
		return &r.AvgLoad
	case ColMinMem:
		return &r.MinMemKB
	case ColAvgMem:
		return &r.AvgMemKB
	case ColMaxMem:
		return &r.MaxMemKB
	}
	return nil
}

// ScalingTable is a parsed scaling file. Which columns it carries depends on
// the benchmark that produced it, so each derivation checks for the columns
// it needs with Require.
type ScalingTable struct {
	Columns []string
	Records []ScalingRecord
}

// Require returns ErrMissingColumn naming the first absent column.
func (t *ScalingTable) Require(columns ...string) error {
	for _, c := range columns {
		if !slices.Contains(t.Columns, c) {
			return &missingColumnError{column: c}
		}
	}
	return nil
}

type missingColumnError struct {
	column string
}

func (e *missingColumnError) Error() string {
	return ErrMissingColumn.Error() + ": " + e.column
}

func (e *missingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// ReadScalingCSV parses a scaling file. Only the procs column is mandatory.
func ReadScalingCSV(r io.Reader) (*ScalingTable, error) {
	tr, err := table.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := tr.Require(ColProcs); err != nil {
		return nil, err
	}
	t := &ScalingTable{Columns: slices.Clone(tr.Header())}
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		rec := ScalingRecord{Matrix: row.String(ColMatrix)}
		if rec.Procs, err = row.Int(ColProcs); err != nil {
			return nil, err
		}
		for _, c := range scalingFloatColumns {
			if !tr.Has(c) {
				continue
			}
			if *rec.field(c), err = row.Float(c); err != nil {
				return nil, err
			}
		}
		t.Records = append(t.Records, rec)
	}
}

// ReadScalingFile is ReadScalingCSV on a named file.
func ReadScalingFile(path string) (*ScalingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadScalingCSV(f)
}

// ScalingPoint is one measurement of a strong scaling series.
type ScalingPoint struct {
	Matrix     string
	Procs      int
	Total      float64
	T1         float64
	Speedup    float64
	Efficiency float64
}

// StrongScaling pairs every row with the single-process total time of its
// matrix and derives speedup and efficiency. Rows of matrices without a
// single-process run are dropped. Points are ordered by matrix, then procs.
func StrongScaling(t *ScalingTable) ([]ScalingPoint, error) {
	if err := t.Require(ColMatrix, ColProcs, ColComputation, ColCommunication); err != nil {
		return nil, err
	}
	t1 := map[string]float64{}
	for _, r := range t.Records {
		if r.Procs == 1 {
			if _, ok := t1[r.Matrix]; !ok {
				t1[r.Matrix] = r.Total()
			}
		}
	}
	var out []ScalingPoint
	for _, r := range t.Records {
		base, ok := t1[r.Matrix]
		if !ok {
			continue
		}
		s := Speedup(base, r.Total())
		out = append(out, ScalingPoint{
			Matrix:     r.Matrix,
			Procs:      r.Procs,
			Total:      r.Total(),
			T1:         base,
			Speedup:    s,
			Efficiency: Efficiency(s, r.Procs),
		})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	slices.SortStableFunc(out, func(a, b ScalingPoint) int {
		if c := cmp.Compare(a.Matrix, b.Matrix); c != 0 {
			return c
		}
		return cmp.Compare(a.Procs, b.Procs)
	})
	return out, nil
}

// ByMatrix splits points into per-matrix series, in matrix order.
func ByMatrix(points []ScalingPoint) [][]ScalingPoint {
	var out [][]ScalingPoint
	for i, p := range points {
		if i == 0 || p.Matrix != points[i-1].Matrix {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], p)
	}
	return out
}

// CommPoint is the per-rank communication and memory profile at one process
// count.
type CommPoint struct {
	Procs    int
	RatioAvg float64
	RatioMin float64
	RatioMax float64
	MinMemKB float64
	AvgMemKB float64
	MaxMemKB float64
}

// CommVolume normalizes communication volumes by the average load and
// returns them with the memory footprint, ordered by procs.
func CommVolume(t *ScalingTable) ([]CommPoint, error) {
	if err := t.Require(ColProcs, ColAvgVol, ColMinVol, ColMaxVol, ColAvgLoad, ColMinMem, ColAvgMem, ColMaxMem); err != nil {
		return nil, err
	}
	if len(t.Records) == 0 {
		return nil, ErrNoData
	}
	out := make([]CommPoint, len(t.Records))
	for i, r := range t.Records {
		out[i] = CommPoint{
			Procs:    r.Procs,
			RatioAvg: Ratio(r.AvgVol, r.AvgLoad),
			RatioMin: Ratio(r.MinVol, r.AvgLoad),
			RatioMax: Ratio(r.MaxVol, r.AvgLoad),
			MinMemKB: r.MinMemKB,
			AvgMemKB: r.AvgMemKB,
			MaxMemKB: r.MaxMemKB,
		}
	}
	slices.SortStableFunc(out, func(a, b CommPoint) int {
		return cmp.Compare(a.Procs, b.Procs)
	})
	return out, nil
}

// Breakdown returns the records of one matrix (all records if matrix is
// empty) ordered by procs, after checking the time columns exist.
func Breakdown(t *ScalingTable, matrix string) ([]ScalingRecord, error) {
	if err := t.Require(ColProcs, ColComputation, ColCommunication); err != nil {
		return nil, err
	}
	var out []ScalingRecord
	for _, r := range t.Records {
		if matrix == "" || r.Matrix == matrix {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	slices.SortStableFunc(out, func(a, b ScalingRecord) int {
		return cmp.Compare(a.Procs, b.Procs)
	})
	return out, nil
}

// MatrixNames returns the distinct matrix names in file order.
func (t *ScalingTable) MatrixNames() []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range t.Records {
		if !seen[r.Matrix] {
			seen[r.Matrix] = true
			out = append(out, r.Matrix)
		}
	}
	return out
}
