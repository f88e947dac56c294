// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/petenewcomb/spmvbench-go"
)

// ScheduleOrder is the order in which scheduling policies are shown.
var ScheduleOrder = []string{"static", "dynamic", "guided"}

// SpeedupTable holds the thread scaling of one matrix at one chunk size, one
// speedup series per scheduling policy over Threads. Missing measurements
// are NaN.
type SpeedupTable struct {
	Matrix     string
	Chunk      int
	Sequential float64
	Threads    []int
	Schedules  []string
	Speedups   map[string][]float64
}

// ThreadSpeedups builds the speedup table of matrix at chunk. The baseline is
// the first sequential summary of the matrix in key order, restricted to
// baselineCompiler when it is non-empty. Each parallel time is the first
// summary of its configuration.
func ThreadSpeedups(summaries []spmvbench.Summary, matrix string, chunk int, baselineCompiler string) (*SpeedupTable, error) {
	seq, err := spmvbench.SequentialBaseline(summaries, matrix, baselineCompiler)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", matrix, err)
	}
	if !(seq > 0) {
		return nil, fmt.Errorf("%s: sequential time %g: %w", matrix, seq, spmvbench.ErrNoBaseline)
	}

	type cell struct {
		schedule string
		threads  int
	}
	times := map[cell]float64{}
	threadSet := map[int]bool{}
	schedSet := map[string]bool{}
	for _, s := range summaries {
		if s.Matrix != matrix || s.Sequential() || !s.Chunk.Valid || s.Chunk.Value != chunk || !s.Threads.Valid {
			continue
		}
		c := cell{s.Schedule, s.Threads.Value}
		threadSet[c.threads] = true
		schedSet[c.schedule] = true
		if _, ok := times[c]; !ok {
			times[c] = s.P90
		}
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%s at chunk %d: %w", matrix, chunk, ErrNoData)
	}

	t := &SpeedupTable{
		Matrix:     matrix,
		Chunk:      chunk,
		Sequential: seq,
		Threads:    sortedSet(threadSet),
		Schedules:  orderSchedules(schedSet),
		Speedups:   map[string][]float64{},
	}
	for _, sched := range t.Schedules {
		row := make([]float64, len(t.Threads))
		for i, th := range t.Threads {
			row[i] = math.NaN()
			if tp, ok := times[cell{sched, th}]; ok {
				row[i] = Speedup(seq, tp)
			}
		}
		t.Speedups[sched] = row
	}
	return t, nil
}

// Max returns the highest measured speedup, or NaN if there is none.
func (t *SpeedupTable) Max() float64 {
	_, v := t.Best()
	return v
}

// Best returns the schedule reaching the highest speedup at any thread count
// and that speedup. Ties go to the earlier schedule.
func (t *SpeedupTable) Best() (string, float64) {
	best, bestV := "", math.NaN()
	for _, sched := range t.Schedules {
		for _, v := range t.Speedups[sched] {
			if !math.IsNaN(v) && (math.IsNaN(bestV) || v > bestV) {
				best, bestV = sched, v
			}
		}
	}
	return best, bestV
}

// ChunkGrid holds p90 times of one matrix for every chunk size, schedule and
// thread count, plus the sequential reference time.
type ChunkGrid struct {
	Matrix     string
	Sequential float64
	Chunks     []int
	Threads    []int
	Schedules  []string
	// Times[chunk][schedule][i] is the time at Threads[i], NaN if missing.
	Times map[int]map[string][]float64
}

// NewChunkGrid arranges the parallel summaries of matrix by chunk size. The
// sequential reference is chosen as in ThreadSpeedups; it is NaN when there
// is none.
func NewChunkGrid(summaries []spmvbench.Summary, matrix, baselineCompiler string) (*ChunkGrid, error) {
	seq, err := spmvbench.SequentialBaseline(summaries, matrix, baselineCompiler)
	if err != nil {
		seq = math.NaN()
	}
	type cell struct {
		chunk    int
		schedule string
		threads  int
	}
	times := map[cell]float64{}
	chunks, threads, scheds := map[int]bool{}, map[int]bool{}, map[string]bool{}
	for _, s := range summaries {
		if s.Matrix != matrix || s.Sequential() || !s.Chunk.Valid || !s.Threads.Valid {
			continue
		}
		c := cell{s.Chunk.Value, s.Schedule, s.Threads.Value}
		chunks[c.chunk], threads[c.threads], scheds[c.schedule] = true, true, true
		if _, ok := times[c]; !ok {
			times[c] = s.P90
		}
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%s: %w", matrix, ErrNoData)
	}
	g := &ChunkGrid{
		Matrix:     matrix,
		Sequential: seq,
		Chunks:     sortedSet(chunks),
		Threads:    sortedSet(threads),
		Schedules:  orderSchedules(scheds),
		Times:      map[int]map[string][]float64{},
	}
	for _, ch := range g.Chunks {
		g.Times[ch] = map[string][]float64{}
		for _, sched := range g.Schedules {
			row := make([]float64, len(g.Threads))
			for i, th := range g.Threads {
				row[i] = math.NaN()
				if v, ok := times[cell{ch, sched, th}]; ok {
					row[i] = v
				}
			}
			g.Times[ch][sched] = row
		}
	}
	return g, nil
}

func sortedSet[T int | string](set map[T]bool) []T {
	out := make([]T, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// orderSchedules lists the known policies first, in ScheduleOrder, then any
// others alphabetically.
func orderSchedules(set map[string]bool) []string {
	var out []string
	for _, s := range ScheduleOrder {
		if set[s] {
			out = append(out, s)
		}
	}
	var rest []string
	for s := range set {
		if !slices.Contains(ScheduleOrder, s) {
			rest = append(rest, s)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
