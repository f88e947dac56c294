// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"cmp"

	"github.com/addrummond/heap"
)

type ranked struct {
	s Summary
}

func (a *ranked) Cmp(b *ranked) int {
	if c := cmp.Compare(a.s.P90, b.s.P90); c != 0 {
		return c
	}
	if c := a.s.Key.Compare(b.s.Key); c != 0 {
		return c
	}
	return cmp.Compare(a.s.Block, b.s.Block)
}

// Fastest returns up to n summaries with the lowest p90, fastest first. Ties
// are broken by key order. n < 0 returns all summaries ranked.
func Fastest(summaries []Summary, n int) []Summary {
	var h heap.Heap[ranked, heap.Min]
	for _, s := range summaries {
		heap.PushOrderable(&h, ranked{s: s})
	}
	if n < 0 || n > len(summaries) {
		n = len(summaries)
	}
	out := make([]Summary, 0, n)
	for len(out) < n {
		r, ok := heap.PopOrderable(&h)
		if !ok {
			break
		}
		out = append(out, r.s)
	}
	return out
}

// FastestPerMatrix returns the fastest summary of each matrix, in matrix
// order. Sequential summaries are skipped when parallelOnly is set.
func FastestPerMatrix(summaries []Summary, parallelOnly bool) []Summary {
	best := map[string]Summary{}
	for _, s := range Fastest(summaries, -1) {
		if parallelOnly && s.Sequential() {
			continue
		}
		if _, ok := best[s.Matrix]; ok {
			continue
		}
		best[s.Matrix] = s
	}
	out := make([]Summary, 0, len(best))
	for _, m := range sortedKeys(best) {
		out = append(out, best[m])
	}
	return out
}

// BestChunks maps each matrix to the chunk size of its fastest parallel
// summary.
func BestChunks(summaries []Summary) map[string]int {
	out := map[string]int{}
	for _, s := range FastestPerMatrix(summaries, true) {
		if s.Chunk.Valid {
			out[s.Matrix] = s.Chunk.Value
		}
	}
	return out
}

// SequentialBaseline returns the p90 of the first sequential summary of
// matrix in key order. If compiler is non-empty only summaries built with that
// flag are considered.
func SequentialBaseline(summaries []Summary, matrix, compiler string) (float64, error) {
	var found *Summary
	for i := range summaries {
		s := &summaries[i]
		if s.Matrix != matrix || !s.Sequential() {
			continue
		}
		if compiler != "" && s.Compiler != compiler {
			continue
		}
		if found == nil || s.Key.Compare(found.Key) < 0 ||
			(s.Key == found.Key && s.Block < found.Block) {
			found = s
		}
	}
	if found == nil {
		return 0, ErrNoBaseline
	}
	return found.P90, nil
}

// Matrices returns the distinct matrix names of summaries, sorted.
func Matrices(summaries []Summary) []string {
	set := map[string]struct{}{}
	for _, s := range summaries {
		set[s.Matrix] = struct{}{}
	}
	return sortedKeys(set)
}
