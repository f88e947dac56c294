// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"math"

	"github.com/google/btree"
)

// BlockSize is the number of consecutive trials of one configuration reduced
// into a single Summary.
const BlockSize = 10

// BlockPercentile is the percentile taken of each block.
const BlockPercentile = 90

// Aggregation is the result of reducing raw trials into summaries.
type Aggregation struct {
	// Summaries holds one entry per full block, ordered by key and then by
	// block index.
	Summaries []Summary

	// Discarded counts the trials that fell into incomplete trailing blocks.
	Discarded int

	// Partial lists each key that had an incomplete trailing block and how
	// many trials it held.
	Partial []PartialBlock
}

// PartialBlock describes trials dropped from the end of one group.
type PartialBlock struct {
	Key   Key
	Count int
}

// Aggregate reduces records into per-block 90th percentile summaries using
// BlockSize and BlockPercentile.
func Aggregate(records []TimingRecord) *Aggregation {
	agg, err := AggregateBlocks(records, BlockSize, BlockPercentile)
	if err != nil {
		// Unreachable with valid constants.
		panic(err)
	}
	return agg
}

// AggregateBlocks groups records by their full configuration key, keeping
// each group's trials in input order, and cuts every group into consecutive
// blocks of blockSize trials. Each full block yields one Summary holding the
// block's percentile (see PercentileLower) and the matrix dimensions of the
// block's first trial. Trailing trials that do not fill a block are dropped
// and accounted for in the result. records is not modified.
func AggregateBlocks(records []TimingRecord, blockSize int, percentile float64) (*Aggregation, error) {
	if blockSize <= 0 {
		return nil, ErrInvalidBlock
	}
	if math.IsNaN(percentile) || percentile < 0 || percentile > 100 {
		return nil, ErrInvalidPercentile
	}

	groups := btree.New(8)
	for _, r := range records {
		lookup := &group{key: r.Key}
		if item := groups.Get(lookup); item != nil {
			g := item.(*group)
			g.records = append(g.records, r)
			continue
		}
		lookup.records = []TimingRecord{r}
		groups.ReplaceOrInsert(lookup)
	}

	agg := &Aggregation{}
	values := make([]float64, blockSize)
	var err error
	groups.Ascend(func(item btree.Item) bool {
		g := item.(*group)
		full := len(g.records) / blockSize
		for b := range full {
			block := g.records[b*blockSize : (b+1)*blockSize]
			for i, r := range block {
				values[i] = r.ExecTime
			}
			var p float64
			p, err = PercentileLower(values, percentile)
			if err != nil {
				return false
			}
			first := block[0]
			agg.Summaries = append(agg.Summaries, Summary{
				Key:   g.key,
				Rows:  first.Rows,
				Cols:  first.Cols,
				NZ:    first.NZ,
				Block: b,
				P90:   p,
			})
		}
		if rest := len(g.records) - full*blockSize; rest > 0 {
			agg.Discarded += rest
			agg.Partial = append(agg.Partial, PartialBlock{Key: g.key, Count: rest})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

type group struct {
	key     Key
	records []TimingRecord
}

func (g *group) Less(than btree.Item) bool {
	return g.key.Compare(than.(*group).key) < 0
}
