// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package spmvbench holds the data model and reductions of the sparse
// matrix-vector benchmark harness.
//
// A sweep of the external kernel produces one [TimingRecord] per trial,
// appended to a CSV file by [TimingWriter]. [Aggregate] reduces those trials to
// one [Summary] per full block of [BlockSize] consecutive trials of each
// configuration, taking the 90th percentile of each block with
// [PercentileLower]. Incomplete trailing blocks are dropped and reported in
// [Aggregation.Discarded].
//
// Summaries feed the ranking helpers ([Fastest], [BestChunks],
// [SequentialBaseline]) and the derivations in the analysis package. Raw
// trials can also be exported with [WriteBenchfmt] for benchstat.
package spmvbench
