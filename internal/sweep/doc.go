// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package sweep launches (scatters) benchmark trials and aggregates (gathers)
// their results. Trials run on their own goroutines under a concurrency limit
// while every gather function runs on the goroutine that calls [Scatter],
// [Job.GatherOne] or [Job.GatherAll]. Gather functions may therefore append to
// files and mutate local state without synchronization.
//
// A limit of one serializes trials completely, which is what timing runs
// need: two benchmark processes sharing cores would distort each other.
package sweep
