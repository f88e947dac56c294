// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
)

// Scatter launches task in a new goroutine once the pool has room, gathering
// completed tasks (of any pool in the job) on the calling goroutine while it
// waits. After the task completes, its result is passed to gather during a
// later call to Scatter, [Job.GatherOne] or [Job.GatherAll].
//
// If Scatter returns an error, task was not launched and gather will not be
// called for it. The error is either a context error or the error returned by
// a gather function that ran while waiting for room.
func Scatter[T any](
	ctx context.Context,
	pool *Pool,
	task TaskFunc[T],
	gather GatherFunc[T],
) error {
	if task == nil {
		panic("task function must be non-nil")
	}
	if gather == nil {
		panic("gather function must be non-nil")
	}
	j := pool.job
	j.panicIfDone()

	for pool.full() {
		if _, err := j.GatherOne(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.ctx.Err(); err != nil {
		return err
	}

	pool.inFlight++
	j.inFlight++
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		value, err := runTask(j.ctx, task)
		bound := func(ctx context.Context) error {
			pool.inFlight--
			return gather(ctx, value, err)
		}
		select {
		case j.gatherChan <- bound:
		case <-j.ctx.Done():
		}
	}()
	return nil
}
