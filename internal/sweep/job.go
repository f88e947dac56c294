// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
	"sync"
)

// Job is a single-threaded scatter-gather environment. All calls to
// [Scatter], [Job.GatherOne], [Job.GatherAll] and [Job.Close] must come from
// the same goroutine.
type Job struct {
	ctx        context.Context
	cancelFunc context.CancelFunc
	inFlight   int
	done       bool
	wg         sync.WaitGroup
	gatherChan chan boundGatherFunc
}

type boundGatherFunc = func(ctx context.Context) error

// NewJob creates a job whose task contexts derive from ctx. Each call should
// be followed by a deferred call to [Job.CancelAndWait].
func NewJob(ctx context.Context) *Job {
	ctx, cancelFunc := context.WithCancel(ctx)
	return &Job{
		ctx:        ctx,
		cancelFunc: cancelFunc,
		gatherChan: make(chan boundGatherFunc),
	}
}

// InFlight returns the number of tasks launched but not yet gathered.
func (j *Job) InFlight() int {
	return j.inFlight
}

// GatherOne processes at most one completed task, blocking until one is
// available. It returns false, nil when nothing is in flight, and false with
// the context error if ctx or the job is canceled first. If the gather
// function fails, GatherOne returns true and its error.
func (j *Job) GatherOne(ctx context.Context) (bool, error) {
	if j.inFlight == 0 {
		return false, nil
	}
	select {
	case gather := <-j.gatherChan:
		j.inFlight--
		return true, gather(ctx)
	case <-ctx.Done():
		return false, ctx.Err()
	case <-j.ctx.Done():
		return false, j.ctx.Err()
	}
}

// GatherAll processes results until no tasks remain in flight or an error
// occurs.
func (j *Job) GatherAll(ctx context.Context) error {
	for {
		ok, err := j.GatherOne(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Close gathers every outstanding result and then marks the job done. Any
// later Scatter panics.
func (j *Job) Close(ctx context.Context) error {
	err := j.GatherAll(ctx)
	if err == nil {
		j.done = true
		j.cancelFunc()
	}
	return err
}

// CancelAndWait cancels the context of all running tasks, forfeits their
// ungathered results and waits for their goroutines to exit. Calling it more
// than once has no additional effect.
func (j *Job) CancelAndWait() {
	j.done = true
	j.cancelFunc()
	j.wg.Wait()
}

func (j *Job) panicIfDone() {
	if j.done {
		panic(errJobDone)
	}
}
