// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestScatterNilFuncPanics(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, 1)

	chk.PanicsWithValue("task function must be non-nil", func() {
		_ = sweep.Scatter(ctx, pool, nil, func(context.Context, int, error) error { return nil })
	})
	chk.PanicsWithValue("gather function must be non-nil", func() {
		_ = sweep.Scatter(ctx, pool, func(context.Context) (int, error) { return 0, nil }, nil)
	})
}

func TestNewPoolZeroLimitPanics(t *testing.T) {
	chk := require.New(t)
	job := sweep.NewJob(context.Background())
	defer job.CancelAndWait()
	chk.PanicsWithValue("limit must be non-zero", func() {
		_ = sweep.NewPool(job, 0)
	})
}

func TestScatterLimitOneRunsInOrder(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, 1)

	var gathered []int
	for i := range 20 {
		err := sweep.Scatter(ctx, pool,
			func(context.Context) (int, error) { return i, nil },
			func(_ context.Context, v int, err error) error {
				gathered = append(gathered, v)
				return err
			})
		chk.NoError(err)
		chk.LessOrEqual(pool.InFlight(), 1)
	}
	chk.NoError(job.Close(ctx))

	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	chk.Equal(want, gathered)
}

func TestScatterRespectsLimit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		ctx := context.Background()
		limit := rapid.IntRange(1, 4).Draw(t, "limit")
		tasks := rapid.IntRange(0, 40).Draw(t, "tasks")

		job := sweep.NewJob(ctx)
		defer job.CancelAndWait()
		pool := sweep.NewPool(job, limit)

		var running, peak atomic.Int64
		gathered := 0
		for range tasks {
			err := sweep.Scatter(ctx, pool,
				func(context.Context) (struct{}, error) {
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					running.Add(-1)
					return struct{}{}, nil
				},
				func(context.Context, struct{}, error) error {
					gathered++
					return nil
				})
			chk.NoError(err)
		}
		chk.NoError(job.GatherAll(ctx))
		chk.Equal(tasks, gathered)
		chk.LessOrEqual(peak.Load(), int64(limit))
		chk.Zero(job.InFlight())
	})
}

func TestScatterReturnsGatherError(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, 1)

	boom := errors.New("boom")
	chk.NoError(sweep.Scatter(ctx, pool,
		func(context.Context) (int, error) { return 0, boom },
		func(_ context.Context, _ int, err error) error { return err }))

	// The second scatter has to gather the first result to make room.
	err := sweep.Scatter(ctx, pool,
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context, int, error) error { return nil })
	chk.ErrorIs(err, boom)
}

func TestTaskPanicIsGathered(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, -1)

	var got error
	chk.NoError(sweep.Scatter(ctx, pool,
		func(context.Context) (int, error) { panic("oops") },
		func(_ context.Context, _ int, err error) error {
			got = err
			return nil
		}))
	chk.NoError(job.GatherAll(ctx))
	chk.ErrorIs(got, sweep.ErrTaskPanic)
}

func TestScatterAfterCloseOrCancelPanics(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	pool := sweep.NewPool(job, 1)
	chk.NoError(job.Close(ctx))
	chk.Panics(func() {
		_ = sweep.Scatter(ctx, pool,
			func(context.Context) (int, error) { return 0, nil },
			func(context.Context, int, error) error { return nil })
	})

	job = sweep.NewJob(ctx)
	pool = sweep.NewPool(job, 1)
	job.CancelAndWait()
	chk.Panics(func() {
		_ = sweep.Scatter(ctx, pool,
			func(context.Context) (int, error) { return 0, nil },
			func(context.Context, int, error) error { return nil })
	})
}

func TestCancelStopsBlockedTasks(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	job := sweep.NewJob(ctx)
	pool := sweep.NewPool(job, 2)

	started := make(chan struct{}, 2)
	for range 2 {
		chk.NoError(sweep.Scatter(ctx, pool,
			func(ctx context.Context) (int, error) {
				started <- struct{}{}
				<-ctx.Done()
				return 0, ctx.Err()
			},
			func(context.Context, int, error) error { return nil }))
	}
	<-started
	<-started
	job.CancelAndWait()

	ok, err := job.GatherOne(ctx)
	chk.False(ok)
	chk.ErrorIs(err, context.Canceled)
}

func TestGatherOneHonorsCallerContext(t *testing.T) {
	chk := require.New(t)
	job := sweep.NewJob(context.Background())
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, 1)

	release := make(chan struct{})
	defer close(release)
	chk.NoError(sweep.Scatter(context.Background(), pool,
		func(context.Context) (int, error) {
			<-release
			return 0, nil
		},
		func(context.Context, int, error) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := job.GatherOne(ctx)
	chk.False(ok)
	chk.ErrorIs(err, context.Canceled)
}
