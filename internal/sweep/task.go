// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

import (
	"context"
	"fmt"
)

// A TaskFunc is executed asynchronously in its own goroutine and must be
// thread-safe, including its access to captured variables. The context is
// canceled when the job is canceled.
//
// A panicking TaskFunc does not take the program down: the panic is converted
// into an error wrapping [ErrTaskPanic] and handed to the gather function.
type TaskFunc[T any] = func(context.Context) (T, error)

// A GatherFunc processes the result of a completed [TaskFunc]. It runs on the
// goroutine that called [Scatter], [Job.GatherOne] or [Job.GatherAll] and
// receives that caller's context. A non-nil return is passed back to that
// caller.
type GatherFunc[T any] = func(context.Context, T, error) error

func runTask[T any](ctx context.Context, task TaskFunc[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task(ctx)
}
