// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench

import (
	"context"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"go.opentelemetry.io/otel/trace"
)

// Propagated carries a task result together with the span context the task
// ran under, so the gather side can continue the trace. Gathers run on the
// scattering goroutine, whose context knows nothing of the task's span.
type Propagated[T any] struct {
	Result      T
	SpanContext trace.SpanContext
}

// PropagateTask attaches the span context of the task's context to its
// result.
func PropagateTask[T any](task sweep.TaskFunc[T]) sweep.TaskFunc[Propagated[T]] {
	return func(ctx context.Context) (Propagated[T], error) {
		sc := trace.SpanFromContext(ctx).SpanContext()
		result, err := task(ctx)
		return Propagated[T]{Result: result, SpanContext: sc}, err
	}
}

// PropagateGather unwraps a propagated result and runs gather with the
// task's span as the current span, so spans gather starts become its
// children.
func PropagateGather[T any](gather sweep.GatherFunc[T]) sweep.GatherFunc[Propagated[T]] {
	return func(ctx context.Context, p Propagated[T], err error) error {
		if p.SpanContext.IsValid() {
			ctx = trace.ContextWithRemoteSpanContext(ctx, p.SpanContext)
		}
		return gather(ctx, p.Result, err)
	}
}
