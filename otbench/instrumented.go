// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench

import (
	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"go.opentelemetry.io/otel/attribute"
)

// InstrumentedTask applies metrics, tracing and logging to a task, in that
// order from the outside in, so the logged duration excludes instrumentation
// overhead. The result carries the task's span for InstrumentedGather.
func InstrumentedTask[T any](
	operation string,
	attrs []attribute.KeyValue,
	task sweep.TaskFunc[T],
) sweep.TaskFunc[Propagated[T]] {
	return MetricsTask(operation, attrs,
		TracedTask(operation, attrs,
			PropagateTask(LoggedTask(operation, ZapFields(attrs), task))))
}

// InstrumentedGather applies tracing and logging to a gather function. Its
// span is a child of the span of the task that produced the result.
func InstrumentedGather[T any](
	operation string,
	attrs []attribute.KeyValue,
	gather sweep.GatherFunc[T],
) sweep.GatherFunc[Propagated[T]] {
	return PropagateGather(
		TracedGather(operation+".gather", attrs,
			LoggedGather(operation, ZapFields(attrs), gather)))
}
