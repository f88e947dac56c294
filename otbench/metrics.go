// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench

import (
	"context"
	"time"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsTask records <name>.count, <name>.duration (seconds) and
// <name>.errors for task executions.
func MetricsTask[T any](
	name string,
	attrs []attribute.KeyValue,
	task sweep.TaskFunc[T],
) sweep.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		meter := otel.GetMeterProvider().Meter(Scope)
		opt := metric.WithAttributes(attrs...)

		counter, _ := meter.Int64Counter(name + ".count")
		duration, _ := meter.Float64Histogram(name+".duration", metric.WithUnit("s"))
		counter.Add(ctx, 1, opt)

		start := time.Now()
		result, err := task(ctx)
		duration.Record(ctx, time.Since(start).Seconds(), opt)

		if err != nil {
			errCounter, _ := meter.Int64Counter(name + ".errors")
			errCounter.Add(ctx, 1, opt)
		}
		return result, err
	}
}
