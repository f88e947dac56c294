// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench

import (
	"context"
	"time"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoggedTask logs the start and completion of a task with its duration.
// Failures are logged at warn level since a failing trial does not stop a
// sweep.
func LoggedTask[T any](
	operation string,
	fields []zap.Field,
	task sweep.TaskFunc[T],
) sweep.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		logger := zap.L().With(fields...)
		logger.Debug("Starting task", zap.String("operation", operation))

		start := time.Now()
		result, err := task(ctx)
		duration := time.Since(start)

		if err != nil {
			logger.Warn("Task failed",
				zap.String("operation", operation),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Task completed",
				zap.String("operation", operation),
				zap.Duration("duration", duration))
		}
		return result, err
	}
}

// LoggedGather logs gather failures, which abort the sweep.
func LoggedGather[T any](
	operation string,
	fields []zap.Field,
	gather sweep.GatherFunc[T],
) sweep.GatherFunc[T] {
	return func(ctx context.Context, result T, err error) error {
		gatherErr := gather(ctx, result, err)
		if gatherErr != nil {
			zap.L().With(fields...).Error("Gather failed",
				zap.String("operation", operation),
				zap.Error(gatherErr))
		}
		return gatherErr
	}
}

// ZapFields converts span attributes into log fields so both carry the same
// keys.
func ZapFields(attrs []attribute.KeyValue) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, kv := range attrs {
		key := string(kv.Key)
		switch kv.Value.Type() {
		case attribute.BOOL:
			fields = append(fields, zap.Bool(key, kv.Value.AsBool()))
		case attribute.INT64:
			fields = append(fields, zap.Int64(key, kv.Value.AsInt64()))
		case attribute.FLOAT64:
			fields = append(fields, zap.Float64(key, kv.Value.AsFloat64()))
		case attribute.STRING:
			fields = append(fields, zap.String(key, kv.Value.AsString()))
		default:
			fields = append(fields, zap.String(key, kv.Value.Emit()))
		}
	}
	return fields
}
