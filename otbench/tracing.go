// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench

import (
	"context"
	"io"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracedTask runs task inside a span carrying attrs. A task error is
// recorded on the span and sets its status.
func TracedTask[T any](
	operation string,
	attrs []attribute.KeyValue,
	task sweep.TaskFunc[T],
) sweep.TaskFunc[T] {
	return func(ctx context.Context) (T, error) {
		ctx, span := otel.Tracer(Scope).Start(ctx, operation, trace.WithAttributes(attrs...))
		defer span.End()

		result, err := task(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return result, err
	}
}

// TracedGather runs gather inside a span carrying attrs.
func TracedGather[T any](
	operation string,
	attrs []attribute.KeyValue,
	gather sweep.GatherFunc[T],
) sweep.GatherFunc[T] {
	return func(ctx context.Context, result T, err error) error {
		ctx, span := otel.Tracer(Scope).Start(ctx, operation, trace.WithAttributes(attrs...))
		defer span.End()

		gatherErr := gather(ctx, result, err)
		if gatherErr != nil {
			span.RecordError(gatherErr)
			span.SetStatus(codes.Error, gatherErr.Error())
		}
		return gatherErr
	}
}

// StartSpan starts a span from the package tracer, for callers that want to
// group instrumented tasks under a parent.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(Scope).Start(ctx, name, trace.WithAttributes(attrs...))
}

// InstallStdoutTracer installs a global tracer provider that writes finished
// spans as JSON to w. The returned function flushes and shuts the provider
// down.
func InstallStdoutTracer(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
