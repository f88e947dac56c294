// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbench_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/petenewcomb/spmvbench-go/internal/sweep"
	"github.com/petenewcomb/spmvbench-go/otbench"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))
	return logs
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

var attrs = []attribute.KeyValue{
	attribute.String("matrix", "a.mtx"),
	attribute.Int("threads", 4),
}

func TestLoggedTask(t *testing.T) {
	chk := require.New(t)
	logs := observeLogs(t)

	task := otbench.LoggedTask("trial", otbench.ZapFields(attrs), func(context.Context) (int, error) {
		return 7, nil
	})
	v, err := task(context.Background())
	chk.NoError(err)
	chk.Equal(7, v)
	chk.Equal(1, logs.FilterMessage("Starting task").Len())
	done := logs.FilterMessage("Task completed").All()
	chk.Len(done, 1)
	chk.Equal("a.mtx", done[0].ContextMap()["matrix"])
	chk.Equal(int64(4), done[0].ContextMap()["threads"])

	boom := errors.New("boom")
	failing := otbench.LoggedTask("trial", nil, func(context.Context) (int, error) {
		return 0, boom
	})
	_, err = failing(context.Background())
	chk.ErrorIs(err, boom)
	chk.Equal(1, logs.FilterMessage("Task failed").FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestTracedTaskRecordsErrors(t *testing.T) {
	chk := require.New(t)
	sr := recordSpans(t)

	boom := errors.New("boom")
	task := otbench.TracedTask("trial", attrs, func(context.Context) (string, error) {
		return "", boom
	})
	_, err := task(context.Background())
	chk.ErrorIs(err, boom)

	spans := sr.Ended()
	chk.Len(spans, 1)
	chk.Equal("trial", spans[0].Name())
	chk.Equal(codes.Error, spans[0].Status().Code)
	chk.Contains(spans[0].Attributes(), attribute.String("matrix", "a.mtx"))
}

func TestInstrumentedTaskInSweep(t *testing.T) {
	chk := require.New(t)
	sr := recordSpans(t)
	logs := observeLogs(t)
	ctx := context.Background()

	job := sweep.NewJob(ctx)
	defer job.CancelAndWait()
	pool := sweep.NewPool(job, 1)

	sum := 0
	for i := range 3 {
		chk.NoError(sweep.Scatter(ctx, pool,
			otbench.InstrumentedTask("trial", attrs, func(context.Context) (int, error) {
				return i, nil
			}),
			otbench.InstrumentedGather("trial", attrs, func(_ context.Context, v int, err error) error {
				sum += v
				return err
			})))
	}
	chk.NoError(job.Close(ctx))
	chk.Equal(3, sum)

	names := map[string]int{}
	for _, s := range sr.Ended() {
		names[s.Name()]++
	}
	chk.Equal(map[string]int{"trial": 3, "trial.gather": 3}, names)

	// Each gather span is a child of its trial span.
	trials := map[trace.SpanID]bool{}
	for _, s := range sr.Ended() {
		if s.Name() == "trial" {
			trials[s.SpanContext().SpanID()] = true
		}
	}
	for _, s := range sr.Ended() {
		if s.Name() == "trial.gather" {
			chk.True(trials[s.Parent().SpanID()])
		}
	}
	chk.Equal(3, logs.FilterMessage("Task completed").Len())
}

func TestInstrumentedGatherLogsFailure(t *testing.T) {
	chk := require.New(t)
	logs := observeLogs(t)

	boom := errors.New("disk full")
	gather := otbench.InstrumentedGather("trial", attrs, func(context.Context, int, error) error {
		return boom
	})
	chk.ErrorIs(gather(context.Background(), otbench.Propagated[int]{Result: 1}, nil), boom)
	chk.Equal(1, logs.FilterMessage("Gather failed").Len())
}

func TestInstallStdoutTracer(t *testing.T) {
	chk := require.New(t)
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := otbench.InstallStdoutTracer(&buf)
	chk.NoError(err)

	_, span := otbench.StartSpan(context.Background(), "sweep", attribute.String("run_id", "x"))
	span.End()
	chk.NoError(shutdown(context.Background()))
	chk.Contains(buf.String(), `"Name": "sweep"`)
}
