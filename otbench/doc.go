// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otbench instruments sweep tasks and gathers with zap logging and
// OpenTelemetry tracing and metrics. The wrappers use the global logger
// ([zap.L]) and the global tracer and meter providers, so installing providers
// with [InstallStdoutTracer] or the otel SDK is all a caller needs to do.
package otbench

// Scope is the instrumentation scope name used for tracers and meters.
const Scope = "github.com/petenewcomb/spmvbench-go/otbench"
