// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BuildSpec is one compiler invocation.
type BuildSpec struct {
	Compiler string
	Flags    []string
	Sources  []string
	Output   string
	LDFlags  []string
}

// Args returns the compiler's argument list.
func (b BuildSpec) Args() []string {
	args := make([]string, 0, len(b.Flags)+len(b.Sources)+len(b.LDFlags)+2)
	args = append(args, b.Flags...)
	args = append(args, b.Sources...)
	args = append(args, "-o", b.Output)
	args = append(args, b.LDFlags...)
	return args
}

func (b BuildSpec) String() string {
	return b.Compiler + " " + strings.Join(b.Args(), " ")
}

// Runner compiles and invokes the external kernel.
type Runner interface {
	// Compile builds the binary described by spec.
	Compile(ctx context.Context, spec BuildSpec) error

	// Run invokes binary with args and returns its standard output. On
	// failure the output produced so far is still returned.
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Dir is the working directory of every command.
	Dir string

	// Timeout bounds each command; zero waits forever.
	Timeout time.Duration
}

var _ Runner = (*ExecRunner)(nil)

// Compile creates the output's directory, resolved against Dir, before
// invoking the compiler.
func (r *ExecRunner) Compile(ctx context.Context, spec BuildSpec) error {
	out := spec.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(r.Dir, out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompile, spec, err)
	}
	_, err := r.exec(ctx, spec.Compiler, spec.Args())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompile, spec, err)
	}
	return nil
}

func (r *ExecRunner) Run(ctx context.Context, binary string, args []string) (string, error) {
	out, err := r.exec(ctx, binary, args)
	if err != nil {
		return out, fmt.Errorf("%w: %s %s: %w", ErrRun, binary, strings.Join(args, " "), err)
	}
	return out, nil
}

func (r *ExecRunner) exec(ctx context.Context, name string, args []string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
	}
	return stdout.String(), err
}
