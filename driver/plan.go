// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

import (
	"path/filepath"
	"strconv"

	"github.com/gammazero/deque"
	"github.com/petenewcomb/spmvbench-go"
	"github.com/petenewcomb/spmvbench-go/mtx"
)

// Trial is one invocation of the kernel.
type Trial struct {
	Matrix     mtx.Info
	Key        spmvbench.Key
	Repetition int
	Args       []string
}

// Record returns the timing row for the trial, without an execution time.
func (t Trial) Record() spmvbench.TimingRecord {
	return spmvbench.TimingRecord{
		Key:  t.Key,
		Rows: t.Matrix.Rows,
		Cols: t.Matrix.Cols,
		NZ:   t.Matrix.NZ,
	}
}

// Stage is one compilation followed by the trials that use its binary.
type Stage struct {
	Sweep  string
	Build  BuildSpec
	Trials deque.Deque[Trial]
}

// Plan is the ordered list of stages of a campaign.
type Plan struct {
	Stages []*Stage
}

// Trials returns the total number of trials in the plan.
func (p *Plan) Trials() int {
	n := 0
	for _, s := range p.Stages {
		n += s.Trials.Len()
	}
	return n
}

// NewPlan expands cfg over matrices. The sequential sweep has one stage per
// compiler flag with trials ordered matrix then repetition. The parallel sweep
// is a single stage whose trials nest matrix, threads, chunk size and
// schedule inside the repetition loop.
func NewPlan(cfg Config, matrices []mtx.Info) *Plan {
	p := &Plan{}
	if cfg.Has(SweepSequential) {
		for _, opt := range cfg.Compilers {
			s := &Stage{Sweep: SweepSequential, Build: cfg.buildSpec(opt, false)}
			for _, m := range matrices {
				for rep := range cfg.Repetitions {
					s.Trials.PushBack(Trial{
						Matrix:     m,
						Key:        spmvbench.Key{Matrix: m.Name, Compiler: opt},
						Repetition: rep,
						Args:       []string{m.Path},
					})
				}
			}
			p.Stages = append(p.Stages, s)
		}
	}
	if cfg.Has(SweepParallel) {
		s := &Stage{Sweep: SweepParallel, Build: cfg.buildSpec(cfg.ParallelOpt, true)}
		for rep := range cfg.Repetitions {
			for _, m := range matrices {
				for _, threads := range cfg.Threads {
					for _, chunk := range cfg.ChunkSizes {
						for _, sched := range cfg.Schedules {
							s.Trials.PushBack(Trial{
								Matrix: m,
								Key: spmvbench.Key{
									Matrix:   m.Name,
									Compiler: cfg.ParallelOpt,
									Threads:  spmvbench.Some(threads),
									Chunk:    spmvbench.Some(chunk),
									Schedule: sched,
								},
								Repetition: rep,
								Args: []string{
									m.Path,
									strconv.Itoa(threads),
									sched,
									strconv.Itoa(chunk),
								},
							})
						}
					}
				}
			}
		}
		p.Stages = append(p.Stages, s)
	}
	return p
}

func (c Config) buildSpec(opt string, parallel bool) BuildSpec {
	b := c.Build
	flags := []string{opt}
	if parallel && b.ParallelFlag != "" {
		flags = append(flags, b.ParallelFlag)
	}
	for _, dir := range b.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	flags = append(flags, b.ExtraFlags...)
	var ld []string
	for _, lib := range b.Libraries {
		ld = append(ld, "-l"+lib)
	}
	return BuildSpec{
		Compiler: b.Compiler,
		Flags:    flags,
		Sources:  b.Sources,
		Output:   b.Output,
		LDFlags:  ld,
	}
}

// binaryPath is the path used to invoke the built kernel from the working
// directory.
func (c Config) binaryPath() string {
	if filepath.IsAbs(c.Build.Output) || filepath.Dir(c.Build.Output) != "." {
		return c.Build.Output
	}
	return "./" + c.Build.Output
}
