// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"cmp"
	"fmt"
	"strconv"

	"github.com/petenewcomb/spmvbench-go/internal/table"
)

// NA is how "not applicable" configuration fields are written to result
// files.
const NA = table.NA

// IntOption is an integer configuration field that may be not applicable,
// such as the thread count of a sequential run.
type IntOption struct {
	Value int
	Valid bool
}

// Some returns a valid IntOption holding v.
func Some(v int) IntOption {
	return IntOption{Value: v, Valid: true}
}

// None is the not-applicable IntOption.
var None = IntOption{}

func (o IntOption) String() string {
	if !o.Valid {
		return NA
	}
	return strconv.Itoa(o.Value)
}

// Compare orders options by value with not-applicable after every value.
func (o IntOption) Compare(p IntOption) int {
	switch {
	case o.Valid && p.Valid:
		return cmp.Compare(o.Value, p.Value)
	case o.Valid:
		return -1
	case p.Valid:
		return 1
	default:
		return 0
	}
}

// Key identifies one benchmark configuration. An empty Schedule means not
// applicable.
type Key struct {
	Matrix   string
	Compiler string
	Threads  IntOption
	Chunk    IntOption
	Schedule string
}

// Sequential reports whether the key describes a run without a scheduling
// policy.
func (k Key) Sequential() bool {
	return k.Schedule == ""
}

// ScheduleString returns the schedule as written to result files.
func (k Key) ScheduleString() string {
	if k.Schedule == "" {
		return NA
	}
	return k.Schedule
}

// Compare orders keys field by field, with not-applicable values last.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.Matrix, o.Matrix); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Compiler, o.Compiler); c != 0 {
		return c
	}
	if c := k.Threads.Compare(o.Threads); c != 0 {
		return c
	}
	if c := k.Chunk.Compare(o.Chunk); c != 0 {
		return c
	}
	switch {
	case k.Schedule == o.Schedule:
		return 0
	case k.Schedule == "":
		return 1
	case o.Schedule == "":
		return -1
	default:
		return cmp.Compare(k.Schedule, o.Schedule)
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/threads=%s/chunk=%s/schedule=%s",
		k.Matrix, k.Compiler, k.Threads, k.Chunk, k.ScheduleString())
}

// TimingRecord is one raw trial: a matrix with its intrinsic dimensions, the
// configuration it ran under and its execution time in milliseconds.
type TimingRecord struct {
	Key
	Rows     int
	Cols     int
	NZ       int
	ExecTime float64
}

// Summary is the reduction of one full block of trials for a key.
type Summary struct {
	Key
	Rows  int
	Cols  int
	NZ    int
	Block int
	P90   float64
}
