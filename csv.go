// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package spmvbench

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/petenewcomb/spmvbench-go/internal/table"
)

// Column names of the timing and summary files.
const (
	ColMatrix   = "matrix_name"
	ColRows     = "rows"
	ColCols     = "cols"
	ColNZ       = "nz"
	ColCompiler = "compiler_option"
	ColThreads  = "thread_option"
	ColChunk    = "chunk_size_option"
	ColSchedule = "scheduling_option"
	ColExecTime = "exec_time"
	ColP90      = "p90_exec_time"
)

// TimingHeader is the column order of raw timing files.
var TimingHeader = []string{
	ColMatrix, ColRows, ColCols, ColNZ,
	ColCompiler, ColThreads, ColChunk, ColSchedule,
	ColExecTime,
}

// SummaryHeader is the column order of summary files.
var SummaryHeader = []string{
	ColMatrix, ColRows, ColCols, ColNZ,
	ColCompiler, ColThreads, ColChunk, ColSchedule,
	ColP90,
}

// ReadOptions controls how strictly timing files are parsed.
type ReadOptions struct {
	// SkipInvalid drops rows with malformed fields instead of failing.
	SkipInvalid bool
}

// ReadStats reports what ReadTimingCSV did with the input.
type ReadStats struct {
	Rows    int
	Skipped int
}

// ReadTimingCSV parses a raw timing file. Columns are matched by header name
// so extra columns are ignored.
func ReadTimingCSV(r io.Reader, opts ReadOptions) ([]TimingRecord, ReadStats, error) {
	var stats ReadStats
	tr, err := table.NewReader(r)
	if err != nil {
		return nil, stats, err
	}
	if err := tr.Require(TimingHeader...); err != nil {
		return nil, stats, err
	}
	var records []TimingRecord
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		rec, err := ParseTimingRow(row)
		if err != nil {
			if opts.SkipInvalid && errors.Is(err, ErrMalformedValue) {
				stats.Skipped++
				continue
			}
			return nil, stats, err
		}
		records = append(records, rec)
		stats.Rows++
	}
	return records, stats, nil
}

// ReadTimingFile is ReadTimingCSV on a named file.
func ReadTimingFile(path string, opts ReadOptions) ([]TimingRecord, ReadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadStats{}, err
	}
	defer f.Close()
	return ReadTimingCSV(f, opts)
}

// ParseTimingRow decodes the timing columns of one row.
func ParseTimingRow(row table.Row) (TimingRecord, error) {
	var rec TimingRecord
	var err error
	rec.Matrix = row.String(ColMatrix)
	rec.Compiler = row.String(ColCompiler)
	if rec.Rows, err = row.Int(ColRows); err != nil {
		return rec, err
	}
	if rec.Cols, err = row.Int(ColCols); err != nil {
		return rec, err
	}
	if rec.NZ, err = row.Int(ColNZ); err != nil {
		return rec, err
	}
	if rec.Threads, err = optionColumn(row, ColThreads); err != nil {
		return rec, err
	}
	if rec.Chunk, err = optionColumn(row, ColChunk); err != nil {
		return rec, err
	}
	if s := row.String(ColSchedule); !table.IsNA(s) {
		rec.Schedule = s
	}
	if rec.ExecTime, err = row.Float(ColExecTime); err != nil {
		return rec, err
	}
	return rec, nil
}

func optionColumn(row table.Row, column string) (IntOption, error) {
	v, ok, err := row.OptionalInt(column)
	if err != nil || !ok {
		return None, err
	}
	return Some(v), nil
}

// TimingWriter appends rows to a timing file, flushing after each row so an
// interrupted sweep loses at most the row in progress.
type TimingWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewTimingWriter writes to w, emitting the header first if header is set.
func NewTimingWriter(w io.Writer, header bool) (*TimingWriter, error) {
	tw := &TimingWriter{w: csv.NewWriter(w)}
	if header {
		if err := tw.write(TimingHeader); err != nil {
			return nil, err
		}
	}
	return tw, nil
}

// OpenTimingCSV opens path for appending, creating it and its directory if
// needed. The header is written only when the file is empty.
func OpenTimingCSV(path string) (*TimingWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	tw, err := NewTimingWriter(f, info.Size() == 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	tw.closer = f
	return tw, nil
}

// Append writes one record.
func (tw *TimingWriter) Append(rec TimingRecord) error {
	return tw.AppendRaw(rec, strconv.FormatFloat(rec.ExecTime, 'g', -1, 64))
}

// AppendRaw writes one record with the execution time column taken verbatim
// from execTime; rec.ExecTime is ignored.
func (tw *TimingWriter) AppendRaw(rec TimingRecord, execTime string) error {
	return tw.write([]string{
		rec.Matrix,
		strconv.Itoa(rec.Rows),
		strconv.Itoa(rec.Cols),
		strconv.Itoa(rec.NZ),
		rec.Compiler,
		rec.Threads.String(),
		rec.Chunk.String(),
		rec.ScheduleString(),
		execTime,
	})
}

func (tw *TimingWriter) write(fields []string) error {
	if err := tw.w.Write(fields); err != nil {
		return err
	}
	tw.w.Flush()
	return tw.w.Error()
}

// Close flushes and closes the underlying file if the writer opened it.
// Later calls only flush.
func (tw *TimingWriter) Close() error {
	tw.w.Flush()
	err := tw.w.Error()
	if tw.closer != nil {
		err = errors.Join(err, tw.closer.Close())
		tw.closer = nil
	}
	return err
}

// WriteSummaryCSV writes summaries with SummaryHeader.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := cw.Write([]string{
			s.Matrix,
			strconv.Itoa(s.Rows),
			strconv.Itoa(s.Cols),
			strconv.Itoa(s.NZ),
			s.Compiler,
			s.Threads.String(),
			s.Chunk.String(),
			s.ScheduleString(),
			strconv.FormatFloat(s.P90, 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummaryCSV parses a file written by WriteSummaryCSV.
func ReadSummaryCSV(r io.Reader) ([]Summary, error) {
	tr, err := table.NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := tr.Require(SummaryHeader...); err != nil {
		return nil, err
	}
	var out []Summary
	blocks := map[Key]int{}
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var s Summary
		s.Matrix = row.String(ColMatrix)
		s.Compiler = row.String(ColCompiler)
		if s.Rows, err = row.Int(ColRows); err != nil {
			return nil, err
		}
		if s.Cols, err = row.Int(ColCols); err != nil {
			return nil, err
		}
		if s.NZ, err = row.Int(ColNZ); err != nil {
			return nil, err
		}
		if s.Threads, err = optionColumn(row, ColThreads); err != nil {
			return nil, err
		}
		if s.Chunk, err = optionColumn(row, ColChunk); err != nil {
			return nil, err
		}
		if sched := row.String(ColSchedule); !table.IsNA(sched) {
			s.Schedule = sched
		}
		if s.P90, err = row.Float(ColP90); err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		s.Block = blocks[s.Key]
		blocks[s.Key]++
		out = append(out, s)
	}
}
