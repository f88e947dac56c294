// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package mtx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

const writeBufferSize = 1 << 20

// Writer streams a coordinate file. Entries go through a large buffer so
// matrices with millions of nonzeros are written without holding them in
// memory.
type Writer struct {
	w       *bufio.Writer
	rows    int
	cols    int
	nz      int
	written int
	line    []byte
}

// NewWriter writes the banner, one "% " line per comment and the size line.
func NewWriter(w io.Writer, rows, cols, nz int, comments ...string) (*Writer, error) {
	if rows <= 0 || cols <= 0 || nz < 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d nonzeros", ErrInvalidShape, rows, cols, nz)
	}
	mw := &Writer{
		w:    bufio.NewWriterSize(w, writeBufferSize),
		rows: rows,
		cols: cols,
		nz:   nz,
	}
	if _, err := fmt.Fprintln(mw.w, Banner); err != nil {
		return nil, err
	}
	for _, c := range comments {
		if _, err := fmt.Fprintf(mw.w, "%% %s\n", c); err != nil {
			return nil, err
		}
	}
	if _, err := fmt.Fprintf(mw.w, "%d %d %d\n", rows, cols, nz); err != nil {
		return nil, err
	}
	return mw, nil
}

// Entry writes one 1-indexed triple. Values keep 15 significant digits.
func (mw *Writer) Entry(row, col int, v float64) error {
	if row < 1 || row > mw.rows || col < 1 || col > mw.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrEntryOutOfRange, row, col, mw.rows, mw.cols)
	}
	if mw.written == mw.nz {
		return fmt.Errorf("%w: more than %d entries", ErrEntryCount, mw.nz)
	}
	b := mw.line[:0]
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(col), 10)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v, 'g', 15, 64)
	b = append(b, '\n')
	mw.line = b
	if _, err := mw.w.Write(b); err != nil {
		return err
	}
	mw.written++
	return nil
}

// Close flushes buffered entries and checks that exactly the declared number
// of entries was written. It does not close the underlying writer.
func (mw *Writer) Close() error {
	if err := mw.w.Flush(); err != nil {
		return err
	}
	if mw.written != mw.nz {
		return fmt.Errorf("%w: wrote %d of %d", ErrEntryCount, mw.written, mw.nz)
	}
	return nil
}
