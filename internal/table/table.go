// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package table provides header-indexed access to CSV records.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrMissingColumn = constError("missing column")
const ErrMalformedValue = constError("malformed value")

// NA is how "not applicable" is spelled in result files.
const NA = "Nan"

// IsNA reports whether a raw field denotes a missing value.
func IsNA(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "<NA>")
}

// Reader reads CSV records and resolves fields by header name.
type Reader struct {
	r       *csv.Reader
	columns map[string]int
	header  []string
	line    int
}

// NewReader consumes the header row of r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
		}
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		// Strip a UTF-8 byte order mark from the first column.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		header[i] = h
		columns[h] = i
	}
	return &Reader{r: cr, columns: columns, header: header, line: 1}, nil
}

// Has reports whether the header names column.
func (r *Reader) Has(column string) bool {
	_, ok := r.columns[column]
	return ok
}

// Require returns ErrMissingColumn naming the first absent column.
func (r *Reader) Require(columns ...string) error {
	for _, c := range columns {
		if !r.Has(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// Header returns the column names in file order.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next record, or io.EOF.
func (r *Reader) Next() (Row, error) {
	rec, err := r.r.Read()
	if err != nil {
		return Row{}, err
	}
	r.line++
	return Row{r: r, fields: rec, line: r.line}, nil
}

// Row is one record bound to its header.
type Row struct {
	r      *Reader
	fields []string
	line   int
}

// Line returns the 1-based line number of the row, counting the header.
func (r Row) Line() int {
	return r.line
}

// String returns the raw field, or "" if the column is absent.
func (r Row) String(column string) string {
	i, ok := r.r.columns[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// Int parses an integer field. Values written as floats ("4.0") are
// accepted when integral.
func (r Row) Int(column string) (int, error) {
	s := r.String(column)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, r.malformed(column, s)
	}
	return int(f), nil
}

// OptionalInt parses an integer field that may be NA.
func (r Row) OptionalInt(column string) (int, bool, error) {
	s := r.String(column)
	if IsNA(s) {
		return 0, false, nil
	}
	v, err := r.Int(column)
	return v, err == nil, err
}

// Float parses a float field. NA is malformed.
func (r Row) Float(column string) (float64, error) {
	s := r.String(column)
	if IsNA(s) {
		return 0, r.malformed(column, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.malformed(column, s)
	}
	return v, nil
}

func (r Row) malformed(column, value string) error {
	return fmt.Errorf("line %d: column %s: %q: %w", r.line, column, value, ErrMalformedValue)
}
