// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package mtx reads and writes Matrix Market coordinate files.
package mtx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Banner is the first line of every file this package writes.
const Banner = "%%MatrixMarket matrix coordinate real general"

// Extension is the file suffix of Matrix Market files.
const Extension = ".mtx"

// Header holds the intrinsic dimensions of a matrix.
type Header struct {
	Banner string
	Rows   int
	Cols   int
	NZ     int
}

// Info describes a matrix file found on disk.
type Info struct {
	Name string
	Path string
	Header
}

// ReadHeader skips comment and blank lines and parses the first remaining
// line as "rows cols nz". The banner, if present, is recorded.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first && strings.HasPrefix(line, "%%MatrixMarket") {
			h.Banner = line
		}
		first = false
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return h, fmt.Errorf("%w: size line %q", ErrMalformedHeader, line)
		}
		dims := [3]*int{&h.Rows, &h.Cols, &h.NZ}
		for i, d := range dims {
			v, err := strconv.Atoi(fields[i])
			if err != nil || v < 0 {
				return h, fmt.Errorf("%w: size line %q", ErrMalformedHeader, line)
			}
			*d = v
		}
		return h, nil
	}
	if err := sc.Err(); err != nil {
		return h, err
	}
	return h, fmt.Errorf("%w: no size line", ErrMalformedHeader)
}

// ReadHeaderFile is ReadHeader on a named file.
func ReadHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	h, err := ReadHeader(f)
	if err != nil {
		return h, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ScanDir returns every Matrix Market file directly inside dir, sorted by
// name, with its header parsed.
func ScanDir(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		h, err := ReadHeaderFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Name: e.Name(), Path: path, Header: h})
	}
	slices.SortFunc(out, func(a, b Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
