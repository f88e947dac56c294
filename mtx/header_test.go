// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package mtx_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petenewcomb/spmvbench-go/mtx"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	chk := require.New(t)

	h, err := mtx.ReadHeader(strings.NewReader(
		"%%MatrixMarket matrix coordinate real general\n% a comment\n%\n\n3 3 4\n1 1 1.0\n"))
	chk.NoError(err)
	chk.Equal(mtx.Header{Banner: mtx.Banner, Rows: 3, Cols: 3, NZ: 4}, h)

	h, err = mtx.ReadHeader(strings.NewReader("  10   20 30  \n"))
	chk.NoError(err)
	chk.Equal(mtx.Header{Rows: 10, Cols: 20, NZ: 30}, h)
}

func TestReadHeaderMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"% only comments\n",
		"3 3\n",
		"3 x 4\n",
		"-1 3 4\n",
	} {
		_, err := mtx.ReadHeader(strings.NewReader(input))
		require.ErrorIs(t, err, mtx.ErrMalformedHeader, "input %q", input)
	}
}

func TestScanDir(t *testing.T) {
	chk := require.New(t)
	dir := t.TempDir()

	write := func(name, content string) {
		chk.NoError(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("b.mtx", "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 5\n")
	write("a.mtx", "3 3 4\n")
	write("notes.txt", "ignored")
	chk.NoError(os.Mkdir(filepath.Join(dir, "sub.mtx"), 0o755))

	infos, err := mtx.ScanDir(dir)
	chk.NoError(err)
	chk.Len(infos, 2)
	chk.Equal("a.mtx", infos[0].Name)
	chk.Equal(filepath.Join(dir, "a.mtx"), infos[0].Path)
	chk.Equal(4, infos[0].NZ)
	chk.Equal("b.mtx", infos[1].Name)
	chk.Equal(2, infos[1].Rows)

	write("c.mtx", "garbage\n")
	_, err = mtx.ScanDir(dir)
	chk.ErrorIs(err, mtx.ErrMalformedHeader)
}
