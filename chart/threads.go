// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/petenewcomb/spmvbench-go/analysis"
	"github.com/petenewcomb/spmvbench-go/mtx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var scheduleColors = map[string]color.Color{
	"static":  rgb(0x1f77b4),
	"dynamic": rgb(0x2ca02c),
	"guided":  rgb(0xff7f0e),
}

// Fills for the chunk search bars, light to dark.
var scheduleFills = map[string]color.Color{
	"static":  color.White,
	"dynamic": color.Gray{128},
	"guided":  color.Black,
}

func scheduleColor(m map[string]color.Color, sched string, i int) color.Color {
	if c, ok := m[sched]; ok {
		return c
	}
	return plotutil.Color(i)
}

func shortName(matrix string) string {
	return strings.TrimSuffix(matrix, mtx.Extension)
}

// SpeedupPath is where Speedup writes the chart of matrix.
func SpeedupPath(dir, matrix string) string {
	return filepath.Join(dir, "speedup", matrix+"_speedup.png")
}

// Speedup draws one line per scheduling policy of t against the thread
// count, with the sequential level and the peak speedup marked.
func Speedup(t *analysis.SpeedupTable, dir string) (string, error) {
	if len(t.Threads) == 0 {
		return "", fmt.Errorf("%s: %w", t.Matrix, ErrNothingToPlot)
	}
	p := newPlot(fmt.Sprintf("%s - Chunksize: %d", shortName(t.Matrix), t.Chunk), "Number of Threads", "Speedup")
	p.Legend.Top = true
	p.Legend.Left = true

	xs := floats(t.Threads)
	for i, sched := range t.Schedules {
		pts := points(xs, t.Speedups[sched], false)
		if err := addSeries(p, "Scheduling: "+sched, pts, scheduleColor(scheduleColors, sched, i)); err != nil {
			return "", err
		}
	}

	x0, x1 := xs[0], xs[len(xs)-1]
	if err := addRefLine(p, "sequential", x0, 1, x1, 1, color.RGBA{R: 255, A: 255}, dashed); err != nil {
		return "", err
	}
	if peak := t.Max(); !math.IsNaN(peak) {
		if err := addRefLine(p, fmt.Sprintf("Max Speedup: %.2f", peak), x0, peak, x1, peak, color.Black, dotted); err != nil {
			return "", err
		}
		p.Y.Tick.Marker = markedTicks{Ticker: plot.DefaultTicks{}, values: []float64{peak}}
	}
	p.X.Tick.Marker = intTicks(t.Threads)

	path := SpeedupPath(dir, t.Matrix)
	return path, save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// StrongScalingBest overlays, for each table, the speedup curve of its best
// scheduling policy, with the ideal speedup and the sequential level.
// Tables without any valid speedup are left out.
func StrongScalingBest(tables []*analysis.SpeedupTable, dir string) (string, error) {
	type curve struct {
		t     *analysis.SpeedupTable
		sched string
		peak  float64
	}
	var curves []curve
	var threads []int
	for _, t := range tables {
		sched, peak := t.Best()
		if sched == "" {
			continue
		}
		curves = append(curves, curve{t, sched, peak})
		threads = append(threads, t.Threads...)
	}
	if len(curves) == 0 {
		return "", ErrNothingToPlot
	}
	slices.Sort(threads)
	threads = slices.Compact(threads)

	names := make([]string, len(curves))
	for i, c := range curves {
		names[i] = shortName(c.t.Matrix)
	}
	p := newPlot("Strong Scaling Comparison (Best Schedule): "+strings.Join(names, " vs "), "Number of Threads", "Speedup")
	p.Legend.Top = true

	colors := seriesColors(len(curves))
	var peaks []float64
	overall := 1.0
	for i, c := range curves {
		label := fmt.Sprintf("%s (chunk: %d) (%s)", names[i], c.t.Chunk, c.sched)
		if err := addSeries(p, label, points(floats(c.t.Threads), c.t.Speedups[c.sched], false), colors[i]); err != nil {
			return "", err
		}
		peaks = append(peaks, c.peak)
		overall = math.Max(overall, c.peak)
	}

	// The ideal line runs from one thread to the largest count measured.
	lo := math.Min(1, float64(threads[0]))
	hi := float64(threads[len(threads)-1])
	if err := addRefLine(p, "Theoretical Speedup", lo, lo, hi, hi, color.Black, dashed); err != nil {
		return "", err
	}
	if err := addRefLine(p, "Sequential speedup", lo, 1, hi, 1, rgb(0x00ff00), dashed); err != nil {
		return "", err
	}

	p.Y.Min = 0
	p.Y.Max = overall * 1.25
	p.Y.Tick.Marker = markedTicks{Ticker: plot.DefaultTicks{}, values: peaks}
	p.X.Tick.Marker = intTicks(threads)

	path := filepath.Join(dir, "strong_scaling_best_schedule.png")
	return path, save(p, 12*vg.Inch, 8*vg.Inch, path)
}

// ChunkSearchPath is where ChunkSearch writes the chart of matrix.
func ChunkSearchPath(dir, matrix string) string {
	return filepath.Join(dir, matrix+"_OPC.png")
}

const chunkGridCols = 3

// ChunkSearch draws a grid with one panel per chunk size of g, three panels
// to a row. Each panel groups the execution times of the scheduling
// policies by thread count and marks the sequential time.
func ChunkSearch(g *analysis.ChunkGrid, dir string) (string, error) {
	n := len(g.Chunks)
	if n == 0 || len(g.Threads) == 0 {
		return "", fmt.Errorf("%s: %w", g.Matrix, ErrNothingToPlot)
	}
	rows := (n + chunkGridCols - 1) / chunkGridCols

	labels := make([]string, len(g.Threads))
	for i, t := range g.Threads {
		labels[i] = fmt.Sprint(t)
	}
	xs := make([]float64, len(g.Threads))
	for i := range xs {
		xs[i] = float64(i)
	}
	panelWidth := 4 * vg.Inch
	barWidth := panelWidth * 0.6 / vg.Length(len(g.Threads)*(len(g.Schedules)+1))

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, chunkGridCols)
	}
	for idx, chunk := range g.Chunks {
		yLabel := ""
		if idx%chunkGridCols == 0 {
			yLabel = "Execution time (90th percentile, ms)"
		}
		p := newPlot(fmt.Sprintf("Chunk Size: %d", chunk), "Threads", yLabel)
		p.Legend.Top = true

		groups := make([]barGroup, len(g.Schedules))
		for i, sched := range g.Schedules {
			groups[i] = barGroup{
				Label: sched,
				Bars:  points(xs, g.Times[chunk][sched], false),
				Color: scheduleColor(scheduleFills, sched, i),
			}
		}
		if _, err := addGroupedBars(p, groups, barWidth, color.Black); err != nil {
			return "", err
		}
		if !math.IsNaN(g.Sequential) {
			if err := addRefLine(p, "Sequential Time", -0.5, g.Sequential, float64(len(xs))-0.5, g.Sequential, color.RGBA{B: 255, A: 255}, dashed); err != nil {
				return "", err
			}
		}
		p.Y.Min = 0
		p.X.Tick.Marker = indexTicks(labels)
		plots[idx/chunkGridCols][idx%chunkGridCols] = p
	}

	titleSpace := vg.Points(30)
	img := vgimg.New(panelWidth*chunkGridCols, 4*vg.Inch*vg.Length(rows)+titleSpace)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      chunkGridCols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    titleSpace,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c, p := range plots[r] {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}
	suptitle(dc, "Performance Analysis for Matrix: "+g.Matrix)

	path := ChunkSearchPath(dir, g.Matrix)
	return path, saveCanvas(img, path)
}

// suptitle centers a figure title at the top of dc.
func suptitle(dc draw.Canvas, title string) {
	sty := text.Style{
		Color:   ink,
		Font:    font.From(plot.DefaultFont, 14),
		XAlign:  text.XCenter,
		YAlign:  text.YTop,
		Handler: plot.DefaultTextHandler,
	}
	pt := vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(6)}
	dc.FillText(sty, pt, title)
}
