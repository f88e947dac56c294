// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package chart renders analysis results as PNG charts with gonum/plot. Each
// renderer takes derived data and an output location, creates missing
// directories and returns the path it wrote.
package chart

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	ink       = color.Gray{64}
	gridColor = color.Gray{200}

	dashed = []vg.Length{vg.Points(6), vg.Points(3)}
	dotted = []vg.Length{vg.Points(1), vg.Points(2)}
)

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	p.Title.TextStyle.Color = ink
	p.X.Color = ink
	p.Y.Color = ink
	p.X.Label.TextStyle.Color = ink
	p.Y.Label.TextStyle.Color = ink
	p.X.Tick.Color = ink
	p.Y.Tick.Color = ink
	p.X.Tick.Label.Color = ink
	p.Y.Tick.Label.Color = ink
	p.Legend.TextStyle.Color = ink

	p.Legend.Padding = 1 * vg.Millimeter

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = dashed
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Dashes = dashed
	p.Add(grid)

	return p
}

// widenLogAxes gives each log-scaled axis whose range has collapsed to a
// single value one octave of room on either side. Left alone, plot would
// widen it by one unit and push Min to zero or below.
func widenLogAxes(p *plot.Plot) {
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		if _, ok := a.Scale.(plot.LogScale); !ok || a.Min != a.Max || !(a.Min > 0) {
			continue
		}
		a.Min /= 2
		a.Max *= 2
	}
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	widenLogAxes(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(w, h, path)
}

// saveCanvas writes a multi-plot figure drawn on c as PNG.
func saveCanvas(c *vgimg.Canvas, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// seriesColors returns n distinguishable colors.
func seriesColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Dark2", max(n, 3))
	if err != nil {
		// More series than the palette holds.
		out := make([]color.Color, n)
		for i := range out {
			out[i] = plotutil.Color(i)
		}
		return out
	}
	return pal.Colors()[:n]
}

func floats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// points pairs xs with ys, dropping pairs that are not finite or, when
// positive is set, not strictly positive.
func points(xs, ys []float64, positive bool) plotter.XYs {
	var out plotter.XYs
	for i := range min(len(xs), len(ys)) {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		if positive && (x <= 0 || y <= 0) {
			continue
		}
		out = append(out, plotter.XY{X: x, Y: y})
	}
	return out
}

// addSeries draws pts as a line with circle markers and adds it to the
// legend. Empty series are skipped.
func addSeries(p *plot.Plot, label string, pts plotter.XYs, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(2)
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(l, s)
	p.Legend.Add(label, l, s)
	return nil
}

// addRefLine draws the straight segment from (x0, y0) to (x1, y1). An empty
// label keeps it out of the legend.
func addRefLine(p *plot.Plot, label string, x0, y0, x1, y1 float64, c color.Color, dashes []vg.Length) error {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(1.5)
	l.Dashes = dashes
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

// intTicks places a labelled tick at each of xs.
func intTicks(xs []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(xs))
	for i, x := range xs {
		ticks[i] = plot.Tick{Value: float64(x), Label: strconv.Itoa(x)}
	}
	return ticks
}

// indexTicks labels positions 0..n-1 with labels.
func indexTicks(labels []string) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// markedTicks adds a two-decimal tick for each value that no labelled tick
// of the wrapped ticker already sits within 0.01 of.
type markedTicks struct {
	plot.Ticker
	values []float64
}

func (m markedTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := m.Ticker.Ticks(lo, hi)
	for _, v := range m.values {
		near := false
		for _, t := range ticks {
			if t.Label != "" && math.Abs(t.Value-v) <= 0.01 {
				near = true
				break
			}
		}
		if !near {
			ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 2, 64)})
		}
	}
	return ticks
}

// pow10Ticks labels the major ticks of a log axis as powers of ten.
type pow10Ticks struct{}

func (pow10Ticks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.LogTicks{Prec: -1}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		e := math.Log10(ticks[i].Value)
		if r := math.Round(e); math.Abs(e-r) < 1e-9 {
			ticks[i].Label = "10^" + strconv.Itoa(int(r))
		} else {
			ticks[i].Label = "10^" + strconv.FormatFloat(e, 'f', 1, 64)
		}
	}
	return ticks
}
