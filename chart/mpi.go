// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"slices"

	"github.com/petenewcomb/spmvbench-go/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	computationColor   = rgb(0x0d1161)
	communicationColor = rgb(0xbbbbbb)
	memoryColors       = []color.Color{rgb(0xfee6ce), rgb(0xfdae6b), rgb(0xe6550d)}
)

// procsSeries draws one line per matrix of a strong scaling result, with y
// taken from each point by value, over a log process axis.
func procsSeries(p *plot.Plot, data []analysis.ScalingPoint, value func(analysis.ScalingPoint) float64, positive bool) ([]int, error) {
	series := analysis.ByMatrix(data)
	colors := seriesColors(len(series))
	var procs []int
	for i, s := range series {
		xs := make([]float64, len(s))
		ys := make([]float64, len(s))
		for j, pt := range s {
			xs[j] = float64(pt.Procs)
			ys[j] = value(pt)
			procs = append(procs, pt.Procs)
		}
		pts := logXPoints(xs, ys, positive)
		if err := addSeries(p, shortName(s[0].Matrix), pts, colors[i]); err != nil {
			return nil, err
		}
	}
	slices.Sort(procs)
	procs = slices.DeleteFunc(slices.Compact(procs), func(n int) bool { return n <= 0 })
	if len(procs) == 0 {
		return nil, ErrNothingToPlot
	}
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = intTicks(procs)
	return procs, nil
}

// logXPoints is points restricted to positive x.
func logXPoints(xs, ys []float64, positive bool) plotter.XYs {
	pts := points(xs, ys, positive)
	return slices.DeleteFunc(pts, func(xy plotter.XY) bool { return xy.X <= 0 })
}

// MPISpeedup draws the measured speedup of each matrix against the process
// count on log-log axes, with the ideal speedup for reference.
func MPISpeedup(data []analysis.ScalingPoint, dir string) (string, error) {
	p := newPlot("Strong Scaling Speedup", "Processes", "Speedup (log10 scale)")
	p.Legend.Top = true
	p.Legend.Left = true

	procs, err := procsSeries(p, data, func(pt analysis.ScalingPoint) float64 { return pt.Speedup }, true)
	if err != nil {
		return "", err
	}
	maxP := float64(procs[len(procs)-1])
	if err := addRefLine(p, "Ideal", 1, 1, maxP, maxP, color.Black, dashed); err != nil {
		return "", err
	}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = pow10Ticks{}

	path := filepath.Join(dir, "speedup_grouped_pow10_sans.png")
	return path, save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// Efficiency draws the parallel efficiency of each matrix against the
// process count.
func Efficiency(data []analysis.ScalingPoint, dir string) (string, error) {
	p := newPlot("Strong scaling - Parallel efficiency", "Processes", "Efficiency")
	p.Legend.Top = true

	if _, err := procsSeries(p, data, func(pt analysis.ScalingPoint) float64 { return pt.Efficiency }, false); err != nil {
		return "", err
	}
	p.Y.Min = 0
	p.Y.Max = 1.1

	path := filepath.Join(dir, "efficiency_grouped.png")
	return path, save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// StrongBreakdownPath is where the breakdown of one matrix's strong scaling
// run is written.
func StrongBreakdownPath(dir, matrix string) string {
	return filepath.Join(dir, fmt.Sprintf("strong_scaling_%s.png", matrix))
}

// WeakBreakdownPath is where the weak scaling breakdown is written.
func WeakBreakdownPath(dir string) string {
	return filepath.Join(dir, "weak_scaling.png")
}

// Breakdown draws computation and communication time stacked per process
// count, in the order of recs. On a log scale the value axis starts at half
// the smallest positive computation time.
func Breakdown(recs []analysis.ScalingRecord, title string, logScale bool, path string) error {
	if len(recs) == 0 {
		return ErrNothingToPlot
	}
	yLabel := "Total Execution Time (ms)"
	if logScale {
		title += " (Log Scale)"
		yLabel = "Time (ms) - Log Scale"
	}
	p := newPlot(title, "Processes", yLabel)
	p.Legend.Top = true

	labels := make([]string, len(recs))
	comp := make(plotter.XYs, len(recs))
	comm := make(plotter.XYs, len(recs))
	floor := math.Inf(1)
	for i, r := range recs {
		labels[i] = fmt.Sprint(r.Procs)
		comp[i] = plotter.XY{X: float64(i), Y: r.Computation}
		comm[i] = plotter.XY{X: float64(i), Y: r.Communication}
		if r.Computation > 0 {
			floor = math.Min(floor, r.Computation/2)
		}
	}

	barWidth := 5 * vg.Inch / vg.Length(2*len(recs))
	compBars, err := newBarChart(comp, barWidth)
	if err != nil {
		return err
	}
	commBars, err := newBarChart(comm, barWidth)
	if err != nil {
		return err
	}
	compBars.Color = computationColor
	commBars.Color = communicationColor
	for _, b := range []*barChart{compBars, commBars} {
		b.LineStyle.Color = color.Black
		b.LineStyle.Width = vg.Points(0.5)
	}
	if logScale {
		if math.IsInf(floor, 1) {
			floor = smallestPositiveTotal(recs) / 2
		}
		compBars.Floor = floor
	}
	commBars.StackOn(compBars)

	p.Add(compBars, commBars)
	p.Legend.Add("Computation Time", compBars)
	p.Legend.Add("Communication Time", commBars)
	p.X.Tick.Marker = indexTicks(labels)
	if logScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Min = floor
	} else {
		p.Y.Min = 0
	}
	return save(p, 8*vg.Inch, 6*vg.Inch, path)
}

func smallestPositiveTotal(recs []analysis.ScalingRecord) float64 {
	v := math.Inf(1)
	for _, r := range recs {
		if t := r.Total(); t > 0 {
			v = math.Min(v, t)
		}
	}
	if math.IsInf(v, 1) {
		return 1
	}
	return v
}

// CommMemory stacks two panels: the communication volume per unit of load
// (average with the min-max band) over a log process axis, and the per-rank
// memory footprint as grouped min, average and max bars.
func CommMemory(data []analysis.CommPoint, dir string) (string, error) {
	if len(data) == 0 {
		return "", ErrNothingToPlot
	}

	ratio := newPlot("Normalized Comm. vol per load unit", "", "Cnorm per rank")
	ratio.Legend.Top = true
	ratio.Legend.Left = true

	var procs []int
	var avg, lo, hi plotter.XYs
	for _, pt := range data {
		if pt.Procs <= 0 {
			continue
		}
		x := float64(pt.Procs)
		procs = append(procs, pt.Procs)
		avg = append(avg, plotter.XY{X: x, Y: pt.RatioAvg})
		lo = append(lo, plotter.XY{X: x, Y: pt.RatioMin})
		hi = append(hi, plotter.XY{X: x, Y: pt.RatioMax})
	}
	if len(procs) == 0 {
		return "", ErrNothingToPlot
	}

	band := slices.Clone(lo)
	for i := len(hi) - 1; i >= 0; i-- {
		band = append(band, hi[i])
	}
	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return "", err
	}
	poly.Color = color.NRGBA{R: computationColor.R, G: computationColor.G, B: computationColor.B, A: 0x33}
	poly.LineStyle.Width = 0
	ratio.Add(poly)
	for _, edge := range []plotter.XYs{lo, hi} {
		l, err := plotter.NewLine(edge)
		if err != nil {
			return "", err
		}
		l.Color = color.NRGBA{R: computationColor.R, G: computationColor.G, B: computationColor.B, A: 0x80}
		l.Dashes = dotted
		ratio.Add(l)
	}
	if err := addSeries(ratio, "Avg / Load", avg, computationColor); err != nil {
		return "", err
	}
	ratio.Legend.Add("Min-Max Range", poly)
	slices.Sort(procs)
	ratio.X.Scale = plot.LogScale{}
	ratio.X.Tick.Marker = intTicks(slices.Compact(procs))

	mem := newPlot("Memory footprint per rank", "Processes", "KB per rank")
	mem.Legend.Top = true
	mem.Legend.Left = true
	labels := make([]string, len(data))
	groups := []barGroup{
		{Label: "Min", Color: memoryColors[0]},
		{Label: "Avg", Color: memoryColors[1]},
		{Label: "Max", Color: memoryColors[2]},
	}
	for i, pt := range data {
		labels[i] = fmt.Sprint(pt.Procs)
		x := float64(i)
		groups[0].Bars = append(groups[0].Bars, plotter.XY{X: x, Y: pt.MinMemKB})
		groups[1].Bars = append(groups[1].Bars, plotter.XY{X: x, Y: pt.AvgMemKB})
		groups[2].Bars = append(groups[2].Bars, plotter.XY{X: x, Y: pt.MaxMemKB})
	}
	barWidth := 7 * vg.Inch / vg.Length(4*len(data))
	if _, err := addGroupedBars(mem, groups, barWidth, color.Gray{128}); err != nil {
		return "", err
	}
	mem.X.Tick.Marker = indexTicks(labels)
	mem.Y.Min = 0

	img := vgimg.New(10*vg.Inch, 8*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	widenLogAxes(ratio)
	plots := [][]*plot.Plot{{ratio}, {mem}}
	canvases := plot.Align(plots, tiles, dc)
	ratio.Draw(canvases[0][0])
	mem.Draw(canvases[1][0])

	path := filepath.Join(dir, "weak_scaling_vertical_mem.png")
	return path, saveCanvas(img, path)
}
