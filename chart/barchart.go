// Derived from https://github.com/gonum/plot/blob/v0.16.0/plotter/barchart.go:
// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// barChart draws vertical bars at the X positions of Bars with heights
// given by their Y values. Unlike plotter.BarChart it can be drawn on a
// logarithmic value axis, by clamping bar bottoms to Floor.
type barChart struct {
	// The offset (X) and height (Y) of each bar.
	Bars plotter.XYs

	// Width is the width of the bars.
	Width vg.Length

	// Color is the fill color of the bars.
	Color color.Color

	// LineStyle is the style of the outline of the bars.
	draw.LineStyle

	// Offset is added to the X location of each bar.
	// When the Offset is zero, the bars are drawn
	// centered at their X location.
	Offset vg.Length

	// Floor is the lowest value drawn. Bars starting below it start at
	// Floor instead. Set it to a positive value for log scales.
	Floor float64

	// stackedOn is the bar chart upon which
	// this bar chart is stacked.
	stackedOn *barChart
}

func newBarChart(bars plotter.XYer, width vg.Length) (*barChart, error) {
	if width <= 0 {
		return nil, errNonPositiveWidth
	}
	barsCopy, err := plotter.CopyXYs(bars)
	if err != nil {
		return nil, err
	}
	return &barChart{
		Bars:      barsCopy,
		Width:     width,
		Color:     color.Black,
		LineStyle: plotter.DefaultLineStyle,
	}, nil
}

// BarHeight returns the top of the ith bar, taking into account any bars
// upon which it is stacked.
func (b *barChart) BarHeight(i int) float64 {
	ht := 0.0
	if b == nil {
		return 0
	}
	if i >= 0 && i < len(b.Bars) {
		ht += b.Bars[i].Y
	}
	if b.stackedOn != nil {
		ht += b.stackedOn.BarHeight(i)
	}
	return ht
}

// StackOn stacks a bar chart on top of another, and sets the Offset and
// Floor to those of the chart upon which it is being stacked. Both charts
// must have their bars at the same X positions.
func (b *barChart) StackOn(on *barChart) {
	b.Offset = on.Offset
	b.Floor = on.Floor
	b.stackedOn = on
}

func (b *barChart) bottom(i int) float64 {
	return math.Max(b.stackedOn.BarHeight(i), b.Floor)
}

// Plot implements the plot.Plotter interface.
func (b *barChart) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for i, bar := range b.Bars {
		x := trX(bar.X)
		if !c.ContainsX(x) {
			continue
		}
		x += b.Offset
		xMin := x - b.Width/2
		xMax := xMin + b.Width
		bottom := b.bottom(i)
		top := b.stackedOn.BarHeight(i) + bar.Y
		if top <= bottom {
			continue
		}
		yMin := trY(bottom)
		yMax := trY(top)

		pts := []vg.Point{
			{X: xMin, Y: yMin},
			{X: xMin, Y: yMax},
			{X: xMax, Y: yMax},
			{X: xMax, Y: yMin},
		}
		c.FillPolygon(b.Color, c.ClipPolygonY(pts))

		pts = append(pts, vg.Point{X: xMin, Y: yMin})
		c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *barChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin = math.Inf(1)
	xmax = math.Inf(-1)
	ymin = math.Inf(1)
	ymax = math.Inf(-1)
	for i, bar := range b.Bars {
		xmin = math.Min(xmin, bar.X)
		xmax = math.Max(xmax, bar.X)

		bot := b.bottom(i)
		top := math.Max(b.stackedOn.BarHeight(i)+bar.Y, b.Floor)
		ymin = math.Min(ymin, math.Min(bot, top))
		ymax = math.Max(ymax, math.Max(bot, top))
	}
	return xmin, xmax, ymin, ymax
}

// GlyphBoxes implements the GlyphBoxer interface.
func (b *barChart) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	boxes := make([]plot.GlyphBox, len(b.Bars))
	for i, bar := range b.Bars {
		boxes[i].X = plt.X.Norm(bar.X)
		boxes[i].Rectangle = vg.Rectangle{
			Min: vg.Point{X: b.Offset - b.Width/2},
			Max: vg.Point{X: b.Offset + b.Width/2},
		}
	}
	return boxes
}

// Thumbnail fulfills the plot.Thumbnailer interface.
func (b *barChart) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, c.ClipPolygonY(pts))

	pts = append(pts, vg.Point{X: c.Min.X, Y: c.Min.Y})
	c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)
}

// barGroup is one series of a grouped bar chart.
type barGroup struct {
	Label string
	Bars  plotter.XYs
	Color color.Color
}

// addGroupedBars draws the groups side by side around each X position,
// outlined with outline. Groups without bars keep their slot.
func addGroupedBars(p *plot.Plot, groups []barGroup, barWidth vg.Length, outline color.Color) ([]*barChart, error) {
	barSpacing := barWidth / 8

	// Calculate the total width of the bar group, center to center.
	groupWidth := (barWidth + barSpacing) * vg.Length(len(groups)-1)

	charts := make([]*barChart, len(groups))
	for i, g := range groups {
		bc, err := newBarChart(g.Bars, barWidth)
		if err != nil {
			return nil, err
		}
		bc.Offset = (barWidth+barSpacing)*vg.Length(i) - groupWidth/2
		bc.Color = g.Color
		bc.LineStyle.Color = outline
		bc.LineStyle.Width = vg.Points(0.5)
		if len(g.Bars) > 0 {
			p.Add(bc)
		}
		p.Legend.Add(g.Label, bc)
		charts[i] = bc
	}
	return charts, nil
}
