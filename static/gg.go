// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"bytes"
	"fmt"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/series"
)

// GG is a Backend built on go-gg. It only produces SVG and does not
// support log axes, legends or text rotation. Markers are drawn as
// plain circles with their error bars; marker shapes, sizes and edges
// are ignored.
type GG struct{}

func (GG) Formats() []string {
	return []string{"svg"}
}

func (GG) Render(w *bytes.Buffer, format string, p *Panel) (err error) {
	if format != "svg" {
		return fmt.Errorf("gg: unsupported format %q", format)
	}
	if p.Y.Type == axis.Log {
		return fmt.Errorf("gg: log axes are not supported")
	}
	// go-gg reports bad input by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gg: %v", r)
		}
	}()

	plot := gg.NewPlot(new(table.Builder).Done())
	xs := gg.NewLinearScaler().SetMin(p.X.Min).SetMax(p.X.Max)
	if p.X.Type == axis.Time {
		layout := timeLayout(p.X.Max - p.X.Min)
		xs.SetFormatter(func(ms float64) string {
			return series.FromMillis(ms).Format(layout)
		})
	}
	plot.SetScale("x", xs)
	plot.SetScale("y", gg.NewLinearScaler().SetMin(p.Y.Min).SetMax(p.Y.Max))

	for _, it := range p.Items {
		ggItem(plot, p, it)
	}

	if p.Title != "" {
		plot.Add(gg.Title(p.Title))
	}
	if p.XTitle != "" {
		plot.Add(gg.AxisLabel("x", p.XTitle))
	}
	if p.YTitle != "" {
		plot.Add(gg.AxisLabel("y", p.YTitle))
	}
	return plot.WriteSVG(w, p.Width, p.Height)
}

// ggItem adds the marks of it to plot. Each item gets its own data
// table.
func ggItem(plot *gg.Plot, p *Panel, it Item) {
	st := it.Style
	plot.Save()
	defer plot.Restore()

	switch it.Kind {
	case figure.KindMarkers:
		if it.Err != nil {
			plot.SetData(table.GroupBy(errorBarTable(it), "bar"))
			plot.Add(gg.LayerPaths{X: "x", Y: "y", Color: plot.Const(nrgba(st.Color, st.Opacity))})
		}
		plot.SetData(xyTable(it.X, it.Y))
		plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindLine:
		plot.SetData(xyTable(it.X, it.Y))
		plot.Add(gg.LayerLines{X: "x", Y: "y", Color: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindRange:
		var xs, lo, hi []float64
		for i := range it.X {
			l, h := it.Y[i]-it.Err[i], it.Y[i]+it.Err[i]
			if finite(it.X[i], l, h) {
				xs, lo, hi = append(xs, it.X[i]), append(lo, l), append(hi, h)
			}
		}
		plot.SetData(new(table.Builder).Add("x", xs).Add("lo", lo).Add("hi", hi).Done())
		plot.Add(gg.LayerArea{X: "x", Upper: "hi", Lower: "lo", Fill: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindVerticalLine:
		plot.SetData(xyTable([]float64{it.From, it.From}, []float64{p.Y.Min, p.Y.Max}))
		plot.Add(gg.LayerPaths{X: "x", Y: "y", Color: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindHorizontalLine:
		plot.SetData(xyTable([]float64{p.X.Min, p.X.Max}, []float64{it.Low, it.Low}))
		plot.Add(gg.LayerPaths{X: "x", Y: "y", Color: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindVerticalRange:
		plot.SetData(new(table.Builder).
			Add("x", []float64{it.From, it.To}).
			Add("lo", []float64{p.Y.Min, p.Y.Min}).
			Add("hi", []float64{p.Y.Max, p.Y.Max}).
			Done())
		plot.Add(gg.LayerArea{X: "x", Upper: "hi", Lower: "lo", Fill: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindHorizontalRange:
		plot.SetData(new(table.Builder).
			Add("x", []float64{p.X.Min, p.X.Max}).
			Add("lo", []float64{it.Low, it.Low}).
			Add("hi", []float64{it.High, it.High}).
			Done())
		plot.Add(gg.LayerArea{X: "x", Upper: "hi", Lower: "lo", Fill: plot.Const(nrgba(st.Color, st.Opacity))})
	case figure.KindText:
		plot.SetData(new(table.Builder).
			Add("x", []float64{it.From}).
			Add("y", []float64{it.Low}).
			Add("text", []string{it.Text.Text}).
			Done())
		plot.Add(gg.LayerTags{X: "x", Y: "y", Label: "text"})
	}
}

// errorBarTable returns the end points of the error bars of it, one
// group of two rows per bar under the "bar" column.
func errorBarTable(it Item) *table.Table {
	var x, y []float64
	var bar []int
	for i := range it.X {
		lo, hi := it.Y[i]-it.Err[i], it.Y[i]+it.Err[i]
		if !finite(it.X[i], lo, hi) {
			continue
		}
		x = append(x, it.X[i], it.X[i])
		y = append(y, lo, hi)
		bar = append(bar, i, i)
	}
	return new(table.Builder).Add("x", x).Add("y", y).Add("bar", bar).Done()
}

// xyTable pairs xs and ys, dropping non-finite points.
func xyTable(xs, ys []float64) *table.Table {
	var x, y []float64
	for i := range xs {
		if finite(xs[i], ys[i]) {
			x, y = append(x, xs[i]), append(y, ys[i])
		}
	}
	return new(table.Builder).Add("x", x).Add("y", y).Done()
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
