// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vega

import (
	"fmt"

	"github.com/aclements/go-tsviz/axis"
)

// viewGap is the vertical space between stacked views, in pixels.
const viewGap = 40

// Compile emits the Vega document for ctx.
//
// A single view puts its scales, axes and marks at the top level. With
// several views, each view gets its own scale pair and a group mark
// holding its axes and marks, and the groups are stacked vertically in
// declaration order.
func Compile(ctx *Context) *Spec {
	fr := ctx.Figure
	s := &Spec{
		Schema:   SchemaURL,
		Title:    fr.Title,
		Width:    fr.Width,
		Height:   fr.Height,
		Autosize: Autosize{Type: "fit", Resize: true},
		Signals:  []Signal{},
		Data:     compileData(ctx),
		Scales:   []Scale{},
		Axes:     []Axis{},
		Legends:  []Legend{},
		Marks:    []Mark{},
	}

	if len(ctx.Views) == 1 {
		vc := ctx.Views[0]
		if s.Title == "" {
			s.Title = vc.View.Title()
		}
		s.Scales = append(s.Scales, compileScales(vc, false)...)
		s.Axes = compileAxes(vc)
		s.Marks = compileMarks(ctx, vc)
	} else {
		n := len(ctx.Views)
		s.Signals = append(s.Signals, Signal{
			Name:   "viewHeight",
			Update: fmt.Sprintf("(height - %d) / %d", viewGap*(n-1), n),
		})
		for _, vc := range ctx.Views {
			s.Scales = append(s.Scales, compileScales(vc, true)...)
			s.Marks = append(s.Marks, Mark{
				Type:  "group",
				Name:  vc.Group,
				Title: vc.View.Title(),
				Encode: Encode{"enter": {
					"x":      {Value: 0},
					"y":      {Signal: fmt.Sprintf("%d * (viewHeight + %d)", vc.Index, viewGap)},
					"width":  {Signal: "width"},
					"height": {Signal: "viewHeight"},
				}},
				Axes:  compileAxes(vc),
				Marks: compileMarks(ctx, vc),
			})
		}
	}

	if sc, lg, ok := compileLegend(ctx); ok {
		s.Scales = append(s.Scales, sc)
		s.Legends = append(s.Legends, lg)
	}
	return s
}

func compileData(ctx *Context) []Data {
	out := []Data{}
	for _, e := range ctx.Plan.Entries() {
		d := Data{Name: e.ID}
		if ctx.Plan.Embed {
			d.Values = e.Rows()
			d.Format = &Format{Type: "json", Parse: e.Parse()}
		} else {
			d.URL = e.File
			d.Format = &Format{Type: "csv", Parse: e.Parse()}
		}
		out = append(out, d)
	}
	return out
}

func compileScales(vc *ViewContext, stacked bool) []Scale {
	var yRange interface{} = "height"
	if stacked {
		yRange = map[string]string{"signal": "[viewHeight, 0]"}
	}
	return []Scale{
		scale(vc.XScale, vc.X, "width"),
		scale(vc.YScale, vc.Y, yRange),
	}
}

func scale(name string, as axis.Scale, rng interface{}) Scale {
	s := Scale{
		Name:   name,
		Type:   string(as.Type),
		Domain: []float64{as.Min, as.Max},
		Range:  rng,
	}
	f := false
	s.Nice = &f
	if as.Type == axis.Linear {
		z := as.Zero
		s.Zero = &z
	}
	return s
}

func compileAxes(vc *ViewContext) []Axis {
	x := Axis{Orient: "bottom", Scale: vc.XScale, Title: vc.View.Axes().XTitle}
	if vc.X.Type == axis.Time {
		x.FormatType = "utc"
		x.Format = timeFormat(vc.X.Max - vc.X.Min)
	} else {
		x.Values = vc.X.Ticks
	}
	y := Axis{Orient: "left", Scale: vc.YScale, Title: vc.View.Axes().YTitle, Values: vc.Y.Ticks}
	return []Axis{x, y}
}

// timeFormat picks a d3 time format for a temporal axis spanning span
// milliseconds.
func timeFormat(span float64) string {
	const (
		minute = 60 * 1000
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case span > 2*365*day:
		return "%Y"
	case span > 60*day:
		return "%Y-%m"
	case span > 2*day:
		return "%Y-%m-%d"
	case span > 2*hour:
		return "%m-%d %H:%M"
	case span > 2*minute:
		return "%H:%M"
	}
	return "%H:%M:%S"
}

// compileLegend builds the legend of labelled layers. Layers sharing a
// label share one entry, colored by the first of them.
func compileLegend(ctx *Context) (Scale, Legend, bool) {
	var labels, colors []string
	seen := make(map[string]bool)
	for _, l := range ctx.Figure.Rendered() {
		if l.Label() == "" || seen[l.Label()] {
			continue
		}
		seen[l.Label()] = true
		labels = append(labels, l.Label())
		colors = append(colors, ctx.Style(l).Color)
	}
	if len(labels) == 0 {
		return Scale{}, Legend{}, false
	}
	sc := Scale{Name: "legend", Type: "ordinal", Domain: labels, Range: colors}
	return sc, Legend{Fill: "legend", Orient: "right"}, true
}

func compileMarks(ctx *Context, vc *ViewContext) []Mark {
	out := []Mark{}
	for _, l := range vc.View.Layers() {
		out = append(out, layerMarks(ctx, vc, l)...)
	}
	return out
}
