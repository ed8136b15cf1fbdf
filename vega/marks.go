// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vega

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aclements/go-tsviz/figure"
)

// layerMarks emits the marks of one layer in one view.
func layerMarks(ctx *Context, vc *ViewContext, l *figure.Layer) []Mark {
	st := ctx.Style(l)
	name := vc.Mark(l.ID())
	cols := l.Columns()
	g := l.Guide()
	m := Mark{Name: name, Description: l.Label()}
	if src := l.Source(); src != nil {
		e, _ := ctx.Plan.Lookup(src)
		m.From = &From{Data: e.ID}
	}
	x := Value{Scale: vc.XScale, Field: field(cols.X)}
	y := Value{Scale: vc.YScale, Field: field(cols.Y)}
	fill := map[string]Value{
		"fill":        {Value: st.Color},
		"fillOpacity": {Value: st.Opacity},
	}
	stroke := map[string]Value{
		"stroke":        {Value: st.Color},
		"strokeOpacity": {Value: st.Opacity},
		"strokeWidth":   {Value: st.Width},
	}

	switch l.Kind() {
	case figure.KindMarkers:
		m.Type = "symbol"
		update := merge(fill, map[string]Value{
			"shape":         {Value: st.Shape},
			"size":          {Value: st.Size},
			"stroke":        {Value: st.EdgeColor},
			"strokeOpacity": {Value: st.EdgeOpacity},
			"strokeWidth":   {Value: st.EdgeWidth},
		})
		m.Encode = Encode{
			"enter":  {"x": x, "y": y, "shape": {Value: st.Shape}},
			"update": update,
		}
		if tip := l.Tooltip(); !tip.Disabled {
			m.Encode["hover"] = map[string]Value{"tooltip": {Signal: tooltipSignal(tip)}}
		}
		if cols.Error == "" {
			return []Mark{m}
		}
		bars := Mark{
			Type:        "rect",
			Name:        name + "_errors",
			Description: l.Label(),
			From:        m.From,
			Encode: Encode{
				"enter": {
					"xc":    x,
					"width": {Value: 1},
					"y":     {Scale: vc.YScale, Signal: bound(cols.Y, "-", cols.Error)},
					"y2":    {Scale: vc.YScale, Signal: bound(cols.Y, "+", cols.Error)},
				},
				"update": fill,
			},
		}
		return []Mark{bars, m}

	case figure.KindLine:
		m.Type = "line"
		m.Encode = Encode{
			"enter":  {"x": x, "y": y},
			"update": stroke,
		}

	case figure.KindRange:
		m.Type = "area"
		m.Encode = Encode{
			"enter": {
				"x":  x,
				"y":  {Scale: vc.YScale, Signal: bound(cols.Y, "-", cols.Error)},
				"y2": {Scale: vc.YScale, Signal: bound(cols.Y, "+", cols.Error)},
			},
			"update": fill,
		}

	case figure.KindVerticalLine:
		m.Type = "rule"
		m.Encode = Encode{
			"enter": {
				"x":  {Scale: vc.XScale, Signal: utc(g.From)},
				"y":  {Value: 0},
				"y2": {Field: groupField("height")},
			},
			"update": stroke,
		}

	case figure.KindVerticalRange:
		m.Type = "rect"
		m.Encode = Encode{
			"enter": {
				"x":  {Scale: vc.XScale, Signal: utc(g.From)},
				"x2": {Scale: vc.XScale, Signal: utc(g.To)},
				"y":  {Value: 0},
				"y2": {Field: groupField("height")},
			},
			"update": fill,
		}

	case figure.KindHorizontalLine:
		m.Type = "rule"
		m.Encode = Encode{
			"enter": {
				"x":  {Value: 0},
				"x2": {Field: groupField("width")},
				"y":  {Scale: vc.YScale, Value: g.Low},
			},
			"update": stroke,
		}

	case figure.KindHorizontalRange:
		m.Type = "rect"
		m.Encode = Encode{
			"enter": {
				"x":  {Value: 0},
				"x2": {Field: groupField("width")},
				"y":  {Scale: vc.YScale, Value: g.Low},
				"y2": {Scale: vc.YScale, Value: g.High},
			},
			"update": fill,
		}

	case figure.KindText:
		a := l.Annotation()
		m.Type = "text"
		enter := map[string]Value{
			"x":        {Scale: vc.XScale, Signal: utc(g.From)},
			"y":        {Scale: vc.YScale, Value: g.Low},
			"text":     {Value: a.Text},
			"fontSize": {Value: st.Size},
			"angle":    {Value: a.Angle},
		}
		for k, v := range map[string]string{"fontWeight": a.Weight, "baseline": a.Baseline, "align": a.Align} {
			if v != "" {
				enter[k] = Value{Value: v}
			}
		}
		m.Encode = Encode{"enter": enter, "update": fill}

	default:
		panic(fmt.Sprintf("unknown layer kind %v", l.Kind()))
	}
	return []Mark{m}
}

func merge(ms ...map[string]Value) map[string]Value {
	out := make(map[string]Value)
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func groupField(name string) map[string]string {
	return map[string]string{"group": name}
}

// field escapes a column name for use as a Vega field reference, in
// which dots and brackets otherwise denote nested access.
func field(name string) string {
	if name == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, ".", `\.`, "[", `\[`, "]", `\]`)
	return r.Replace(name)
}

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// quote returns s as a single-quoted expression string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// datum returns an expression accessing column name of the current
// datum.
func datum(name string) string {
	if identRE.MatchString(name) {
		return "datum." + name
	}
	return "datum[" + quote(name) + "]"
}

// bound returns the expression datum[value] op datum[err].
func bound(value, op, err string) string {
	return fmt.Sprintf("datum[%s] %s datum[%s]", quote(value), op, quote(err))
}

func tooltipSignal(t figure.Tooltip) string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		title := f.Title
		if title == "" {
			title = f.Column
		}
		parts[i] = quote(title) + ": " + datum(f.Column)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// utc returns a Vega expression for the instant t.
func utc(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("utc(%d, %d, %d, %d, %d, %d, %d)",
		t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6)
}
