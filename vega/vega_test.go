// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vega

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/internal/ident"
	"github.com/aclements/go-tsviz/palette"
	"github.com/aclements/go-tsviz/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2017, 8, 21, 17, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func lightcurve(t *testing.T) *series.Series {
	s, err := series.NewBuilder("lc").
		Time("time", []time.Time{t0, t1}).
		Number("flux", []float64{5, 7}).
		Number("error", []float64{1, 0.5}).
		Done()
	require.NoError(t, err)
	return s
}

// example is a markers layer and an error band over the same source.
func example(t *testing.T) (*figure.Figure, *series.Series) {
	f := figure.New()
	src := lightcurve(t)
	_, err := f.Add(figure.Markers{Source: src, Y: "flux", Label: "flux"})
	require.NoError(t, err)
	_, err = f.Add(figure.Range{Source: src, Y: "flux", Error: "error", Label: "uncertainty"})
	require.NoError(t, err)
	return f, src
}

func compile(t *testing.T, f *figure.Figure, o Options) (*Context, *Spec) {
	fr, err := f.Freeze()
	require.NoError(t, err)
	if o.IDs == nil {
		o.IDs = &ident.Sequence{Prefix: "id"}
	}
	ctx, err := NewContext(fr, o)
	require.NoError(t, err)
	return ctx, Compile(ctx)
}

func TestCompileExample(t *testing.T) {
	f, _ := example(t)
	_, s := compile(t, f, Options{Axis: axis.Options{Padding: -1}})

	assert.Equal(t, SchemaURL, s.Schema)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 450, s.Height)
	assert.Equal(t, Autosize{Type: "fit", Resize: true}, s.Autosize)

	require.Len(t, s.Data, 1)
	assert.Equal(t, Data{
		Name:   "id1",
		URL:    "id1.csv",
		Format: &Format{Type: "csv", Parse: map[string]string{"time": "date", "flux": "number", "error": "number"}},
	}, s.Data[0])

	require.Len(t, s.Scales, 3)
	x, y := s.Scales[0], s.Scales[1]
	assert.Equal(t, "xscale", x.Name)
	assert.Equal(t, "time", x.Type)
	assert.Equal(t, []float64{series.Millis(t0), series.Millis(t1)}, x.Domain)
	assert.Equal(t, "width", x.Range)
	assert.Equal(t, "yscale", y.Name)
	assert.Equal(t, "linear", y.Type)
	assert.Equal(t, []float64{4, 7.5}, y.Domain)
	assert.Equal(t, "height", y.Range)
	assert.Equal(t, "legend", s.Scales[2].Name)

	require.Len(t, s.Axes, 2)
	assert.Equal(t, "Time", s.Axes[0].Title)
	assert.Equal(t, "utc", s.Axes[0].FormatType)
	assert.Equal(t, "%H:%M", s.Axes[0].Format)
	assert.Equal(t, "flux", s.Axes[1].Title)

	require.Len(t, s.Marks, 2)
	sym, area := s.Marks[0], s.Marks[1]
	assert.Equal(t, "symbol", sym.Type)
	assert.Equal(t, "id2", sym.Name)
	assert.Equal(t, &From{Data: "id1"}, sym.From)
	assert.Equal(t, Value{Scale: "xscale", Field: "time"}, sym.Encode["enter"]["x"])
	assert.Equal(t, Value{Scale: "yscale", Field: "flux"}, sym.Encode["enter"]["y"])
	assert.Equal(t, "{'time': datum.time, 'flux': datum.flux}", sym.Encode["hover"]["tooltip"].Signal)
	assert.Equal(t, palette.OkabeIto[0], sym.Encode["update"]["fill"].Value)

	assert.Equal(t, "area", area.Type)
	assert.Equal(t, "id3", area.Name)
	assert.Equal(t, Value{Scale: "yscale", Signal: "datum['flux'] - datum['error']"}, area.Encode["enter"]["y"])
	assert.Equal(t, Value{Scale: "yscale", Signal: "datum['flux'] + datum['error']"}, area.Encode["enter"]["y2"])
	assert.Equal(t, palette.OkabeIto[1], area.Encode["update"]["fill"].Value)
	assert.Equal(t, figure.DefaultFillOpacity, area.Encode["update"]["fillOpacity"].Value)
}

func TestCompileDeterministic(t *testing.T) {
	f, _ := example(t)
	ctx, s := compile(t, f, Options{})
	a, err := s.JSON()
	require.NoError(t, err)
	b, err := Compile(ctx).JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	_, s2 := compile(t, f, Options{})
	c, err := s2.JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(c), "pinned identifiers must give identical output")
}

func TestCompileJSON(t *testing.T) {
	f, _ := example(t)
	_, s := compile(t, f, Options{})
	data, err := s.JSON()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"$schema", "width", "height", "padding", "autosize", "data", "scales", "axes", "marks", "signals", "legends"} {
		assert.Contains(t, doc, key)
	}
	assert.Equal(t, 0.0, doc["padding"])
	marks := doc["marks"].([]interface{})
	hover := marks[0].(map[string]interface{})["encode"].(map[string]interface{})["hover"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"signal": "{'time': datum.time, 'flux': datum.flux}"}, hover["tooltip"])
}

func TestCompileEmbed(t *testing.T) {
	f, _ := example(t)
	_, s := compile(t, f, Options{EmbedData: true})
	require.Len(t, s.Data, 1)
	d := s.Data[0]
	assert.Empty(t, d.URL)
	assert.Equal(t, "json", d.Format.Type)
	rows, ok := d.Values.([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, 5.0, rows[0]["flux"])
	assert.Equal(t, "2017-08-21T17:00:00Z", rows[0]["time"])

	data, err := s.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"url"`)
	assert.NotContains(t, string(data), ".csv")
}

func TestCompileViews(t *testing.T) {
	f, src := example(t)
	layers := f.Layers()
	line, err := f.Add(figure.Line{Source: src, Y: "flux", Label: "flux"})
	require.NoError(t, err)
	_, err = f.AddView("raw", figure.ViewOptions{Include: layers, Title: "Raw"})
	require.NoError(t, err)
	_, err = f.AddView("smoothed", figure.ViewOptions{Include: []*figure.Layer{line, layers[0]}})
	require.NoError(t, err)

	ctx, s := compile(t, f, Options{})
	require.Len(t, s.Data, 1, "shared source must be serialized once")
	assert.Empty(t, s.Axes)
	require.Len(t, s.Signals, 1)
	assert.Equal(t, Signal{Name: "viewHeight", Update: "(height - 40) / 2"}, s.Signals[0])

	var names []string
	for _, sc := range s.Scales {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"xscale_0", "yscale_0", "xscale_1", "yscale_1", "legend"}, names)
	assert.Equal(t, map[string]string{"signal": "[viewHeight, 0]"}, s.Scales[1].Range)

	require.Len(t, s.Marks, 2)
	seen := make(map[string]bool)
	for i, g := range s.Marks {
		assert.Equal(t, "group", g.Type)
		assert.Equal(t, ctx.Views[i].Group, g.Name)
		require.Len(t, g.Axes, 2)
		assert.Equal(t, ctx.Views[i].XScale, g.Axes[0].Scale)
		for _, m := range g.Marks {
			assert.False(t, seen[m.Name], "duplicate mark name %s", m.Name)
			seen[m.Name] = true
			assert.Equal(t, ctx.Views[i].XScale, m.Encode["enter"]["x"].Scale)
		}
	}
	assert.Equal(t, "Raw", s.Marks[0].Title)
	assert.Equal(t, Value{Signal: "1 * (viewHeight + 40)"}, s.Marks[1].Encode["enter"]["y"])
	assert.Equal(t, []string{"symbol", "line"}, []string{s.Marks[1].Marks[0].Type, s.Marks[1].Marks[1].Type})

	// The line and the markers share a label and so a legend entry.
	legend := s.Scales[4]
	assert.Equal(t, []string{"flux", "uncertainty"}, legend.Domain)
	colors, ok := legend.Range.([]string)
	require.True(t, ok)
	require.Len(t, colors, 2)
	smoothed := s.Marks[1].Marks
	assert.Equal(t, colors[0], smoothed[0].Encode["update"]["fill"].Value, "markers match their legend entry")
	assert.Equal(t, colors[0], smoothed[1].Encode["update"]["stroke"].Value, "line matches its legend entry")
	assert.NotEqual(t, colors[0], colors[1])
}

func TestCompileColors(t *testing.T) {
	f, _ := example(t)
	require.NoError(t, f.Layers()[0].SetColor("red"))
	pal := palette.Palette{"#111111", "#222222"}

	ctx, s := compile(t, f, Options{Palette: pal})
	assert.Equal(t, "#ff0000", s.Marks[0].Encode["update"]["fill"].Value)
	assert.Equal(t, "#111111", s.Marks[1].Encode["update"]["fill"].Value)

	_, s = compile(t, f, Options{Palette: pal, OverrideStyle: true})
	assert.Equal(t, "#111111", s.Marks[0].Encode["update"]["fill"].Value)
	assert.Equal(t, "#222222", s.Marks[1].Encode["update"]["fill"].Value)

	// Earlier assignments survive a palette change.
	_, s = compile(t, f, Options{Palette: palette.Palette{"#333333"}, Previous: ctx.Colors})
	assert.Equal(t, "#111111", s.Marks[1].Encode["update"]["fill"].Value)
}

func TestCompileTimeLimits(t *testing.T) {
	f := figure.New()
	f.Axes.XLim = figure.TimeLimits(t0, t1)
	_, err := f.Add(figure.HorizontalLine{Value: 3})
	require.NoError(t, err)

	_, s := compile(t, f, Options{})
	assert.Equal(t, string(axis.Time), s.Scales[0].Type)
	assert.Equal(t, "utc", s.Axes[0].FormatType)
	assert.Equal(t, "Time", s.Axes[0].Title)
}

func TestCompileGuides(t *testing.T) {
	f := figure.New()
	_, err := f.Add(figure.VerticalLine{At: t0.Add(1500 * time.Millisecond)})
	require.NoError(t, err)
	_, err = f.Add(figure.HorizontalRange{Low: 1, High: 2})
	require.NoError(t, err)
	_, err = f.Add(figure.Text{At: t1, Value: 1.5, Text: "egress", Weight: "bold"})
	require.NoError(t, err)

	_, s := compile(t, f, Options{})
	require.Len(t, s.Marks, 3)
	rule, rect, text := s.Marks[0], s.Marks[1], s.Marks[2]
	assert.Equal(t, "rule", rule.Type)
	assert.Nil(t, rule.From)
	assert.Equal(t, Value{Scale: "xscale", Signal: "utc(2017, 7, 21, 17, 0, 1, 500)"}, rule.Encode["enter"]["x"])
	assert.Equal(t, Value{Field: map[string]string{"group": "height"}}, rule.Encode["enter"]["y2"])
	assert.Equal(t, "rect", rect.Type)
	assert.Equal(t, Value{Scale: "yscale", Value: 2.0}, rect.Encode["enter"]["y2"])
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "egress", text.Encode["enter"]["text"].Value)
	assert.Equal(t, "bold", text.Encode["enter"]["fontWeight"].Value)
	assert.NotContains(t, text.Encode["enter"], "align")
	assert.Empty(t, s.Legends)
}

func TestCompileErrorBars(t *testing.T) {
	f := figure.New()
	_, err := f.Add(figure.Markers{Source: lightcurve(t), Y: "flux", Error: "error", Tooltip: &figure.Tooltip{Disabled: true}})
	require.NoError(t, err)
	_, s := compile(t, f, Options{})
	require.Len(t, s.Marks, 2)
	assert.Equal(t, "rect", s.Marks[0].Type)
	assert.Equal(t, s.Marks[1].Name+"_errors", s.Marks[0].Name)
	assert.Equal(t, Value{Scale: "yscale", Signal: "datum['flux'] - datum['error']"}, s.Marks[0].Encode["enter"]["y"])
	assert.NotContains(t, s.Marks[1].Encode, "hover")
}

func TestNewContextEmptyAxis(t *testing.T) {
	f := figure.New()
	_, err := f.Add(figure.HorizontalLine{Value: 1})
	require.NoError(t, err)
	fr, err := f.Freeze()
	require.NoError(t, err)

	_, err = NewContext(fr, Options{})
	assert.True(t, errors.Is(err, axis.ErrEmptyAxisDomain))

	f.Axes.XLim = figure.TimeLimits(t0, t1)
	fr, err = f.Freeze()
	require.NoError(t, err)
	_, err = NewContext(fr, Options{})
	assert.NoError(t, err)
}

func TestCheck(t *testing.T) {
	f, src := example(t)
	dead, err := f.Add(figure.Line{Source: src, Y: "error"})
	require.NoError(t, err)
	_, err = f.AddView("main", figure.ViewOptions{Exclude: []*figure.Layer{dead}})
	require.NoError(t, err)
	_, err = f.AddView("empty", figure.ViewOptions{Empty: true})
	require.NoError(t, err)
	fr, err := f.Freeze()
	require.NoError(t, err)

	errs := Check(fr, Options{})
	require.Len(t, errs, 3)
	var de *figure.DeadLayerError
	require.True(t, errors.As(errs[0], &de))
	assert.Equal(t, dead.ID(), de.ID)
	var ae *axis.DomainError
	require.True(t, errors.As(errs[1], &ae))
	assert.Equal(t, axis.DomainError{View: "empty", Axis: "x"}, *ae)
	require.True(t, errors.As(errs[2], &ae))
	assert.Equal(t, "y", ae.Axis)
}

func TestExpressions(t *testing.T) {
	assert.Equal(t, `a\.b\[0\]`, field("a.b[0]"))
	assert.Equal(t, "datum.flux_1", datum("flux_1"))
	assert.Equal(t, `datum['rate (c/s)']`, datum("rate (c/s)"))
	assert.Equal(t, `datum['it\'s']`, datum("it's"))
	assert.Equal(t, "{'σ': datum.error}", tooltipSignal(figure.Tooltip{Fields: []figure.TooltipField{{Column: "error", Title: "σ"}}}))
	assert.Equal(t, "%Y", timeFormat(3*365*24*3600e3))
	assert.Equal(t, "%H:%M:%S", timeFormat(1000))
}
