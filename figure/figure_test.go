// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"errors"
	"testing"
	"time"

	"github.com/aclements/go-tsviz/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2017, 8, 21, 17, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
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

func TestAddSchema(t *testing.T) {
	src := lightcurve(t)
	for _, test := range []struct {
		name string
		spec Spec
		role string
	}{
		{"missing y", Markers{Source: src, Y: "nope"}, "y"},
		{"unset y", Line{Source: src}, "y"},
		{"time y", Line{Source: src, Y: "time"}, "y"},
		{"missing x", Markers{Source: src, X: "when", Y: "flux"}, "x"},
		{"range without error", Range{Source: src, Y: "flux"}, "error"},
		{"text error", Range{Source: src, Y: "flux", Error: "time"}, "error"},
		{"no source", Markers{Y: "flux"}, "source"},
		{"tooltip", Markers{Source: src, Y: "flux", Tooltip: &Tooltip{Fields: []TooltipField{{Column: "snr"}}}}, "tooltip"},
	} {
		t.Run(test.name, func(t *testing.T) {
			f := New()
			_, err := f.Add(test.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch))
			var se *SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, test.role, se.Role)
			assert.Empty(t, f.Layers(), "failed Add must not touch the figure")
		})
	}
}

func TestAddDefaults(t *testing.T) {
	f := New()
	l, err := f.Add(Markers{Source: lightcurve(t), Y: "flux", Label: "flux"})
	require.NoError(t, err)
	assert.Equal(t, KindMarkers, l.Kind())
	assert.Equal(t, Columns{X: "time", Y: "flux"}, l.Columns())
	assert.Equal(t, Tooltip{Fields: []TooltipField{{Column: "time"}, {Column: "flux"}}}, l.Tooltip())
	assert.Equal(t, 0, l.ID())

	g, err := f.Add(HorizontalLine{Value: 6})
	require.NoError(t, err)
	assert.Equal(t, 1, g.ID())
	assert.True(t, g.Tooltip().Disabled)
	assert.Nil(t, g.Source())
	assert.Equal(t, Guide{Low: 6, High: 6}, g.Guide())
}

func TestGuides(t *testing.T) {
	f := New()
	_, err := f.Add(VerticalLine{})
	assert.Error(t, err)
	_, err = f.Add(VerticalRange{From: t1, To: t0})
	assert.Error(t, err)
	_, err = f.Add(HorizontalRange{Low: 2, High: 1})
	assert.Error(t, err)
	_, err = f.Add(Text{At: t0, Text: "x", Align: "justify"})
	assert.True(t, errors.Is(err, ErrInvalidStyle))

	l, err := f.Add(Text{At: t0, Value: 3, Text: "eclipse", Weight: "bold", Angle: 45})
	require.NoError(t, err)
	assert.Equal(t, Annotation{Text: "eclipse", Weight: "bold", Angle: 45}, l.Annotation())
	assert.Equal(t, Guide{From: t0, To: t0, Low: 3, High: 3}, l.Guide())
}

func TestSetters(t *testing.T) {
	f := New()
	l, err := f.Add(Line{Source: lightcurve(t), Y: "flux"})
	require.NoError(t, err)

	require.NoError(t, l.SetColor("Red"))
	assert.Equal(t, "#ff0000", l.Style().Color)
	require.NoError(t, l.SetColor("#0AF"))
	assert.Equal(t, "#00aaff", l.Style().Color)
	assert.True(t, errors.Is(l.SetColor("octarine"), ErrInvalidStyle))
	assert.Equal(t, "#00aaff", l.Style().Color, "failed set must not change style")

	require.NoError(t, l.SetOpacity(0.5))
	assert.Equal(t, 0.5, l.Style().Opacity)
	assert.True(t, errors.Is(l.SetOpacity(2), ErrInvalidStyle))

	assert.True(t, errors.Is(l.SetStyle(Style{Shape: "hexagon"}), ErrInvalidStyle))
	assert.True(t, errors.Is(l.SetStyle(Style{Width: -1}), ErrInvalidStyle))

	l.SetLabel("raw")
	assert.Equal(t, "raw", l.Label())

	require.NoError(t, l.SetTooltip(Tooltip{Fields: []TooltipField{{Column: "error", Title: "σ"}}}))
	assert.Equal(t, []TooltipField{{Column: "error", Title: "σ"}}, l.Tooltip().Fields)
	require.NoError(t, l.SetTooltip(Tooltip{Disabled: true}))
	assert.True(t, l.Tooltip().Disabled)
}

func TestResolveStyle(t *testing.T) {
	s := Style{}.Resolve(KindRange)
	assert.Equal(t, DefaultFillOpacity, s.Opacity)
	assert.Equal(t, DefaultShape, s.Shape)
	s = Style{Opacity: 0.7, Size: 3}.Resolve(KindMarkers)
	assert.Equal(t, 0.7, s.Opacity)
	assert.Equal(t, 3.0, s.Size)
	assert.Equal(t, float64(DefaultFontSize), Style{}.Resolve(KindText).Size)
	assert.Equal(t, "", s.Color)
}

func TestViews(t *testing.T) {
	f := New()
	src := lightcurve(t)
	a, _ := f.Add(Markers{Source: src, Y: "flux"})
	b, _ := f.Add(Range{Source: src, Y: "flux", Error: "error"})

	all, err := f.AddView("all", ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, []*Layer{a, b}, all.Layers())

	only, err := f.AddView("band", ViewOptions{Exclude: []*Layer{a}})
	require.NoError(t, err)
	assert.Equal(t, []*Layer{b}, only.Layers())

	empty, err := f.AddView("empty", ViewOptions{Empty: true})
	require.NoError(t, err)
	assert.Empty(t, empty.Layers())
	// Layers come back in figure order regardless of add order.
	require.NoError(t, empty.Add(b, a))
	assert.Equal(t, []*Layer{a, b}, empty.Layers())

	c, _ := f.Add(HorizontalLine{Value: 1})
	assert.False(t, all.Has(c), "views hold layers present at creation")

	other := New()
	stranger, _ := other.Add(HorizontalLine{Value: 1})
	_, err = f.AddView("bad", ViewOptions{Include: []*Layer{stranger}})
	assert.True(t, errors.Is(err, ErrUnknownLayer))
	assert.True(t, errors.Is(all.Add(stranger), ErrUnknownLayer))

	a.Remove()
	assert.Equal(t, []*Layer{b, c}, f.Layers())
	assert.Equal(t, []*Layer{b}, all.Layers())
	assert.True(t, errors.Is(all.Add(a), ErrUnknownLayer))
}

func TestFreezeImplicit(t *testing.T) {
	f := New()
	f.Title = "Eclipse"
	src := lightcurve(t)
	a, _ := f.Add(Markers{Source: src, Y: "flux"})
	b, _ := f.Add(Range{Source: src, Y: "flux", Error: "error"})

	fr, err := f.Freeze()
	require.NoError(t, err)
	require.True(t, fr.Implicit())
	views := fr.Views()
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, ImplicitView, v.Name())
	layers := v.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, a.ID(), layers[0].ID())
	assert.Equal(t, b.ID(), layers[1].ID())
	assert.Equal(t, "Time", v.Axes().XTitle)
	assert.Equal(t, "flux", v.Axes().YTitle)
	assert.Empty(t, fr.Dead())
	assert.Equal(t, []*series.Series{src}, fr.Sources())

	// The snapshot is independent of the builder.
	require.NoError(t, a.SetColor("blue"))
	assert.Equal(t, "", layers[0].Style().Color)
	assert.Panics(t, func() { layers[0].SetLabel("x") })
	assert.Panics(t, func() { v.SetTitle("x") })
}

func TestFreezeViews(t *testing.T) {
	f := New()
	src := lightcurve(t)
	a, _ := f.Add(Markers{Source: src, Y: "flux", Label: "flux"})
	b, _ := f.Add(Line{Source: src, Y: "error"})
	_, err := f.AddView("raw", ViewOptions{Include: []*Layer{a}})
	require.NoError(t, err)

	fr, err := f.Freeze()
	require.NoError(t, err)
	assert.False(t, fr.Implicit())
	dead := fr.Dead()
	require.Len(t, dead, 1)
	var de *DeadLayerError
	require.True(t, errors.As(dead[0], &de))
	assert.Equal(t, b.ID(), de.ID)
	assert.True(t, errors.Is(dead[0], ErrDeadLayer))
	require.Len(t, fr.Rendered(), 1)
	assert.Equal(t, a.ID(), fr.Rendered()[0].ID())

	_, err = f.AddView("raw", ViewOptions{})
	require.NoError(t, err)
	_, err = f.Freeze()
	assert.True(t, errors.Is(err, ErrDuplicateView))
}

func TestDefaultTitles(t *testing.T) {
	f := New()
	src := lightcurve(t)
	f.Add(Line{Source: src, Y: "flux"})
	f.Add(Line{Source: src, Y: "error"})
	f.Add(Line{Source: src, X: "flux", Y: "error"})
	f.Axes.YTitle = ""
	fr, err := f.Freeze()
	require.NoError(t, err)
	a := fr.Views()[0].Axes()
	assert.Equal(t, "flux", a.XTitle)
	assert.Equal(t, "Value", a.YTitle)
}

func TestParseKind(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Kind
	}{
		{"markers", KindMarkers},
		{"Line", KindLine},
		{"vertical-line", KindVerticalLine},
		{"horizontal_range", KindHorizontalRange},
		{"vertical range", KindVerticalRange},
	} {
		k, err := ParseKind(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, k)
	}
	_, err := ParseKind("bars")
	assert.Error(t, err)
}
