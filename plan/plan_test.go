// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/internal/ident"
	"github.com/aclements/go-tsviz/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2017, 8, 21, 17, 0, 0, 123456789, time.FixedZone("PDT", -7*3600))

func lightcurve(t *testing.T, name string) *series.Series {
	s, err := series.NewBuilder(name).
		Time("time", []time.Time{t0, t0.Add(time.Nanosecond)}).
		Number("flux", []float64{0.1, 1e-300}).
		Number("error", []float64{1.0 / 3, math.NaN()}).
		Number("snr", []float64{math.Inf(1), -2}).
		Done()
	require.NoError(t, err)
	return s
}

func TestDedup(t *testing.T) {
	a, b := lightcurve(t, "same"), lightcurve(t, "same")
	f := figure.New()
	f.Add(figure.Markers{Source: a, Y: "flux"})
	f.Add(figure.Line{Source: b, Y: "flux"})
	f.Add(figure.Range{Source: a, Y: "flux", Error: "error"})
	f.Add(figure.HorizontalLine{Value: 1})

	for _, embed := range []bool{false, true} {
		p, err := New(f.Layers(), Options{Embed: embed}, ident.NewRegistry(&ident.Sequence{Prefix: "d"}))
		require.NoError(t, err)
		es := p.Entries()
		require.Len(t, es, 2, "identical contents are still distinct sources")
		assert.Equal(t, "d1", es[0].ID)
		assert.Same(t, a, es[0].Source)
		assert.Equal(t, "d2", es[1].ID)
		assert.Same(t, b, es[1].Source)
		if embed {
			assert.Empty(t, es[0].File)
		} else {
			assert.Equal(t, "d1.csv", es[0].File)
		}
		e, ok := p.Lookup(b)
		require.True(t, ok)
		assert.Equal(t, es[1], e)
	}
}

func TestCollision(t *testing.T) {
	f := figure.New()
	f.Add(figure.Line{Source: lightcurve(t, "a"), Y: "flux"})
	f.Add(figure.Line{Source: lightcurve(t, "b"), Y: "flux"})
	_, err := New(f.Layers(), Options{}, ident.NewRegistry(&ident.Fixed{"x"}))
	assert.True(t, errors.Is(err, ident.ErrDuplicateIdentifier))
}

func TestMinimize(t *testing.T) {
	src := lightcurve(t, "lc")
	f := figure.New()
	f.Add(figure.Markers{Source: src, Y: "flux", Tooltip: &figure.Tooltip{Fields: []figure.TooltipField{{Column: "snr"}}}})

	p, err := New(f.Layers(), Options{Minimize: true}, ident.NewRegistry(nil))
	require.NoError(t, err)
	e := p.Entries()[0]
	assert.Equal(t, []series.Column{{Name: "time", Kind: series.Time}, {Name: "flux", Kind: series.Number}, {Name: "snr", Kind: series.Number}}, e.Columns)
	assert.Equal(t, map[string]string{"time": "date", "flux": "number", "snr": "number"}, e.Parse())

	p, err = New(f.Layers(), Options{}, ident.NewRegistry(nil))
	require.NoError(t, err)
	assert.Len(t, p.Entries()[0].Columns, 4)
}

func TestCSVRoundTrip(t *testing.T) {
	src := lightcurve(t, "lc")
	f := figure.New()
	f.Add(figure.Line{Source: src, Y: "flux"})
	p, err := New(f.Layers(), Options{}, ident.NewRegistry(&ident.Sequence{}))
	require.NoError(t, err)
	e := p.Entries()[0]

	data, err := e.CSV()
	require.NoError(t, err)
	assert.Equal(t, "time,flux,error,snr\n"+
		"2017-08-22T00:00:00.123456789Z,0.1,0.3333333333333333,+Inf\n"+
		"2017-08-22T00:00:00.12345679Z,1e-300,NaN,-2\n", string(data))

	back, err := ReadCSV("lc", bytes.NewReader(data), e.Parse())
	require.NoError(t, err)
	assert.Equal(t, src.Columns(), back.Columns())
	for i, tm := range src.Times("time") {
		assert.True(t, tm.Equal(back.Times("time")[i]), "row %d: %v != %v", i, tm, back.Times("time")[i])
	}
	for _, col := range []string{"flux", "error", "snr"} {
		want, got := src.Numbers(col), back.Numbers(col)
		for i := range want {
			assert.Equal(t, math.Float64bits(want[i]), math.Float64bits(got[i]), "%s[%d]", col, i)
		}
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, test := range []struct {
		name, data string
		parse      map[string]string
	}{
		{"empty", "", nil},
		{"number", "a\nx\n", map[string]string{"a": "number"}},
		{"date", "a\n2017\n", map[string]string{"a": "date"}},
		{"type", "a\n1\n", map[string]string{"a": "string"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadCSV("x", bytes.NewBufferString(test.data), test.parse)
			assert.Error(t, err)
		})
	}
}

func TestRows(t *testing.T) {
	src := lightcurve(t, "lc")
	f := figure.New()
	f.Add(figure.Line{Source: src, Y: "flux"})
	p, err := New(f.Layers(), Options{Embed: true, Minimize: true}, ident.NewRegistry(nil))
	require.NoError(t, err)
	rows := p.Entries()[0].Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]interface{}{"time": "2017-08-22T00:00:00.123456789Z", "flux": 0.1}, rows[0])

	p, err = New(f.Layers(), Options{Embed: true}, ident.NewRegistry(nil))
	require.NoError(t, err)
	rows = p.Entries()[0].Rows()
	assert.Nil(t, rows[1]["error"])
	assert.Contains(t, rows[1], "error")
	assert.Nil(t, rows[0]["snr"])
}
