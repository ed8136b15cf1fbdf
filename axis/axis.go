// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package axis resolves the x and y scales of a figure view.
//
// A scale's domain is the range of every value its layers place on
// the axis, padded symmetrically by a fraction of its span. Temporal
// values are handled as milliseconds since the Unix epoch.
package axis

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/series"
	log "github.com/sirupsen/logrus"
)

// ErrEmptyAxisDomain is wrapped by *DomainError.
var ErrEmptyAxisDomain = errors.New("no data on axis")

// A DomainError reports an axis that no layer contributes to and that
// has no explicit limits.
type DomainError struct {
	View string
	Axis string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("view %q: %s axis: %s", e.View, e.Axis, ErrEmptyAxisDomain)
}

func (e *DomainError) Unwrap() error {
	return ErrEmptyAxisDomain
}

// Type is the kind of a scale.
type Type string

const (
	Time   Type = "time"
	Linear Type = "linear"
	Log    Type = "log"
)

// Scale is a resolved axis scale.
type Scale struct {
	Type Type

	// DataMin and DataMax bound the contributing values. They are NaN
	// if nothing contributed.
	DataMin, DataMax float64

	// Min and Max are the domain after padding, or the explicit
	// limits if Override is set.
	Min, Max float64

	Zero     bool
	Padding  float64
	Override bool

	// Ticks are major tick positions for non-temporal scales.
	Ticks []float64
}

// Options control resolution.
type Options struct {
	// Padding is the fraction of the span added at each end of the
	// domain. Zero means DefaultPadding; use a negative value for
	// no padding.
	Padding float64

	// TickMax is the maximum number of ticks. Zero means
	// DefaultTickMax.
	TickMax int

	// Zero extends linear y domains to include zero.
	Zero bool
}

const (
	DefaultPadding = 0.05
	DefaultTickMax = 8

	// Width of the domain around a single instant.
	degenerateTimeSpan = 60 * 1000
)

func (o Options) padding() float64 {
	switch {
	case o.Padding < 0:
		return 0
	case o.Padding == 0:
		return DefaultPadding
	}
	return o.Padding
}

// Resolve computes the x and y scales of v. If either axis has no
// contributing values and no explicit limits, the error wraps a
// *DomainError for each such axis and the corresponding Scale has NaN
// bounds.
func Resolve(v *figure.View, o Options) (x, y Scale, err error) {
	var xs, ys []float64
	temporal := false
	for _, l := range v.Layers() {
		g := l.Guide()
		switch l.Kind() {
		case figure.KindMarkers, figure.KindLine, figure.KindRange:
			src, cols := l.Source(), l.Columns()
			if c, _ := src.Column(cols.X); c.Kind == series.Time {
				temporal = true
			}
			xs = append(xs, src.Floats(cols.X)...)
			vals := src.Numbers(cols.Y)
			if cols.Error == "" {
				ys = append(ys, vals...)
				break
			}
			errs := src.Numbers(cols.Error)
			for i, v := range vals {
				ys = append(ys, v-errs[i], v+errs[i])
			}
		case figure.KindVerticalLine, figure.KindVerticalRange:
			temporal = true
			xs = append(xs, series.Millis(g.From), series.Millis(g.To))
		case figure.KindHorizontalLine, figure.KindHorizontalRange:
			ys = append(ys, g.Low, g.High)
		case figure.KindText:
			temporal = true
			xs = append(xs, series.Millis(g.From))
			ys = append(ys, g.Low)
		}
	}

	axes := v.Axes()
	pad := o.padding()
	tickMax := o.TickMax
	if tickMax == 0 {
		tickMax = DefaultTickMax
	}

	var errs []error
	xt := Linear
	if temporal || (axes.XLim != nil && axes.XLim.Time) {
		xt = Time
	}
	x, ok := resolve(xt, xs, axes.XLim, pad, false)
	if !ok {
		errs = append(errs, &DomainError{View: v.Name(), Axis: "x"})
	}
	yt := Linear
	if axes.YLog {
		yt = Log
	}
	y, ok = resolve(yt, ys, axes.YLim, pad, o.Zero)
	if !ok {
		errs = append(errs, &DomainError{View: v.Name(), Axis: "y"})
	}
	x.Ticks = ticks(x, tickMax)
	y.Ticks = ticks(y, tickMax)

	log.Debugf("axis: view %q: x %s [%g, %g], y %s [%g, %g]", v.Name(), x.Type, x.Min, x.Max, y.Type, y.Min, y.Max)
	return x, y, errors.Join(errs...)
}

func resolve(t Type, vals []float64, lim *figure.Limits, pad float64, zero bool) (Scale, bool) {
	s := Scale{Type: t, Padding: pad, DataMin: math.NaN(), DataMax: math.NaN()}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || (t == Log && v <= 0) {
			continue
		}
		if math.IsNaN(s.DataMin) || v < s.DataMin {
			s.DataMin = v
		}
		if math.IsNaN(s.DataMax) || v > s.DataMax {
			s.DataMax = v
		}
	}
	if lim != nil {
		s.Min, s.Max, s.Override = lim.Min, lim.Max, true
		return s, true
	}
	if math.IsNaN(s.DataMin) {
		s.Min, s.Max = math.NaN(), math.NaN()
		return s, false
	}

	lo, hi := s.DataMin, s.DataMax
	if zero && t == Linear {
		lo, hi = math.Min(lo, 0), math.Max(hi, 0)
		s.Zero = true
	}
	if t == Log {
		lo, hi = math.Log10(lo), math.Log10(hi)
	}
	span := hi - lo
	if span == 0 {
		switch {
		case t == Time:
			span = degenerateTimeSpan
		case t == Log || lo == 0:
			span = 1
		default:
			span = math.Abs(lo)
		}
		lo, hi = lo-span/2, hi+span/2
	}
	lo, hi = lo-pad*span, hi+pad*span
	if s.Zero {
		// Padding must not push the domain across zero.
		if s.DataMin >= 0 {
			lo = math.Max(lo, 0)
		}
		if s.DataMax <= 0 {
			hi = math.Min(hi, 0)
		}
	}
	if t == Log {
		lo, hi = math.Pow(10, lo), math.Pow(10, hi)
	}
	s.Min, s.Max = lo, hi
	return s, true
}

func ticks(s Scale, max int) []float64 {
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) {
		return nil
	}
	switch s.Type {
	case Linear:
		major, _ := scale.Linear{Min: s.Min, Max: s.Max}.Ticks(scale.TickOptions{Max: max})
		return major
	case Log:
		ls, err := scale.NewLog(s.Min, s.Max, 10)
		if err != nil {
			return nil
		}
		major, _ := ls.Ticks(scale.TickOptions{Max: max})
		return major
	}
	return nil
}
