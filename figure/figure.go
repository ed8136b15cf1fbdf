// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package figure models declarative time series figures.
//
// A Figure is an ordered list of Layers, each drawing one data source
// or one guide, and an ordered list of Views that present subsets of
// those Layers as stacked sub-plots. A Figure is mutable while it is
// being built. Freeze validates it and returns an immutable Frozen
// figure, which is what the compilers and exporters consume.
//
// Layer order is z-order: later layers are drawn on top.
package figure

import (
	"fmt"
	"time"

	"github.com/aclements/go-tsviz/series"
)

// Figure is a mutable figure under construction. It is not safe for
// concurrent use.
type Figure struct {
	Title         string
	Width, Height int

	// Axes are the axis options of the implicit view used when no
	// View is declared.
	Axes Axes

	layers []*Layer
	views  []*View
	nextID int
}

// New returns an empty Figure of the default size.
func New() *Figure {
	return &Figure{Width: 800, Height: 450}
}

// Add validates spec and appends a Layer built from it. The new Layer
// is not added to any existing View.
func (f *Figure) Add(spec Spec) (*Layer, error) {
	l, err := newLayer(spec)
	if err != nil {
		return nil, err
	}
	l.fig = f
	l.id = f.nextID
	f.nextID++
	f.layers = append(f.layers, l)
	return l, nil
}

// Layers returns the layers of f in insertion order.
func (f *Figure) Layers() []*Layer {
	return append([]*Layer(nil), f.layers...)
}

// Views returns the declared views of f in declaration order.
func (f *Figure) Views() []*View {
	return append([]*View(nil), f.views...)
}

// Sources returns the distinct data sources of f's layers in order of
// first use.
func (f *Figure) Sources() []*series.Series {
	return sources(f.layers)
}

func sources(layers []*Layer) []*series.Series {
	var out []*series.Series
	seen := make(map[*series.Series]bool)
	for _, l := range layers {
		if l.src != nil && !seen[l.src] {
			seen[l.src] = true
			out = append(out, l.src)
		}
	}
	return out
}

func (f *Figure) has(l *Layer) bool {
	return l != nil && l.fig == f
}

func (f *Figure) remove(l *Layer) {
	for i, have := range f.layers {
		if have == l {
			f.layers = append(f.layers[:i:i], f.layers[i+1:]...)
			break
		}
	}
	for _, v := range f.views {
		delete(v.layers, l)
	}
	l.fig = nil
}

// Axes holds the axis options of a View.
type Axes struct {
	XTitle, YTitle string

	// XLim and YLim override the resolved domains. Temporal limits are
	// in milliseconds since the Unix epoch; see TimeLimits.
	XLim, YLim *Limits

	// YLog selects a logarithmic y scale.
	YLog bool
}

// Limits is an explicit axis domain.
type Limits struct {
	Min, Max float64

	// Time marks Min and Max as instants. An x axis with time limits
	// is temporal even if no layer contributes to it.
	Time bool
}

// TimeLimits returns Limits spanning [from, to].
func TimeLimits(from, to time.Time) *Limits {
	return &Limits{Min: series.Millis(from), Max: series.Millis(to), Time: true}
}

// ViewOptions configures AddView.
type ViewOptions struct {
	Title string
	Axes  Axes

	// By default a new View holds every Layer of the Figure at the
	// time of the call. Include replaces that set, Empty starts with
	// no layers, and Exclude removes layers from the starting set.
	Include []*Layer
	Exclude []*Layer
	Empty   bool
}

// AddView appends a View called name.
func (f *Figure) AddView(name string, opts ViewOptions) (*View, error) {
	if name == "" {
		return nil, fmt.Errorf("view name must not be empty")
	}
	for _, l := range append(append([]*Layer(nil), opts.Include...), opts.Exclude...) {
		if !f.has(l) {
			return nil, fmt.Errorf("view %q: %v: %w", name, l, ErrUnknownLayer)
		}
	}

	v := &View{fig: f, name: name, title: opts.Title, axes: opts.Axes, layers: make(map[*Layer]bool)}
	switch {
	case opts.Include != nil:
		for _, l := range opts.Include {
			v.layers[l] = true
		}
	case !opts.Empty:
		for _, l := range f.layers {
			v.layers[l] = true
		}
	}
	for _, l := range opts.Exclude {
		delete(v.layers, l)
	}
	f.views = append(f.views, v)
	return v, nil
}

// A View is a named sub-plot showing a subset of a Figure's layers
// with its own scales.
type View struct {
	fig    *Figure
	frozen bool
	name   string
	title  string
	axes   Axes
	layers map[*Layer]bool

	// order is set on frozen views only.
	order []*Layer
}

// Name returns the name of v.
func (v *View) Name() string { return v.name }

// Title returns the title of v.
func (v *View) Title() string { return v.title }

// SetTitle sets the title of v.
func (v *View) SetTitle(title string) {
	v.mutable()
	v.title = title
}

// Axes returns the axis options of v.
func (v *View) Axes() Axes { return v.axes }

// SetAxes replaces the axis options of v.
func (v *View) SetAxes(a Axes) {
	v.mutable()
	v.axes = a
}

// Add adds layers to v. They must belong to v's Figure.
func (v *View) Add(layers ...*Layer) error {
	v.mutable()
	for _, l := range layers {
		if !v.fig.has(l) {
			return fmt.Errorf("view %q: %v: %w", v.name, l, ErrUnknownLayer)
		}
	}
	for _, l := range layers {
		v.layers[l] = true
	}
	return nil
}

// Remove removes l from v. The Layer stays in the Figure.
func (v *View) Remove(l *Layer) {
	v.mutable()
	delete(v.layers, l)
}

// Has reports whether l is shown in v.
func (v *View) Has(l *Layer) bool {
	return v.layers[l]
}

// Layers returns the layers of v in Figure order.
func (v *View) Layers() []*Layer {
	if v.frozen {
		return append([]*Layer(nil), v.order...)
	}
	var out []*Layer
	for _, l := range v.fig.layers {
		if v.layers[l] {
			out = append(out, l)
		}
	}
	return out
}

func (v *View) mutable() {
	if v.frozen {
		panic(fmt.Sprintf("figure: view %q is frozen", v.name))
	}
}
