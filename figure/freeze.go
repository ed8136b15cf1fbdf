// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"

	"github.com/aclements/go-tsviz/series"
)

// ImplicitView is the name of the View synthesized for a Figure that
// declares none.
const ImplicitView = "main"

// Frozen is an immutable, validated Figure. Its layers keep the IDs
// they had in the Figure. Calling a setter on a frozen Layer or View
// panics.
type Frozen struct {
	Title         string
	Width, Height int

	layers   []*Layer
	views    []*View
	implicit bool
}

// Freeze validates f and returns an immutable snapshot of it. Later
// changes to f do not affect the snapshot.
//
// If f declares no Views, the snapshot has a single implicit View
// called "main" holding every Layer.
func (f *Figure) Freeze() (*Frozen, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("figure size %dx%d must be positive", f.Width, f.Height)
	}
	fr := &Frozen{Title: f.Title, Width: f.Width, Height: f.Height}
	clones := make(map[*Layer]*Layer, len(f.layers))
	for _, l := range f.layers {
		c := l.clone()
		clones[l] = c
		fr.layers = append(fr.layers, c)
	}

	if len(f.views) == 0 {
		fr.implicit = true
		v := &View{name: ImplicitView, axes: f.Axes, frozen: true, order: fr.layers}
		fr.views = append(fr.views, v)
	}
	names := make(map[string]bool)
	for _, v := range f.views {
		if names[v.name] {
			return nil, fmt.Errorf("view %q: %w", v.name, ErrDuplicateView)
		}
		names[v.name] = true
		fv := &View{name: v.name, title: v.title, axes: v.axes, frozen: true, layers: make(map[*Layer]bool)}
		for _, l := range v.Layers() {
			c := clones[l]
			fv.layers[c] = true
			fv.order = append(fv.order, c)
		}
		fr.views = append(fr.views, fv)
	}
	for _, v := range fr.views {
		if v.layers == nil {
			v.layers = make(map[*Layer]bool, len(v.order))
			for _, l := range v.order {
				v.layers[l] = true
			}
		}
		v.axes.XTitle, v.axes.YTitle = defaultTitles(v.axes, v.order)
	}
	return fr, nil
}

// defaultTitles fills in missing axis titles: "Time" for a temporal x
// axis and the shared y column name, or "Value", for y.
func defaultTitles(a Axes, layers []*Layer) (x, y string) {
	x, y = a.XTitle, a.YTitle
	if x == "" {
		x = "Time"
		for _, l := range layers {
			if l.src == nil {
				continue
			}
			if c, _ := l.src.Column(l.cols.X); c.Kind != series.Time {
				x = l.cols.X
				break
			}
		}
	}
	if y == "" {
		for _, l := range layers {
			if l.src == nil {
				continue
			}
			if y == "" {
				y = l.cols.Y
			} else if y != l.cols.Y {
				y = "Value"
				break
			}
		}
		if y == "" {
			y = "Value"
		}
	}
	return
}

// Layers returns every layer in insertion order, rendered or not.
func (fr *Frozen) Layers() []*Layer {
	return append([]*Layer(nil), fr.layers...)
}

// Views returns the views in declaration order. It always returns at
// least one View.
func (fr *Frozen) Views() []*View {
	return append([]*View(nil), fr.views...)
}

// Implicit reports whether the single View was synthesized.
func (fr *Frozen) Implicit() bool {
	return fr.implicit
}

// Rendered returns the layers that appear in at least one View, in
// insertion order.
func (fr *Frozen) Rendered() []*Layer {
	var out []*Layer
	for _, l := range fr.layers {
		if fr.inView(l) {
			out = append(out, l)
		}
	}
	return out
}

// Dead returns a *DeadLayerError for every layer that appears in no
// View.
func (fr *Frozen) Dead() []error {
	var out []error
	for _, l := range fr.layers {
		if !fr.inView(l) {
			out = append(out, &DeadLayerError{ID: l.id, Kind: l.kind, Label: l.label})
		}
	}
	return out
}

// Sources returns the distinct data sources of the rendered layers in
// order of first use.
func (fr *Frozen) Sources() []*series.Series {
	return sources(fr.Rendered())
}

func (fr *Frozen) inView(l *Layer) bool {
	for _, v := range fr.views {
		if v.layers[l] {
			return true
		}
	}
	return false
}
