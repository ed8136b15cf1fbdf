// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vega compiles frozen figures into Vega specifications.
//
// Compilation happens in two steps. NewContext makes every decision
// that needs inputs beyond the figure: palette assignment, scale
// resolution, data serialization and identifier allocation. Compile
// then walks the figure and the context and emits the document; it
// does no I/O and draws no identifiers, so compiling the same Context
// twice yields identical output.
package vega

import (
	"fmt"

	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/internal/ident"
	"github.com/aclements/go-tsviz/palette"
	"github.com/aclements/go-tsviz/plan"
	log "github.com/sirupsen/logrus"
)

// Options configure a compilation.
type Options struct {
	// OverrideStyle reassigns every layer's color from the palette,
	// including explicitly set colors.
	OverrideStyle bool

	// Palette is the color cycle for unset colors. Nil means
	// palette.Default.
	Palette palette.Palette

	// Previous, if non-nil, is an earlier assignment whose colors are
	// kept for layers without an explicit color.
	Previous *palette.Assignment

	Axis axis.Options

	// EmbedData inlines data rows instead of referencing CSV files.
	EmbedData bool

	// Minimize serializes only the columns that layers use.
	Minimize bool

	// IDs supplies data, mark and group identifiers. Nil means random
	// UUIDs.
	IDs ident.Source
}

// A Context holds the resolved state of one compilation. It is
// immutable once built and may be shared by the compiler and the
// exporters.
type Context struct {
	Figure  *figure.Frozen
	Options Options
	Colors  *palette.Assignment
	Plan    *plan.Plan
	Views   []*ViewContext
}

// ViewContext is the resolved state of one view.
type ViewContext struct {
	View  *figure.View
	Index int
	X, Y  axis.Scale

	// Group is the name of the view's group mark when the figure has
	// several views.
	Group string

	// XScale and YScale are the names of the view's scales.
	XScale, YScale string

	marks map[int]string
}

// Mark returns the mark name of layer id in this view.
func (vc *ViewContext) Mark(id int) string {
	return vc.marks[id]
}

// NewContext resolves fr for compilation. It fails if some view has an
// axis with neither data nor explicit limits.
func NewContext(fr *figure.Frozen, o Options) (*Context, error) {
	reg := ident.NewRegistry(o.IDs)
	ctx := &Context{
		Figure:  fr,
		Options: o,
		Colors:  palette.Assign(fr.Layers(), o.Palette, o.Previous, o.OverrideStyle),
	}

	var err error
	ctx.Plan, err = plan.New(fr.Rendered(), plan.Options{Embed: o.EmbedData, Minimize: o.Minimize}, reg)
	if err != nil {
		return nil, err
	}

	views := fr.Views()
	for i, v := range views {
		x, y, err := axis.Resolve(v, o.Axis)
		if err != nil {
			return nil, err
		}
		vc := &ViewContext{View: v, Index: i, X: x, Y: y, XScale: "xscale", YScale: "yscale", marks: make(map[int]string)}
		if len(views) > 1 {
			vc.XScale = fmt.Sprintf("xscale_%d", i)
			vc.YScale = fmt.Sprintf("yscale_%d", i)
			if vc.Group, err = reg.Next(); err != nil {
				return nil, fmt.Errorf("view %q: %w", v.Name(), err)
			}
		}
		for _, l := range v.Layers() {
			id, err := reg.Next()
			if err != nil {
				return nil, fmt.Errorf("view %q: %v: %w", v.Name(), l, err)
			}
			vc.marks[l.ID()] = id
		}
		ctx.Views = append(ctx.Views, vc)
	}
	log.Debugf("vega: context for %d views, %d data sources", len(ctx.Views), len(ctx.Plan.Entries()))
	return ctx, nil
}

// Style returns the fully resolved style of l: its assigned color
// plus per-kind defaults for every unset field.
func (ctx *Context) Style(l *figure.Layer) figure.Style {
	s := l.Style().Resolve(l.Kind())
	if c, ok := ctx.Colors.Color(l.ID()); ok {
		s.Color = c
	}
	if s.Color == "" {
		s.Color = figure.DefaultColor
	}
	if s.EdgeColor == "" {
		s.EdgeColor = s.Color
	}
	return s
}
