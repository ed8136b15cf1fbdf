// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"
	"math"
	"time"

	"github.com/aclements/go-tsviz/series"
)

// A Layer is one visual encoding within a Figure. Every kind exposes
// the same methods; kind-specific values are reported by Columns,
// Guide and Annotation.
type Layer struct {
	fig    *Figure
	frozen bool

	id   int
	kind Kind

	src   *series.Series
	cols  Columns
	guide Guide
	text  Annotation

	label   string
	style   Style
	tooltip *Tooltip
}

// Columns are the column bindings of a data layer.
type Columns struct {
	X, Y  string
	Error string
}

// Guide holds the literal positions of a guide layer. Vertical guides
// use From and To (equal for a line). Horizontal guides use Low and
// High (equal for a line). Text uses From and Low.
type Guide struct {
	From, To  time.Time
	Low, High float64
}

// Annotation is the payload of a Text layer.
type Annotation struct {
	Text     string
	Weight   string
	Baseline string
	Align    string
	Angle    float64
}

// Tooltip selects the columns shown when hovering over a data layer.
// A nil or empty Fields list means the X and Y columns.
type Tooltip struct {
	Disabled bool
	Fields   []TooltipField
}

// A TooltipField is one tooltip entry. Title defaults to Column.
type TooltipField struct {
	Column string
	Title  string
}

var (
	textWeights   = []string{"normal", "bold"}
	textBaselines = []string{"top", "middle", "bottom", "alphabetic"}
	textAligns    = []string{"left", "center", "right"}
)

func newLayer(spec Spec) (*Layer, error) {
	l := &Layer{kind: spec.kind()}
	var style Style
	var tip *Tooltip

	switch s := spec.(type) {
	case Markers:
		l.label, style, tip = s.Label, s.Style, s.Tooltip
		if err := l.bind(s.Source, s.X, s.Y, s.Error, false); err != nil {
			return nil, err
		}
	case Line:
		l.label, style, tip = s.Label, s.Style, s.Tooltip
		if err := l.bind(s.Source, s.X, s.Y, "", false); err != nil {
			return nil, err
		}
	case Range:
		l.label, style, tip = s.Label, s.Style, s.Tooltip
		if err := l.bind(s.Source, s.X, s.Y, s.Error, true); err != nil {
			return nil, err
		}
	case VerticalLine:
		l.label, style = s.Label, s.Style
		if s.At.IsZero() {
			return nil, fmt.Errorf("%s layer: time not set", l.kind)
		}
		l.guide = Guide{From: s.At, To: s.At}
	case VerticalRange:
		l.label, style = s.Label, s.Style
		if s.From.IsZero() || s.To.IsZero() {
			return nil, fmt.Errorf("%s layer: time not set", l.kind)
		}
		if s.To.Before(s.From) {
			return nil, fmt.Errorf("%s layer: end %v before start %v", l.kind, s.To, s.From)
		}
		l.guide = Guide{From: s.From, To: s.To}
	case HorizontalLine:
		l.label, style = s.Label, s.Style
		if !finite(s.Value) {
			return nil, fmt.Errorf("%s layer: value %v is not finite", l.kind, s.Value)
		}
		l.guide = Guide{Low: s.Value, High: s.Value}
	case HorizontalRange:
		l.label, style = s.Label, s.Style
		if !finite(s.Low) || !finite(s.High) {
			return nil, fmt.Errorf("%s layer: bounds [%v, %v] are not finite", l.kind, s.Low, s.High)
		}
		if s.High < s.Low {
			return nil, fmt.Errorf("%s layer: high %v below low %v", l.kind, s.High, s.Low)
		}
		l.guide = Guide{Low: s.Low, High: s.High}
	case Text:
		l.label, style = s.Label, s.Style
		if s.At.IsZero() {
			return nil, fmt.Errorf("%s layer: time not set", l.kind)
		}
		if !finite(s.Value) || !finite(s.Angle) {
			return nil, fmt.Errorf("%s layer: position is not finite", l.kind)
		}
		for _, f := range []struct {
			name, v string
			set     []string
		}{{"weight", s.Weight, textWeights}, {"baseline", s.Baseline, textBaselines}, {"align", s.Align, textAligns}} {
			if f.v != "" && !oneOf(f.v, f.set) {
				return nil, fmt.Errorf("text %s %q: %w", f.name, f.v, ErrInvalidStyle)
			}
		}
		l.guide = Guide{From: s.At, To: s.At, Low: s.Value, High: s.Value}
		l.text = Annotation{s.Text, s.Weight, s.Baseline, s.Align, s.Angle}
	default:
		panic(fmt.Sprintf("unknown layer spec %T", spec))
	}

	if err := l.SetStyle(style); err != nil {
		return nil, err
	}
	if tip != nil {
		if err := l.SetTooltip(*tip); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// bind validates and records the column bindings of a data layer.
func (l *Layer) bind(src *series.Series, x, y, errCol string, needErr bool) error {
	if src == nil {
		return &SchemaError{Kind: l.kind, Role: "source", Reason: "no data source"}
	}
	if x == "" {
		x = src.TimeColumn()
		if x == "" {
			return &SchemaError{Kind: l.kind, Role: "x", Source: src.Name(), Reason: "source has no time column"}
		}
	}
	if y == "" {
		return &SchemaError{Kind: l.kind, Role: "y", Source: src.Name(), Reason: "not set"}
	}
	if needErr && errCol == "" {
		return &SchemaError{Kind: l.kind, Role: "error", Source: src.Name(), Reason: "not set"}
	}
	check := func(role, name string, numeric bool) error {
		c, ok := src.Column(name)
		if !ok {
			return &SchemaError{Kind: l.kind, Role: role, Column: name, Source: src.Name(), Reason: "no such column"}
		}
		if numeric && c.Kind != series.Number {
			return &SchemaError{Kind: l.kind, Role: role, Column: name, Source: src.Name(), Reason: fmt.Sprintf("is %s, want number", c.Kind)}
		}
		return nil
	}
	if err := check("x", x, false); err != nil {
		return err
	}
	if err := check("y", y, true); err != nil {
		return err
	}
	if errCol != "" {
		if err := check("error", errCol, true); err != nil {
			return err
		}
	}
	l.src = src
	l.cols = Columns{X: x, Y: y, Error: errCol}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ID returns l's identifier, unique within its Figure and stable
// across Freeze.
func (l *Layer) ID() int { return l.id }

// Kind returns l's tag.
func (l *Layer) Kind() Kind { return l.kind }

// Source returns the data source of l, or nil for guide layers.
func (l *Layer) Source() *series.Series { return l.src }

// Columns returns the column bindings of l. They are empty for guide
// layers.
func (l *Layer) Columns() Columns { return l.cols }

// Guide returns the literal positions of a guide or text layer.
func (l *Layer) Guide() Guide { return l.guide }

// Annotation returns the text of a Text layer.
func (l *Layer) Annotation() Annotation { return l.text }

// Label returns the legend label of l.
func (l *Layer) Label() string { return l.label }

// SetLabel sets the legend label of l. An empty label keeps l out of
// the legend.
func (l *Layer) SetLabel(label string) {
	l.mutable()
	l.label = label
}

// Style returns the style of l as set. Unset fields are zero.
func (l *Layer) Style() Style { return l.style }

// SetStyle replaces the style of l.
func (l *Layer) SetStyle(s Style) error {
	l.mutable()
	s, err := s.Validate()
	if err != nil {
		return fmt.Errorf("%s layer: %w", l.kind, err)
	}
	l.style = s
	return nil
}

// SetColor sets the fill color of l. An empty color reverts to palette
// assignment.
func (l *Layer) SetColor(c string) error {
	s := l.style
	s.Color = c
	return l.SetStyle(s)
}

// SetOpacity sets the fill opacity of l. Zero reverts to the default.
func (l *Layer) SetOpacity(o float64) error {
	s := l.style
	s.Opacity = o
	return l.SetStyle(s)
}

// Tooltip returns the effective tooltip of l. Guide layers have no
// tooltip.
func (l *Layer) Tooltip() Tooltip {
	if !l.kind.HasData() {
		return Tooltip{Disabled: true}
	}
	if l.tooltip != nil {
		if l.tooltip.Disabled || len(l.tooltip.Fields) > 0 {
			t := *l.tooltip
			t.Fields = append([]TooltipField(nil), t.Fields...)
			return t
		}
	}
	return Tooltip{Fields: []TooltipField{{Column: l.cols.X}, {Column: l.cols.Y}}}
}

// SetTooltip sets the tooltip of a data layer. Every field must name a
// column of the layer's source.
func (l *Layer) SetTooltip(t Tooltip) error {
	l.mutable()
	if !l.kind.HasData() {
		if t.Disabled || len(t.Fields) == 0 {
			return nil
		}
		return &SchemaError{Kind: l.kind, Role: "tooltip", Reason: "guide layers have no data columns"}
	}
	for _, f := range t.Fields {
		if _, ok := l.src.Column(f.Column); !ok {
			return &SchemaError{Kind: l.kind, Role: "tooltip", Column: f.Column, Source: l.src.Name(), Reason: "no such column"}
		}
	}
	t.Fields = append([]TooltipField(nil), t.Fields...)
	l.tooltip = &t
	return nil
}

// Remove removes l from its Figure and from every View.
func (l *Layer) Remove() {
	l.mutable()
	if l.fig != nil {
		l.fig.remove(l)
	}
}

func (l *Layer) mutable() {
	if l.frozen {
		panic(fmt.Sprintf("figure: %s layer %d is frozen", l.kind, l.id))
	}
}

func (l *Layer) String() string {
	if l.label != "" {
		return fmt.Sprintf("%s layer %d (%s)", l.kind, l.id, l.label)
	}
	return fmt.Sprintf("%s layer %d", l.kind, l.id)
}

func (l *Layer) clone() *Layer {
	c := *l
	c.fig = nil
	c.frozen = true
	if l.tooltip != nil {
		t := *l.tooltip
		t.Fields = append([]TooltipField(nil), t.Fields...)
		c.tooltip = &t
	}
	return &c
}
