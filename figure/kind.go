// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"
	"strings"
	"time"

	"github.com/aclements/go-tsviz/series"
)

// Kind is the tag of a Layer.
type Kind int

const (
	KindMarkers Kind = iota
	KindLine
	KindRange
	KindVerticalLine
	KindVerticalRange
	KindHorizontalLine
	KindHorizontalRange
	KindText
)

var kindNames = [...]string{
	KindMarkers:         "markers",
	KindLine:            "line",
	KindRange:           "range",
	KindVerticalLine:    "vertical line",
	KindVerticalRange:   "vertical range",
	KindHorizontalLine:  "horizontal line",
	KindHorizontalRange: "horizontal range",
	KindText:            "text",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind named s. It accepts the names printed by
// String, with words separated by spaces, hyphens or underscores.
func ParseKind(s string) (Kind, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(s))
	for k, name := range kindNames {
		if name == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown layer kind %q", s)
}

// HasData reports whether layers of kind k are bound to a data source.
// The other kinds are guides positioned by literal values.
func (k Kind) HasData() bool {
	return k == KindMarkers || k == KindLine || k == KindRange
}

// A Spec describes a Layer to add to a Figure. It is implemented only
// by the kind structs in this package.
type Spec interface {
	kind() Kind
}

// Markers draws one symbol per row at (X, Y). If Error is set, each
// symbol gets a vertical error bar of ±Error.
type Markers struct {
	Source *series.Series

	// X defaults to the first Time column of Source.
	X, Y  string
	Error string

	Label   string
	Style   Style
	Tooltip *Tooltip
}

// Line connects the rows of Source in order.
type Line struct {
	Source  *series.Series
	X, Y    string
	Label   string
	Style   Style
	Tooltip *Tooltip
}

// Range shades the band Y±Error, for example an uncertainty envelope.
type Range struct {
	Source  *series.Series
	X, Y    string
	Error   string
	Label   string
	Style   Style
	Tooltip *Tooltip
}

// VerticalLine marks a single instant.
type VerticalLine struct {
	At    time.Time
	Label string
	Style Style
}

// VerticalRange shades the interval [From, To].
type VerticalRange struct {
	From, To time.Time
	Label    string
	Style    Style
}

// HorizontalLine marks a constant value.
type HorizontalLine struct {
	Value float64
	Label string
	Style Style
}

// HorizontalRange shades the band [Low, High].
type HorizontalRange struct {
	Low, High float64
	Label     string
	Style     Style
}

// Text places a string at (At, Value).
type Text struct {
	At    time.Time
	Value float64
	Text  string

	// Weight is "normal" or "bold". Baseline is one of "top",
	// "middle", "bottom" or "alphabetic". Align is one of "left",
	// "center" or "right". Angle is in degrees. Empty strings select
	// the renderer's default.
	Weight   string
	Baseline string
	Align    string
	Angle    float64

	Label string
	Style Style
}

func (Markers) kind() Kind         { return KindMarkers }
func (Line) kind() Kind            { return KindLine }
func (Range) kind() Kind           { return KindRange }
func (VerticalLine) kind() Kind    { return KindVerticalLine }
func (VerticalRange) kind() Kind   { return KindVerticalRange }
func (HorizontalLine) kind() Kind  { return KindHorizontalLine }
func (HorizontalRange) kind() Kind { return KindHorizontalRange }
func (Text) kind() Kind            { return KindText }
