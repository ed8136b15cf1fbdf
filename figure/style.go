// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Style holds the visual attributes of a Layer. The zero value of
// each field means "auto": Color is filled in by palette assignment
// and the other fields resolve to per-kind defaults (see Resolve).
type Style struct {
	Color   string  // #rrggbb, #rgb or an SVG color name
	Opacity float64 // Fill opacity in (0, 1]

	// Edge attributes apply to markers, ranges and text.
	EdgeColor   string
	EdgeOpacity float64
	EdgeWidth   float64

	Shape string  // Marker shape, see Shapes
	Size  float64 // Marker area in square pixels, or font size for text
	Width float64 // Line width in pixels
}

// Shapes lists the valid marker shapes.
var Shapes = []string{
	"circle", "square", "cross", "diamond",
	"triangle-up", "triangle-down", "triangle-right", "triangle-left",
}

// Defaults for unset style fields.
const (
	DefaultColor       = "#000000"
	DefaultOpacity     = 1
	DefaultFillOpacity = 0.2
	DefaultEdgeOpacity = 0.2
	DefaultShape       = "circle"
	DefaultSize        = 20
	DefaultFontSize    = 12
	DefaultWidth       = 1
)

// Validate checks s and returns a copy with colors normalized to
// lower-case #rrggbb.
func (s Style) Validate() (Style, error) {
	var err error
	if s.Color != "" {
		if s.Color, err = NormalizeColor(s.Color); err != nil {
			return s, err
		}
	}
	if s.EdgeColor != "" {
		if s.EdgeColor, err = NormalizeColor(s.EdgeColor); err != nil {
			return s, err
		}
	}
	if err := checkUnit("opacity", s.Opacity); err != nil {
		return s, err
	}
	if err := checkUnit("edge opacity", s.EdgeOpacity); err != nil {
		return s, err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"edge width", s.EdgeWidth}, {"size", s.Size}, {"width", s.Width}} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return s, fmt.Errorf("%s %v: %w", f.name, f.v, ErrInvalidStyle)
		}
	}
	if s.Shape != "" && !oneOf(s.Shape, Shapes) {
		return s, fmt.Errorf("marker shape %q: %w", s.Shape, ErrInvalidStyle)
	}
	return s, nil
}

// Resolve returns s with every unset field except Color replaced by
// the default for kind k.
func (s Style) Resolve(k Kind) Style {
	if s.Opacity == 0 {
		switch k {
		case KindRange, KindVerticalRange, KindHorizontalRange:
			s.Opacity = DefaultFillOpacity
		default:
			s.Opacity = DefaultOpacity
		}
	}
	if s.EdgeOpacity == 0 {
		s.EdgeOpacity = DefaultEdgeOpacity
	}
	if s.Shape == "" {
		s.Shape = DefaultShape
	}
	if s.Size == 0 {
		if k == KindText {
			s.Size = DefaultFontSize
		} else {
			s.Size = DefaultSize
		}
	}
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	return s
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("%s %v not in [0, 1]: %w", name, v, ErrInvalidStyle)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

// NormalizeColor parses a CSS-style color and returns it as lower-case
// #rrggbb.
func NormalizeColor(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return Hex(c), nil
}

// ParseColor parses #rgb, #rrggbb or an SVG 1.1 color name.
func ParseColor(s string) (color.RGBA, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[t]; ok {
		return c, nil
	}
	if strings.HasPrefix(t, "#") {
		h := t[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) == 6 {
			if v, err := strconv.ParseUint(h, 16, 32); err == nil {
				return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
			}
		}
	}
	return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidStyle)
}

// Hex formats c as lower-case #rrggbb, ignoring alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
