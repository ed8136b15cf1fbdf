// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package palette assigns display colors to figure layers.
package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette/brewer"
	"github.com/aclements/go-tsviz/figure"
	log "github.com/sirupsen/logrus"
)

// A Palette is an ordered cycle of colors in #rrggbb form.
type Palette []string

// OkabeIto is the eight color palette of Okabe and Ito, which stays
// distinguishable under the common forms of color blindness. It is the
// default palette.
var OkabeIto = Palette{
	"#e69f00", "#56b4e9", "#009e73", "#f0e442",
	"#0072b2", "#d55e00", "#cc79a7", "#000000",
}

// Default is the palette used when none is given.
var Default = OkabeIto

// FromColors converts cs to a Palette.
func FromColors(cs []color.Color) Palette {
	p := make(Palette, len(cs))
	for i, c := range cs {
		p[i] = figure.Hex(c)
	}
	return p
}

// ByName returns a named palette. "okabe-ito" is the default palette;
// any other name is a ColorBrewer palette such as "Paired" or "Set1",
// in its largest variant, or a specific variant such as "Set1_5".
func ByName(name string) (Palette, error) {
	if strings.EqualFold(name, "okabe-ito") || name == "" {
		return OkabeIto, nil
	}
	base, levels := name, 0
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		if _, err := fmt.Sscan(name[i+1:], &levels); err == nil {
			base = name[:i]
		} else {
			levels = 0
		}
	}
	variants, ok := brewer.ByName[base]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", name)
	}
	if levels == 0 {
		for n := range variants {
			if n > levels {
				levels = n
			}
		}
	}
	cs, ok := variants[levels]
	if !ok {
		return nil, fmt.Errorf("palette %q has no %d color variant", base, levels)
	}
	return FromColors(cs), nil
}

// Names returns the names accepted by ByName, sorted.
func Names() []string {
	names := []string{"okabe-ito"}
	for n := range brewer.ByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// An Assignment maps layer IDs to colors. It is immutable once built.
type Assignment struct {
	colors map[int]string
}

// Color returns the color of layer id.
func (a *Assignment) Color(id int) (string, bool) {
	if a == nil {
		return "", false
	}
	c, ok := a.colors[id]
	return c, ok
}

// Len returns the number of assigned layers.
func (a *Assignment) Len() int {
	if a == nil {
		return 0
	}
	return len(a.colors)
}

// Assign resolves a color for every layer.
//
// Layers with the same non-empty label form a group that shares one
// legend entry, and so one color: the color of the group's first
// layer. Later members with an explicit color keep it.
//
// A layer with an explicit color keeps it. The other layers and
// groups, taken in order, get successive palette entries, wrapping
// around, except that a layer colored by prev keeps that color.
// Removing a layer therefore does not recolor the layers after it when
// prev is given.
// If override is set, explicit and previous colors are ignored and
// the j'th layer or group gets pal[j mod len(pal)].
func Assign(layers []*figure.Layer, pal Palette, prev *Assignment, override bool) *Assignment {
	if len(pal) == 0 {
		pal = Default
	}
	a := &Assignment{colors: make(map[int]string, len(layers))}
	groups := make(map[string]string)
	k := 0
	for _, l := range layers {
		label := l.Label()
		gc, grouped := groups[label]
		grouped = grouped && label != ""
		var c string
		switch {
		case override && grouped:
			c = gc
		case override:
			c = pal[k%len(pal)]
			k++
		case l.Style().Color != "":
			c = l.Style().Color
		case grouped:
			c = gc
		default:
			c = pal[k%len(pal)]
			if pc, ok := prev.Color(l.ID()); ok {
				c = pc
			}
			k++
		}
		if label != "" && !grouped {
			groups[label] = c
		}
		log.Debugf("palette: %v -> %s", l, c)
		a.colors[l.ID()] = c
	}
	return a
}
