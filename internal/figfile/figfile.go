// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package figfile loads figures described in YAML.
//
// A figure file names its data sources, the layers drawn from them
// and optionally a set of views:
//
//	title: Eclipse of 2017-08-21
//	palette: okabe-ito
//	sources:
//	  - name: lc
//	    path: lightcurve.csv
//	layers:
//	  - id: flux
//	    kind: markers
//	    source: lc
//	    y: flux
//	    error: flux_err
//	  - kind: vertical line
//	    at: 2017-08-21T18:26:00Z
//	views:
//	  - name: raw
//	    layers: [flux]
//
// Source paths are relative to the figure file.
package figfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/palette"
	"github.com/aclements/go-tsviz/series"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of a figure.
type File struct {
	Title   string   `yaml:"title"`
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Palette string   `yaml:"palette"`
	Axes    Axes     `yaml:"axes"`
	Sources []Source `yaml:"sources"`
	Layers  []Layer  `yaml:"layers"`
	Views   []View   `yaml:"views"`
}

type Source struct {
	Name  string   `yaml:"name"`
	Path  string   `yaml:"path"`
	Sheet string   `yaml:"sheet"`
	Time  []string `yaml:"time"`
}

type Axes struct {
	XTitle string `yaml:"xtitle"`
	YTitle string `yaml:"ytitle"`

	// XLim and YLim are [min, max]. Each bound is a number or a
	// time.
	XLim []string `yaml:"xlim"`
	YLim []string `yaml:"ylim"`
	YLog bool     `yaml:"ylog"`
}

type Layer struct {
	// ID names the layer for views. It is optional.
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"`
	Label  string `yaml:"label"`
	Style  Style  `yaml:"style"`

	// Hidden layers are left out of views that do not list their
	// layers explicitly, including the single view of a file that
	// declares none.
	Hidden bool `yaml:"hidden"`

	// Data layers.
	Source  string   `yaml:"source"`
	X       string   `yaml:"x"`
	Y       string   `yaml:"y"`
	Error   string   `yaml:"error"`
	Tooltip *Tooltip `yaml:"tooltip"`

	// Guides and text.
	At    time.Time `yaml:"at"`
	From  time.Time `yaml:"from"`
	To    time.Time `yaml:"to"`
	Value float64   `yaml:"value"`
	Low   float64   `yaml:"low"`
	High  float64   `yaml:"high"`

	Text     string  `yaml:"text"`
	Weight   string  `yaml:"weight"`
	Baseline string  `yaml:"baseline"`
	Align    string  `yaml:"align"`
	Angle    float64 `yaml:"angle"`
}

type Style struct {
	Color       string  `yaml:"color"`
	Opacity     float64 `yaml:"opacity"`
	EdgeColor   string  `yaml:"edge_color"`
	EdgeOpacity float64 `yaml:"edge_opacity"`
	EdgeWidth   float64 `yaml:"edge_width"`
	Shape       string  `yaml:"shape"`
	Size        float64 `yaml:"size"`
	Width       float64 `yaml:"width"`
}

type Tooltip struct {
	Disabled bool `yaml:"disabled"`
	Fields   []struct {
		Column string `yaml:"column"`
		Title  string `yaml:"title"`
	} `yaml:"fields"`
}

type View struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Axes  Axes   `yaml:",inline"`

	// Layers lists layer IDs. If empty, the view holds every layer
	// except those in Exclude.
	Layers  []string `yaml:"layers"`
	Exclude []string `yaml:"exclude"`
}

// A Loaded figure is a Figure built from a File.
type Loaded struct {
	Figure  *figure.Figure
	Palette palette.Palette

	// Layers maps layer IDs to layers.
	Layers map[string]*figure.Layer
}

// Load reads and builds the figure file at path.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ld, err := file.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ld, nil
}

// Parse decodes a figure file. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Build loads f's sources, resolving paths against dir, and builds
// the figure.
func (f *File) Build(dir string) (*Loaded, error) {
	srcs := make(map[string]*series.Series)
	for _, s := range f.Sources {
		if s.Name == "" {
			return nil, fmt.Errorf("source %q has no name", s.Path)
		}
		if _, dup := srcs[s.Name]; dup {
			return nil, fmt.Errorf("duplicate source %q", s.Name)
		}
		path := s.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		ser, err := ReadSource(s.Name, path, s.Sheet, s.Time)
		if err != nil {
			return nil, err
		}
		log.Debugf("figfile: loaded %v from %s", ser, path)
		srcs[s.Name] = ser
	}
	return f.build(srcs)
}

func (f *File) build(srcs map[string]*series.Series) (*Loaded, error) {
	pal, err := palette.ByName(f.Palette)
	if err != nil {
		return nil, err
	}
	fig := figure.New()
	fig.Title = f.Title
	if f.Width != 0 {
		fig.Width = f.Width
	}
	if f.Height != 0 {
		fig.Height = f.Height
	}
	if fig.Axes, err = f.Axes.axes(); err != nil {
		return nil, err
	}

	ld := &Loaded{Figure: fig, Palette: pal, Layers: make(map[string]*figure.Layer)}
	var hidden []*figure.Layer
	for i, d := range f.Layers {
		spec, err := d.spec(srcs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		l, err := fig.Add(spec)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		if d.Tooltip != nil {
			if err := l.SetTooltip(d.Tooltip.tooltip()); err != nil {
				return nil, fmt.Errorf("layer %d: %w", i+1, err)
			}
		}
		if d.ID != "" {
			if _, dup := ld.Layers[d.ID]; dup {
				return nil, fmt.Errorf("duplicate layer id %q", d.ID)
			}
			ld.Layers[d.ID] = l
		}
		if d.Hidden {
			hidden = append(hidden, l)
		}
	}

	for _, vd := range f.Views {
		opts := figure.ViewOptions{Title: vd.Title}
		if opts.Axes, err = vd.Axes.axes(); err != nil {
			return nil, fmt.Errorf("view %q: %w", vd.Name, err)
		}
		if opts.Include, err = ld.lookup(vd.Layers); err != nil {
			return nil, fmt.Errorf("view %q: %w", vd.Name, err)
		}
		if opts.Exclude, err = ld.lookup(vd.Exclude); err != nil {
			return nil, fmt.Errorf("view %q: %w", vd.Name, err)
		}
		if len(vd.Layers) == 0 {
			opts.Exclude = append(opts.Exclude, hidden...)
		}
		if _, err := fig.AddView(vd.Name, opts); err != nil {
			return nil, err
		}
	}
	if len(f.Views) == 0 && len(hidden) > 0 {
		opts := figure.ViewOptions{Axes: fig.Axes, Exclude: hidden}
		if _, err := fig.AddView(figure.ImplicitView, opts); err != nil {
			return nil, err
		}
	}
	return ld, nil
}

func (ld *Loaded) lookup(ids []string) ([]*figure.Layer, error) {
	var out []*figure.Layer
	for _, id := range ids {
		l, ok := ld.Layers[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", figure.ErrUnknownLayer, id)
		}
		out = append(out, l)
	}
	return out, nil
}

func (d *Layer) spec(srcs map[string]*series.Series) (figure.Spec, error) {
	kind, err := figure.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	var src *series.Series
	if kind.HasData() {
		var ok bool
		if src, ok = srcs[d.Source]; !ok {
			return nil, fmt.Errorf("unknown source %q", d.Source)
		}
	}
	st := figure.Style(d.Style)
	switch kind {
	case figure.KindMarkers:
		return figure.Markers{Source: src, X: d.X, Y: d.Y, Error: d.Error, Label: d.Label, Style: st}, nil
	case figure.KindLine:
		return figure.Line{Source: src, X: d.X, Y: d.Y, Label: d.Label, Style: st}, nil
	case figure.KindRange:
		return figure.Range{Source: src, X: d.X, Y: d.Y, Error: d.Error, Label: d.Label, Style: st}, nil
	case figure.KindVerticalLine:
		return figure.VerticalLine{At: d.At, Label: d.Label, Style: st}, nil
	case figure.KindVerticalRange:
		return figure.VerticalRange{From: d.From, To: d.To, Label: d.Label, Style: st}, nil
	case figure.KindHorizontalLine:
		return figure.HorizontalLine{Value: d.Value, Label: d.Label, Style: st}, nil
	case figure.KindHorizontalRange:
		return figure.HorizontalRange{Low: d.Low, High: d.High, Label: d.Label, Style: st}, nil
	case figure.KindText:
		return figure.Text{
			At: d.At, Value: d.Value, Text: d.Text,
			Weight: d.Weight, Baseline: d.Baseline, Align: d.Align, Angle: d.Angle,
			Label: d.Label, Style: st,
		}, nil
	}
	return nil, fmt.Errorf("unhandled kind %v", kind)
}

func (t *Tooltip) tooltip() figure.Tooltip {
	out := figure.Tooltip{Disabled: t.Disabled}
	for _, f := range t.Fields {
		out.Fields = append(out.Fields, figure.TooltipField{Column: f.Column, Title: f.Title})
	}
	return out
}

func (a Axes) axes() (figure.Axes, error) {
	out := figure.Axes{XTitle: a.XTitle, YTitle: a.YTitle, YLog: a.YLog}
	var err error
	if out.XLim, err = limits(a.XLim); err != nil {
		return out, fmt.Errorf("xlim: %w", err)
	}
	if out.YLim, err = limits(a.YLim); err != nil {
		return out, fmt.Errorf("ylim: %w", err)
	}
	return out, nil
}

// limits parses a [min, max] pair of numbers or times.
func limits(lim []string) (*figure.Limits, error) {
	if lim == nil {
		return nil, nil
	}
	if len(lim) != 2 {
		return nil, fmt.Errorf("want [min, max], got %d values", len(lim))
	}
	var b [2]float64
	var isTime [2]bool
	for i, s := range lim {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t, terr := parseTime(s)
			if terr != nil {
				return nil, fmt.Errorf("%q is neither a number nor a time", s)
			}
			v, isTime[i] = series.Millis(t), true
		}
		b[i] = v
	}
	if isTime[0] != isTime[1] {
		return nil, fmt.Errorf("[%s, %s] mixes a number and a time", lim[0], lim[1])
	}
	return &figure.Limits{Min: b[0], Max: b[1], Time: isTime[0]}, nil
}
