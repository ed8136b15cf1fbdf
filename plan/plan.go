// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan decides how the data sources of a figure are
// serialized.
//
// Every distinct source reachable from a rendered layer becomes one
// Entry with a fresh identifier, no matter how many layers or views
// share it. Sources are either written to external CSV files named by
// their identifier or inlined as rows in the compiled document.
package plan

import (
	"fmt"

	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/internal/ident"
	"github.com/aclements/go-tsviz/series"
	log "github.com/sirupsen/logrus"
)

// Options control planning.
type Options struct {
	// Embed inlines rows instead of writing external files.
	Embed bool

	// Minimize writes only the columns some layer uses.
	Minimize bool
}

// A Plan is the serialization decision for one compilation.
type Plan struct {
	Embed bool

	entries  []*Entry
	bySource map[*series.Series]*Entry
}

// An Entry is one serialized source.
type Entry struct {
	ID      string
	Source  *series.Series
	Columns []series.Column

	// File is the relative path of the external file, or "" if the
	// source is embedded.
	File string
}

// New plans the serialization of the sources of layers. Identifiers
// are drawn from reg.
func New(layers []*figure.Layer, o Options, reg *ident.Registry) (*Plan, error) {
	p := &Plan{Embed: o.Embed, bySource: make(map[*series.Series]*Entry)}
	used := make(map[*series.Series]map[string]bool)
	for _, l := range layers {
		src := l.Source()
		if src == nil {
			continue
		}
		if _, ok := p.bySource[src]; !ok {
			id, err := reg.Next()
			if err != nil {
				return nil, fmt.Errorf("planning source %q: %w", src.Name(), err)
			}
			e := &Entry{ID: id, Source: src}
			if !o.Embed {
				e.File = id + ".csv"
			}
			p.bySource[src] = e
			p.entries = append(p.entries, e)
			used[src] = make(map[string]bool)
		}
		cols := l.Columns()
		u := used[src]
		u[cols.X], u[cols.Y] = true, true
		if cols.Error != "" {
			u[cols.Error] = true
		}
		for _, f := range l.Tooltip().Fields {
			u[f.Column] = true
		}
	}
	for _, e := range p.entries {
		for _, c := range e.Source.Columns() {
			if !o.Minimize || used[e.Source][c.Name] {
				e.Columns = append(e.Columns, c)
			}
		}
		log.Debugf("plan: source %q -> %s (%d rows, %d columns, embed=%v)", e.Source.Name(), e.ID, e.Source.Len(), len(e.Columns), o.Embed)
	}
	return p, nil
}

// Entries returns the entries in order of first use.
func (p *Plan) Entries() []*Entry {
	return append([]*Entry(nil), p.entries...)
}

// Lookup returns the entry for src.
func (p *Plan) Lookup(src *series.Series) (*Entry, bool) {
	e, ok := p.bySource[src]
	return e, ok
}

// Parse returns the type of each serialized column, as "number" or
// "date".
func (e *Entry) Parse() map[string]string {
	m := make(map[string]string, len(e.Columns))
	for _, c := range e.Columns {
		m[c.Name] = parseType(c.Kind)
	}
	return m
}

func parseType(k series.Kind) string {
	if k == series.Time {
		return "date"
	}
	return "number"
}
