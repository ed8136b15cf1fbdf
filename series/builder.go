// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"fmt"
	"time"

	"github.com/aclements/go-gg/table"
)

// A Builder constructs a Series column by column.
//
// Errors are deferred to Done so calls can be chained:
//
//	s, err := series.NewBuilder("lightcurve").
//		Time("time", ts).
//		Number("flux", flux).
//		Done()
type Builder struct {
	name string
	cols []Column
	vals []table.Slice
	err  error
}

// NewBuilder returns a Builder for a Series called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Time adds a Time column. The values are copied.
func (b *Builder) Time(name string, vals []time.Time) *Builder {
	return b.add(Column{name, Time}, append([]time.Time{}, vals...))
}

// Number adds a Number column. The values are copied.
func (b *Builder) Number(name string, vals []float64) *Builder {
	return b.add(Column{name, Number}, append([]float64{}, vals...))
}

func (b *Builder) add(c Column, vals table.Slice) *Builder {
	if b.err != nil {
		return b
	}
	if c.Name == "" {
		b.err = fmt.Errorf("series %q: empty column name", b.name)
		return b
	}
	for _, have := range b.cols {
		if have.Name == c.Name {
			b.err = fmt.Errorf("series %q: duplicate column %q", b.name, c.Name)
			return b
		}
	}
	b.cols = append(b.cols, c)
	b.vals = append(b.vals, vals)
	return b
}

// Done returns the constructed Series. All columns must have the same
// length.
func (b *Builder) Done() (*Series, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.cols) == 0 {
		return nil, fmt.Errorf("series %q: no columns", b.name)
	}

	n := -1
	tb := new(table.Builder)
	index := make(map[string]int, len(b.cols))
	for i, c := range b.cols {
		l := length(b.vals[i])
		if n == -1 {
			n = l
		} else if l != n {
			return nil, fmt.Errorf("series %q: column %q has %d rows, want %d", b.name, c.Name, l, n)
		}
		tb.Add(c.Name, b.vals[i])
		index[c.Name] = i
	}

	return &Series{
		name:  b.name,
		tab:   tb.Done(),
		cols:  append([]Column(nil), b.cols...),
		index: index,
	}, nil
}

func length(v table.Slice) int {
	switch v := v.(type) {
	case []time.Time:
		return len(v)
	case []float64:
		return len(v)
	}
	panic(fmt.Sprintf("unexpected column type %T", v))
}
