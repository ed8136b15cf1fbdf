// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series provides immutable tabular time series.
//
// A Series is an ordered sequence of rows over a fixed set of named,
// typed columns. Columns are either temporal (Time) or numeric
// (Number). A Series is identified by its pointer: two Series with
// identical contents are still distinct data sources.
//
// Series are backed by a go-gg table.Table, so they can be handed
// directly to go-gg for plotting and printing.
package series

import (
	"fmt"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Kind is the type of a Series column.
type Kind int

const (
	// Number columns hold float64 values.
	Number Kind = iota

	// Time columns hold absolute instants.
	Time
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Time:
		return "time"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column describes one column of a Series.
type Column struct {
	Name string
	Kind Kind
}

// Series is an immutable tabular time series.
type Series struct {
	name  string
	tab   *table.Table
	cols  []Column
	index map[string]int
}

// Name returns the descriptive name of s. It need not be unique.
func (s *Series) Name() string {
	return s.name
}

// Len returns the number of rows in s.
func (s *Series) Len() int {
	return s.tab.Len()
}

// Columns returns the columns of s in order.
func (s *Series) Columns() []Column {
	return append([]Column(nil), s.cols...)
}

// Column returns the column called name.
func (s *Series) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

// TimeColumn returns the name of the first Time column of s, or "" if
// s has no Time column.
func (s *Series) TimeColumn() string {
	for _, c := range s.cols {
		if c.Kind == Time {
			return c.Name
		}
	}
	return ""
}

// Times returns the values of Time column name. It returns nil if
// there is no such column. The caller must not modify the result.
func (s *Series) Times(name string) []time.Time {
	if c, ok := s.Column(name); !ok || c.Kind != Time {
		return nil
	}
	return s.tab.MustColumn(name).([]time.Time)
}

// Numbers returns the values of Number column name. It returns nil if
// there is no such column. The caller must not modify the result.
func (s *Series) Numbers(name string) []float64 {
	if c, ok := s.Column(name); !ok || c.Kind != Number {
		return nil
	}
	return s.tab.MustColumn(name).([]float64)
}

// Floats returns the values of column name as float64s. Time values
// are converted to milliseconds since the Unix epoch, which is how
// temporal values are compared and scaled.
func (s *Series) Floats(name string) []float64 {
	c, ok := s.Column(name)
	if !ok {
		return nil
	}
	if c.Kind == Number {
		return s.Numbers(name)
	}
	ts := s.Times(name)
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = Millis(t)
	}
	return out
}

// Table returns the go-gg table backing s. The caller must not modify
// the table's columns.
func (s *Series) Table() *table.Table {
	return s.tab
}

func (s *Series) String() string {
	return fmt.Sprintf("series %q (%d rows, %d columns)", s.name, s.Len(), len(s.cols))
}

// Millis returns t as milliseconds since the Unix epoch, including
// the sub-millisecond fraction.
func Millis(t time.Time) float64 {
	sec := t.Unix()
	nsec := t.Nanosecond()
	return float64(sec)*1e3 + float64(nsec)/1e6
}

// FromMillis is the inverse of Millis, to within float64 precision.
func FromMillis(ms float64) time.Time {
	sec := ms / 1e3
	whole := int64(sec)
	frac := ms - float64(whole)*1e3
	return time.Unix(whole, int64(frac*1e6)).UTC()
}

// FromTable returns a Series backed by tab. Columns of type
// []time.Time become Time columns; columns of any numeric slice type
// become Number columns (converted to []float64). Any other column
// type is an error.
func FromTable(name string, tab *table.Table) (s *Series, err error) {
	b := NewBuilder(name)
	for _, col := range tab.Columns() {
		switch v := tab.MustColumn(col).(type) {
		case []time.Time:
			b.Time(col, v)
		case []float64:
			b.Number(col, v)
		default:
			var fs []float64
			if err := convert(&fs, v); err != nil {
				return nil, fmt.Errorf("series %q: column %q: %w", name, col, err)
			}
			b.Number(col, fs)
		}
	}
	return b.Done()
}

// convert wraps slice.Convert, which panics on inconvertible types.
func convert(dst *[]float64, src table.Slice) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	slice.Convert(dst, src)
	return nil
}
