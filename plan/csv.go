// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tsviz/series"
)

// TimeFormat is the layout of serialized instants.
const TimeFormat = time.RFC3339Nano

// WriteCSV writes the entry's columns to w with a header row. Numbers
// use the shortest representation that parses back exactly.
func (e *Entry) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	cells := e.cells()
	row := make([]string, len(e.Columns))
	for r := 0; r < e.Source.Len(); r++ {
		for i := range e.Columns {
			row[i] = cells[i](r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the CSV encoding of the entry.
func (e *Entry) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Entry) cells() []func(int) string {
	out := make([]func(int) string, len(e.Columns))
	for i, c := range e.Columns {
		if c.Kind == series.Time {
			ts := e.Source.Times(c.Name)
			out[i] = func(r int) string { return ts[r].UTC().Format(TimeFormat) }
		} else {
			vs := e.Source.Numbers(c.Name)
			out[i] = func(r int) string { return strconv.FormatFloat(vs[r], 'g', -1, 64) }
		}
	}
	return out
}

// Rows returns the entry's rows as JSON-ready objects. Instants are
// formatted as in the CSV encoding and non-finite numbers become nil.
func (e *Entry) Rows() []map[string]interface{} {
	rows := make([]map[string]interface{}, e.Source.Len())
	for r := range rows {
		rows[r] = make(map[string]interface{}, len(e.Columns))
	}
	for _, c := range e.Columns {
		if c.Kind == series.Time {
			for r, t := range e.Source.Times(c.Name) {
				rows[r][c.Name] = t.UTC().Format(TimeFormat)
			}
			continue
		}
		for r, v := range e.Source.Numbers(c.Name) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				rows[r][c.Name] = nil
			} else {
				rows[r][c.Name] = v
			}
		}
	}
	return rows
}

// ReadCSV parses a data file written by WriteCSV back into a Series.
// parse gives the type of each column, as returned by Entry.Parse.
func ReadCSV(name string, r io.Reader, parse map[string]string) (*series.Series, error) {
	recs, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: missing header", name)
	}
	tab := table.TableFromStrings(recs[0], recs[1:], false)

	b := series.NewBuilder(name)
	for _, col := range recs[0] {
		strs := tab.MustColumn(col).([]string)
		switch parse[col] {
		case "number":
			vs := make([]float64, len(strs))
			for i, s := range strs {
				if vs[i], err = strconv.ParseFloat(s, 64); err != nil {
					return nil, fmt.Errorf("%s: column %q row %d: %w", name, col, i+1, err)
				}
			}
			b.Number(col, vs)
		case "date":
			ts := make([]time.Time, len(strs))
			for i, s := range strs {
				if ts[i], err = time.Parse(TimeFormat, s); err != nil {
					return nil, fmt.Errorf("%s: column %q row %d: %w", name, col, i+1, err)
				}
			}
			b.Time(col, ts)
		default:
			return nil, fmt.Errorf("%s: column %q has unknown type %q", name, col, parse[col])
		}
	}
	return b.Done()
}
