// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tsviz/series"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// timeLayouts are the accepted formats of time cells, tried in order.
// Values without a zone are UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

// ReadSource reads a Series from a CSV or XLSX file. The first row
// holds column names. Columns listed in timeCols are parsed as times;
// if timeCols is empty, every textual column whose cells all parse as
// times becomes a time column. Numeric columns become Number columns
// and other textual columns are skipped. For XLSX files, sheet
// selects the worksheet; "" means the first.
func ReadSource(name, path, sheet string, timeCols []string) (*series.Series, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		header, rows, err = readXLSX(path, sheet)
	default:
		header, rows, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return fromRecords(name, header, rows, timeCols)
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("%s: no header row", path)
	}
	return recs[0], recs[1:], nil
}

func readXLSX(path, sheet string) (header []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("%s: no sheets", path)
		}
		sheet = sheets[0]
	}
	recs, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("%s: sheet %q has no header row", path, sheet)
	}
	header = recs[0]
	for _, rec := range recs[1:] {
		if blank(rec) {
			continue
		}
		// GetRows drops trailing empty cells.
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec[:len(header)])
	}
	return header, rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func fromRecords(name string, header []string, rows [][]string, timeCols []string) (*series.Series, error) {
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("source %q: row %d has %d cells, want %d", name, i+2, len(row), len(header))
		}
	}
	// Coerce numeric columns; everything else stays []string.
	tab := table.TableFromStrings(header, rows, true)

	isTime := make(map[string]bool)
	for _, c := range timeCols {
		if _, ok := tab.Column(c).([]string); !ok {
			return nil, fmt.Errorf("source %q: time column %q not found or not textual", name, c)
		}
		isTime[c] = true
	}

	b := new(table.Builder)
	for _, col := range tab.Columns() {
		switch vals := tab.MustColumn(col).(type) {
		case []float64:
			b.Add(col, vals)
		case []string:
			ts, err := parseTimes(vals)
			if err != nil && isTime[col] {
				return nil, fmt.Errorf("source %q: column %q: %w", name, col, err)
			}
			if err != nil || (len(timeCols) > 0 && !isTime[col]) {
				log.Debugf("figfile: source %q: skipping text column %q", name, col)
				continue
			}
			b.Add(col, ts)
		default:
			b.Add(col, vals)
		}
	}
	return series.FromTable(name, b.Done())
}

func parseTimes(vals []string) ([]time.Time, error) {
	out := make([]time.Time, len(vals))
	for i, v := range vals {
		t, err := parseTime(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out[i] = t
	}
	return out, nil
}
