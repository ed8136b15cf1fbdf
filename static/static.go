// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package static renders figures to raster and vector image files.
//
// Export translates each view of a resolved figure into a Panel: the
// view's scales, titles and fully styled items with their data already
// extracted. A Backend turns a Panel into bytes. Static output does
// not re-resolve anything; it draws what the Vega compiler would
// draw.
package static

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/series"
	"github.com/aclements/go-tsviz/vega"
	log "github.com/sirupsen/logrus"
)

// A Panel is one view ready to draw.
type Panel struct {
	Name          string
	Title         string
	Width, Height int

	X, Y           axis.Scale
	XTitle, YTitle string

	// Items are in z-order.
	Items []Item
}

// An Item is one layer of a Panel. Temporal values are milliseconds
// since the Unix epoch, matching the panel's scales.
type Item struct {
	Kind  figure.Kind
	Label string
	Style figure.Style

	// X, Y and Err hold the data of data layers. Err is nil unless
	// the layer has an error column.
	X, Y, Err []float64

	// Guide positions, for guide and text layers.
	From, To  float64
	Low, High float64

	Text figure.Annotation
}

// A Backend draws Panels.
type Backend interface {
	// Formats returns the file extensions the backend can produce.
	Formats() []string

	// Render writes p to w in the given format.
	Render(w *bytes.Buffer, format string, p *Panel) error
}

// Panels translates every view of ctx into a Panel.
func Panels(ctx *vega.Context) []*Panel {
	fr := ctx.Figure
	var out []*Panel
	for _, vc := range ctx.Views {
		v := vc.View
		a := v.Axes()
		p := &Panel{
			Name:   v.Name(),
			Title:  v.Title(),
			Width:  fr.Width,
			Height: fr.Height,
			X:      vc.X,
			Y:      vc.Y,
			XTitle: a.XTitle,
			YTitle: a.YTitle,
		}
		if p.Title == "" {
			p.Title = fr.Title
		}
		for _, l := range v.Layers() {
			p.Items = append(p.Items, item(ctx, l))
		}
		out = append(out, p)
	}
	return out
}

func item(ctx *vega.Context, l *figure.Layer) Item {
	it := Item{Kind: l.Kind(), Label: l.Label(), Style: ctx.Style(l)}
	if l.Kind().HasData() {
		src, cols := l.Source(), l.Columns()
		it.X = src.Floats(cols.X)
		it.Y = src.Floats(cols.Y)
		if cols.Error != "" {
			it.Err = src.Floats(cols.Error)
		}
		return it
	}
	g := l.Guide()
	it.From, it.To = series.Millis(g.From), series.Millis(g.To)
	it.Low, it.High = g.Low, g.High
	it.Text = l.Annotation()
	return it
}

// Export renders every view of ctx with backend and writes one file
// per view. A single view is written to prefix.format; several views
// are written to prefix_name.format. It returns the written paths.
//
// All files are rendered and staged before any is written. If
// writing fails, files this call replaced are restored and files it
// created are removed.
func Export(ctx *vega.Context, backend Backend, prefix, format string) ([]string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if !supports(backend, format) {
		return nil, fmt.Errorf("static: format %q not supported (have %s)", format, strings.Join(backend.Formats(), ", "))
	}

	panels := Panels(ctx)
	paths, err := names(panels, prefix, format)
	if err != nil {
		return nil, err
	}

	data := make([][]byte, len(panels))
	for i, p := range panels {
		var buf bytes.Buffer
		if err := backend.Render(&buf, format, p); err != nil {
			return nil, fmt.Errorf("static: view %q: %w", p.Name, err)
		}
		log.Debugf("static: rendered view %q (%d bytes)", p.Name, buf.Len())
		data[i] = buf.Bytes()
	}

	if err := commit(paths, data); err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	return paths, nil
}

func supports(b Backend, format string) bool {
	for _, f := range b.Formats() {
		if f == format {
			return true
		}
	}
	return false
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func names(panels []*Panel, prefix, format string) ([]string, error) {
	if len(panels) == 1 {
		return []string{prefix + "." + format}, nil
	}
	seen := make(map[string]string)
	var out []string
	for _, p := range panels {
		name := unsafeName.ReplaceAllString(p.Name, "_")
		path := fmt.Sprintf("%s_%s.%s", prefix, name, format)
		if prev, ok := seen[path]; ok {
			return nil, fmt.Errorf("static: views %q and %q both write %s", prev, p.Name, path)
		}
		seen[path] = p.Name
		out = append(out, path)
	}
	return out, nil
}

// A staged file is waiting in tmp to replace path. If path existed,
// it is moved to old while the new file is put in place.
type staged struct {
	path, tmp, old string
	placed         bool
}

// commit writes data[i] to paths[i]. Every file is first written to a
// temporary next to its path; only once all are staged are they
// renamed into place, with the files they replace kept aside until
// all renames succeed.
func commit(paths []string, data [][]byte) (err error) {
	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil && !fi.Mode().IsRegular() {
			return &fs.PathError{Op: "write", Path: path, Err: fs.ErrExist}
		}
	}

	files := make([]*staged, 0, len(paths))
	defer func() {
		if err == nil {
			return
		}
		for i := len(files) - 1; i >= 0; i-- {
			f := files[i]
			if f.placed {
				os.Remove(f.path)
			}
			if f.old != "" {
				os.Rename(f.old, f.path)
			}
			os.Remove(f.tmp)
		}
	}()
	for i, path := range paths {
		tmp, err := stage(path, data[i])
		if err != nil {
			return err
		}
		files = append(files, &staged{path: path, tmp: tmp})
	}

	for _, f := range files {
		if _, err := os.Lstat(f.path); err == nil {
			old := f.tmp + ".old"
			if err := os.Rename(f.path, old); err != nil {
				return err
			}
			f.old = old
		}
		if err := os.Rename(f.tmp, f.path); err != nil {
			return err
		}
		f.placed = true
	}
	for _, f := range files {
		if f.old != "" {
			if err := os.Remove(f.old); err != nil {
				log.Warnf("static: removing %s: %v", f.old, err)
			}
		}
	}
	return nil
}

// stage writes data to a temporary file next to path and returns its
// name.
func stage(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	if err == nil {
		err = os.Chmod(tmp, 0644)
	}
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
