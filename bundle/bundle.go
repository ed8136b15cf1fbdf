// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bundle packages a compiled figure with its data files and an
// HTML viewer.
//
// A bundle is flat: the specification (figure.json), one CSV file per
// external data source and the viewer (index.html). If the
// destination path ends in ".zip", in any case, the bundle is a zip
// archive; otherwise it is a directory.
//
// Bundles are staged next to the destination and moved into place
// only once complete, so a failed Write leaves the destination as it
// was. An existing directory is replaced only if it is empty or holds
// nothing but bundle files.
package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aclements/go-tsviz/vega"
	log "github.com/sirupsen/logrus"
)

const (
	SpecFile   = "figure.json"
	ViewerFile = "index.html"
)

// zipTime is the modification time of every archive entry.
var zipTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// A File is one member of a bundle.
type File struct {
	Name string
	Data []byte
}

// IsZip reports whether path names an archive bundle.
func IsZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

// Files returns the members of the bundle for spec in archive order.
// spec must have been compiled from ctx.
func Files(ctx *vega.Context, spec *vega.Spec) ([]File, error) {
	js, err := spec.JSON()
	if err != nil {
		return nil, err
	}
	files := []File{{SpecFile, js}}
	if !ctx.Plan.Embed {
		for _, e := range ctx.Plan.Entries() {
			data, err := e.CSV()
			if err != nil {
				return nil, fmt.Errorf("source %q: %w", e.Source.Name(), err)
			}
			files = append(files, File{e.File, data})
		}
	}
	html, err := viewer(spec)
	if err != nil {
		return nil, err
	}
	return append(files, File{ViewerFile, html}), nil
}

// Write writes the bundle for spec to path.
func Write(path string, ctx *vega.Context, spec *vega.Spec) error {
	files, err := Files(ctx, spec)
	if err != nil {
		return fmt.Errorf("bundle %s: %w", path, err)
	}
	if IsZip(path) {
		err = writeZip(path, files)
	} else {
		err = writeDir(path, files)
	}
	if err != nil {
		return fmt.Errorf("bundle %s: %w", path, err)
	}
	log.Debugf("bundle: wrote %d files to %s", len(files), path)
	return nil
}

// WriteZip writes files as a zip archive to w. The output depends
// only on files.
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: zipTime,
		})
		if err != nil {
			return err
		}
		if _, err := fw.Write(f.Data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeZip(path string, files []File) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err := WriteZip(tmp, files); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeDir(path string, files []File) (err error) {
	if err := replaceable(path); err != nil {
		return err
	}
	parent := filepath.Dir(path)
	stage, err := os.MkdirTemp(parent, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(stage)
		}
	}()
	if err := os.Chmod(stage, 0755); err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(stage, f.Name), f.Data, 0644); err != nil {
			return err
		}
	}

	// Move any existing bundle aside, swap in the new one, and
	// restore the old one if the swap fails.
	var backup string
	if _, err := os.Stat(path); err == nil {
		backup = stage + ".old"
		if err := os.Rename(path, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(stage, path); err != nil {
		if backup != "" {
			os.Rename(backup, path)
		}
		return err
	}
	if backup != "" {
		// replaceable checked that backup holds only bundle files.
		if err := os.RemoveAll(backup); err != nil {
			log.Warnf("bundle: removing old bundle %s: %v", backup, err)
		}
	}
	return nil
}

// replaceable returns nil if path does not exist or is a directory
// that is empty or holds only the files of a bundle. Anything else is
// an *fs.PathError wrapping fs.ErrExist.
func replaceable(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &fs.PathError{Op: "write bundle", Path: path, Err: fs.ErrExist}
	}
	ents, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, e := range ents {
		if !isBundleFile(e) {
			return &fs.PathError{Op: "replace bundle", Path: filepath.Join(path, e.Name()), Err: fs.ErrExist}
		}
	}
	return nil
}

func isBundleFile(e fs.DirEntry) bool {
	if !e.Type().IsRegular() {
		return false
	}
	switch name := e.Name(); name {
	case SpecFile, ViewerFile:
		return true
	default:
		return strings.EqualFold(filepath.Ext(name), ".csv")
	}
}
