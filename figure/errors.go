// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package figure

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch is the sentinel for column bindings that do
	// not match a source's schema. It is always wrapped in a
	// *SchemaError.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidStyle is returned for style values outside their
	// valid range.
	ErrInvalidStyle = errors.New("invalid style")

	// ErrUnknownLayer is returned when a View refers to a Layer that
	// is not part of its Figure.
	ErrUnknownLayer = errors.New("unknown layer")

	// ErrDuplicateView is returned by Freeze when two Views share a
	// name.
	ErrDuplicateView = errors.New("duplicate view name")

	// ErrDeadLayer is the sentinel wrapped by *DeadLayerError.
	ErrDeadLayer = errors.New("layer is not in any view")
)

// A SchemaError describes a column binding that does not fit the
// bound source.
type SchemaError struct {
	Kind   Kind   // Kind of the offending layer
	Role   string // "source", "x", "y", "error" or "tooltip"
	Column string // Bound column name
	Source string // Source name
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s layer: %s column: %s", e.Kind, e.Role, e.Reason)
	}
	return fmt.Sprintf("%s layer: %s column %q of source %q: %s", e.Kind, e.Role, e.Column, e.Source, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// A DeadLayerError reports a Layer that belongs to no View and so is
// never rendered.
type DeadLayerError struct {
	ID    int
	Kind  Kind
	Label string
}

func (e *DeadLayerError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s layer %d (%q): %s", e.Kind, e.ID, e.Label, ErrDeadLayer)
	}
	return fmt.Sprintf("%s layer %d: %s", e.Kind, e.ID, ErrDeadLayer)
}

func (e *DeadLayerError) Unwrap() error {
	return ErrDeadLayer
}
