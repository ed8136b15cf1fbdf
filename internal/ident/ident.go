// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ident provides identifier sources for generated data files,
// marks and groups.
//
// Identifiers are random by default. Tests pin them with a Sequence so
// compiled output is reproducible.
package ident

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDuplicateIdentifier is returned when a Source produces an
// identifier that was already handed out.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// A Source produces identifiers.
type Source interface {
	NewID() string
}

// Random is a Source of random UUIDs.
type Random struct{}

func (Random) NewID() string {
	return uuid.New().String()
}

// A Sequence is a deterministic Source that yields Prefix followed by
// 1, 2, 3, and so on.
type Sequence struct {
	Prefix string
	n      int
}

func (s *Sequence) NewID() string {
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}

// Fixed is a Source that returns its elements in order and then
// repeats the last one. It is mostly useful for provoking collisions.
type Fixed []string

func (f *Fixed) NewID() string {
	if len(*f) == 0 {
		return ""
	}
	id := (*f)[0]
	if len(*f) > 1 {
		*f = (*f)[1:]
	}
	return id
}

// A Registry hands out identifiers from a Source and rejects repeats.
type Registry struct {
	src  Source
	seen map[string]bool
}

// NewRegistry returns a Registry drawing from src. If src is nil, it
// uses Random.
func NewRegistry(src Source) *Registry {
	if src == nil {
		src = Random{}
	}
	return &Registry{src: src, seen: make(map[string]bool)}
}

// Next returns a fresh identifier.
func (r *Registry) Next() (string, error) {
	id := r.src.NewID()
	if id == "" {
		return "", fmt.Errorf("empty identifier: %w", ErrDuplicateIdentifier)
	}
	if r.seen[id] {
		return "", fmt.Errorf("identifier %q: %w", id, ErrDuplicateIdentifier)
	}
	r.seen[id] = true
	return id, nil
}
