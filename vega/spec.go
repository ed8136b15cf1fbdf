// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vega

import "encoding/json"

// SchemaURL is the Vega grammar version compiled documents conform to.
const SchemaURL = "https://vega.github.io/schema/vega/v5.json"

// Spec is a compiled Vega document.
type Spec struct {
	Schema      string   `json:"$schema"`
	Description string   `json:"description,omitempty"`
	Title       string   `json:"title,omitempty"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Padding     int      `json:"padding"`
	Autosize    Autosize `json:"autosize"`
	Signals     []Signal `json:"signals"`
	Data        []Data   `json:"data"`
	Scales      []Scale  `json:"scales"`
	Axes        []Axis   `json:"axes"`
	Legends     []Legend `json:"legends"`
	Marks       []Mark   `json:"marks"`
}

// JSON returns the indented JSON encoding of s.
func (s *Spec) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

type Autosize struct {
	Type   string `json:"type"`
	Resize bool   `json:"resize"`
}

type Signal struct {
	Name   string      `json:"name"`
	Value  interface{} `json:"value,omitempty"`
	Update string      `json:"update,omitempty"`
}

// Data is a data set. Exactly one of URL and Values is set.
type Data struct {
	Name   string      `json:"name"`
	URL    string      `json:"url,omitempty"`
	Values interface{} `json:"values,omitempty"`
	Format *Format     `json:"format,omitempty"`
}

type Format struct {
	Type  string            `json:"type"`
	Parse map[string]string `json:"parse,omitempty"`
}

type Scale struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Domain interface{} `json:"domain"`
	Range  interface{} `json:"range"`
	Zero   *bool       `json:"zero,omitempty"`
	Nice   *bool       `json:"nice,omitempty"`
}

type Axis struct {
	Orient     string    `json:"orient"`
	Scale      string    `json:"scale"`
	Title      string    `json:"title,omitempty"`
	Format     string    `json:"format,omitempty"`
	FormatType string    `json:"formatType,omitempty"`
	Values     []float64 `json:"values,omitempty"`
	Grid       bool      `json:"grid,omitempty"`
}

type Legend struct {
	Fill   string `json:"fill"`
	Orient string `json:"orient,omitempty"`
	Title  string `json:"title,omitempty"`
}

// A Mark is a graphical mark. Group marks carry their own axes and
// child marks.
type Mark struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	From        *From  `json:"from,omitempty"`
	Title       string `json:"title,omitempty"`
	Encode      Encode `json:"encode,omitempty"`
	Axes        []Axis `json:"axes,omitempty"`
	Marks       []Mark `json:"marks,omitempty"`
}

type From struct {
	Data string `json:"data"`
}

// Encode maps an encoding set name ("enter", "update", "hover") to
// channel values. Maps keep the JSON output ordered.
type Encode map[string]map[string]Value

// A Value is one encoding channel.
type Value struct {
	Scale  string      `json:"scale,omitempty"`
	Field  interface{} `json:"field,omitempty"`
	Signal string      `json:"signal,omitempty"`
	Value  interface{} `json:"value,omitempty"`
}
