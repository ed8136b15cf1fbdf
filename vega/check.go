// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vega

import (
	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	log "github.com/sirupsen/logrus"
)

// Check is the validation pass. It reports a *figure.DeadLayerError
// for every layer in no view and an *axis.DomainError for every empty
// axis, logging each as a warning. None of these stop Check; an empty
// axis does stop NewContext.
func Check(fr *figure.Frozen, o Options) []error {
	errs := fr.Dead()
	for _, v := range fr.Views() {
		_, _, err := axis.Resolve(v, o.Axis)
		if err == nil {
			continue
		}
		if j, ok := err.(interface{ Unwrap() []error }); ok {
			errs = append(errs, j.Unwrap()...)
		} else {
			errs = append(errs, err)
		}
	}
	for _, err := range errs {
		log.Warn(err)
	}
	return errs
}
