// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bundle

import (
	"bytes"
	"html/template"

	"github.com/aclements/go-tsviz/vega"
)

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerHTML))

type viewerData struct {
	Title    string
	SpecFile string
	Spec     *vega.Spec
}

// viewer renders the HTML shell for spec. The spec is inlined so the
// page works without fetching figure.json; data files are still
// loaded relative to the page.
func viewer(spec *vega.Spec) ([]byte, error) {
	title := spec.Title
	if title == "" {
		title = "Time series"
	}
	var buf bytes.Buffer
	if err := viewerTmpl.Execute(&buf, viewerData{title, SpecFile, spec}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const viewerHTML = `<!DOCTYPE html>
<html>
    <head>
        <meta charset="utf-8">
        <title>{{.Title}}</title>
        <script type="text/javascript" src="https://cdn.jsdelivr.net/npm/vega@5"></script>
        <script type="text/javascript" src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
        <style>
         body { font-family: sans-serif; margin: 1em; }
         #view { width: 95vw; height: 85vh; }
        </style>
    </head>
    <body>
        <div id="view"></div>
        <p>
            Specification: <a href="{{.SpecFile}}">{{.SpecFile}}</a>
        </p>
        <script type="text/javascript">
         var spec = {{.Spec}};
         vegaEmbed("#view", spec, {
             loader: vega.loader({baseURL: "./"}),
             tooltip: true,
             actions: {export: true, source: false, compiled: false, editor: false},
         }).catch(function(err) {
             document.getElementById("view").textContent = err;
         });
        </script>
    </body>
</html>
`
