// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tsviz compiles time series figures.
//
// A figure is described by a YAML file naming CSV or XLSX data
// sources, the layers drawn from them and the views that group those
// layers. tsviz compiles the figure to a Vega specification, packages
// it as a self-contained bundle with a viewer page, or renders it to
// static images:
//
//	tsviz compile fig.yaml -o fig.json
//	tsviz bundle fig.yaml -o fig.zip
//	tsviz static fig.yaml --prefix fig --format pdf
//	tsviz check fig.yaml
//	tsviz inspect lightcurve.csv
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tsviz",
		Short: "Compile time series figures to Vega, bundles and images.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	root.AddCommand(compileCmd(), bundleCmd(), staticCmd(), checkCmd(), inspectCmd())
	return root
}

func main() {
	log.SetOutput(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tsviz: %v\n", err)
		os.Exit(1)
	}
}
