// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-tsviz/bundle"
	"github.com/aclements/go-tsviz/internal/figfile"
	"github.com/aclements/go-tsviz/internal/ident"
	"github.com/aclements/go-tsviz/palette"
	"github.com/aclements/go-tsviz/static"
	"github.com/aclements/go-tsviz/vega"
	"github.com/spf13/cobra"
)

// addCompileFlags adds the flags that control compilation.
func addCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("embed", false, "inline data in the specification")
	f.Bool("minimize", false, "serialize only the columns layers use")
	f.Bool("override-style", false, "assign every layer a palette color, even if it sets one")
	f.String("palette", "", "color palette `name` (default: the figure's, or okabe-ito)")
	f.String("id-prefix", "", "use sequential identifiers with this `prefix` instead of random ones")
	f.Float64("padding", 0, "fraction of the data span added to each end of an axis (negative for none)")
	f.Bool("zero", false, "include zero in linear y axes")
}

// load reads the figure at path and resolves it with the compile
// flags of cmd.
func load(cmd *cobra.Command, path string) (*vega.Context, error) {
	ld, err := figfile.Load(path)
	if err != nil {
		return nil, err
	}
	fr, err := ld.Figure.Freeze()
	if err != nil {
		return nil, err
	}
	o, err := options(cmd, ld)
	if err != nil {
		return nil, err
	}
	return vega.NewContext(fr, o)
}

func options(cmd *cobra.Command, ld *figfile.Loaded) (vega.Options, error) {
	f := cmd.Flags()
	o := vega.Options{Palette: ld.Palette}
	o.EmbedData, _ = f.GetBool("embed")
	o.Minimize, _ = f.GetBool("minimize")
	o.OverrideStyle, _ = f.GetBool("override-style")
	o.Axis.Padding, _ = f.GetFloat64("padding")
	o.Axis.Zero, _ = f.GetBool("zero")
	if name, _ := f.GetString("palette"); name != "" {
		pal, err := palette.ByName(name)
		if err != nil {
			return o, err
		}
		o.Palette = pal
	}
	if prefix, _ := f.GetString("id-prefix"); prefix != "" {
		o.IDs = &ident.Sequence{Prefix: prefix}
	}
	return o, nil
}

func compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] figure.yaml",
		Short: "Compile a figure to a Vega specification.",
		Long: `Compile a figure to a Vega specification.
Unless --embed is given, each data source is written as a CSV file
next to the specification.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			js, err := vega.Compile(ctx).JSON()
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("output")
			dir := "."
			if out != "" {
				dir = filepath.Dir(out)
			}
			if !ctx.Plan.Embed {
				for _, e := range ctx.Plan.Entries() {
					data, err := e.CSV()
					if err != nil {
						return fmt.Errorf("source %q: %w", e.Source.Name(), err)
					}
					if err := os.WriteFile(filepath.Join(dir, e.File), data, 0644); err != nil {
						return err
					}
				}
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(js)
				return err
			}
			return os.WriteFile(out, js, 0644)
		},
	}
	cmd.Flags().StringP("output", "o", "", "write the specification to `file` (default: stdout)")
	addCompileFlags(cmd)
	return cmd
}

func bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [flags] figure.yaml",
		Short: "Package a figure with its data and a viewer page.",
		Long: `Package a figure with its data and a viewer page.
If the output path ends in .zip, the bundle is a zip archive;
otherwise it is a directory, which is replaced if it exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				return fmt.Errorf("missing output path (-o)")
			}
			ctx, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			return bundle.Write(out, ctx, vega.Compile(ctx))
		},
	}
	cmd.Flags().StringP("output", "o", "", "write the bundle to `path` (.zip or directory)")
	addCompileFlags(cmd)
	return cmd
}

func staticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "static [flags] figure.yaml",
		Short: "Render a figure to image files, one per view.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			prefix, _ := f.GetString("prefix")
			format, _ := f.GetString("format")
			name, _ := f.GetString("backend")
			var backend static.Backend
			switch name {
			case "gonum":
				dpi, _ := f.GetInt("dpi")
				size, _ := f.GetFloat64("font-size")
				backend = static.Gonum{DPI: dpi, FontSize: size}
			case "gg":
				backend = static.GG{}
			default:
				return fmt.Errorf("unknown backend %q (want gonum or gg)", name)
			}

			ctx, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			paths, err := static.Export(ctx, backend, prefix, format)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("prefix", "figure", "output file `prefix`")
	f.String("format", "png", "output `format`, such as png, pdf or svg")
	f.String("backend", "gonum", "rendering `backend`: gonum or gg")
	f.Int("dpi", 96, "raster resolution")
	f.Float64("font-size", 0, "font size in points (default: the backend's)")
	addCompileFlags(cmd)
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] figure.yaml",
		Short: "Report layers that are never drawn and axes without data.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld, err := figfile.Load(args[0])
			if err != nil {
				return err
			}
			fr, err := ld.Figure.Freeze()
			if err != nil {
				return err
			}
			o, err := options(cmd, ld)
			if err != nil {
				return err
			}
			errs := vega.Check(fr, o)
			if len(errs) > 0 {
				return fmt.Errorf("%d problems found", len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d layers in %d views, ok\n", args[0], len(fr.Layers()), len(fr.Views()))
			return nil
		},
	}
	addCompileFlags(cmd)
	return cmd
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] data.csv|data.xlsx",
		Short: "Print a data source as tsviz reads it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, _ := cmd.Flags().GetString("sheet")
			timeCols, _ := cmd.Flags().GetStringSlice("time")
			s, err := figfile.ReadSource(filepath.Base(args[0]), args[0], sheet, timeCols)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range s.Columns() {
				fmt.Fprintf(w, "# %s: %s\n", c.Name, c.Kind)
			}
			return table.Fprint(w, s.Table())
		},
	}
	cmd.Flags().String("sheet", "", "XLSX worksheet (default: the first)")
	cmd.Flags().StringSlice("time", nil, "parse `columns` as times (default: detect)")
	return cmd
}
