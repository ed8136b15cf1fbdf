// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-tsviz/axis"
	"github.com/aclements/go-tsviz/figure"
	"github.com/aclements/go-tsviz/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Gonum is a Backend built on gonum.org/v1/plot. It produces raster
// (png, jpg, tif) and vector (pdf, svg, eps) output.
type Gonum struct {
	// DPI is the raster resolution. Zero means 96.
	DPI int

	// FontSize, in points, overrides the size of titles and tick
	// labels. Zero keeps gonum's defaults.
	FontSize float64
}

// pixel is the size of one figure pixel. Figure dimensions are CSS
// pixels, which are 1/96 inch.
const pixel = vg.Inch / 96

func (g Gonum) Formats() []string {
	return []string{"png", "jpg", "jpeg", "tif", "tiff", "pdf", "svg", "eps"}
}

func (g Gonum) Render(w *bytes.Buffer, format string, p *Panel) (err error) {
	defer func() {
		// gonum panics on some malformed input, such as a
		// non-positive value on a log axis.
		if r := recover(); r != nil {
			err = fmt.Errorf("gonum: %v", r)
		}
	}()

	plt, err := g.plot(p)
	if err != nil {
		return err
	}
	width, height := vg.Length(p.Width)*pixel, vg.Length(p.Height)*pixel
	var c interface {
		vg.CanvasSizer
		io.WriterTo
	}
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		dpi := g.DPI
		if dpi <= 0 {
			dpi = 96
		}
		img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
		switch format {
		case "png":
			c = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			c = vgimg.JpegCanvas{Canvas: img}
		default:
			c = vgimg.TiffCanvas{Canvas: img}
		}
	case "pdf":
		c = vgpdf.New(width, height)
	case "svg":
		c = vgsvg.New(width, height)
	case "eps":
		c = vgeps.New(width, height)
	default:
		return fmt.Errorf("gonum: unsupported format %q", format)
	}
	plt.Draw(draw.New(c))
	_, err = c.WriteTo(w)
	return err
}

func (g Gonum) plot(p *Panel) (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = p.XTitle
	plt.Y.Label.Text = p.YTitle
	if g.FontSize > 0 {
		size := vg.Points(g.FontSize)
		plt.Title.TextStyle.Font.Size = size * 1.2
		for _, a := range []*plot.Axis{&plt.X, &plt.Y} {
			a.Label.TextStyle.Font.Size = size
			a.Tick.Label.Font.Size = size
		}
		plt.Legend.TextStyle.Font.Size = size
	}
	setAxis(&plt.X, p.X)
	setAxis(&plt.Y, p.Y)

	for _, it := range p.Items {
		ps, thumb, err := g.item(p, it)
		if err != nil {
			return nil, fmt.Errorf("%s layer: %w", it.Kind, err)
		}
		plt.Add(ps...)
		if it.Label != "" && thumb != nil {
			plt.Legend.Add(it.Label, thumb)
		}
	}

	// Adding plotters widens the axes to their data, so pin the
	// resolved domains last.
	plt.X.Min, plt.X.Max = p.X.Min, p.X.Max
	plt.Y.Min, plt.Y.Max = p.Y.Min, p.Y.Max
	return plt, nil
}

func setAxis(a *plot.Axis, s axis.Scale) {
	switch s.Type {
	case axis.Time:
		a.Tick.Marker = plot.TimeTicks{Format: timeLayout(s.Max - s.Min), Time: series.FromMillis}
	case axis.Log:
		a.Scale = plot.LogScale{}
		a.Tick.Marker = plot.LogTicks{Prec: -1}
	default:
		if len(s.Ticks) > 0 {
			ticks := make(plot.ConstantTicks, len(s.Ticks))
			for i, v := range s.Ticks {
				ticks[i] = plot.Tick{Value: v, Label: fmt.Sprint(v)}
			}
			a.Tick.Marker = ticks
		}
	}
}

// timeLayout is the Go time layout for tick labels on an axis
// spanning span milliseconds.
func timeLayout(span float64) string {
	const (
		minute = 60 * 1000
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case span > 2*365*day:
		return "2006"
	case span > 60*day:
		return "2006-01"
	case span > 2*day:
		return "2006-01-02"
	case span > 2*hour:
		return "01-02 15:04"
	case span > 2*minute:
		return "15:04"
	}
	return "15:04:05"
}

// item translates it into gonum plotters. thumb is the legend
// thumbnail, or nil.
func (g Gonum) item(p *Panel, it Item) (ps []plot.Plotter, thumb plot.Thumbnailer, err error) {
	st := it.Style
	fill := nrgba(st.Color, st.Opacity)
	edge := nrgba(st.EdgeColor, st.EdgeOpacity)
	logY := p.Y.Type == axis.Log

	switch it.Kind {
	case figure.KindMarkers:
		xys := points(it.X, it.Y, logY)
		if it.Err != nil {
			bars, err := errorBars(it, logY)
			if err != nil {
				return nil, nil, err
			}
			bars.LineStyle.Color = fill
			ps = append(ps, bars)
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  fill,
			Radius: vg.Length(math.Sqrt(st.Size)/2) * pixel,
			Shape:  glyph{shape: st.Shape, edge: edge, width: vg.Length(st.EdgeWidth) * pixel},
		}
		return append(ps, sc), sc, nil

	case figure.KindLine:
		ln, err := plotter.NewLine(points(it.X, it.Y, logY))
		if err != nil {
			return nil, nil, err
		}
		ln.LineStyle.Color = fill
		ln.LineStyle.Width = vg.Length(st.Width) * pixel
		return []plot.Plotter{ln}, ln, nil

	case figure.KindRange:
		var upper, lower plotter.XYs
		for i := range it.X {
			hi, lo := it.Y[i]+it.Err[i], it.Y[i]-it.Err[i]
			if !usable(it.X[i], hi, logY) || !usable(it.X[i], lo, logY) {
				continue
			}
			upper = append(upper, plotter.XY{X: it.X[i], Y: hi})
			lower = append(lower, plotter.XY{X: it.X[i], Y: lo})
		}
		for i, j := 0, len(lower)-1; i < j; i, j = i+1, j-1 {
			lower[i], lower[j] = lower[j], lower[i]
		}
		poly, err := band(append(upper, lower...), fill)
		if err != nil {
			return nil, nil, err
		}
		return []plot.Plotter{poly}, poly, nil

	case figure.KindVerticalLine:
		return rule(plotter.XYs{{X: it.From, Y: p.Y.Min}, {X: it.From, Y: p.Y.Max}}, fill, st)
	case figure.KindHorizontalLine:
		return rule(plotter.XYs{{X: p.X.Min, Y: it.Low}, {X: p.X.Max, Y: it.Low}}, fill, st)

	case figure.KindVerticalRange:
		poly, err := band(rect(it.From, it.To, p.Y.Min, p.Y.Max), fill)
		if err != nil {
			return nil, nil, err
		}
		return []plot.Plotter{poly}, poly, nil
	case figure.KindHorizontalRange:
		poly, err := band(rect(p.X.Min, p.X.Max, it.Low, it.High), fill)
		if err != nil {
			return nil, nil, err
		}
		return []plot.Plotter{poly}, poly, nil

	case figure.KindText:
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: it.From, Y: it.Low}},
			Labels: []string{it.Text.Text},
		})
		if err != nil {
			return nil, nil, err
		}
		for i := range labels.TextStyle {
			ts := &labels.TextStyle[i]
			ts.Color = fill
			ts.Font.Size = vg.Length(st.Size) * pixel
			ts.Rotation = -it.Text.Angle * math.Pi / 180
			switch it.Text.Align {
			case "center":
				ts.XAlign = -0.5
			case "right":
				ts.XAlign = -1
			}
			switch it.Text.Baseline {
			case "top":
				ts.YAlign = -1
			case "middle":
				ts.YAlign = -0.5
			}
		}
		return []plot.Plotter{labels}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown kind %v", it.Kind)
}

func rule(xys plotter.XYs, c color.Color, st figure.Style) ([]plot.Plotter, plot.Thumbnailer, error) {
	ln, err := plotter.NewLine(xys)
	if err != nil {
		return nil, nil, err
	}
	ln.LineStyle.Color = c
	ln.LineStyle.Width = vg.Length(st.Width) * pixel
	return []plot.Plotter{ln}, ln, nil
}

func band(xys plotter.XYs, c color.Color) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, err
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	return poly, nil
}

func rect(x0, x1, y0, y1 float64) plotter.XYs {
	return plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func errorBars(it Item, logY bool) (*plotter.YErrorBars, error) {
	var data struct {
		plotter.XYs
		plotter.YErrors
	}
	for i := range it.X {
		e := it.Err[i]
		if !usable(it.X[i], it.Y[i], logY) || math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		data.XYs = append(data.XYs, plotter.XY{X: it.X[i], Y: it.Y[i]})
		data.YErrors = append(data.YErrors, struct{ Low, High float64 }{e, e})
	}
	return plotter.NewYErrorBars(data)
}

// points pairs xs and ys, dropping points gonum cannot draw.
func points(xs, ys []float64, logY bool) plotter.XYs {
	var out plotter.XYs
	for i := range xs {
		if usable(xs[i], ys[i], logY) {
			out = append(out, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return out
}

func usable(x, y float64, logY bool) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return false
	}
	return !logY || y > 0
}

func nrgba(c string, opacity float64) color.Color {
	rgb, err := figure.ParseColor(c)
	if err != nil {
		rgb = color.RGBA{A: 0xff}
	}
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: uint8(math.Round(opacity * 0xff))}
}

// glyph draws a filled marker with an outline.
type glyph struct {
	shape string
	edge  color.Color
	width vg.Length
}

// vertices gives polygon marker corners as angles in degrees,
// counterclockwise from the positive x axis.
var vertices = map[string][]float64{
	"square":         {45, 135, 225, 315},
	"diamond":        {0, 90, 180, 270},
	"triangle-up":    {90, 210, 330},
	"triangle-down":  {270, 30, 150},
	"triangle-right": {0, 120, 240},
	"triangle-left":  {180, 300, 60},
}

func (g glyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	var path vg.Path
	switch g.shape {
	case "cross":
		t := r / 3
		pts := []vg.Point{
			{X: -t, Y: r}, {X: t, Y: r}, {X: t, Y: t}, {X: r, Y: t},
			{X: r, Y: -t}, {X: t, Y: -t}, {X: t, Y: -r}, {X: -t, Y: -r},
			{X: -t, Y: -t}, {X: -r, Y: -t}, {X: -r, Y: t}, {X: -t, Y: t},
		}
		path.Move(pt.Add(pts[0]))
		for _, q := range pts[1:] {
			path.Line(pt.Add(q))
		}
	default:
		angles, ok := vertices[g.shape]
		if !ok {
			path.Move(vg.Point{X: pt.X + r, Y: pt.Y})
			path.Arc(pt, r, 0, 2*math.Pi)
			break
		}
		for i, a := range angles {
			rad := a * math.Pi / 180
			q := vg.Point{X: pt.X + r*vg.Length(math.Cos(rad)), Y: pt.Y + r*vg.Length(math.Sin(rad))}
			if i == 0 {
				path.Move(q)
			} else {
				path.Line(q)
			}
		}
	}
	path.Close()

	c.SetColor(sty.Color)
	c.Fill(path)
	if g.width > 0 {
		c.SetLineStyle(draw.LineStyle{Color: g.edge, Width: g.width})
		c.Stroke(path)
	}
}
