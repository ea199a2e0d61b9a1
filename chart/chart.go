// Package chart draws rendered session outcomes with gonum/plot.
//
// Each outcome becomes a plot with the sample points, the fitted curve
// labelled by its legend ("Model: y = 1.97*x + 1.07" and R²), and the
// optional grid, origin axes and guide lines of its Graph. Plots are tiled
// in a grid or superposed on a single plot, then encoded as PNG, SVG or PDF.
package chart

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

// ErrNoOutcomes is returned when there is nothing to draw.
var ErrNoOutcomes = errors.New("chart: no outcomes to draw")

// Formats lists the supported output formats.
var Formats = []string{"png", "svg", "pdf"}

var guideColor = color.RGBA{B: 255, A: 255}

// Columns returns the tile grid for n plots. ncols <= 0 selects n/3+1
// columns.
func Columns(n, ncols int) (cols, rows int) {
	if ncols <= 0 {
		ncols = n/3 + 1
	}
	if n == 0 {
		return ncols, 0
	}
	return ncols, (n + ncols - 1) / ncols
}

// Plot builds the plot of a single outcome.
func Plot(o session.Outcome) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Graph.Title
	if err := addOutcome(p, o, 0, ""); err != nil {
		return nil, err
	}
	finish(p, []session.Outcome{o})
	return p, nil
}

// Build lays outcomes out as a grid of plots, row by row. Unused cells are
// nil. With WithSuperposed the grid is a single cell.
func Build(outs []session.Outcome, opts ...Option) ([][]*plot.Plot, error) {
	if len(outs) == 0 {
		return nil, ErrNoOutcomes
	}
	cfg := newOptions(opts)

	if cfg.superposed {
		p, err := superpose(outs)
		if err != nil {
			return nil, err
		}
		return [][]*plot.Plot{{p}}, nil
	}

	cols, rows := Columns(len(outs), cfg.ncols)
	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, cols)
	}
	for i, o := range outs {
		p, err := Plot(o)
		if err != nil {
			return nil, errors.Wrapf(err, "chart: model %d", o.Index)
		}
		grid[i/cols][i%cols] = p
	}
	return grid, nil
}

// Write draws outcomes and encodes them in format ("png", "svg" or "pdf").
func Write(w io.Writer, format string, outs []session.Outcome, opts ...Option) error {
	format = strings.ToLower(format)
	if !supported(format) {
		return errors.NewValidationError("format", "must be one of png, svg, pdf", format)
	}
	grid, err := Build(outs, opts...)
	if err != nil {
		return err
	}
	cfg := newOptions(opts)

	rows, cols := len(grid), len(grid[0])
	c, err := draw.NewFormattedCanvas(vg.Length(cols)*cfg.width, vg.Length(rows)*cfg.height, format)
	if err != nil {
		return errors.Wrap(err, "chart: create canvas")
	}
	dc := draw.New(c)
	if rows == 1 && cols == 1 {
		grid[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{
			Rows:      rows,
			Cols:      cols,
			PadX:      vg.Millimeter * 4,
			PadY:      vg.Millimeter * 6,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align(grid, tiles, dc)
		for j := range grid {
			for i, p := range grid[j] {
				if p != nil {
					p.Draw(canvases[j][i])
				}
			}
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return errors.Wrap(err, "chart: encode")
	}
	return nil
}

// Save writes the chart to path; the format comes from the file extension.
func Save(path string, outs []session.Outcome, opts ...Option) (err error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supported(format) {
		return errors.NewValidationError("path", "extension must be .png, .svg or .pdf", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "chart: create output")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "chart: close output")
		}
	}()
	return Write(f, format, outs, opts...)
}

func newOptions(opts []Option) options {
	cfg := options{width: DefaultTileWidth, height: DefaultTileHeight}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func superpose(outs []session.Outcome) (*plot.Plot, error) {
	p := plot.New()
	for i, o := range outs {
		if err := addOutcome(p, o, i, o.Graph.Title); err != nil {
			return nil, errors.Wrapf(err, "chart: model %d", o.Index)
		}
	}
	finish(p, outs)
	return p, nil
}

// addOutcome adds the points, the curve and the guide of o to p. Failed
// outcomes only contribute their points.
func addOutcome(p *plot.Plot, o session.Outcome, i int, title string) error {
	g := o.Graph
	if g.XLabel != "" {
		p.X.Label.Text = g.XLabel
	}
	if g.YLabel != "" {
		p.Y.Label.Text = g.YLabel
	}

	pts := make(plotter.XYs, len(g.X))
	for k := range g.X {
		pts[k].X, pts[k].Y = g.X[k], g.Y[k]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Shape = draw.PlusGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = plotutil.Color(2 * i)
	p.Add(scatter)

	if !o.OK() || len(o.Curve) == 0 {
		return nil
	}

	line := make(plotter.XYs, len(o.Curve))
	for k, c := range o.Curve {
		line[k].X, line[k].Y = c.X, c.Y
	}
	l, err := plotter.NewLine(line)
	if err != nil {
		return err
	}
	l.LineStyle.Color = plotutil.Color(2*i + 1)
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)

	legend := o.Label.Legend()
	if title != "" {
		legend = title + "\n" + legend
	}
	p.Legend.Add(legend, l)
	p.Legend.Top = true
	p.Legend.Left = true

	if o.Guide != nil {
		if err := addGuide(p, *o.Guide); err != nil {
			return err
		}
	}
	return nil
}

// addGuide draws the vertical and horizontal segments from the axes to the
// curve point at the guide abscissa.
func addGuide(p *plot.Plot, pt session.Point) error {
	v, err := plotter.NewLine(plotter.XYs{{X: pt.X, Y: 0}, {X: pt.X, Y: pt.Y}})
	if err != nil {
		return err
	}
	h, err := plotter.NewLine(plotter.XYs{{X: 0, Y: pt.Y}, {X: pt.X, Y: pt.Y}})
	if err != nil {
		return err
	}
	v.LineStyle.Color = guideColor
	h.LineStyle.Color = guideColor
	p.Add(v, h)
	return nil
}

// finish applies the limits, then the grid and origin axes of the last
// outcome that asks for them.
func finish(p *plot.Plot, outs []session.Outcome) {
	negX, negY, grid, axes := false, false, false, false
	for _, o := range outs {
		negX = negX || o.NegativeX
		negY = negY || o.NegativeY
		grid = grid || o.Graph.Grid
		axes = axes || o.Graph.Axes
	}
	// 負の値がなければ原点から描く
	if !negX {
		p.X.Min = 0
	}
	if !negY && p.Y.Min > 0 {
		p.Y.Min = 0
	}

	if grid {
		p.Add(plotter.NewGrid())
	}
	if axes {
		addAxes(p)
	}
}

func addAxes(p *plot.Plot) {
	xmin, xmax, ymin, ymax := p.X.Min, p.X.Max, p.Y.Min, p.Y.Max
	style := draw.LineStyle{Color: color.Black, Width: vg.Points(1)}
	if xmin <= 0 && xmax >= 0 {
		v, err := plotter.NewLine(plotter.XYs{{X: 0, Y: ymin}, {X: 0, Y: ymax}})
		if err == nil {
			v.LineStyle = style
			p.Add(v)
		}
	}
	if ymin <= 0 && ymax >= 0 {
		h, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
		if err == nil {
			h.LineStyle = style
			p.Add(h)
		}
	}
}
