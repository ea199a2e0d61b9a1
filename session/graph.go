package session

import (
	"github.com/YuminosukeSato/curvefit/label"
)

// Graph is one model queued by Draw.
type Graph struct {
	Equation string
	X, Y     []float64

	Title  string
	XLabel string
	YLabel string
	// XSymbol and YSymbol replace x and y in the label ("t", "U(t)").
	XSymbol string
	YSymbol string
	// Digits is the number of significant digits of fitted values.
	Digits int
	// GuideX draws a guide from the x axis to the curve and across to the y
	// axis at this abscissa when non-nil.
	GuideX *float64
	Grid   bool
	Axes   bool
}

// DrawOption configures a Graph.
type DrawOption func(*Graph)

// WithTitle sets the plot title.
func WithTitle(title string) DrawOption {
	return func(g *Graph) { g.Title = title }
}

// WithAxisLabels sets the axis captions.
func WithAxisLabels(x, y string) DrawOption {
	return func(g *Graph) {
		g.XLabel = x
		g.YLabel = y
	}
}

// WithSymbols sets the display symbols of the variables in the label.
func WithSymbols(x, y string) DrawOption {
	return func(g *Graph) {
		if x != "" {
			g.XSymbol = x
		}
		if y != "" {
			g.YSymbol = y
		}
	}
}

// WithDigits sets the significant digits of fitted values in the label.
func WithDigits(n int) DrawOption {
	return func(g *Graph) {
		if n > 0 {
			g.Digits = n
		}
	}
}

// WithGuideX requests a guide line at abscissa x.
func WithGuideX(x float64) DrawOption {
	return func(g *Graph) { g.GuideX = &x }
}

// WithGrid toggles the background grid.
func WithGrid(on bool) DrawOption {
	return func(g *Graph) { g.Grid = on }
}

// WithAxes toggles the x=0 and y=0 axis lines.
func WithAxes(on bool) DrawOption {
	return func(g *Graph) { g.Axes = on }
}

func newGraph(equation string, x, y []float64, opts []DrawOption) Graph {
	g := Graph{
		Equation: equation,
		X:        append([]float64(nil), x...),
		Y:        append([]float64(nil), y...),
		XSymbol:  "x",
		YSymbol:  "y",
		Digits:   label.DefaultDigits,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}
