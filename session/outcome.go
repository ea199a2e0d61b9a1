package session

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/curvefit/curve"
	"github.com/YuminosukeSato/curvefit/expr"
	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

// Status is the result class of one model.
type Status string

const (
	StatusFitted Status = log.StatusFitted
	StatusNoFit  Status = log.StatusNoFit
	StatusFailed Status = log.StatusFailed
)

// Point is a sample of the fitted curve.
type Point struct {
	X, Y float64
}

// Outcome is the result of rendering one Graph.
type Outcome struct {
	Index int
	Graph Graph
	// Regressor is nil when the equation did not compile.
	Regressor *curve.Regressor
	Model     *expr.CompiledModel
	// Result is nil for no-fit and failed models.
	Result *fit.Result
	Params map[string]float64
	Label  label.Label
	R2     float64
	Status Status
	// Curve samples the fitted model across the plotted range.
	Curve []Point
	// Guide is the curve point at Graph.GuideX.
	Guide *Point
	// NegativeX and NegativeY tell whether the plot must extend below zero.
	NegativeX bool
	NegativeY bool
	Err       error
}

// OK reports whether the model produced a label.
func (o Outcome) OK() bool { return o.Status != StatusFailed }

// Failed returns the outcomes whose pipeline failed.
func Failed(outs []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outs {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// sampleRange returns the plotted abscissa range: it always contains 0,
// the samples and the guide abscissa, padded by 10%.
func sampleRange(g Graph) (lo, hi float64) {
	lo = floats.Min(g.X)
	hi = floats.Max(g.X)
	if g.GuideX != nil {
		lo = min(lo, *g.GuideX)
		hi = max(hi, *g.GuideX)
	}
	lo = min(lo, 0)
	return lo * 1.1, hi * 1.1
}

func sampleCurve(r *curve.Regressor, g Graph, n int) ([]Point, bool) {
	lo, hi := sampleRange(g)
	xs := floats.Span(make([]float64, n), lo, hi)
	ys, err := r.Predict(xs)
	if err != nil {
		return nil, false
	}
	negative := false
	pts := make([]Point, n)
	for i := range xs {
		pts[i] = Point{X: xs[i], Y: ys[i]}
		if ys[i] < 0 {
			negative = true
		}
	}
	return pts, negative
}
