package fit

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// Model is a function of one independent variable and Arity()-1 free
// parameters. *expr.CompiledModel satisfies it.
type Model interface {
	At(x float64, params []float64) float64
	Arity() int
}

// Result holds the fitted parameters of a successful fit.
type Result struct {
	// Params are aligned with the model's free parameters.
	Params []float64
	// Covariance is the estimated covariance of Params.
	Covariance *mat.SymDense
	// StdErrors are the square roots of the covariance diagonal.
	StdErrors []float64
	// CovarianceFinite is false when there are exactly as many samples as
	// parameters; the fit interpolates and the covariance is +Inf.
	CovarianceFinite bool
	Iterations       int
	Evaluations      int
	// Cost is the final sum of squared residuals.
	Cost   float64
	Reason StopReason
}

// CurveFit fits the free parameters of model to the samples (x, y).
func CurveFit(ctx context.Context, model Model, x, y []float64, opts ...Option) (*Result, error) {
	const op = "fit.CurveFit"
	if model.Arity() < 2 {
		return nil, errors.NewValueError(op, "model has no free parameter")
	}
	if err := ValidateSamples(op, x, y); err != nil {
		return nil, err
	}

	s := newSettings(opts)
	n := model.Arity() - 1
	p0 := make([]float64, n)
	switch {
	case s.p0 == nil:
		for i := range p0 {
			p0[i] = 1
		}
	case len(s.p0) != n:
		return nil, errors.NewValidationError("p0", fmt.Sprintf("expected %d initial values", n), s.p0)
	default:
		copy(p0, s.p0)
	}
	if s.maxIterations <= 0 {
		s.maxIterations = 200 * (n + 1)
	}

	name := modelName(model)
	if len(x) < n {
		return nil, errors.NewFitError(name, fmt.Sprintf("%d samples for %d parameters", len(x), n), 0, errors.ErrUnderdetermined)
	}
	pr := &problem{model: model, x: x, y: y, threshold: s.parallelThreshold}
	sol, err := levenbergMarquardt(ctx, pr, name, p0, s)
	if err != nil {
		return nil, err
	}

	cov, finite, err := covariance(sol.normal, sol.cost, len(x), n)
	if err != nil {
		return nil, errors.NewFitError(name, "covariance cannot be estimated", sol.iterations, err)
	}

	stdErr := make([]float64, n)
	for i := range stdErr {
		stdErr[i] = math.Sqrt(cov.At(i, i))
	}

	return &Result{
		Params:           sol.params,
		Covariance:       cov,
		StdErrors:        stdErr,
		CovarianceFinite: finite,
		Iterations:       sol.iterations,
		Evaluations:      pr.evals,
		Cost:             2 * sol.cost,
		Reason:           sol.reason,
	}, nil
}

// ValidateSamples checks that x and y are non-empty, of equal length and finite.
func ValidateSamples(op string, x, y []float64) error {
	switch {
	case len(x) == 0 || len(y) == 0:
		return errors.NewInvalidDataError(op, "no samples", len(x), len(y))
	case len(x) != len(y):
		return errors.NewInvalidDataError(op, "x and y differ in length", len(x), len(y))
	case !errors.AllFinite(x):
		return errors.NewInvalidDataError(op, "x contains NaN or Inf", len(x), len(y))
	case !errors.AllFinite(y):
		return errors.NewInvalidDataError(op, "y contains NaN or Inf", len(x), len(y))
	}
	return nil
}

func modelName(m Model) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return "model"
}
