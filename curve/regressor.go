// Package curve provides Regressor, an estimator that fits the free
// parameters of a text equation.
package curve

import (
	"context"
	"math"
	"time"

	"github.com/YuminosukeSato/curvefit/core/model"
	"github.com/YuminosukeSato/curvefit/expr"
	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/metrics"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

// ModelType identifies Regressor in exported weights.
const ModelType = "curve.Regressor"

// Regressor は式で表されたモデルの非線形最小二乗回帰
type Regressor struct {
	model.BaseEstimator

	equation expr.Equation
	compiled *expr.CompiledModel
	env      *expr.Environment

	fitOpts   []fit.Option
	labelOpts []label.Option
	logger    log.Logger

	result *fit.Result
	values []float64
	r2     float64
}

var _ model.Regressor = (*Regressor)(nil)

// New parses and compiles equation. It fails with ParseError or CompileError.
func New(equation string, opts ...Option) (*Regressor, error) {
	r := &Regressor{}
	for _, opt := range opts {
		opt(r)
	}
	if r.env == nil {
		r.env = expr.DefaultEnvironment()
	}
	if r.logger == nil {
		r.logger = log.GetLogger()
	}
	r.logger = r.logger.With(log.ComponentKey, "curve", log.EquationKey, equation)

	eq, err := expr.ParseEquation(equation)
	if err != nil {
		return nil, err
	}
	compiled, err := eq.Compile(r.env)
	if err != nil {
		return nil, err
	}
	r.equation = eq
	r.compiled = compiled
	return r, nil
}

// Fit はサンプル (x, y) に対して自由パラメータを推定する。
// 自由パラメータがない場合は最適化をせず NoFit 状態になる。
func (r *Regressor) Fit(ctx context.Context, x, y []float64) error {
	const op = "Regressor.Fit"
	r.Reset()
	r.result, r.values = nil, nil

	if err := fit.ValidateSamples(op, x, y); err != nil {
		return err
	}

	start := time.Now()
	if r.compiled.NoFit() {
		r.SetNoFit()
	} else {
		res, err := fit.CurveFit(ctx, r.compiled, x, y, r.fitOpts...)
		if err != nil {
			r.logger.Debug("fit failed", err, log.SamplesKey, len(x))
			return err
		}
		r.result = res
		r.values = res.Params
		r.SetFitted()
	}

	r2, err := r.Score(x, y)
	if err != nil {
		r.Reset()
		return err
	}
	r.r2 = r2

	r.logger.Debug("model fitted",
		log.StatusKey, r.State().String(),
		log.SamplesKey, len(x),
		log.R2ScoreKey, r2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は各 x に対する予測値を返す
func (r *Regressor) Predict(x []float64) ([]float64, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "Predict")
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = r.compiled.At(v, r.values)
	}
	return out, nil
}

// Score は決定係数 R² を返す
func (r *Regressor) Score(x, y []float64) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("Regressor", "Score")
	}
	pred, err := r.Predict(x)
	if err != nil {
		return 0, err
	}
	return metrics.R2(y, pred)
}

// Label renders the equation with the fitted values substituted.
func (r *Regressor) Label() (label.Label, error) {
	if !r.IsFitted() {
		return label.Label{}, errors.NewNotFittedError("Regressor", "Label")
	}
	return label.Render(label.Input{
		Equation: r.equation,
		Expr:     r.compiled.Expr,
		Values:   r.values,
		R2:       r.r2,
	}, r.labelOpts...)
}

// Eval evaluates the fitted model at a single x.
func (r *Regressor) Eval(x float64) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("Regressor", "Eval")
	}
	return r.compiled.At(x, r.values), nil
}

// Params maps every free parameter to its fitted value.
func (r *Regressor) Params() map[string]float64 {
	out := make(map[string]float64, len(r.values))
	for i, name := range r.compiled.Params().Free() {
		if i < len(r.values) {
			out[name] = r.values[i]
		}
	}
	return out
}

// Values returns the fitted values aligned with Model().Params().Free().
func (r *Regressor) Values() []float64 { return append([]float64(nil), r.values...) }

// Result returns the solver result, or nil for no-fit models.
func (r *Regressor) Result() *fit.Result { return r.result }

// R2 returns the R² computed on the training samples.
func (r *Regressor) R2() float64 { return r.r2 }

// Model returns the compiled model.
func (r *Regressor) Model() *expr.CompiledModel { return r.compiled }

// Equation returns the parsed equation.
func (r *Regressor) Equation() expr.Equation { return r.equation }

// ExportWeights は学習結果をシリアライズ可能な形式で返す
func (r *Regressor) ExportWeights() (*model.ModelWeights, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "ExportWeights")
	}
	mw := &model.ModelWeights{
		ModelType:  ModelType,
		Version:    model.WeightsVersion,
		Equation:   r.equation.Text,
		Parameters: append([]string(nil), r.compiled.Params().Free()...),
		Values:     r.Values(),
		Metadata:   map[string]interface{}{},
		IsFitted:   true,
	}
	if !math.IsNaN(r.r2) && !math.IsInf(r.r2, 0) {
		mw.Metadata["r2"] = r.r2
	}
	if mw.Parameters == nil {
		mw.Parameters = []string{}
		mw.Values = []float64{}
	}
	if r.result != nil && r.result.CovarianceFinite {
		mw.StdErrors = append([]float64(nil), r.result.StdErrors...)
	}
	return mw, mw.Validate()
}

// FromWeights rebuilds a fitted Regressor from exported weights.
func FromWeights(mw *model.ModelWeights, opts ...Option) (*Regressor, error) {
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	if mw.ModelType != ModelType {
		return nil, errors.NewValidationError("model_type", "unsupported model type", mw.ModelType)
	}
	r, err := New(mw.Equation, opts...)
	if err != nil {
		return nil, err
	}
	free := r.compiled.Params().Free()
	if len(free) != len(mw.Parameters) {
		return nil, errors.NewValidationError("parameters", "do not match the equation", mw.Parameters)
	}
	for i, name := range free {
		if mw.Parameters[i] != name {
			return nil, errors.NewValidationError("parameters", "do not match the equation", mw.Parameters)
		}
	}
	if r2, ok := mw.Metadata["r2"].(float64); ok {
		r.r2 = r2
	}
	if len(free) == 0 {
		r.SetNoFit()
		return r, nil
	}
	r.values = append([]float64(nil), mw.Values...)
	r.SetFitted()
	return r, nil
}
