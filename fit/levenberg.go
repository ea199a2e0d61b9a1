package fit

import (
	"context"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/curvefit/core/parallel"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

// StopReason tells which criterion ended a successful fit.
type StopReason string

const (
	StopExact    StopReason = "exact"
	StopCost     StopReason = "ftol"
	StopStep     StopReason = "xtol"
	StopGradient StopReason = "gtol"
)

// 条件数がこれを超えると JᵀJ は特異とみなす
const maxCondition = 1e15

// problem は残差関数とその評価回数を保持する
type problem struct {
	model     Model
	x, y      []float64
	threshold int
	evals     int
}

// residuals computes f(xᵢ, p) − yᵢ into dst.
func (pr *problem) residuals(dst, params []float64) {
	pr.evals++
	parallel.ParallelizeWithThreshold(len(pr.x), pr.threshold, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = pr.model.At(pr.x[i], params) - pr.y[i]
		}
	})
}

func (pr *problem) jacobian(dst *mat.Dense, params []float64) {
	fd.Jacobian(dst, pr.residuals, params, &fd.JacobianSettings{Formula: fd.Central})
}

// solution is the solver state at termination.
type solution struct {
	params     []float64
	normal     *mat.SymDense // JᵀJ at params
	cost       float64       // ½‖r‖²
	iterations int
	reason     StopReason
}

// levenbergMarquardt は Nielsen の減衰更新を用いた LM 法で残差二乗和を最小化する
func levenbergMarquardt(ctx context.Context, pr *problem, name string, p0 []float64, s *settings) (*solution, error) {
	m, n := len(pr.x), len(p0)
	logger := s.logger.With(log.ComponentKey, "fit", log.EquationKey, name)

	p := append([]float64(nil), p0...)
	r := make([]float64, m)
	pr.residuals(r, p)
	if !errors.AllFinite(r) {
		return nil, errors.NewFitError(name, "residuals are not finite at the initial guess", 0,
			errors.NewNumericalInstabilityError("residuals", r, 0))
	}
	cost := 0.5 * floats.Dot(r, r)

	jac := mat.NewDense(m, n, nil)
	normal := mat.NewSymDense(n, nil)
	grad := mat.NewVecDense(n, nil)
	linearize := func() {
		pr.jacobian(jac, p)
		normal.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(m, r))
	}
	linearize()

	done := func(iter int, reason StopReason) *solution {
		logger.Debug("levenberg-marquardt converged",
			log.IterationKey, iter,
			log.EvaluationsKey, pr.evals,
			log.CostKey, 2*cost,
			"solver.reason", string(reason),
		)
		return &solution{params: p, normal: normal, cost: cost, iterations: iter, reason: reason}
	}

	if cost == 0 {
		return done(0, StopExact), nil
	}
	if mat.Norm(grad, math.Inf(1)) <= s.gtol {
		return done(0, StopGradient), nil
	}

	mu := s.tau * maxDiag(normal)
	if mu == 0 {
		mu = s.tau
	}
	nu := 2.0

	scale := make([]float64, n)
	delta := make([]float64, n)
	pNew := make([]float64, n)
	rNew := make([]float64, m)
	damped := mat.NewSymDense(n, nil)
	negGrad := mat.NewVecDense(n, nil)
	var step mat.VecDense
	var chol mat.Cholesky

	for iter := 1; iter <= s.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewFitError(name, "cancelled", iter-1, err)
		}

		// (JᵀJ + μ·diag(JᵀJ)) δ = −Jᵀr
		damped.CopySym(normal)
		for i := 0; i < n; i++ {
			d := normal.At(i, i)
			if d <= 0 {
				d = 1
			}
			scale[i] = d
			damped.SetSym(i, i, normal.At(i, i)+mu*d)
		}
		negGrad.ScaleVec(-1, grad)
		if !chol.Factorize(damped) {
			mu *= nu
			nu *= 2
			continue
		}
		if err := chol.SolveVecTo(&step, negGrad); err != nil {
			mu *= nu
			nu *= 2
			continue
		}
		for i := range delta {
			delta[i] = step.AtVec(i)
		}

		if floats.Norm(delta, 2) <= s.xtol*(floats.Norm(p, 2)+s.xtol) {
			return done(iter, StopStep), nil
		}

		floats.AddTo(pNew, p, delta)
		pr.residuals(rNew, pNew)
		newCost := math.Inf(1)
		if errors.AllFinite(rNew) {
			newCost = 0.5 * floats.Dot(rNew, rNew)
		}

		// 予測減少量 ½ δᵀ(μDδ − g)
		predicted := 0.0
		for i := range delta {
			predicted += delta[i] * (mu*scale[i]*delta[i] - grad.AtVec(i))
		}
		predicted *= 0.5

		rho := -1.0
		if predicted > 0 {
			rho = (cost - newCost) / predicted
		}

		if rho > 0 {
			actual := cost - newCost
			oldCost := cost
			copy(p, pNew)
			copy(r, rNew)
			cost = newCost
			linearize()
			mu *= math.Max(1.0/3.0, 1-math.Pow(2*rho-1, 3))
			nu = 2

			logger.Debug("levenberg-marquardt step accepted",
				log.IterationKey, iter,
				log.CostKey, 2*cost,
				log.DampingKey, mu,
			)

			switch {
			case cost == 0:
				return done(iter, StopExact), nil
			case actual <= s.ftol*oldCost && predicted <= s.ftol*oldCost && rho <= 2:
				return done(iter, StopCost), nil
			case mat.Norm(grad, math.Inf(1)) <= s.gtol:
				return done(iter, StopGradient), nil
			}
			continue
		}

		mu *= nu
		nu *= 2
		if math.IsInf(mu, 0) || math.IsInf(nu, 0) {
			return nil, errors.NewFitError(name, "damping factor overflowed", iter, errors.ErrNotConverged)
		}
	}

	errors.Warn(errors.NewConvergenceWarning("LevenbergMarquardt", s.maxIterations, "iteration limit reached"))
	return nil, errors.NewFitError(name, "iteration limit reached", s.maxIterations, errors.ErrNotConverged)
}

// covariance returns (JᵀJ)⁻¹ · SSR/(m−n). JᵀJ must be well conditioned in
// every case; with m == n the variance is undefined and every entry is +Inf.
func covariance(normal *mat.SymDense, cost float64, m, n int) (*mat.SymDense, bool, error) {
	var chol mat.Cholesky
	if !chol.Factorize(normal) || chol.Cond() > maxCondition {
		return nil, false, errors.ErrSingularMatrix
	}
	cov := mat.NewSymDense(n, nil)
	if m <= n {
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				cov.SetSym(i, j, math.Inf(1))
			}
		}
		return cov, false, nil
	}

	if err := chol.InverseTo(cov); err != nil {
		return nil, false, errors.Wrap(errors.ErrSingularMatrix, err.Error())
	}
	cov.ScaleSym(2*cost/float64(m-n), cov)
	if err := errors.CheckMatrix("covariance", cov, n, n, 0); err != nil {
		return nil, false, err
	}
	return cov, true, nil
}

func maxDiag(a *mat.SymDense) float64 {
	n := a.SymmetricDim()
	out := 0.0
	for i := 0; i < n; i++ {
		out = math.Max(out, a.At(i, i))
	}
	return out
}
