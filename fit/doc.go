// Package fit implements nonlinear least squares curve fitting with the
// Levenberg–Marquardt algorithm.
//
// CurveFit minimises Σ(yᵢ − f(xᵢ, p))² over the free parameters p of a
// one-variable model and estimates their covariance as
// (JᵀJ)⁻¹ · SSR/(m−n). The Jacobian is approximated with central
// differences (gonum diff/fd) and the damped normal equations are solved by
// Cholesky factorisation (gonum mat).
//
//	res, err := fit.CurveFit(ctx, model, x, y, fit.WithInitialGuess(1, 0))
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Params, res.StdErrors)
package fit
