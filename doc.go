// Package curvefit fits text equations to sample data in Go.
//
// An equation such as "y = a*x + b" is compiled into an evaluable model
// whose single-letter identifiers other than x are free parameters. The
// parameters are estimated by Levenberg–Marquardt nonlinear least squares,
// written back into the equation text at their original columns
// ("y = 1.97*x + 1.07") and reported together with R².
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/curvefit/curve"
//	)
//
//	func main() {
//	    reg, err := curve.New("y = a*x + b")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    x := []float64{0, 1, 2, 3, 4, 5}
//	    y := []float64{1, 3, 5, 7, 9.5, 10.5}
//	    if err := reg.Fit(context.Background(), x, y); err != nil {
//	        log.Fatal(err)
//	    }
//	    l, _ := reg.Label()
//	    fmt.Println(l.Legend())
//	    // Model: y = 1.97*x + 1.07
//	    // R² = 0.9929
//	}
//
// Several models are drawn and rendered together with a session:
//
//	s := session.New(session.WithPolicy(session.Strict))
//	_ = s.ImportLibraries("math")
//	_ = s.Draw("y = a*math.exp(-x/t)", x, y, session.WithTitle("decay"))
//	outs, err := s.Render(ctx)
//	_ = chart.Save("decay.png", outs)
//
// # Packages
//
//   - expr: equation parsing, parameter extraction and compilation
//   - fit: Levenberg–Marquardt curve fitting with covariance estimate
//   - label: significant-digit rounding and label rendering
//   - curve: Regressor with Fit/Predict/Score over one equation
//   - session: Draw/Render of several models with a failure policy
//   - chart: gonum/plot rendering of outcomes (PNG, SVG, PDF)
//   - report: text, Markdown and JSON reports
//   - config: YAML and HCL job files
//   - store: SQLite fit history
//   - metrics: R², RMSE, MAE and SSR
//   - core/model: estimator state and exported weights
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error types and structured logging
//
// The curvefit command (cmd/curvefit) exposes fit, run and history from
// the shell.
package curvefit
