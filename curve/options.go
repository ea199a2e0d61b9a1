package curve

import (
	"github.com/YuminosukeSato/curvefit/expr"
	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

// Option is a function that configures a Regressor.
type Option func(*Regressor)

// WithEnvironment sets the library environment used to compile the equation.
func WithEnvironment(env *expr.Environment) Option {
	return func(r *Regressor) {
		r.env = env
	}
}

// WithFitOptions passes options through to fit.CurveFit.
func WithFitOptions(opts ...fit.Option) Option {
	return func(r *Regressor) {
		r.fitOpts = append(r.fitOpts, opts...)
	}
}

// WithLabelOptions passes options through to label.Render.
func WithLabelOptions(opts ...label.Option) Option {
	return func(r *Regressor) {
		r.labelOpts = append(r.labelOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(r *Regressor) {
		r.logger = l
	}
}
