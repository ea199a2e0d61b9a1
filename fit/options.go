package fit

import "github.com/YuminosukeSato/curvefit/pkg/log"

// Default solver settings.
const (
	DefaultFTol            = 1.49012e-8
	DefaultXTol            = 1.49012e-8
	DefaultGTol            = 1e-12
	DefaultInitialDamping  = 1e-3
	DefaultParallelSamples = 4096
)

// Option configures CurveFit.
type Option func(*settings)

type settings struct {
	p0                []float64
	maxIterations     int
	ftol, xtol, gtol  float64
	tau               float64
	parallelThreshold int
	logger            log.Logger
}

func newSettings(opts []Option) *settings {
	s := &settings{
		ftol:              DefaultFTol,
		xtol:              DefaultXTol,
		gtol:              DefaultGTol,
		tau:               DefaultInitialDamping,
		parallelThreshold: DefaultParallelSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	return s
}

// WithInitialGuess sets the starting point. Without it every parameter starts at 1.
func WithInitialGuess(p0 ...float64) Option {
	return func(s *settings) {
		s.p0 = append([]float64(nil), p0...)
	}
}

// WithMaxIterations bounds the number of solver iterations.
// The default is 200*(n+1) for n free parameters.
func WithMaxIterations(n int) Option {
	return func(s *settings) {
		s.maxIterations = n
	}
}

// WithTolerances sets the relative cost, step and gradient tolerances.
// Non-positive values keep the defaults.
func WithTolerances(ftol, xtol, gtol float64) Option {
	return func(s *settings) {
		if ftol > 0 {
			s.ftol = ftol
		}
		if xtol > 0 {
			s.xtol = xtol
		}
		if gtol > 0 {
			s.gtol = gtol
		}
	}
}

// WithInitialDamping sets tau; the first damping factor is tau*max(diag(JᵀJ)).
func WithInitialDamping(tau float64) Option {
	return func(s *settings) {
		s.tau = tau
	}
}

// WithParallelThreshold sets the sample count above which residuals are
// evaluated in parallel.
func WithParallelThreshold(n int) Option {
	return func(s *settings) {
		s.parallelThreshold = n
	}
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(l log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
