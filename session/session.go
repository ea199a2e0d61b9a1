// Package session collects models with Draw and fits them all with Render.
//
//	s := session.New()
//	_ = s.Draw("y = a*x + b", x, y, session.WithTitle("calibration"))
//	outs, err := s.Render(ctx)
//
// A Session replaces the package-level graph list and error flag of a
// plotting script: every call site gets its own Session and nothing is
// shared between them.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/curvefit/core/parallel"
	"github.com/YuminosukeSato/curvefit/curve"
	"github.com/YuminosukeSato/curvefit/expr"
	"github.com/YuminosukeSato/curvefit/fit"
	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

// Policy decides what Render does when one model fails.
type Policy int

const (
	// BestEffort records the failure in the model's Outcome and continues.
	BestEffort Policy = iota
	// Strict stops at the first failure and returns its error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "best-effort"
}

// ParsePolicy parses "strict" or "best-effort" (the empty string is best-effort).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best-effort", "besteffort", "best_effort":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	}
	return BestEffort, errors.NewValidationError("policy", "must be 'strict' or 'best-effort'", s)
}

// DefaultSamples is the number of points sampled along each fitted curve.
const DefaultSamples = 100

// Session holds queued graphs and the library environment.
type Session struct {
	mu      sync.Mutex
	env     *expr.Environment
	libs    []string
	graphs  []Graph
	policy  Policy
	workers int
	samples int
	fitOpts []fit.Option
	logger  log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(s *Session) { s.policy = p }
}

// WithConcurrency renders up to n models at the same time.
func WithConcurrency(n int) Option {
	return func(s *Session) { s.workers = n }
}

// WithSamples sets how many points are sampled along each curve (at least 2).
func WithSamples(n int) Option {
	return func(s *Session) {
		if n >= 2 {
			s.samples = n
		}
	}
}

// WithEnvironment replaces the default library environment.
func WithEnvironment(env *expr.Environment) Option {
	return func(s *Session) { s.env = env }
}

// WithFitOptions passes solver options to every fit.
func WithFitOptions(opts ...fit.Option) Option {
	return func(s *Session) { s.fitOpts = append(s.fitOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates an empty Session.
func New(opts ...Option) *Session {
	s := &Session{
		env:     expr.DefaultEnvironment(),
		samples: DefaultSamples,
		workers: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ComponentKey, "session")
	return s
}

// ImportLibraries makes libraries available to later equations, e.g.
// ImportLibraries("math", "numpy as n"). "np" stays bound.
func (s *Session) ImportLibraries(specs ...string) error {
	env, err := expr.ResolveLibraries(specs...)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
	s.libs = append([]string(nil), specs...)
	s.logger.Debug("libraries imported", "libraries", strings.Join(specs, ","))
	return nil
}

// Libraries returns the import specs of the last ImportLibraries call.
func (s *Session) Libraries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.libs...)
}

// Draw validates the equation form and the samples and queues the graph.
// It fails with ParseError or InvalidDataError; nothing is queued then.
func (s *Session) Draw(equation string, x, y []float64, opts ...DrawOption) error {
	if _, err := expr.ParseEquation(equation); err != nil {
		return err
	}
	if err := fit.ValidateSamples("session.Draw", x, y); err != nil {
		return err
	}
	g := newGraph(equation, x, y, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs = append(s.graphs, g)
	return nil
}

// Graphs returns a copy of the queued graphs.
func (s *Session) Graphs() []Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Graph(nil), s.graphs...)
}

// Reset drops every queued graph.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs = nil
}

// Render fits every queued graph. Under BestEffort the error is always nil
// and failures are reported per Outcome. Under Strict the first failure is
// returned together with the outcomes completed so far, in graph order;
// graphs cancelled because of that failure are left out.
func (s *Session) Render(ctx context.Context) ([]Outcome, error) {
	s.mu.Lock()
	graphs := append([]Graph(nil), s.graphs...)
	env := s.env
	s.mu.Unlock()

	s.logger.Info("rendering models",
		log.BatchSizeKey, len(graphs),
		"policy", s.policy.String(),
		"workers", s.workers,
	)

	outs := make([]Outcome, len(graphs))
	switch {
	case s.workers > 1 && s.policy == Strict:
		return s.renderStrict(ctx, env, graphs)
	case s.workers > 1:
		parallel.ParallelizeWorkers(len(graphs), s.workers, func(start, end int) {
			for i := start; i < end; i++ {
				outs[i] = s.run(ctx, env, i, graphs[i])
			}
		})
	default:
		for i := range graphs {
			outs[i] = s.run(ctx, env, i, graphs[i])
			if s.policy == Strict && outs[i].Err != nil {
				return outs[:i+1], outs[i].Err
			}
		}
	}
	return outs, nil
}

// renderStrict は errgroup で並列に処理し、最初の失敗で残りを打ち切る
func (s *Session) renderStrict(ctx context.Context, env *expr.Environment, graphs []Graph) ([]Outcome, error) {
	outs := make([]Outcome, len(graphs))
	done := make([]bool, len(graphs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range graphs {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			o := s.run(gctx, env, i, graphs[i])
			if o.Err != nil && ctx.Err() == nil && errors.Is(o.Err, context.Canceled) {
				// 他のモデルの失敗で打ち切られた
				return nil
			}
			outs[i], done[i] = o, true
			return o.Err
		})
	}
	err := g.Wait()

	completed := make([]Outcome, 0, len(graphs))
	for i, o := range outs {
		if done[i] {
			completed = append(completed, o)
		}
	}
	return completed, err
}

// run executes the pipeline of one graph and logs its outcome.
func (s *Session) run(ctx context.Context, env *expr.Environment, i int, g Graph) Outcome {
	start := time.Now()
	out, err := s.process(ctx, env, i, g)
	logger := s.logger.With(log.IndexKey, i, log.EquationKey, g.Equation)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		logger.Warn("model failed", err, log.StatusKey, string(StatusFailed))
		return out
	}
	logger.Info("model rendered",
		log.StatusKey, string(out.Status),
		log.ParametersKey, out.Model.Params().String(),
		log.LabelKey, out.Label.Text,
		log.R2ScoreKey, out.R2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out
}

func (s *Session) process(ctx context.Context, env *expr.Environment, i int, g Graph) (out Outcome, err error) {
	out = Outcome{Index: i, Graph: g, Status: StatusFailed}
	defer errors.Recover(&err, "session.process")

	reg, err := curve.New(g.Equation,
		curve.WithEnvironment(env),
		curve.WithFitOptions(s.fitOpts...),
		curve.WithLabelOptions(label.WithDigits(g.Digits), label.WithXSymbol(g.XSymbol), label.WithYSymbol(g.YSymbol)),
		curve.WithLogger(s.logger),
	)
	if err != nil {
		return out, err
	}
	out.Regressor = reg
	out.Model = reg.Model()

	if err = reg.Fit(ctx, g.X, g.Y); err != nil {
		return out, err
	}
	out.Result = reg.Result()
	out.Params = reg.Params()
	out.R2 = reg.R2()
	if out.Label, err = reg.Label(); err != nil {
		return out, err
	}

	out.Curve, out.NegativeY = sampleCurve(reg, g, s.samples)
	for _, v := range g.X {
		if v < 0 {
			out.NegativeX = true
			break
		}
	}
	if g.GuideX != nil {
		gy, _ := reg.Eval(*g.GuideX)
		out.Guide = &Point{X: *g.GuideX, Y: gy}
	}

	out.Status = StatusFitted
	if reg.Model().NoFit() {
		out.Status = StatusNoFit
	}
	return out, nil
}
