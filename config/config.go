// Package config loads batch job files that describe several models to fit
// and how to render them. Jobs are written in YAML or HCL:
//
//	libraries = ["math"]
//	policy    = "strict"
//
//	render {
//	  ncols = 2
//	  out   = "fits.png"
//	}
//
//	model {
//	  equation = "y = a*x + b"
//	  x        = [0, 1, 2, 3]
//	  y        = [1, 3, 5, 7]
//	  guide_x  = 5
//	}
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/YuminosukeSato/curvefit/chart"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/report"
	"github.com/YuminosukeSato/curvefit/session"
)

// AppName names the XDG directories.
const AppName = "curvefit"

const (
	// DefaultPolicy is used when a job does not set one.
	DefaultPolicy = "best-effort"
	// DefaultFormat is the default report format.
	DefaultFormat = "text"
	// DefaultOutputFile is the chart file name used when render.out is empty.
	DefaultOutputFile = "curvefit.png"
	// DefaultDBFile is the history database file name.
	DefaultDBFile = "history.db"
)

// Validation errors.
var (
	ErrNoModels          = errors.New("job has no model")
	ErrEmptyEquation     = errors.New("equation is empty")
	ErrEmptySamples      = errors.New("x and y must not be empty")
	ErrLengthMismatch    = errors.New("x and y have different lengths")
	ErrInvalidPolicy     = errors.New("policy must be 'strict' or 'best-effort'")
	ErrInvalidFormat     = errors.New("unsupported report format")
	ErrInvalidChart      = errors.New("output extension must be .png, .svg or .pdf")
	ErrInvalidColumns    = errors.New("ncols must not be negative")
	ErrInvalidDigits     = errors.New("digits must not be negative")
	ErrInvalidConcurrent = errors.New("concurrency must not be negative")
)

// Render is the render block of a job.
type Render struct {
	Superposed bool   `yaml:"superposed" hcl:"superposed,optional"`
	Columns    int    `yaml:"ncols" hcl:"ncols,optional"`
	Out        string `yaml:"out" hcl:"out,optional"`
	Format     string `yaml:"format" hcl:"format,optional"`
}

// Model is one model block.
type Model struct {
	Equation string    `yaml:"equation" hcl:"equation"`
	X        []float64 `yaml:"x" hcl:"x"`
	Y        []float64 `yaml:"y" hcl:"y"`
	Title    string    `yaml:"title" hcl:"title,optional"`
	XLabel   string    `yaml:"x_label" hcl:"x_label,optional"`
	YLabel   string    `yaml:"y_label" hcl:"y_label,optional"`
	XSymbol  string    `yaml:"x_symbol" hcl:"x_symbol,optional"`
	YSymbol  string    `yaml:"y_symbol" hcl:"y_symbol,optional"`
	Digits   int       `yaml:"digits" hcl:"digits,optional"`
	GuideX   *float64  `yaml:"guide_x" hcl:"guide_x,optional"`
	Grid     bool      `yaml:"grid" hcl:"grid,optional"`
	Axes     bool      `yaml:"axes" hcl:"axes,optional"`
}

// Job is a batch of models.
type Job struct {
	Libraries   []string `yaml:"libraries" hcl:"libraries,optional"`
	Policy      string   `yaml:"policy" hcl:"policy,optional"`
	Concurrency int      `yaml:"concurrency" hcl:"concurrency,optional"`
	Render      *Render  `yaml:"render" hcl:"render,block"`
	Models      []Model  `yaml:"models" hcl:"model,block"`
}

// NewJob returns an empty job with default settings.
func NewJob() *Job {
	j := &Job{}
	j.applyDefaults()
	return j
}

func (j *Job) applyDefaults() {
	if j.Policy == "" {
		j.Policy = DefaultPolicy
	}
	if j.Render == nil {
		j.Render = &Render{}
	}
	if j.Render.Format == "" {
		j.Render.Format = DefaultFormat
	}
}

// Validate returns the first problem found, wrapping one of the Err*
// sentinels.
func (j *Job) Validate() error {
	if _, err := session.ParsePolicy(j.Policy); err != nil {
		return errors.Wrapf(ErrInvalidPolicy, "policy %q", j.Policy)
	}
	if j.Concurrency < 0 {
		return ErrInvalidConcurrent
	}
	if j.Render != nil {
		if j.Render.Columns < 0 {
			return ErrInvalidColumns
		}
		if j.Render.Format != "" && !contains(report.Formats, normalizeFormat(j.Render.Format)) {
			return errors.Wrapf(ErrInvalidFormat, "format %q", j.Render.Format)
		}
		if j.Render.Out != "" {
			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(j.Render.Out)), ".")
			if !contains(chart.Formats, ext) {
				return errors.Wrapf(ErrInvalidChart, "out %q", j.Render.Out)
			}
		}
	}
	if len(j.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range j.Models {
		if err := m.validate(); err != nil {
			return errors.Wrapf(err, "model %d", i+1)
		}
	}
	return nil
}

func (m Model) validate() error {
	switch {
	case strings.TrimSpace(m.Equation) == "":
		return ErrEmptyEquation
	case len(m.X) == 0 || len(m.Y) == 0:
		return ErrEmptySamples
	case len(m.X) != len(m.Y):
		return ErrLengthMismatch
	case m.Digits < 0:
		return ErrInvalidDigits
	}
	return nil
}

// DrawOptions converts the model's display settings.
func (m Model) DrawOptions() []session.DrawOption {
	opts := []session.DrawOption{
		session.WithTitle(m.Title),
		session.WithAxisLabels(m.XLabel, m.YLabel),
		session.WithSymbols(m.XSymbol, m.YSymbol),
		session.WithDigits(m.Digits),
		session.WithGrid(m.Grid),
		session.WithAxes(m.Axes),
	}
	if m.GuideX != nil {
		opts = append(opts, session.WithGuideX(*m.GuideX))
	}
	return opts
}

// Session builds a Session with the job's libraries and policy and draws
// every model. Extra options are applied after the job's own.
func (j *Job) Session(opts ...session.Option) (*session.Session, error) {
	policy, err := session.ParsePolicy(j.Policy)
	if err != nil {
		return nil, err
	}
	base := []session.Option{session.WithPolicy(policy)}
	if j.Concurrency > 0 {
		base = append(base, session.WithConcurrency(j.Concurrency))
	}
	s := session.New(append(base, opts...)...)

	if len(j.Libraries) > 0 {
		if err := s.ImportLibraries(j.Libraries...); err != nil {
			return nil, err
		}
	}
	for i, m := range j.Models {
		if err := s.Draw(m.Equation, m.X, m.Y, m.DrawOptions()...); err != nil {
			return nil, errors.Wrapf(err, "model %d", i+1)
		}
	}
	return s, nil
}

// ChartOptions returns the layout of the render block.
func (j *Job) ChartOptions() []chart.Option {
	if j.Render == nil {
		return nil
	}
	return []chart.Option{
		chart.WithSuperposed(j.Render.Superposed),
		chart.WithColumns(j.Render.Columns),
	}
}

// OutputPath returns render.out, or the default chart file in the XDG data
// directory.
func (j *Job) OutputPath() string {
	if j.Render != nil && j.Render.Out != "" {
		return j.Render.Out
	}
	return filepath.Join(DataDir(), DefaultOutputFile)
}

// DataDir returns the XDG data directory of curvefit,
// e.g. ~/.local/share/curvefit on Linux.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultDBPath returns the history database path in DataDir.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), DefaultDBFile)
}

func normalizeFormat(f string) string {
	switch f = strings.ToLower(f); f {
	case "md":
		return "markdown"
	case "txt":
		return "text"
	}
	return f
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
