package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

const yamlJob = `
libraries: [math]
policy: strict
concurrency: 2
render:
  superposed: true
  ncols: 2
  out: fits.svg
  format: markdown
models:
  - equation: "y = a*x + b"
    x: [0, 1, 2, 3, 4, 5]
    y: [1, 3, 5, 7, 9.5, 10.5]
    title: linear
    x_label: "t (s)"
    y_label: "d (m)"
    x_symbol: t
    y_symbol: d
    guide_x: 6
    grid: true
    axes: true
  - equation: "y = a*math.sqrt(x)"
    x: [1, 4, 9, 16]
    y: [2, 4, 6, 8]
    digits: 2
`

const hclJob = `
libraries = ["math"]
policy    = "strict"

render {
  superposed = true
  ncols      = 2
  out        = "fits.svg"
  format     = "markdown"
}

model {
  equation = "y = a*x + b"
  x        = [0, 1, 2, 3, 4, 5]
  y        = [1, 3, 5, 7, 9.5, 10.5]
  title    = "linear"
  x_label  = "t (s)"
  y_label  = "d (m)"
  x_symbol = "t"
  y_symbol = "d"
  guide_x  = 6
  grid     = true
  axes     = true
}

model {
  equation = "y = a*math.sqrt(x)"
  x        = [1, 4, 9, 16]
  y        = [2, 4, 6, 8]
  digits   = 2
}
`

func assertJob(t *testing.T, job *Job) {
	t.Helper()
	require.NoError(t, job.Validate())
	assert.Equal(t, []string{"math"}, job.Libraries)
	assert.Equal(t, "strict", job.Policy)
	require.NotNil(t, job.Render)
	assert.True(t, job.Render.Superposed)
	assert.Equal(t, 2, job.Render.Columns)
	assert.Equal(t, "fits.svg", job.OutputPath())
	assert.Equal(t, "markdown", job.Render.Format)

	require.Len(t, job.Models, 2)
	m := job.Models[0]
	assert.Equal(t, "y = a*x + b", m.Equation)
	assert.Equal(t, []float64{1, 3, 5, 7, 9.5, 10.5}, m.Y)
	assert.Equal(t, "linear", m.Title)
	assert.Equal(t, "t (s)", m.XLabel)
	assert.Equal(t, "d", m.YSymbol)
	require.NotNil(t, m.GuideX)
	assert.Equal(t, 6.0, *m.GuideX)
	assert.True(t, m.Grid)
	assert.True(t, m.Axes)

	m = job.Models[1]
	assert.Equal(t, 2, m.Digits)
	assert.Nil(t, m.GuideX)
	assert.False(t, m.Grid)
}

func TestParseYAML(t *testing.T) {
	job, err := ParseYAML([]byte(yamlJob))
	require.NoError(t, err)
	assertJob(t, job)
	assert.Equal(t, 2, job.Concurrency)
}

func TestParseHCL(t *testing.T) {
	job, err := ParseHCL([]byte(hclJob), "job.hcl")
	require.NoError(t, err)
	assertJob(t, job)
}

func TestParseHCLErrors(t *testing.T) {
	_, err := ParseHCL([]byte(`model {`), "broken.hcl")
	assert.Error(t, err)

	_, err = ParseHCL([]byte("model {\n  x = [1]\n  y = [1]\n}\n"), "missing.hcl")
	assert.Error(t, err, "equation is required")
}

func TestDefaults(t *testing.T) {
	job, err := ParseYAML([]byte("models:\n  - equation: y = a*x\n    x: [1, 2]\n    y: [2, 4]\n"))
	require.NoError(t, err)
	require.NoError(t, job.Validate())

	assert.Equal(t, DefaultPolicy, job.Policy)
	assert.Equal(t, DefaultFormat, job.Render.Format)
	assert.Equal(t, filepath.Join(DataDir(), DefaultOutputFile), job.OutputPath())
	assert.Equal(t, filepath.Join(DataDir(), DefaultDBFile), DefaultDBPath())

	empty := NewJob()
	assert.True(t, errors.Is(empty.Validate(), ErrNoModels))
}

func TestValidate(t *testing.T) {
	valid := func() *Job {
		j := NewJob()
		j.Models = []Model{{Equation: "y = a*x", X: []float64{1, 2}, Y: []float64{2, 4}}}
		return j
	}

	tests := []struct {
		name   string
		mutate func(*Job)
		want   error
	}{
		{"policy", func(j *Job) { j.Policy = "lenient" }, ErrInvalidPolicy},
		{"format", func(j *Job) { j.Render.Format = "html" }, ErrInvalidFormat},
		{"chart", func(j *Job) { j.Render.Out = "fit.bmp" }, ErrInvalidChart},
		{"columns", func(j *Job) { j.Render.Columns = -1 }, ErrInvalidColumns},
		{"concurrency", func(j *Job) { j.Concurrency = -2 }, ErrInvalidConcurrent},
		{"equation", func(j *Job) { j.Models[0].Equation = "  " }, ErrEmptyEquation},
		{"samples", func(j *Job) { j.Models[0].X = nil }, ErrEmptySamples},
		{"lengths", func(j *Job) { j.Models[0].Y = []float64{1} }, ErrLengthMismatch},
		{"digits", func(j *Job) { j.Models[0].Digits = -1 }, ErrInvalidDigits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := valid()
			require.NoError(t, j.Validate())
			tt.mutate(j)
			err := j.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	j := valid()
	j.Render.Format = "md"
	assert.NoError(t, j.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	job, err := Load(write("job.yaml", yamlJob))
	require.NoError(t, err)
	assert.Len(t, job.Models, 2)

	job, err = Load(write("job.hcl", hclJob))
	require.NoError(t, err)
	assert.Len(t, job.Models, 2)

	_, err = Load(write("job.toml", yamlJob))
	assert.True(t, errors.Is(err, ErrUnsupportedFile))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, ErrJobNotFound))

	_, err = Load(write("empty.yml", "policy: strict\n"))
	assert.True(t, errors.Is(err, ErrNoModels))
}

func TestJobSession(t *testing.T) {
	job, err := ParseYAML([]byte(yamlJob))
	require.NoError(t, err)

	s, err := job.Session()
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, s.Libraries())
	require.Len(t, s.Graphs(), 2)
	assert.Equal(t, "d", s.Graphs()[0].YSymbol)

	outs, err := s.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "d = 1.97*t + 1.07", outs[0].Label.Text)
	assert.Equal(t, session.StatusFitted, outs[1].Status)
	assert.Equal(t, "y = 2.0*math.sqrt(x)", outs[1].Label.Text)
	assert.Len(t, job.ChartOptions(), 2)
}

func TestJobSessionErrors(t *testing.T) {
	job := NewJob()
	job.Libraries = []string{"scipy"}
	job.Models = []Model{{Equation: "y = a*x", X: []float64{1}, Y: []float64{1}}}
	_, err := job.Session()
	var libErr *errors.UnknownLibraryError
	assert.True(t, errors.As(err, &libErr))

	job = NewJob()
	job.Models = []Model{{Equation: "a*x", X: []float64{1}, Y: []float64{1}}}
	_, err = job.Session()
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
