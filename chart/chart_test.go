package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

func render(t *testing.T, draws func(s *session.Session)) []session.Outcome {
	t.Helper()
	s := session.New()
	draws(s)
	outs, err := s.Render(context.Background())
	require.NoError(t, err)
	return outs
}

func linear(s *session.Session) {
	_ = s.Draw("y = a*x + b", []float64{0, 1, 2, 3, 4, 5}, []float64{1, 3, 5, 7, 9.5, 10.5},
		session.WithTitle("linear"), session.WithAxisLabels("t (s)", "d (m)"),
		session.WithGuideX(6), session.WithGrid(true), session.WithAxes(true))
}

func quadratic(s *session.Session) {
	_ = s.Draw("y = a*x**2 + b*x + c", []float64{-2, -1, 0, 1, 2, 3}, []float64{9, 4, 1, 0, 1, 4},
		session.WithTitle("quadratic"))
}

func TestColumns(t *testing.T) {
	tests := []struct {
		n, ncols   int
		cols, rows int
	}{
		{1, 0, 1, 1},
		{2, 0, 1, 2},
		{3, 0, 2, 2},
		{7, 0, 3, 3},
		{5, 2, 2, 3},
		{4, 4, 4, 1},
	}
	for _, tt := range tests {
		cols, rows := Columns(tt.n, tt.ncols)
		assert.Equal(t, tt.cols, cols, "n=%d ncols=%d", tt.n, tt.ncols)
		assert.Equal(t, tt.rows, rows, "n=%d ncols=%d", tt.n, tt.ncols)
	}
}

func TestPlot(t *testing.T) {
	outs := render(t, linear)
	p, err := Plot(outs[0])
	require.NoError(t, err)

	assert.Equal(t, "linear", p.Title.Text)
	assert.Equal(t, "t (s)", p.X.Label.Text)
	assert.Equal(t, "d (m)", p.Y.Label.Text)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.InDelta(t, 6.6, p.X.Max, 1e-9)
	assert.True(t, p.Legend.Top)
}

func TestPlotNegative(t *testing.T) {
	outs := render(t, quadratic)
	p, err := Plot(outs[0])
	require.NoError(t, err)
	assert.Less(t, p.X.Min, 0.0)
}

func TestBuild(t *testing.T) {
	outs := render(t, func(s *session.Session) {
		linear(s)
		quadratic(s)
		linear(s)
	})

	grid, err := Build(outs)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Len(t, grid[0], 2)
	assert.NotNil(t, grid[1][0])
	assert.Nil(t, grid[1][1])

	grid, err = Build(outs, WithSuperposed(true))
	require.NoError(t, err)
	require.Len(t, grid, 1)
	require.Len(t, grid[0], 1)
	assert.Less(t, grid[0][0].X.Min, 0.0)

	_, err = Build(nil)
	assert.True(t, errors.Is(err, ErrNoOutcomes))
}

func TestWrite(t *testing.T) {
	outs := render(t, func(s *session.Session) {
		linear(s)
		quadratic(s)
	})

	tests := []struct {
		format string
		opts   []Option
		prefix string
	}{
		{"png", nil, "\x89PNG"},
		{"png", []Option{WithColumns(1)}, "\x89PNG"},
		{"svg", []Option{WithSuperposed(true)}, "<?xml"},
		{"pdf", nil, "%PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.format, outs, tt.opts...))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(tt.prefix)), "unexpected header %q", buf.Bytes()[:8])
		})
	}

	var buf bytes.Buffer
	err := Write(&buf, "gif", outs)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestWriteFailedOutcome(t *testing.T) {
	outs := render(t, func(s *session.Session) {
		_ = s.Draw("y = 3x + a", []float64{1, 2, 3}, []float64{2, 4, 6})
		linear(s)
	})
	require.False(t, outs[0].OK())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "png", outs))
	assert.NotZero(t, buf.Len())
}

func TestSave(t *testing.T) {
	outs := render(t, linear)
	path := filepath.Join(t.TempDir(), "fit.svg")
	require.NoError(t, Save(path, outs, WithTileSize(8*DefaultTileWidth/10, DefaultTileHeight)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	assert.Error(t, Save(filepath.Join(t.TempDir(), "fit.bmp"), outs))
}
