package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

func outcomes(t *testing.T) []session.Outcome {
	t.Helper()
	x := []float64{0, 1, 2, 3, 4, 5}
	s := session.New()
	require.NoError(t, s.Draw("y = a*x + b", x, []float64{1, 3, 5, 7, 9.5, 10.5}, session.WithTitle("linear")))
	require.NoError(t, s.Draw("y = 3x + a", x, x))
	require.NoError(t, s.Draw("y = 2*x + 1", x, x))
	outs, err := s.Render(context.Background())
	require.NoError(t, err)
	return outs
}

func TestNewEntry(t *testing.T) {
	outs := outcomes(t)

	e := NewEntry(outs[0])
	assert.Equal(t, "fitted", e.Status)
	assert.Equal(t, []string{"a", "b"}, e.Unknowns)
	require.Len(t, e.Parameters, 2)
	assert.Equal(t, "a", e.Parameters[0].Name)
	assert.InDelta(t, 34.5/17.5, e.Parameters[0].Value, 1e-6)
	assert.NotNil(t, e.Parameters[0].StdError)
	assert.True(t, e.CovarianceFinite)
	assert.Equal(t, "y = 1.97*x + 1.07", e.Label)
	assert.Equal(t, "0.9929", e.R2Text)
	assert.Empty(t, e.Error)

	failed := NewEntry(outs[1])
	assert.Equal(t, "failed", failed.Status)
	assert.NotEmpty(t, failed.Error)
	assert.Nil(t, failed.R2)
	assert.Empty(t, failed.Parameters)

	noFit := NewEntry(outs[2])
	assert.Equal(t, "no-fit", noFit.Status)
	assert.Empty(t, noFit.Unknowns)
	assert.Empty(t, noFit.Parameters)
	assert.Equal(t, "y = 2*x + 1", noFit.Label)
}

func TestTextWriter(t *testing.T) {
	outs := outcomes(t)
	var buf bytes.Buffer
	n, err := NewTextWriter(&buf).Write(outs)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, Banner))
	assert.Contains(t, out, "Model fitted from equation 'y = a*x + b' with 2 unknowns (a, b)\n")
	assert.Contains(t, out, " - Model: y = 1.97*x + 1.07\n - R² = 0.9929\n")
	assert.Contains(t, out, "ERROR: cannot fit equation 'y = 3x + a'")
	assert.Contains(t, out, "3x instead of 3*x")
	assert.Contains(t, out, "with 0 unknowns ()")
}

func TestMarkdownWriter(t *testing.T) {
	outs := outcomes(t)
	var buf bytes.Buffer
	_, err := NewMarkdownWriter(&buf).Write(outs)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Curve fit report")
	assert.Contains(t, out, "## 1. linear")
	assert.Contains(t, out, "## 2. y = 3x + a")
	assert.Contains(t, out, "- Label: `y = 1.97*x + 1.07`")
	assert.Contains(t, out, "- R² = 0.9929")
	assert.Contains(t, out, "[!CAUTION]")
	assert.Contains(t, out, "1 of 3 model(s) failed.")
	assert.Contains(t, out, "No free parameters")
}

func TestJSONWriter(t *testing.T) {
	outs := outcomes(t)
	var buf bytes.Buffer
	_, err := NewJSONWriter(&buf).Write(outs)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Fitted)
	assert.Equal(t, 1, doc.Failed)
	require.Len(t, doc.Models, 3)
	assert.Equal(t, "linear", doc.Models[0].Title)
	require.NotNil(t, doc.Models[0].R2)
	assert.InDelta(t, 0.9929, *doc.Models[0].R2, 1e-4)
}

func TestJSONWriterInfiniteCovariance(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Draw("y = a*x + b", []float64{1, 2}, []float64{3, 5}))
	outs, err := s.Render(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewJSONWriter(&buf, WithPrettyPrint()).Write(outs)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "std_error")
	assert.Contains(t, buf.String(), `"covariance_finite": false`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []string{"text", "markdown", "md", "JSON"} {
		w, err := New(format, &buf)
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}

	_, err := New("html", &buf)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}
