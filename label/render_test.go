package label

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/expr"
)

func input(t *testing.T, equation string, values []float64, r2 float64) Input {
	t.Helper()
	eq, err := expr.ParseEquation(equation)
	require.NoError(t, err)
	return Input{
		Equation: eq,
		Expr:     expr.NewModelExpression(eq.RHS, expr.DefaultEnvironment()),
		Values:   values,
		R2:       r2,
	}
}

func TestRenderColumns(t *testing.T) {
	l, err := Render(input(t, "y = a*x+b", []float64{2.0, 1.0}, 0.99))
	require.NoError(t, err)

	assert.Equal(t, " 2.0*x+1.0", l.Expression)
	assert.Equal(t, "y = 2.0*x+1.0", l.Text)
	assert.Equal(t, "0.99", l.R2Text)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		equation string
		values   []float64
		opts     []Option
		want     string
	}{
		{
			name:     "linear fit",
			equation: "y = a*x + b",
			values:   []float64{1.9714285714, 1.0714285714},
			want:     "y = 1.97*x + 1.07",
		},
		{
			name:     "quadratic",
			equation: "y = a*x**2 + b*x + c",
			values:   []float64{0.5, -2, 3},
			want:     "y = 0.5*x**2 + -2.0*x + 3.0",
		},
		{
			name:     "library call keeps its text",
			equation: "y = a*np.sin(b*x)",
			values:   []float64{2, 0.5},
			want:     "y = 2.0*np.sin(0.5*x)",
		},
		{
			name:     "symbols",
			equation: "y = a*x + b",
			values:   []float64{2, 1},
			opts:     []Option{WithXSymbol("t"), WithYSymbol("U(t)")},
			want:     "U(t) = 2.0*t + 1.0",
		},
		{
			name:     "every x replaced",
			equation: "y = a*x**2 + x",
			values:   []float64{3},
			opts:     []Option{WithXSymbol("h")},
			want:     "y = 3.0*h**2 + h",
		},
		{
			name:     "digits",
			equation: "y = a*x",
			values:   []float64{3.14159},
			opts:     []Option{WithDigits(5)},
			want:     "y = 3.1416*x",
		},
		{
			name:     "exponent literal untouched",
			equation: "y = a*1e-3*x",
			values:   []float64{4},
			want:     "y = 4.0*1e-3*x",
		},
		{
			name:     "no fit",
			equation: "y = 2*x + 1",
			values:   nil,
			opts:     []Option{WithXSymbol("t")},
			want:     "y = 2*t + 1",
		},
		{
			name:     "first letter is the abscissa without x",
			equation: "y = a + b",
			values:   []float64{1},
			want:     "y = x + 1.0",
		},
		{
			name:     "abscissa symbol without x",
			equation: "y = 2*t + c",
			values:   []float64{0.5},
			opts:     []Option{WithXSymbol("s")},
			want:     "y = 2*s + 0.5",
		},
		{
			name:     "spacing preserved",
			equation: "y=  a *x",
			values:   []float64{5},
			want:     "y=  5.0 *x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Render(input(t, tt.equation, tt.values, 1), tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Text)
		})
	}
}

func TestRenderRepeatedParameter(t *testing.T) {
	l, err := Render(input(t, "y = a*x + a", []float64{2.5}, 1))
	require.NoError(t, err)
	assert.Equal(t, "y = 2.5*x + 2.5", l.Text)

	l, err = Render(input(t, "y = a*np.exp(-b*x) + b", []float64{1, 0.25}, 1))
	require.NoError(t, err)
	assert.Equal(t, "y = 1.0*np.exp(-0.25*x) + 0.25", l.Text)
}

func TestRenderValueMismatch(t *testing.T) {
	_, err := Render(input(t, "y = a*x + b", []float64{1}, 1))
	assert.Error(t, err)
}

func TestLegend(t *testing.T) {
	l, err := Render(input(t, "y = a*x + b", []float64{2, 1}, 0.992909))
	require.NoError(t, err)
	assert.Equal(t, "Model: y = 2.0*x + 1.0\nR² = 0.9929", l.Legend())
	assert.Equal(t, l.Text, l.String())

	nan, err := Render(input(t, "y = a*x + b", []float64{2, 1}, math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "nan", nan.R2Text)
}
