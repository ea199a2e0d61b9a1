package expr

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

func TestCompileEval(t *testing.T) {
	tests := []struct {
		name     string
		equation string
		args     []float64
		want     float64
	}{
		{"linear", "y = a*x + b", []float64{2, 3, 1}, 7},
		{"quadratic", "y = a*x**2 + b*x + c", []float64{2, 1, 2, 3}, 11},
		{"left assoc minus", "y = x - 2 - 3", []float64{1}, -4},
		{"left assoc divide", "y = x/2/2", []float64{8}, 2},
		{"right assoc power", "y = 2**x**2", []float64{3}, 512},
		{"unary binds looser than power", "y = -x**2", []float64{3}, -9},
		{"power of negative exponent", "y = 2**-x", []float64{1}, 0.5},
		{"parentheses", "y = (a + x)*2", []float64{1, 2}, 6},
		{"unary plus", "y = +x", []float64{4}, 4},
		{"scientific literal", "y = 1.5e2*x", []float64{2}, 300},
		{"leading dot literal", "y = .5*x", []float64{4}, 2},
		{"numpy call", "y = a*np.sin(x)", []float64{math.Pi / 2, 2}, 2},
		{"numpy constant", "y = np.pi*x", []float64{2}, 2 * math.Pi},
		{"nested calls", "y = np.exp(np.log(x))", []float64{5}, 5},
		{"two argument call", "y = np.power(x, a)", []float64{2, 10}, 1024},
		{"constant model", "y = 3", nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := CompileEquation(tt.equation, nil)
			require.NoError(t, err)
			assert.Equal(t, len(tt.args), m.Arity())
			got, err := m.Eval(tt.args...)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCompileTree(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"-x**2", "(-(x ** 2))"},
		{"a*x+b", "((a * x) + b)"},
		{"a+b*x", "(a + (b * x))"},
		{"2**3**x", "(2 ** (3 ** x))"},
		{"x-a-b", "((x - a) - b)"},
		{"np.sin(a*x)", "np.sin((a * x))"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			m, err := Compile(NewModelExpression(tt.expr, nil), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Tree().String())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		column int
		reason string
	}{
		{"implicit multiplication", "3x", 1, "implicit multiplication"},
		{"caret", "x^2", 1, "'**'"},
		{"unbalanced open", "a*(x+1", 6, "unbalanced '('"},
		{"unbalanced close", "a*x)", 3, "unbalanced ')'"},
		{"top level comma", "a, x", 1, "','"},
		{"unknown function", "np.foo(x)", 0, "unknown function"},
		{"unknown identifier", "a*sin(x)", 2, "unknown function"},
		{"multi letter name", "ab*x", 0, "unknown identifier"},
		{"wrong arity", "np.sin(x, a)", 0, "expects 1 argument"},
		{"calling a constant", "np.pi(x)", 0, "constant"},
		{"function without call", "np.sin*x", 0, "without arguments"},
		{"empty", "   ", -1, "empty expression"},
		{"dangling operator", "a*x +", -1, "unexpected end"},
		{"bad character", "a*x = 2", 4, "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(NewModelExpression(tt.expr, nil), nil)
			require.Error(t, err)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr), "expected CompileError, got %T", err)
			assert.Equal(t, tt.column, compileErr.Column)
			assert.Contains(t, compileErr.Reason, tt.reason)
			assert.Equal(t, tt.expr, compileErr.Expr)
		})
	}
}

func TestCompileEquationColumns(t *testing.T) {
	tests := []struct {
		equation string
		column   int
		at       byte
	}{
		{"y = 3x + a", 5, 'x'},
		{"y=3x", 3, 'x'},
		{"  y  = a*x)", 10, ')'},
		{"y = a*x +", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.equation, func(t *testing.T) {
			_, err := CompileEquation(tt.equation, nil)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr), "expected CompileError, got %v", err)
			assert.Equal(t, tt.column, compileErr.Column)
			assert.Equal(t, tt.equation, compileErr.Expr)
			if tt.column >= 0 {
				assert.Equal(t, tt.at, tt.equation[tt.column])
			}
		})
	}
}

func TestCompileEquationParseError(t *testing.T) {
	_, err := CompileEquation("a*x + b", nil)
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestEvalArity(t *testing.T) {
	m, err := CompileEquation("y = a*x + b", nil)
	require.NoError(t, err)

	_, err = m.Eval(1, 2)
	assert.Error(t, err)

	assert.Equal(t, 7.0, m.At(2, []float64{3, 1}))
	assert.True(t, math.IsNaN(m.At(2, []float64{3})))
	assert.Equal(t, []string{"a", "b"}, m.Params().Free())
	assert.False(t, m.NoFit())
}

func TestAtWithoutParameters(t *testing.T) {
	m, err := CompileEquation("y = 2*x + 1", nil)
	require.NoError(t, err)
	assert.True(t, m.NoFit())
	assert.Equal(t, 5.0, m.At(2, nil))

	c, err := CompileEquation("y = 4", nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.At(100, nil))
}

func TestCompiledModelConcurrentEval(t *testing.T) {
	m, err := CompileEquation("y = a*np.exp(b*x)", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.At(float64(i), []float64{1, 0})
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, 1.0, r)
	}
}
