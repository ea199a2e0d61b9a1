package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

func TestResolveLibraries(t *testing.T) {
	env, err := ResolveLibraries("math", "numpy as n2")
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "n2", "np"}, env.Libraries())

	m, err := CompileEquation("y = a*math.log(x, 2)", env)
	require.NoError(t, err)
	v, err := m.Eval(8, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12)
}

func TestResolveLibrariesUnknown(t *testing.T) {
	tests := []string{"scipy", "math as", "numpy as np extra"}
	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			_, err := ResolveLibraries(spec)
			var libErr *errors.UnknownLibraryError
			assert.True(t, errors.As(err, &libErr), "expected UnknownLibraryError, got %v", err)
		})
	}
}

func TestEnvironmentBindings(t *testing.T) {
	env := DefaultEnvironment().Clone()
	env.Define("g0", 9.81)
	env.DefineFunc("sq", 1, func(a []float64) float64 { return a[0] * a[0] })

	assert.Equal(t, []string{"g0", "np", "sq"}, env.Aliases())

	m, err := CompileEquation("y = g0*sq(x) + a", env)
	require.NoError(t, err)
	assert.Equal(t, ParameterSet{"x", "a"}, m.Params())
	v, err := m.Eval(2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 9.81*4+1, v, 1e-12)

	// the clone does not leak into the default environment
	_, err = CompileEquation("y = g0*x", nil)
	assert.Error(t, err)
}

func TestAliasesLongestFirst(t *testing.T) {
	env := NewEnvironment().Import("np", Numpy()).Import("numpy", Numpy())
	assert.Equal(t, []string{"numpy", "np"}, env.Aliases())
}

func TestNumpySign(t *testing.T) {
	lib := Numpy()
	s := lib.Funcs["sign"].Fn
	assert.Equal(t, -1.0, s([]float64{-3}))
	assert.Equal(t, 0.0, s([]float64{0}))
	assert.True(t, math.IsNaN(s([]float64{math.NaN()})))
}
