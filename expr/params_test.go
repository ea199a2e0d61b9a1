package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParameters(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  ParameterSet
		noFit bool
	}{
		{"quadratic", "a*x**2 + b*x + c", ParameterSet{"x", "a", "b", "c"}, false},
		{"x moved first", "b*x + a", ParameterSet{"x", "b", "a"}, false},
		{"first appearance order", "c + a*x + b", ParameterSet{"x", "c", "a", "b"}, false},
		{"repeated letters", "a*x + a**2", ParameterSet{"x", "a"}, false},
		{"no x", "a + b", ParameterSet{"a", "b"}, false},
		{"uppercase folded", "A*x + B", ParameterSet{"x", "a", "b"}, false},
		{"scientific notation", "1e-3*x + a", ParameterSet{"x", "a"}, false},
		{"constant", "3", nil, true},
		{"x only", "2*x + 1", ParameterSet{"x"}, true},
		{"blanked call", "a*" + "       " + "x", ParameterSet{"x", "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParameters(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.noFit, got.NoFit())
			assert.Equal(t, len(tt.want), got.Arity())
		})
	}
}

func TestParameterSetFree(t *testing.T) {
	p := ParameterSet{"x", "a", "b"}
	assert.Equal(t, []string{"a", "b"}, p.Free())
	assert.Equal(t, "x, a, b", p.String())
	assert.Equal(t, 2, p.Index("b"))
	assert.Equal(t, -1, p.Index("q"))
	assert.Nil(t, ParameterSet{"x"}.Free())
}

func TestNewModelExpression(t *testing.T) {
	me := NewModelExpression(" a*np.sin(x) + b", nil)
	assert.Equal(t, ParameterSet{"x", "a", "b"}, me.Params)
	assert.Len(t, me.Normalized, len(me.Raw))
	assert.NotContains(t, me.Normalized, "np")
}
