package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

func TestParseEquation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantRHS string
		wantErr bool
	}{
		{"linear", "y = a*x + b", " a*x + b", false},
		{"no spaces", "y=a*x", "a*x", false},
		{"padded lhs", "  y  = 3", " 3", false},
		{"missing equals", "a*x + b", "", true},
		{"wrong lhs", "z = a*x", "", true},
		{"expression on lhs", "y + 1 = a*x", "", true},
		{"two equals", "y = a = b", "", true},
		{"empty lhs", "= a*x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := ParseEquation(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				var parseErr *errors.ParseError
				assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
				assert.Equal(t, tt.text, parseErr.Equation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRHS, eq.RHS)
			assert.Equal(t, tt.text, eq.LHS+"="+eq.RHS)
		})
	}
}
