package expr

import (
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// DependentVariable is the only accepted left-hand side.
const DependentVariable = "y"

// Equation is a model equation split at its '='.
type Equation struct {
	// Text is the equation exactly as written.
	Text string
	// LHS is the text left of '=' (untrimmed).
	LHS string
	// RHS is the text right of '=' (untrimmed), i.e. the model expression.
	RHS string
}

// ParseEquation validates "y = <expression>". It fails with a ParseError
// when '=' is missing or repeated, or when the left-hand side is not "y".
func ParseEquation(text string) (Equation, error) {
	idx := strings.IndexByte(text, '=')
	if idx < 0 {
		return Equation{}, errors.NewParseError(text, "missing '=', expected the form 'y = <expression>'")
	}
	if strings.Count(text, "=") > 1 {
		return Equation{}, errors.NewParseError(text, "more than one '='")
	}
	lhs := text[:idx]
	if strings.Join(strings.Fields(lhs), "") != DependentVariable {
		return Equation{}, errors.NewParseError(text, "left-hand side must be 'y', got '"+strings.TrimSpace(lhs)+"'")
	}
	return Equation{Text: text, LHS: lhs, RHS: text[idx+1:]}, nil
}
