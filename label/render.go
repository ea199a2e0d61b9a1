// Package label writes fitted parameter values back into the equation text
// at the columns the parameters occupied.
package label

import (
	"strings"

	"github.com/YuminosukeSato/curvefit/expr"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

const (
	// DefaultDigits is the number of significant digits used for parameters.
	DefaultDigits = 3
	// R2Digits is the number of significant digits shown for R².
	R2Digits = 4
	// Prefix starts every legend line.
	Prefix = "Model: "
)

// Label is the rendered form of a fitted model.
type Label struct {
	// Expression is the right-hand side with values substituted.
	Expression string
	// Text is the whole equation, e.g. "y = 2.0*x+1.0".
	Text string
	// R2 is the coefficient of determination at full precision.
	R2 float64
	// R2Text is R2 rounded to R2Digits significant digits.
	R2Text string
}

// Legend returns the two-line legend "Model: <text>\nR² = <r2>".
func (l Label) Legend() string {
	return Prefix + l.Text + "\nR² = " + l.R2Text
}

// String returns Text.
func (l Label) String() string { return l.Text }

// Input is everything Render needs.
type Input struct {
	Equation expr.Equation
	Expr     expr.ModelExpression
	// Values are the fitted free parameters, aligned with Expr.Params.Free().
	Values []float64
	R2     float64
}

type options struct {
	digits  int
	xSymbol string
	ySymbol string
}

// Option configures Render.
type Option func(*options)

// WithDigits sets the significant digits for parameter values.
func WithDigits(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.digits = n
		}
	}
}

// WithXSymbol sets the display symbol for the independent variable (e.g. "t").
func WithXSymbol(s string) Option {
	return func(o *options) {
		if s != "" {
			o.xSymbol = s
		}
	}
}

// WithYSymbol sets the display symbol for the dependent variable (e.g. "U(t)").
func WithYSymbol(s string) Option {
	return func(o *options) {
		if s != "" {
			o.ySymbol = s
		}
	}
}

// Render substitutes every isolated occurrence of each free parameter with
// its rounded value, then every occurrence of the independent variable with
// the x symbol. Without an x the first letter is the independent variable,
// so "y = a + b" renders as "y = x + 1.0".
func Render(in Input, opts ...Option) (Label, error) {
	o := &options{digits: DefaultDigits, xSymbol: expr.IndependentVariable, ySymbol: expr.DependentVariable}
	for _, opt := range opts {
		opt(o)
	}

	free := in.Expr.Params.Free()
	if len(in.Values) != len(free) {
		return Label{}, errors.NewValueError("label.Render", "got values for a different number of parameters")
	}

	// mask は Normalized と同じ桁に並ぶ。置換済みの範囲は空白にして再マッチを防ぐ
	text, mask := in.Expr.Raw, in.Expr.Normalized
	for i, name := range free {
		val := Significant(in.Values[i], o.digits)
		text, mask = substitute(text, mask, name[0], val)
	}
	// 先頭スロットが独立変数。x がなければ最初の文字がその役を担う
	if params := in.Expr.Params; len(params) > 0 {
		text, _ = substitute(text, mask, params[0][0], o.xSymbol)
	}

	lhs := strings.Replace(in.Equation.LHS, expr.DependentVariable, o.ySymbol, 1)
	return Label{
		Expression: text,
		Text:       lhs + "=" + text,
		R2:         in.R2,
		R2Text:     Significant(in.R2, R2Digits),
	}, nil
}

// substitute replaces every isolated occurrence of letter in mask, keeping
// text and mask column-aligned.
func substitute(text, mask string, letter byte, repl string) (string, string) {
	blank := strings.Repeat(" ", len(repl))
	for {
		idx := findIsolated(mask, letter)
		if idx < 0 {
			return text, mask
		}
		mask = mask[:idx] + blank + mask[idx+1:]
		text = text[:idx] + repl + text[idx+1:]
	}
}

func findIsolated(mask string, letter byte) int {
	for i := 0; i < len(mask); i++ {
		if lower(mask[i]) != letter {
			continue
		}
		if i > 0 && isWord(mask[i-1], true) {
			continue
		}
		if i+1 < len(mask) && isWord(mask[i+1], false) {
			continue
		}
		return i
	}
	return -1
}

func isWord(c byte, allowDot bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	case c == '.':
		return allowDot
	}
	return false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
