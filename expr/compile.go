package expr

import (
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// CompiledModel is an evaluable model of arity len(Expr.Params).
// It is immutable and safe for concurrent use.
type CompiledModel struct {
	Expr ModelExpression
	root Node
}

// Compile parses me.Raw against its parameter set and env.
// CompileError columns are byte offsets into me.Raw.
func Compile(me ModelExpression, env *Environment) (*CompiledModel, error) {
	if env == nil {
		env = DefaultEnvironment()
	}
	toks, err := lex(me.Raw)
	if err != nil {
		return nil, err
	}
	p := &parser{src: me.Raw, toks: toks, params: me.Params, env: env}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &CompiledModel{Expr: me, root: root}, nil
}

// Compile compiles the right-hand side. CompileError columns are byte
// offsets into eq.Text, so "y = 3x" reports column 4.
func (eq Equation) Compile(env *Environment) (*CompiledModel, error) {
	if env == nil {
		env = DefaultEnvironment()
	}
	m, err := Compile(NewModelExpression(eq.RHS, env), env)
	if err != nil {
		var compileErr *errors.CompileError
		if errors.As(err, &compileErr) {
			compileErr.Expr = eq.Text
			if compileErr.Column >= 0 {
				compileErr.Column += len(eq.LHS) + 1
			}
		}
		return nil, err
	}
	return m, nil
}

// CompileEquation runs the whole pipeline on "y = <expression>".
func CompileEquation(equation string, env *Environment) (*CompiledModel, error) {
	eq, err := ParseEquation(equation)
	if err != nil {
		return nil, err
	}
	return eq.Compile(env)
}

// Arity is the number of positional arguments Eval expects.
func (m *CompiledModel) Arity() int { return m.Expr.Params.Arity() }

// Params returns the parameter set, independent-variable slot first.
func (m *CompiledModel) Params() ParameterSet { return m.Expr.Params }

// NoFit reports whether the model has no free parameter.
func (m *CompiledModel) NoFit() bool { return m.Expr.Params.NoFit() }

// Tree returns the parsed expression; String() shows it fully parenthesized.
func (m *CompiledModel) Tree() Node { return m.root }

// Eval evaluates the model with one value per parameter slot.
func (m *CompiledModel) Eval(args ...float64) (float64, error) {
	if len(args) != m.Arity() {
		return math.NaN(), errors.NewCompileError(m.Expr.Raw, -1,
			"expected "+strconv.Itoa(m.Arity())+" arguments, got "+strconv.Itoa(len(args)))
	}
	return m.root.Eval(args), nil
}

// At evaluates the model at x with the free parameters params. Missing
// slots are handled so that constant (arity 0) and parameterless (arity 1)
// models can be sampled the same way as fitted ones.
func (m *CompiledModel) At(x float64, params []float64) float64 {
	switch m.Arity() {
	case 0:
		return m.root.Eval(nil)
	case 1:
		return m.root.Eval([]float64{x})
	}
	args := make([]float64, 0, m.Arity())
	args = append(args, x)
	args = append(args, params...)
	if len(args) != m.Arity() {
		return math.NaN()
	}
	return m.root.Eval(args)
}

// String returns the expression as written, without surrounding spaces.
func (m *CompiledModel) String() string { return strings.TrimSpace(m.Expr.Raw) }

// Func returns At as a plain function value.
func (m *CompiledModel) Func() func(x float64, params []float64) float64 { return m.At }

func itoa(i int) string { return strconv.Itoa(i) }
