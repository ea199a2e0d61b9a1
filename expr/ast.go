package expr

import (
	"math"
	"strconv"
	"strings"
)

// Node is a compiled expression tree. Eval reads argument values from args,
// indexed by parameter slot.
type Node interface {
	Eval(args []float64) float64
	String() string
}

type numberNode struct {
	value float64
	text  string
}

func (n numberNode) Eval([]float64) float64 { return n.value }
func (n numberNode) String() string {
	if n.text != "" {
		return n.text
	}
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

// slotNode reads a parameter by position.
type slotNode struct {
	slot int
	name string
}

func (n slotNode) Eval(args []float64) float64 { return args[n.slot] }
func (n slotNode) String() string              { return n.name }

type constNode struct {
	name  string
	value float64
}

func (n constNode) Eval([]float64) float64 { return n.value }
func (n constNode) String() string         { return n.name }

type unaryNode struct {
	op      tokenKind
	operand Node
}

func (n unaryNode) Eval(args []float64) float64 {
	v := n.operand.Eval(args)
	if n.op == tokMinus {
		return -v
	}
	return v
}

func (n unaryNode) String() string {
	op := "-"
	if n.op == tokPlus {
		op = "+"
	}
	return "(" + op + n.operand.String() + ")"
}

type binaryNode struct {
	op          tokenKind
	left, right Node
}

func (n binaryNode) Eval(args []float64) float64 {
	l := n.left.Eval(args)
	r := n.right.Eval(args)
	switch n.op {
	case tokPlus:
		return l + r
	case tokMinus:
		return l - r
	case tokStar:
		return l * r
	case tokSlash:
		return l / r
	case tokPow:
		return math.Pow(l, r)
	}
	return math.NaN()
}

func (n binaryNode) String() string {
	op := strings.Trim(n.op.String(), "'")
	return "(" + n.left.String() + " " + op + " " + n.right.String() + ")"
}

type callNode struct {
	name string
	fn   Func
	args []Node
}

func (n callNode) Eval(args []float64) float64 {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		vals[i] = a.Eval(args)
	}
	return n.fn.Fn(vals)
}

func (n callNode) String() string {
	parts := make([]string, len(n.args))
	for i, a := range n.args {
		parts[i] = a.String()
	}
	return n.name + "(" + strings.Join(parts, ", ") + ")"
}
