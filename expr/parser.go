package expr

import (
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// binding powers
const (
	bpSum   = 10
	bpProd  = 20
	bpUnary = 30
	bpPow   = 40
)

func lbp(k tokenKind) (int, bool) {
	switch k {
	case tokPow:
		return bpPow, true
	case tokStar, tokSlash:
		return bpProd, true
	case tokPlus, tokMinus:
		return bpSum, true
	}
	return 0, false
}

func isRightAssoc(k tokenKind) bool { return k == tokPow }

// parser is a Pratt parser that resolves identifiers as it goes: single
// letters against the parameter set, dotted or longer names against the
// environment.
type parser struct {
	src    string
	toks   []token
	i      int
	params ParameterSet
	env    *Environment
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(col int, reason string) error {
	return errors.NewCompileError(p.src, col, reason)
}

func (p *parser) need(k tokenKind, msg string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return t, p.errorf(t.col, msg+", found "+describe(t))
	}
	return p.next(), nil
}

// parse reads a complete expression and rejects trailing input.
func (p *parser) parse() (Node, error) {
	if p.peek().kind == tokEOF {
		return nil, p.errorf(-1, "empty expression")
	}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	switch t := p.peek(); t.kind {
	case tokEOF:
		return n, nil
	case tokRParen:
		return nil, p.errorf(t.col, "unbalanced ')'")
	case tokComma:
		return nil, p.errorf(t.col, "',' is only allowed between call arguments")
	case tokNumber, tokIdent, tokLParen:
		return nil, p.errorf(t.col, "unexpected "+describe(t)+", implicit multiplication is not supported")
	default:
		return nil, p.errorf(t.col, "unexpected "+describe(t))
	}
}

func (p *parser) expr(minBP int) (Node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp, ok := lbp(op.kind)
		if !ok || bp < minBP {
			break
		}
		p.next()
		nextBP := bp + 1
		if isRightAssoc(op.kind) {
			nextBP = bp
		}
		right, err := p.expr(nextBP)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op.kind, left: left, right: right}
	}
	return left, nil
}

func (p *parser) prefix() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode{value: t.num, text: t.text}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		return p.ident(t)
	case tokMinus, tokPlus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		return unaryNode{op: t.kind, operand: operand}, nil
	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(tokRParen, "unbalanced '(' opened at column "+itoa(t.col)); err != nil {
			return nil, err
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(-1, "unexpected end of expression")
	default:
		return nil, p.errorf(t.col, "unexpected "+describe(t))
	}
}

func (p *parser) ident(t token) (Node, error) {
	if len(t.text) == 1 {
		name := strings.ToLower(t.text)
		if slot := p.params.Index(name); slot >= 0 {
			return slotNode{slot: slot, name: name}, nil
		}
	}
	if v, ok := p.env.lookupConst(t.text); ok {
		return constNode{name: t.text, value: v}, nil
	}
	if _, ok := p.env.lookupFunc(t.text); ok {
		return nil, p.errorf(t.col, "function '"+t.text+"' used without arguments")
	}
	return nil, p.errorf(t.col, "unknown identifier '"+t.text+"'")
}

func (p *parser) call(t token) (Node, error) {
	fn, ok := p.env.lookupFunc(t.text)
	if !ok {
		if _, isConst := p.env.lookupConst(t.text); isConst {
			return nil, p.errorf(t.col, "'"+t.text+"' is a constant and cannot be called")
		}
		return nil, p.errorf(t.col, "unknown function '"+t.text+"'")
	}
	open := p.next()
	var args []Node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.need(tokRParen, "unbalanced '(' opened at column "+itoa(open.col)); err != nil {
		return nil, err
	}
	if len(args) < fn.MinArgs || len(args) > fn.MaxArgs {
		return nil, p.errorf(t.col, "'"+t.text+"' expects "+arityText(fn)+", got "+itoa(len(args)))
	}
	return callNode{name: t.text, fn: fn, args: args}, nil
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokNumber, tokIdent:
		return t.kind.String() + " '" + t.text + "'"
	}
	return t.kind.String()
}

func arityText(fn Func) string {
	if fn.MinArgs == fn.MaxArgs {
		if fn.MinArgs == 1 {
			return "1 argument"
		}
		return itoa(fn.MinArgs) + " arguments"
	}
	return itoa(fn.MinArgs) + " to " + itoa(fn.MaxArgs) + " arguments"
}
