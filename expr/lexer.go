package expr

import (
	"strconv"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokPow:
		return "'**'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	num  float64
	col  int
}

// lex splits src into tokens. Columns are byte offsets into src.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			i = scanNumber(src, i)
			v, err := strconv.ParseFloat(src[start:i], 64)
			if err != nil {
				return nil, errors.NewCompileError(src, start, "malformed number '"+src[start:i]+"'")
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], num: v, col: start})
		case isLetter(c):
			start := i
			i = scanIdent(src, i)
			toks = append(toks, token{kind: tokIdent, text: src[start:i], col: start})
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				toks = append(toks, token{kind: tokPow, text: "**", col: i})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokStar, text: "*", col: i})
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", col: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", col: i})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", col: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", col: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", col: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", col: i})
			i++
		case c == '^':
			return nil, errors.NewCompileError(src, i, "'^' is not an operator, use '**' for powers")
		default:
			return nil, errors.NewCompileError(src, i, "unexpected character '"+string(rune(c))+"'")
		}
	}
	toks = append(toks, token{kind: tokEOF, col: len(src)})
	return toks, nil
}

func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// scanIdent reads a possibly dotted identifier such as "np.sin".
func scanIdent(src string, i int) int {
	for i < len(src) {
		c := src[i]
		switch {
		case isLetter(c) || isDigit(c):
			i++
		case c == '.' && i+1 < len(src) && isLetter(src[i+1]):
			i++
		default:
			return i
		}
	}
	return i
}
