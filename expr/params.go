package expr

import "strings"

// IndependentVariable is the letter that always takes the first slot.
const IndependentVariable = "x"

// ParameterSet is the ordered list of identifiers a model takes. Index 0 is
// the independent-variable slot; the rest are the free parameters.
type ParameterSet []string

// Arity is the number of positional arguments the compiled model expects.
func (p ParameterSet) Arity() int { return len(p) }

// Free returns the parameters the optimizer adjusts.
func (p ParameterSet) Free() []string {
	if len(p) < 2 {
		return nil
	}
	return p[1:]
}

// NoFit reports whether there is nothing to fit.
func (p ParameterSet) NoFit() bool { return len(p) <= 1 }

// Index returns the slot of name, or -1.
func (p ParameterSet) Index(name string) int {
	for i, n := range p {
		if n == name {
			return i
		}
	}
	return -1
}

// String joins the parameters with ", ".
func (p ParameterSet) String() string { return strings.Join(p, ", ") }

// ExtractParameters scans normalized text for single-letter identifiers.
// Letters are lowercased and collected in order of first appearance; if "x"
// is present it is moved to the front. A letter that directly follows a
// digit is part of a number ("1e-3") and is skipped.
func ExtractParameters(normalized string) ParameterSet {
	text := strings.ToLower(normalized)
	seen := make(map[byte]bool)
	var out ParameterSet
	hasX := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < 'a' || c > 'z' {
			continue
		}
		if i > 0 && isDigit(text[i-1]) {
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		if c == 'x' {
			hasX = true
			continue
		}
		out = append(out, string(c))
	}
	if hasX {
		out = append(ParameterSet{IndependentVariable}, out...)
	}
	return out
}

// ModelExpression is the right-hand side of an equation together with its
// normalized form and parameter set.
type ModelExpression struct {
	Raw        string
	Normalized string
	Params     ParameterSet
}

// NewModelExpression normalizes raw against the names env knows about and
// extracts the parameter set.
func NewModelExpression(raw string, env *Environment) ModelExpression {
	if env == nil {
		env = DefaultEnvironment()
	}
	normalized := Normalize(raw, env.Aliases())
	return ModelExpression{
		Raw:        raw,
		Normalized: normalized,
		Params:     ExtractParameters(normalized),
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
