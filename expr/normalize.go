package expr

import "strings"

// breakChars end a bare library token such as "np.pi".
const breakChars = " +-/*),"

// Normalize returns text with every library call blanked out. For each
// alias, the call head (alias through its opening parenthesis) and the
// matching closing parenthesis become spaces; the arguments stay where they
// are. An alias used without a call (np.pi) is blanked up to the next break
// character. The result always has the same length as text.
//
// Aliases are matched as plain substrings, so an alias must not collide with
// a parameter letter.
func Normalize(text string, aliases []string) string {
	buf := []byte(text)
	for _, alias := range aliases {
		if alias == "" {
			continue
		}
		for {
			start := strings.Index(string(buf), alias)
			if start < 0 {
				break
			}
			blankCall(buf, start, len(alias))
		}
	}
	return string(buf)
}

// blankCall blanks the library reference beginning at start.
func blankCall(buf []byte, start, aliasLen int) {
	depth := 0
	headEnd := -1
	for i := start; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c == '(':
			depth++
			if depth == 1 {
				headEnd = i + 1
			}
		case c == ')' && depth > 0:
			depth--
			if depth == 0 {
				blank(buf, start, headEnd)
				buf[i] = ' '
				return
			}
		case depth == 0 && i >= start+aliasLen && strings.IndexByte(breakChars, c) >= 0:
			blank(buf, start, i)
			return
		}
	}
	if headEnd > 0 {
		// unbalanced call: only the head can be identified
		blank(buf, start, headEnd)
		return
	}
	blank(buf, start, len(buf))
}

func blank(buf []byte, from, to int) {
	for i := from; i < to; i++ {
		buf[i] = ' '
	}
}
