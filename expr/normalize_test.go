package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	sp := func(n int) string { return strings.Repeat(" ", n) }
	tests := []struct {
		name    string
		text    string
		aliases []string
		want    string
	}{
		{"no library", "a*x + b", []string{"np"}, "a*x + b"},
		{"single call", "a*np.sin(b*x)", []string{"np"}, "a*" + sp(7) + "b*x" + sp(1)},
		{"bare constant", "np.pi*x", []string{"np"}, sp(5) + "*x"},
		{"constant at end", "x*np.pi", []string{"np"}, "x*" + sp(5)},
		{"nested calls", "np.exp(np.sin(x))", []string{"np"}, sp(14) + "x" + sp(2)},
		{"arguments with parens", "np.exp(-(x-a)**2)", []string{"np"}, sp(7) + "-(x-a)**2" + sp(1)},
		{"two calls", "np.sin(x)+np.cos(a)", []string{"np"}, sp(7) + "x" + sp(1) + "+" + sp(7) + "a" + sp(1)},
		{"several aliases", "math.sqrt(x)*np.exp(a)", []string{"math", "np"}, sp(10) + "x" + sp(1) + "*" + sp(7) + "a" + sp(1)},
		{"unbalanced call", "np.sin(x", []string{"np"}, sp(7) + "x"},
		{"empty alias ignored", "a*x", []string{""}, "a*x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text, tt.aliases)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.text))
		})
	}
}

func TestNormalizeKeepsColumns(t *testing.T) {
	text := "a*np.exp(b*x) + c"
	got := Normalize(text, []string{"np"})
	for i := range text {
		if got[i] != ' ' {
			assert.Equal(t, text[i], got[i], "column %d moved", i)
		}
	}
}
