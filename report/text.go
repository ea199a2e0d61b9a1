package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

// Banner separates the models in the console output.
const Banner = "========================= NEW GRAPH ========================="

// compileHints are printed under equations that did not compile.
var compileHints = []string{
	"a character the parser does not understand (e.g. ^ instead of **)",
	"a number right next to a letter (e.g. 3x instead of 3*x)",
	"a comma used as decimal separator (e.g. 3,1 instead of 3.1)",
}

// TextWriter prints the console summary of each model:
//
//	========================= NEW GRAPH =========================
//	Model fitted from equation 'y = a*x + b' with 2 unknowns (a, b)
//	 - Model: y = 1.97*x + 1.07
//	 - R² = 0.9929
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write prints one block per outcome.
func (w *TextWriter) Write(outs []session.Outcome) (int, error) {
	var sb strings.Builder
	for _, o := range outs {
		writeText(&sb, o)
	}
	return io.WriteString(w.output, sb.String())
}

func writeText(sb *strings.Builder, o session.Outcome) {
	sb.WriteString(Banner + "\n")
	if o.Err != nil {
		fmt.Fprintf(sb, "ERROR: cannot fit equation '%s'\n", o.Graph.Equation)
		fmt.Fprintf(sb, " - %v\n", o.Err)
		var compileErr *errors.CompileError
		if errors.As(o.Err, &compileErr) {
			sb.WriteString("Possible causes:\n")
			for _, h := range compileHints {
				sb.WriteString(" - " + h + "\n")
			}
		}
		return
	}

	unknowns := o.Model.Params().Free()
	fmt.Fprintf(sb, "Model fitted from equation '%s' with %d unknowns (%s)\n",
		o.Graph.Equation, len(unknowns), strings.Join(unknowns, ", "))
	for _, line := range strings.Split(o.Label.Legend(), "\n") {
		sb.WriteString(" - " + line + "\n")
	}
}
