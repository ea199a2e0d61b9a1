package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/session"
)

// MarkdownWriter outputs a summary table followed by one section per model.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(outs []session.Outcome) (int, error) {
	md := markdown.NewMarkdown(w.output)
	entries := Entries(outs)

	md.H1("Curve fit report")
	md.PlainText("")
	w.writeSummary(md, entries)

	for _, e := range entries {
		w.writeModel(md, e)
	}
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, entries []Entry) {
	rows := make([][]string, len(entries))
	failed := 0
	for i, e := range entries {
		r2 := "-"
		if e.R2Text != "" {
			r2 = e.R2Text
		}
		rows[i] = []string{
			strconv.Itoa(e.Index + 1),
			code(e.Equation),
			statusText(e.Status),
			code(e.Label),
			r2,
		}
		if e.Error != "" {
			failed++
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Equation", "Status", "Label", "R²"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d of %d model(s) failed.", failed, len(entries))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeModel(md *markdown.Markdown, e Entry) {
	title := e.Title
	if title == "" {
		title = e.Equation
	}
	md.H2(fmt.Sprintf("%d. %s", e.Index+1, title))
	md.PlainText("")

	switch {
	case e.Error != "":
		md.Cautionf("Fit failed: %s", e.Error)
		md.PlainText("")
		return
	case len(e.Parameters) == 0:
		md.Note("No free parameters: the equation is drawn as given.")
		md.PlainText("")
	default:
		rows := make([][]string, len(e.Parameters))
		for i, p := range e.Parameters {
			se := "-"
			if p.StdError != nil {
				se = label.Significant(*p.StdError, label.DefaultDigits)
			}
			rows[i] = []string{p.Name, label.FormatFloat(p.Value), se}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Parameter", "Value", "Std. error"},
			Rows:   rows,
		})
		md.PlainText("")
		if !e.CovarianceFinite {
			md.Note("The covariance of the parameters could not be estimated.")
			md.PlainText("")
		}
	}

	md.BulletList(
		"Label: "+code(e.Label),
		"R² = "+e.R2Text,
	)
	md.PlainText("")
}

func statusText(status string) string {
	switch status {
	case string(session.StatusFitted):
		return "✅ fitted"
	case string(session.StatusNoFit):
		return "➖ no-fit"
	}
	return "❌ failed"
}

func code(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}
