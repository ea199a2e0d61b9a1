// Package report writes session outcomes as console text, Markdown or JSON.
package report

import (
	"io"
	"math"
	"strings"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/session"
)

// Writer outputs the outcomes of one render.
type Writer interface {
	// Write returns the number of bytes written.
	Write(outs []session.Outcome) (int, error)
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "markdown", "json"}

// New returns the Writer for format ("text", "markdown" or "json").
func New(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return NewTextWriter(output), nil
	case "markdown", "md":
		return NewMarkdownWriter(output), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	}
	return nil, errors.NewValidationError("format", "must be one of text, markdown, json", format)
}

// Parameter is one fitted value.
type Parameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	// StdError is omitted when the covariance is not finite.
	StdError *float64 `json:"std_error,omitempty"`
}

// Entry is the serializable summary of an Outcome.
type Entry struct {
	Index            int         `json:"index"`
	Title            string      `json:"title,omitempty"`
	Equation         string      `json:"equation"`
	Status           string      `json:"status"`
	Unknowns         []string    `json:"unknowns"`
	Parameters       []Parameter `json:"parameters,omitempty"`
	Label            string      `json:"label,omitempty"`
	R2               *float64    `json:"r2,omitempty"`
	R2Text           string      `json:"r2_text,omitempty"`
	CovarianceFinite bool        `json:"covariance_finite"`
	Iterations       int         `json:"iterations,omitempty"`
	Evaluations      int         `json:"evaluations,omitempty"`
	Cost             *float64    `json:"cost,omitempty"`
	StopReason       string      `json:"stop_reason,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// NewEntry summarizes o. Non-finite numbers are left out.
func NewEntry(o session.Outcome) Entry {
	e := Entry{
		Index:    o.Index,
		Title:    o.Graph.Title,
		Equation: o.Graph.Equation,
		Status:   string(o.Status),
		Unknowns: []string{},
	}
	if o.Model != nil {
		e.Unknowns = o.Model.Params().Free()
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
		return e
	}

	e.Label = o.Label.Text
	e.R2 = finite(o.R2)
	e.R2Text = o.Label.R2Text

	if res := o.Result; res != nil {
		e.CovarianceFinite = res.CovarianceFinite
		e.Iterations = res.Iterations
		e.Evaluations = res.Evaluations
		e.Cost = finite(res.Cost)
		e.StopReason = string(res.Reason)
		for i, name := range e.Unknowns {
			p := Parameter{Name: name, Value: res.Params[i]}
			if i < len(res.StdErrors) {
				p.StdError = finite(res.StdErrors[i])
			}
			e.Parameters = append(e.Parameters, p)
		}
	}
	return e
}

// Entries summarizes every outcome.
func Entries(outs []session.Outcome) []Entry {
	entries := make([]Entry, len(outs))
	for i, o := range outs {
		entries[i] = NewEntry(o)
	}
	return entries
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// baseWriter holds the destination shared by every writer.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
