package report

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/curvefit/session"
)

// JSONWriter outputs a Document as JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Document is the JSON report.
type Document struct {
	Models []Entry `json:"models"`
	Fitted int     `json:"fitted"`
	Failed int     `json:"failed"`
}

// NewDocument summarizes outs.
func NewDocument(outs []session.Outcome) Document {
	doc := Document{Models: Entries(outs)}
	for _, e := range doc.Models {
		if e.Error != "" {
			doc.Failed++
		} else {
			doc.Fitted++
		}
	}
	return doc
}

// Write outputs the document followed by a newline.
func (w *JSONWriter) Write(outs []session.Outcome) (int, error) {
	var data []byte
	var err error
	doc := NewDocument(outs)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}
