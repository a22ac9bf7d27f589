package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/sitescope/internal/model"
)

// JSONWriter renders reports as JSON.
//
// Design decision: encoding/json is enough here. Reports are plain structs
// with tags; the loose manifest access that motivates gjson elsewhere does
// not apply to output.
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

// NewJSONWriter creates a JSONWriter with compact output by default.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders one report.
func (w *JSONWriter) Write(report *model.SiteReport) (int, error) {
	return w.writeJSON(report)
}

// WriteAll renders reports as a JSON array.
func (w *JSONWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	if reports == nil {
		reports = []*model.SiteReport{}
	}
	return w.writeJSON(reports)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps reports with the generating version.
type JSONReport struct {
	Version string              `json:"version"`
	Reports []*model.SiteReport `json:"reports"`
}

// FullJSONWriter writes JSONReport envelopes. A single report is still
// wrapped in a one-element list so consumers see one shape.
type FullJSONWriter struct {
	*JSONWriter
	version string
}

// NewFullJSONWriter creates a FullJSONWriter.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write renders one report in an envelope.
func (w *FullJSONWriter) Write(report *model.SiteReport) (int, error) {
	return w.WriteAll([]*model.SiteReport{report})
}

// WriteAll renders reports in an envelope.
func (w *FullJSONWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	if reports == nil {
		reports = []*model.SiteReport{}
	}
	return w.writeJSON(&JSONReport{Version: w.version, Reports: reports})
}
