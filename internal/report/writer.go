package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitescope/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders reports.
//
// Design decision: Writers take reports rather than bytes, so MultiWriter
// cannot be io.MultiWriter.
type Writer interface {
	// Write renders one report.
	Write(report *model.SiteReport) (int, error)

	// WriteAll renders a batch in the given order.
	WriteAll(reports []*model.SiteReport) (int, error)
}

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatSimple   Format = "simple"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatRaw      Format = "raw"
)

// ParseFormat parses a format name, case-insensitively. "" and "text" mean
// FormatSimple; "md" means FormatMarkdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple", "text":
		return FormatSimple, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "raw":
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// NewWriter creates the writer for format. version is embedded in JSON
// output.
func NewWriter(format Format, output io.Writer, version string) (Writer, error) {
	switch format {
	case FormatSimple:
		return NewSimpleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewFullJSONWriter(output, version, WithPrettyPrint()), nil
	case FormatRaw:
		return NewRawWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// MultiWriter writes to several Writers in turn and stops at the first
// error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders report with every writer.
func (m *MultiWriter) Write(report *model.SiteReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAll renders reports with every writer.
func (m *MultiWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAll(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
