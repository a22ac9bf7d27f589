package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/sitescope/internal/model"
	"github.com/tidwall/pretty"
)

// ErrNoManifest is returned by RawWriter for a report without a manifest.
var ErrNoManifest = errors.New("report has no manifest")

// RawWriter prints the fetched manifest bytes, reformatted for reading.
// Keys and values are untouched; only white space changes.
type RawWriter struct {
	baseWriter
	color bool
}

// RawWriterOption configures a RawWriter.
type RawWriterOption func(*RawWriter)

// WithColor enables ANSI syntax coloring.
func WithColor(color bool) RawWriterOption {
	return func(w *RawWriter) {
		w.color = color
	}
}

// NewRawWriter creates a RawWriter.
func NewRawWriter(output io.Writer, opts ...RawWriterOption) *RawWriter {
	w := &RawWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write prints the report's manifest. Failed reports yield ErrNoManifest.
func (w *RawWriter) Write(report *model.SiteReport) (int, error) {
	if report.Manifest == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoManifest, report.Target)
	}
	out := pretty.Pretty(report.Manifest.Raw())
	if w.color {
		out = pretty.Color(out, nil)
	}
	return w.output.Write(out)
}

// WriteAll prints every manifest that was fetched, in order, and returns
// the first ErrNoManifest after writing the rest.
func (w *RawWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	var (
		total    int
		firstErr error
	)
	for _, r := range reports {
		n, err := w.Write(r)
		total += n
		if err != nil {
			if !errors.Is(err, ErrNoManifest) {
				return total, err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return total, firstErr
}
