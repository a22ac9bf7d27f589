package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitescope/internal/model"
	"golang.org/x/text/language"
)

const ruleWidth = 70

// SimpleWriter renders plain text for terminals.
//
// Design decision: Plain ASCII framing, no ANSI colors, so output pipes
// cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter
	verbose bool
	counter counter
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds diagnostics: the manifest fingerprint, performed steps
// and the full error chain of failures.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.counter = newCounter(tag)
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		counter:    newCounter(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders one report.
func (w *SimpleWriter) Write(report *model.SiteReport) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

// WriteAll renders each report followed by a one-line summary per target.
func (w *SimpleWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	var sb strings.Builder
	for _, r := range reports {
		w.writeReport(&sb, r)
	}
	w.writeSummary(&sb, reports)
	w.writeFooter(&sb)
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.SiteReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(centered(strings.ToUpper(cleanText(report.Title()))) + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	source := report.URL
	if source == "" {
		source = report.Target
	}
	fmt.Fprintf(sb, "Manifest:     %s\n", source)
	fmt.Fprintf(sb, "Fetched:      %s\n", report.FetchedAt.Format("2006-01-02 15:04:05 MST"))

	if report.Status == model.StatusFailed {
		fmt.Fprintf(sb, "Status:       ERROR - %s\n", report.ErrorMessage)
		if w.verbose && report.ErrorDetail != "" {
			fmt.Fprintf(sb, "Detail:       %s\n", report.ErrorDetail)
		}
		sb.WriteString("\n")
		return
	}
	sb.WriteString("Status:       OK\n")
	if w.verbose {
		fmt.Fprintf(sb, "Fingerprint:  %s\n", report.ManifestHash)
		fmt.Fprintf(sb, "Steps:        %s\n", strings.Join(report.PerformedSteps, ", "))
		fmt.Fprintf(sb, "Duration:     %s\n", report.Duration)
	}
	sb.WriteString("\n")

	d := report.Display
	if d == nil {
		return
	}
	w.writeOverview(sb, d)
	w.writeItems(sb, d)
}

func (w *SimpleWriter) writeOverview(sb *strings.Builder, d *model.Display) {
	fmt.Fprintf(sb, "Description:  %s\n", cleanText(d.Description))
	fmt.Fprintf(sb, "Theme:        %s (%s)\n", cleanText(d.Theme.Name), d.Theme.Color)
	fmt.Fprintf(sb, "Created:      %s\n", d.Created)
	fmt.Fprintf(sb, "Updated:      %s\n", d.Updated)
	if d.Logo != "" {
		fmt.Fprintf(sb, "Logo:         %s\n", d.Logo)
	}
	fmt.Fprintf(sb, "Contents:     %s\n", w.counter.items(len(d.Items)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeItems(sb *strings.Builder, d *model.Display) {
	if len(d.Items) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString("ITEMS\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")

	for _, item := range d.Items {
		fmt.Fprintf(sb, "  * %s\n", cleanText(item.Title))
		if item.HasImage() {
			fmt.Fprintf(sb, "    Image:  %s\n", item.ImageURL)
		} else {
			fmt.Fprintf(sb, "    [%s]\n", labelNoImage)
		}
		fmt.Fprintf(sb, "    %s\n", cleanText(item.Description))
		fmt.Fprintf(sb, "    %s %s\n", labelLastUpdated, item.LastUpdated)
		fmt.Fprintf(sb, "    %s:   %s\n", labelViewPage, item.PageLink)
		if item.HasSource() {
			fmt.Fprintf(sb, "    %s: %s\n", labelViewSource, item.SourceLink)
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, reports []*model.SiteReport) {
	if len(reports) < 2 {
		return
	}

	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")

	failed := 0
	for _, r := range reports {
		if r.Status == model.StatusFailed {
			failed++
			fmt.Fprintf(sb, "  [x] %s: %s\n", r.Target, r.ErrorMessage)
			continue
		}
		fmt.Fprintf(sb, "  [+] %s: %s\n", r.Target, w.counter.items(r.ItemCount))
	}
	fmt.Fprintf(sb, "\n  %s of %s sites fetched\n\n",
		w.counter.number(len(reports)-failed), w.counter.number(len(reports)))
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString("Report generated by SiteScope\n")
	sb.WriteString("https://github.com/nao1215/sitescope\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
}

// centered pads s to sit in the middle of a rule.
func centered(s string) string {
	s = truncate(s, ruleWidth)
	pad := (ruleWidth - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
