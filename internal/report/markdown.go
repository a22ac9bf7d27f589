package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/sitescope/internal/model"
	"golang.org/x/text/language"
)

// MarkdownWriter renders GitHub-flavored Markdown.
//
// Design decision: nao1215/markdown builds the document so tables, alerts
// and links are escaped and laid out consistently.
type MarkdownWriter struct {
	baseWriter
	counter counter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		counter:    newCounter(language.English),
	}
}

// Write renders one report.
func (w *MarkdownWriter) Write(report *model.SiteReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeReport(md, report)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteAll renders a batch with a summary table first.
func (w *MarkdownWriter) WriteAll(reports []*model.SiteReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	if len(reports) > 1 {
		w.writeSummary(md, reports)
	}
	for _, r := range reports {
		w.writeReport(md, r)
	}
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, reports []*model.SiteReport) {
	md.H1("SiteScope Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		status := "✅ " + w.counter.items(r.ItemCount)
		if r.Status == model.StatusFailed {
			status = "❌ " + r.ErrorMessage
		}
		rows = append(rows, []string{escapeCell(cleanText(r.Title())), "`" + r.Target + "`", status})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Site", "Target", "Result"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.SiteReport) {
	md.H1(cleanText(report.Title()))
	md.PlainText("")

	source := report.URL
	if source == "" {
		source = report.Target
	}

	if report.Status == model.StatusFailed {
		md.Table(markdown.TableSet{
			Header: []string{"Property", "Value"},
			Rows: [][]string{
				{"Manifest", "`" + source + "`"},
				{"Fetched", report.FetchedAt.Format("2006-01-02 15:04:05 MST")},
			},
		})
		md.PlainText("")
		md.Caution(report.ErrorMessage)
		md.PlainText("")
		return
	}

	d := report.Display
	if d == nil {
		return
	}

	rows := [][]string{
		{"Manifest", "`" + source + "`"},
		{"Fetched", report.FetchedAt.Format("2006-01-02 15:04:05 MST")},
		{"Theme", escapeCell(cleanText(d.Theme.Name)) + " (`" + d.Theme.Color + "`)"},
		{"Created", d.Created},
		{"Updated", d.Updated},
		{"Contents", w.counter.items(len(d.Items))},
	}
	if d.Logo != "" {
		rows = append(rows, []string{"Logo", markdown.Link("logo", d.Logo)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(cleanText(d.Description))
	md.PlainText("")

	if len(d.Items) == 0 {
		md.Note("This site has no items.")
		md.PlainText("")
		return
	}

	md.H2("Items")
	md.PlainText("")
	for _, item := range d.Items {
		w.writeCard(md, item)
	}
}

func (w *MarkdownWriter) writeCard(md *markdown.Markdown, item model.DisplayItem) {
	title := cleanText(item.Title)
	md.H3(title)
	md.PlainText("")
	if item.HasImage() {
		md.PlainText(markdown.Image(title, item.ImageURL))
	} else {
		md.PlainText(markdown.Italic(labelNoImage))
	}
	md.PlainText("")
	md.PlainText(cleanText(item.Description))
	md.PlainText("")
	md.PlainText(markdown.Bold(labelLastUpdated) + " " + item.LastUpdated)
	md.PlainText("")

	links := markdown.Link(labelViewPage, item.PageLink)
	if item.HasSource() {
		links += " | " + markdown.Link(labelViewSource, item.SourceLink)
	}
	md.PlainText(links)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [SiteScope](https://github.com/nao1215/sitescope)*")
}

// escapeCell keeps a pipe in cell text from splitting the column.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
