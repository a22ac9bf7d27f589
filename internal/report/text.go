package report

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// strictPolicy removes every HTML element and keeps the text content.
var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from manifest text and collapses white space.
// bluemonday escapes what it keeps, so entities are decoded again for
// terminal output.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// truncate shortens s to at most maxRunes runes, ending in "...".
func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-3]) + "..."
}

// counter formats counts with locale-aware digit grouping.
type counter struct {
	printer *message.Printer
}

func newCounter(tag language.Tag) counter {
	return counter{printer: message.NewPrinter(tag)}
}

// items returns "1 item", "1,234 items" and so on.
func (c counter) items(n int) string {
	if n == 1 {
		return c.printer.Sprintf("%d item", n)
	}
	return c.printer.Sprintf("%d items", n)
}

// number returns n with digit grouping.
func (c counter) number(n int) string {
	return c.printer.Sprintf("%d", n)
}
