// Package report renders fetch results.
//
// Writers:
//   - SimpleWriter: plain text for terminals (default)
//   - MarkdownWriter: Markdown for sharing or committing next to docs
//   - JSONWriter / FullJSONWriter: structured output for other tools
//   - RawWriter: the manifest itself, pretty printed
//
// Text and Markdown output render an overview block for the site followed
// by one card per item: image (or a placeholder), title, description,
// last-updated date and the page and source links. Manifest text is passed
// through a strict HTML sanitizer first, since site.json values are
// authored in a web editor and often carry markup.
//
// Design decision: Report writing is kept apart from the data in the model
// package so new formats do not touch the pipeline.
package report
