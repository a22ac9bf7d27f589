package report

// Labels shared by the text and Markdown cards.
const (
	labelNoImage     = "No image available"
	labelLastUpdated = "Last updated:"
	labelViewPage    = "View Page"
	labelViewSource  = "View Source"
)
