package model

// Theme is the resolved presentation theme of a site.
type Theme struct {
	// Name is the theme name, "Default Theme" or "Custom Theme" when unnamed.
	Name string `json:"name"`

	// Color is a CSS color, "#666" unless the manifest supplies one.
	Color string `json:"color"`
}

// Display is the canonical display model of a validated manifest.
// Every field is always populated; absent source data is replaced by
// placeholder text during normalization.
type Display struct {
	// Title is the manifest title.
	Title string `json:"title"`

	// Description is the first available description.
	Description string `json:"description"`

	// Theme is the resolved theme.
	Theme Theme `json:"theme"`

	// Created is the formatted creation date.
	Created string `json:"created"`

	// Updated is the formatted last update date.
	Updated string `json:"updated"`

	// Logo is an absolute logo URL, empty when the manifest has none.
	Logo string `json:"logo,omitempty"`

	// Items holds one card per manifest item, in manifest order.
	Items []DisplayItem `json:"items"`
}

// DisplayItem is one content card.
type DisplayItem struct {
	// Title is the item title, "Untitled" when empty.
	Title string `json:"title"`

	// Description is the item description, "No description available" when absent.
	Description string `json:"description"`

	// ImageURL is an absolute image URL. Empty means no image.
	ImageURL string `json:"image_url,omitempty"`

	// LastUpdated is the formatted metadata.updated value.
	LastUpdated string `json:"last_updated"`

	// PageLink points at the rendered page of the item.
	PageLink string `json:"page_link"`

	// SourceLink points at the item slug. Empty disables the link.
	SourceLink string `json:"source_link,omitempty"`
}

// HasImage reports whether the card carries an image.
func (i DisplayItem) HasImage() bool {
	return i.ImageURL != ""
}

// HasSource reports whether the "View Source" link is enabled.
func (i DisplayItem) HasSource() bool {
	return i.SourceLink != ""
}
