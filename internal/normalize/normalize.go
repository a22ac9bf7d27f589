package normalize

import (
	"strings"

	"github.com/nao1215/sitescope/internal/manifest"
	"github.com/nao1215/sitescope/internal/model"
	"github.com/tidwall/gjson"
)

// DefaultOrigin is the host used to resolve relative asset paths and to
// build item links.
const DefaultOrigin = "https://haxtheweb.org"

// Placeholder text substituted for missing data.
const (
	// NoDescription replaces a missing site description.
	NoDescription = "There is no description available."

	// NoItemDescription replaces a missing item description.
	NoItemDescription = "No description available"

	// Untitled replaces an empty title.
	Untitled = "Untitled"

	// DateNotAvailable replaces a missing or unparsable timestamp.
	DateNotAvailable = "The date is not available."
)

// bannerSuffix is appended to an item location as the last image candidate.
const bannerSuffix = "/assets/banner.jpg"

var (
	descriptionChain = []accessor{
		textAt("description"),
		textAt("metadata.description"),
		textAt("metadata.about"),
		textAt("about"),
	}

	itemDescriptionChain = []accessor{
		textAt("description"),
	}

	logoChain = []accessor{
		stringAt("metadata.logo"),
		stringAt("metadata.icon"),
	}

	createdPaths = []string{"metadata.site.created", "metadata.created"}
	updatedPaths = []string{"metadata.site.updated", "metadata.updated"}
)

// Normalizer builds display models against a fixed link origin.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	origin string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithOrigin sets the link origin. A trailing slash is dropped; an empty
// origin keeps the default.
func WithOrigin(origin string) Option {
	return func(n *Normalizer) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			n.origin = origin
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{origin: DefaultOrigin}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Origin returns the link origin in use.
func (n *Normalizer) Origin() string {
	return n.origin
}

// ResolveDescription returns the first non-empty description of the manifest
// root, trying description, metadata.description, metadata.about and about.
func ResolveDescription(root gjson.Result) string {
	return firstOr(root, descriptionChain, NoDescription)
}

// BuildDisplayModel derives the display model of m. Items are mapped in
// manifest order.
func (n *Normalizer) BuildDisplayModel(m *manifest.Manifest) *model.Display {
	root := m.Root()

	title := m.Title()
	if title == "" {
		title = Untitled
	}

	items := m.Items()
	display := &model.Display{
		Title:       title,
		Description: ResolveDescription(root),
		Theme:       ResolveTheme(root.Get("metadata.theme")),
		Created:     FormatTimestamp(firstValue(root, createdPaths)),
		Updated:     FormatTimestamp(firstValue(root, updatedPaths)),
		Items:       make([]model.DisplayItem, 0, len(items)),
	}

	if logo, ok := first(root, logoChain); ok {
		display.Logo, _ = n.NormalizeAssetURL(logo)
	}

	for _, item := range items {
		display.Items = append(display.Items, n.BuildDisplayItem(item))
	}
	return display
}

// BuildDisplayItem derives one content card.
func (n *Normalizer) BuildDisplayItem(item manifest.Item) model.DisplayItem {
	node := item.Root()

	title := item.Title()
	if title == "" {
		title = Untitled
	}

	image, _ := n.ResolveItemImage(item)

	card := model.DisplayItem{
		Title:       title,
		Description: firstOr(node, itemDescriptionChain, NoItemDescription),
		ImageURL:    image,
		LastUpdated: FormatTimestamp(node.Get("metadata.updated")),
		PageLink:    joinPath(n.origin, item.Location()),
	}

	if slug, ok := text(node.Get("slug")); ok {
		card.SourceLink = joinPath(n.origin, slug)
	}
	return card
}
