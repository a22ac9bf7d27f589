package normalize

import (
	"strings"

	"github.com/nao1215/sitescope/internal/manifest"
	"github.com/tidwall/gjson"
)

// imageChain lists the item image candidates in priority order.
var imageChain = []accessor{
	{name: "metadata.files", get: imageFile},
	stringAt("metadata.image"),
	stringAt("metadata.thumbnail"),
	stringAt("image"),
	stringAt("thumbnail"),
	{name: "location", get: banner},
}

// imageFile returns the url of the first metadata.files entry whose type is
// an image MIME type.
func imageFile(item gjson.Result) (string, bool) {
	files := item.Get("metadata.files")
	if !files.IsArray() {
		return "", false
	}

	var found string
	files.ForEach(func(_, file gjson.Result) bool {
		typ := file.Get("type")
		if typ.Type != gjson.String || !strings.HasPrefix(typ.Str, "image/") {
			return true
		}
		url := file.Get("url")
		if url.Type != gjson.String || url.Str == "" {
			return true
		}
		found = url.Str
		return false
	})
	return found, found != ""
}

// banner builds the conventional banner path under the item location.
func banner(item gjson.Result) (string, bool) {
	loc := item.Get("location")
	if loc.Type != gjson.String || loc.Str == "" {
		return "", false
	}
	return strings.TrimRight(loc.Str, "/") + bannerSuffix, true
}

// ResolveItemImage returns the absolute image URL of item.
// It reports false only when no candidate exists, which for a validated
// item means its location is empty.
func (n *Normalizer) ResolveItemImage(item manifest.Item) (string, bool) {
	raw, ok := first(item.Root(), imageChain)
	if !ok {
		return "", false
	}
	return n.NormalizeAssetURL(raw)
}

// NormalizeAssetURL makes raw absolute against the origin.
// Paths with a leading slash are appended to the origin, http and https URLs
// pass through, and anything else is joined to the origin with a slash.
// Empty input yields false.
func (n *Normalizer) NormalizeAssetURL(raw string) (string, bool) {
	switch {
	case raw == "":
		return "", false
	case strings.HasPrefix(raw, "/"):
		return n.origin + raw, true
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw, true
	default:
		return n.origin + "/" + raw, true
	}
}
