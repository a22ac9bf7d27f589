package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// accessor extracts one candidate value from a JSON node.
// It reports false when the node does not provide a usable value.
type accessor struct {
	name string
	get  func(gjson.Result) (string, bool)
}

// textAt returns an accessor for the text at a gjson path.
// Non-empty strings and non-zero numbers count as text.
func textAt(path string) accessor {
	return accessor{
		name: path,
		get: func(node gjson.Result) (string, bool) {
			return text(node.Get(path))
		},
	}
}

// stringAt returns an accessor that accepts only non-empty JSON strings.
// Asset URLs use it so that a number in an image slot falls through to the
// next candidate instead of becoming a bogus URL.
func stringAt(path string) accessor {
	return accessor{
		name: path,
		get: func(node gjson.Result) (string, bool) {
			v := node.Get(path)
			if v.Type != gjson.String || v.Str == "" {
				return "", false
			}
			return v.Str, true
		},
	}
}

func text(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return v.Str, v.Str != ""
	case gjson.Number:
		return v.Raw, v.Float() != 0
	default:
		return "", false
	}
}

// truthy reports whether v holds a value other than null, false, "", or 0.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Float() != 0
	default:
		return v.Exists()
	}
}

// first walks chain in order and returns the first value an accessor yields.
func first(node gjson.Result, chain []accessor) (string, bool) {
	for _, a := range chain {
		if v, ok := a.get(node); ok {
			return v, true
		}
	}
	return "", false
}

// firstOr is first with a fallback.
func firstOr(node gjson.Result, chain []accessor, fallback string) string {
	if v, ok := first(node, chain); ok {
		return v
	}
	return fallback
}

// firstValue returns the first truthy node among paths, or an empty Result.
func firstValue(node gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if v := node.Get(p); truthy(v) {
			return v
		}
	}
	return gjson.Result{}
}

// joinPath joins base and p with exactly one slash.
func joinPath(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
