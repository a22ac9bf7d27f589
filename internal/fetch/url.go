package fetch

import (
	"strings"

	"github.com/nao1215/sitescope/internal/manifest"
)

// NormalizeURL turns user input into the manifest URL.
// Surrounding white space is trimmed. Input already ending in site.json is
// returned as is; otherwise exactly one "/" separates it from site.json.
// The URL is not otherwise checked; a bad URL fails at request time.
func NormalizeURL(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrEmptyInput
	}
	if strings.HasSuffix(s, manifest.FileName) {
		return s, nil
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s + manifest.FileName, nil
}

// requestURL returns the URL actually requested: the normalized URL, with
// scheme prepended when it has none.
func requestURL(normalized, scheme string) string {
	if strings.Contains(normalized, "://") {
		return normalized
	}
	return scheme + "://" + strings.TrimLeft(normalized, "/")
}
