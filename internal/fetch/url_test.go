package fetch

import (
	"errors"
	"strings"
	"testing"
)

// TestNormalizeURL tests manifest URL construction.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"example.org", "example.org/site.json"},
		{"example.org/", "example.org/site.json"},
		{"  example.org  ", "example.org/site.json"},
		{"https://example.org/docs", "https://example.org/docs/site.json"},
		{"https://example.org/docs/", "https://example.org/docs/site.json"},
		{"https://example.org/site.json", "https://example.org/site.json"},
		{"example.org/site.json", "example.org/site.json"},
		{"\texample.org/site.json\n", "example.org/site.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestNormalizeURLSingleSeparator checks that the file name is always
// preceded by exactly one slash.
func TestNormalizeURLSingleSeparator(t *testing.T) {
	t.Parallel()

	inputs := []string{"a", "a/", "a/b", "a/b/", "http://h", "http://h/", "x.y/z/", "/"}
	for _, in := range inputs {
		got, err := NormalizeURL(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if strings.HasSuffix(got, "//site.json") {
			t.Errorf("%q: double separator in %q", in, got)
		}
		if !strings.HasSuffix(got, "/site.json") {
			t.Errorf("%q: missing separator in %q", in, got)
		}
	}
}

// TestNormalizeURLEmpty tests that blank input is rejected.
func TestNormalizeURLEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", " ", "\t\n"} {
		if _, err := NormalizeURL(in); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("%q: expected ErrEmptyInput, got %v", in, err)
		}
	}
}

// TestRequestURL tests the default scheme.
func TestRequestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		normalized string
		expected   string
	}{
		{"example.org/site.json", "https://example.org/site.json"},
		{"http://example.org/site.json", "http://example.org/site.json"},
		{"https://example.org/site.json", "https://example.org/site.json"},
		{"//example.org/site.json", "https://example.org/site.json"},
	}

	for _, tt := range tests {
		t.Run(tt.normalized, func(t *testing.T) {
			t.Parallel()
			if got := requestURL(tt.normalized, "https"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestUserMessage tests the collapsed user-facing messages.
func TestUserMessage(t *testing.T) {
	t.Parallel()

	if got := UserMessage(nil); got != "" {
		t.Errorf("expected empty message for nil, got %q", got)
	}
	if got := UserMessage(ErrEmptyInput); got != MessageEmptyInput {
		t.Errorf("expected %q, got %q", MessageEmptyInput, got)
	}
	wrapped := &Error{Stage: StageRequest, URL: "u", Err: ErrNetwork}
	if got := UserMessage(wrapped); got != MessageRetrievalFailed {
		t.Errorf("expected %q, got %q", MessageRetrievalFailed, got)
	}
}
