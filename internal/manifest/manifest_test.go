package manifest

import (
	"errors"
	"testing"
)

// TestParse tests manifest validation.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("accepts a minimal manifest", func(t *testing.T) {
		t.Parallel()
		m, err := Parse([]byte(`{"title":"Site","items":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Title() != "Site" {
			t.Errorf("expected title Site, got %q", m.Title())
		}
		if m.Len() != 0 {
			t.Errorf("expected 0 items, got %d", m.Len())
		}
	})

	t.Run("keeps items in document order", func(t *testing.T) {
		t.Parallel()
		m, err := Parse([]byte(`{"title":"T","items":[
			{"title":"a","location":"one"},
			{"title":"b","location":"two","slug":"s"}
		]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items := m.Items()
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Title() != "a" || items[1].Title() != "b" {
			t.Errorf("unexpected order: %q, %q", items[0].Title(), items[1].Title())
		}
		if items[1].Location() != "two" {
			t.Errorf("expected location two, got %q", items[1].Location())
		}
		if items[1].Index() != 1 {
			t.Errorf("expected index 1, got %d", items[1].Index())
		}
		if items[1].Get("slug").String() != "s" {
			t.Errorf("expected slug s, got %q", items[1].Get("slug").String())
		}
	})

	t.Run("rejects malformed JSON with ErrParse", func(t *testing.T) {
		t.Parallel()
		for _, body := range []string{"", "{", "not json", `{"title":"x",}`} {
			_, err := Parse([]byte(body))
			if !errors.Is(err, ErrParse) {
				t.Errorf("body %q: expected ErrParse, got %v", body, err)
			}
		}
	})

	tests := []struct {
		name string
		body string
		path string
	}{
		{name: "array document", body: `[]`, path: "@this"},
		{name: "string document", body: `"site"`, path: "@this"},
		{name: "missing title", body: `{"items":[]}`, path: "title"},
		{name: "numeric title", body: `{"title":1,"items":[]}`, path: "title"},
		{name: "missing items", body: `{"title":"T"}`, path: "items"},
		{name: "items is object", body: `{"title":"T","items":{}}`, path: "items"},
		{name: "item is string", body: `{"title":"T","items":["x"]}`, path: "items.0"},
		{name: "item without title", body: `{"title":"T","items":[{"location":"l"}]}`, path: "items.0.title"},
		{
			name: "second item without location",
			body: `{"title":"T","items":[{"title":"a","location":"l"},{"title":"b"}]}`,
			path: "items.1.location",
		},
		{
			name: "location is number",
			body: `{"title":"T","items":[{"title":"a","location":5}]}`,
			path: "items.0.location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := Parse([]byte(tt.body))
			if m != nil {
				t.Error("expected no manifest on schema failure")
			}
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
			if errors.Is(err, ErrParse) {
				t.Error("schema failure must not match ErrParse")
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected *SchemaError, got %T", err)
			}
			if schemaErr.Path != tt.path {
				t.Errorf("expected path %q, got %q", tt.path, schemaErr.Path)
			}
		})
	}
}

// TestManifestRaw tests that Raw and Fingerprint reflect the original bytes.
func TestManifestRaw(t *testing.T) {
	t.Parallel()

	body := []byte(`{"title":"T","items":[]}`)
	m, err := Parse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body[2] = 'X'
	if string(m.Raw()) != `{"title":"T","items":[]}` {
		t.Errorf("manifest shares memory with caller: %s", m.Raw())
	}

	same, err := Parse([]byte(`{"title":"T","items":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Fingerprint() != same.Fingerprint() {
		t.Error("expected identical documents to share a fingerprint")
	}
	if len(m.Fingerprint()) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(m.Fingerprint()))
	}

	other, err := Parse([]byte(`{"title":"U","items":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Fingerprint() == other.Fingerprint() {
		t.Error("expected different documents to differ")
	}
}
