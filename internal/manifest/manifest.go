package manifest

import (
	"encoding/hex"
	"strconv"

	"github.com/tidwall/gjson"
	"golang.org/x/crypto/sha3"
)

// FileName is the fixed manifest file name appended to site URLs.
const FileName = "site.json"

// Manifest is a site manifest that passed validation.
// The zero value is not usable; obtain one from Parse.
type Manifest struct {
	raw   []byte
	root  gjson.Result
	items []Item
}

// Item is one content entry of a validated manifest.
type Item struct {
	index int
	root  gjson.Result
}

// Parse validates data and returns the manifest it describes.
// It returns ErrParse for malformed JSON and a *SchemaError (matching
// ErrSchema) when the document has the wrong shape. Validation is all or
// nothing: one bad item rejects the whole manifest.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrParse
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &SchemaError{Path: "@this", Reason: "document is not an object"}
	}

	if title := root.Get("title"); title.Type != gjson.String {
		return nil, &SchemaError{Path: "title", Reason: "must be a string"}
	}

	items := root.Get("items")
	if !items.IsArray() {
		return nil, &SchemaError{Path: "items", Reason: "must be an array"}
	}

	elems := items.Array()
	parsed := make([]Item, 0, len(elems))
	for i, elem := range elems {
		prefix := "items." + strconv.Itoa(i)
		if !elem.IsObject() {
			return nil, &SchemaError{Path: prefix, Reason: "must be an object"}
		}
		if elem.Get("title").Type != gjson.String {
			return nil, &SchemaError{Path: prefix + ".title", Reason: "must be a string"}
		}
		if elem.Get("location").Type != gjson.String {
			return nil, &SchemaError{Path: prefix + ".location", Reason: "must be a string"}
		}
		parsed = append(parsed, Item{index: i, root: elem})
	}

	raw := make([]byte, len(data))
	copy(raw, data)

	return &Manifest{
		raw:   raw,
		root:  root,
		items: parsed,
	}, nil
}

// Title returns the manifest title.
func (m *Manifest) Title() string {
	return m.root.Get("title").String()
}

// Items returns the manifest items in document order.
func (m *Manifest) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of items.
func (m *Manifest) Len() int {
	return len(m.items)
}

// Get looks up a gjson path relative to the document root.
// Missing fields yield a Result whose Exists method reports false.
func (m *Manifest) Get(path string) gjson.Result {
	return m.root.Get(path)
}

// Root returns the document root.
func (m *Manifest) Root() gjson.Result {
	return m.root
}

// Raw returns a copy of the original document bytes.
func (m *Manifest) Raw() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}

// Fingerprint returns the hex SHA3-256 digest of the original document.
// Two fetches returning byte-identical documents share a fingerprint.
func (m *Manifest) Fingerprint() string {
	sum := sha3.Sum256(m.raw)
	return hex.EncodeToString(sum[:])
}

// Index returns the position of the item in the manifest.
func (it Item) Index() int {
	return it.index
}

// Title returns the item title.
func (it Item) Title() string {
	return it.root.Get("title").String()
}

// Location returns the item location, the base path for its links.
func (it Item) Location() string {
	return it.root.Get("location").String()
}

// Get looks up a gjson path relative to the item.
func (it Item) Get(path string) gjson.Result {
	return it.root.Get(path)
}

// Root returns the item object.
func (it Item) Root() gjson.Result {
	return it.root
}

// NewItem builds an Item from a raw JSON object without manifest-level
// validation. It exists for callers that render a single item, such as tests.
func NewItem(raw string) Item {
	return Item{root: gjson.Parse(raw)}
}
