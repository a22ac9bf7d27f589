// Package manifest parses and validates site manifests (site.json).
//
// A manifest is an untrusted JSON document with a title, optional metadata,
// and a list of content items. Most fields are optional and several appear in
// more than one shape, so the document is kept as a gjson tree rather than
// decoded into fixed structs.
//
// The only way to obtain a *Manifest is Parse, which guarantees:
//   - the document is valid JSON
//   - "title" is a string
//   - "items" is an array
//   - every item is an object with string "title" and string "location"
//
// Code holding a *Manifest can therefore rely on these fields without
// re-checking them.
package manifest
