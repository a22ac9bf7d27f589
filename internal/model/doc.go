// Package model defines the core data structures used throughout SiteScope.
//
// This package contains the following main types:
//   - Display: The canonical display model derived from a site manifest
//   - DisplayItem: One rendered content card
//   - SiteReport: The outcome of processing one target
//   - Status: The terminal state of a fetch
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The normalizer, pipeline, report writers, and history store all
// share these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage. Display values are derived and never mutated after
// construction.
package model
