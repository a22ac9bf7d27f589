// Package normalize derives the display model from a validated site manifest.
//
// Manifests in the wild are loosely shaped: the same datum may live under
// several keys, in several types, or not at all. Every derived field is
// therefore resolved through an ordered fallback chain of accessors, tried in
// sequence until one yields a usable value. The chains are package-level
// slices so that the priority order is data, not control flow.
//
// Design decision: Nothing in this package returns an error. Every missing or
// malformed field degrades to a documented placeholder (see the constants in
// normalize.go). Validation is the job of package manifest; by the time a
// manifest reaches this package its title and item shape are guaranteed.
//
// The link origin used to resolve relative asset paths and to build item
// links is fixed per Normalizer and defaults to DefaultOrigin.
package normalize
