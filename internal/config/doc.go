// Package config provides configuration structures and utilities for SiteScope.
// It defines the request, transport, and report options, the optional
// .sitescope YAML file with per-site overrides, and the XDG paths used for
// the history database.
package config
