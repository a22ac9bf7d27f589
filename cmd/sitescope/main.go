// Package main provides the entry point for the SiteScope CLI.
//
// SiteScope fetches the site.json manifest of a HAX-style static site and
// renders its title, description, theme, and content items as a report.
//
// Usage:
//
//	sitescope fetch <site-url>
//	sitescope fetch --list <file>
//	sitescope watch
//	sitescope history [site-url]
//
// See --help for all available options.
package main

// main is the entry point for SiteScope.
func main() {
	Execute()
}
