// Package transport builds the HTTP clients SiteScope fetches manifests with.
//
// Three modes are supported: a direct client, a client routed through an
// existing SOCKS5 proxy (--proxy), and a client routed through an embedded
// Tor daemon started with tornago (--tor) for sites published as onion
// services.
//
// Design decision: Proxy addresses are verified with a real SOCKS5
// handshake before any manifest request is made, so a mistyped port fails
// fast with a clear status instead of surfacing as a generic fetch error.
//
// The package is designed to be used with dependency injection: build a
// client once per run and hand it to the fetcher.
package transport
