// Package fetch turns user input into a validated site manifest.
//
// The flow is: NormalizeURL, one HTTP GET, JSON parse, schema validation.
// Any failure short-circuits. Controller wraps the flow with a single
// current state (Idle, Loading, Failed, Succeeded) and a last-submission-wins
// rule for overlapping requests.
//
// Design decision: There are no retries and no caching. Two submissions of
// the same URL make two requests, and a failed attempt stays failed until the
// user submits again.
package fetch
