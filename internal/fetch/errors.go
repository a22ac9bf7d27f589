package fetch

import (
	"errors"
	"fmt"

	"github.com/nao1215/sitescope/internal/manifest"
)

// Fetch errors.
//
// Design decision: Parse and schema failures are the manifest package's
// sentinels (manifest.ErrParse, manifest.ErrSchema); this package only adds
// the failures it owns. Every failure after URL normalization is wrapped in
// *Error so callers learn the stage and URL, while errors.Is still reaches
// the sentinel.
var (
	// ErrEmptyInput is returned when the input is empty after trimming.
	// No request is made.
	ErrEmptyInput = errors.New("no URL provided")

	// ErrNetwork is returned when the request fails in transport or the
	// server answers with a non-2xx status.
	ErrNetwork = errors.New("could not retrieve manifest")

	// ErrBodyTooLarge is returned, wrapped in ErrNetwork, when the response
	// body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("response body too large")
)

// User-facing messages. Every fetch-stage failure collapses to one message.
const (
	MessageEmptyInput      = "Please enter a URL"
	MessageRetrievalFailed = "Could not retrieve valid site.json"
)

// Stage names the step of a fetch that failed.
type Stage string

const (
	// StageRequest covers building the request, transport, status, and body read.
	StageRequest Stage = "request"

	// StageParse covers JSON decoding.
	StageParse Stage = "parse"

	// StageValidate covers the manifest shape checks.
	StageValidate Stage = "validate"
)

// Error describes a failed fetch.
type Error struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage maps an error from this package to the text shown to users.
// It returns "" for nil.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return MessageEmptyInput
	default:
		return MessageRetrievalFailed
	}
}

// stageOf classifies a manifest.Parse error.
func stageOf(err error) Stage {
	if errors.Is(err, manifest.ErrParse) {
		return StageParse
	}
	return StageValidate
}
