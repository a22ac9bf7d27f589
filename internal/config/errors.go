package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no target URL is given, either as an
	// argument or through --list.
	ErrNoTarget = errors.New("no target specified: provide a site URL or use --list")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Zero is valid and disables the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be zero or positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --raw is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown, --raw")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingTransports is returned when both --tor and --proxy are
	// specified. The embedded Tor daemon provides its own proxy.
	ErrConflictingTransports = errors.New("conflicting transports: --tor and --proxy cannot be used together")

	// ErrInvalidOrigin is returned when the link origin is not an absolute
	// http or https URL.
	ErrInvalidOrigin = errors.New("invalid origin: must be an absolute http or https URL")

	// ErrInvalidDuration is returned when a duration in the config file
	// cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration: expected a value like 30s or 2m")
)
