package model

import "fmt"

// Status is the terminal state of processing one target.
//
// Design decision: We use iota-based constants rather than string constants
// for cheap comparisons. MarshalText keeps the JSON and database forms readable.
type Status int

const (
	// StatusPending means the target has not finished processing.
	StatusPending Status = iota

	// StatusSucceeded means a valid manifest was fetched and normalized.
	StatusSucceeded

	// StatusFailed means some stage failed and no display model exists.
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "succeeded":
		return StatusSucceeded, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusPending, fmt.Errorf("unknown status %q", s)
	}
}
