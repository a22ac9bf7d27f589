package fetch

import "github.com/nao1215/sitescope/internal/manifest"

// State is the controller state. It is one of Idle, Loading, Failed, or
// Succeeded; the unexported method keeps other packages from adding variants.
type State interface {
	// Name returns a short lowercase name for logs and output.
	Name() string
	isState()
}

// Idle is the state before the first submission.
type Idle struct{}

// Loading means a request for URL is in flight.
type Loading struct {
	URL string
	Seq uint64
}

// Failed means the latest submission failed. It carries no manifest data.
type Failed struct {
	// URL is the normalized URL, empty for empty input.
	URL string
	Err error
}

// Succeeded means the latest submission produced a valid manifest.
type Succeeded struct {
	URL      string
	Manifest *manifest.Manifest
}

func (Idle) Name() string      { return "idle" }
func (Loading) Name() string   { return "loading" }
func (Failed) Name() string    { return "failed" }
func (Succeeded) Name() string { return "succeeded" }

func (Idle) isState()      {}
func (Loading) isState()   {}
func (Failed) isState()    {}
func (Succeeded) isState() {}

// Message returns the user-facing failure message.
func (f Failed) Message() string {
	return UserMessage(f.Err)
}
