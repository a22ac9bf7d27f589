package model

import (
	"time"

	"github.com/nao1215/sitescope/internal/manifest"
)

// SiteReport is the outcome of processing one target.
// It is filled in step by step by the pipeline and handed to report writers
// and the history store.
//
// Design decision: We use a single struct for success and failure so that
// batch output keeps one entry per target in input order. Exactly one of
// Display and Error is set once Status is terminal.
type SiteReport struct {
	// Target is the input exactly as the user typed it.
	Target string `json:"target"`

	// URL is the normalized manifest URL. Empty when the input was empty.
	URL string `json:"url,omitempty"`

	// FetchedAt is when processing started.
	FetchedAt time.Time `json:"fetched_at"`

	// Duration is the wall time spent on the target.
	Duration time.Duration `json:"duration"`

	// Status is the terminal state.
	Status Status `json:"status"`

	// Manifest is the validated manifest. Excluded from JSON; use ManifestHash.
	Manifest *manifest.Manifest `json:"-"`

	// ManifestHash is the SHA3-256 fingerprint of the manifest body.
	ManifestHash string `json:"manifest_hash,omitempty"`

	// ItemCount is the number of manifest items.
	ItemCount int `json:"item_count"`

	// Display is the normalized display model, set on success.
	Display *Display `json:"display,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the failure cause. Excluded from JSON.
	Error error `json:"-"`

	// ErrorMessage is the user-facing failure message.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional

	// ErrorDetail is the full error chain for diagnostics.
	ErrorDetail string `json:"error_detail,omitempty"`
}

// NewSiteReport creates a pending report for target.
func NewSiteReport(target string) *SiteReport {
	return &SiteReport{
		Target:    target,
		FetchedAt: time.Now(),
		Status:    StatusPending,
	}
}

// SetManifest records a validated manifest and its derived counters.
func (r *SiteReport) SetManifest(m *manifest.Manifest) {
	r.Manifest = m
	r.ManifestHash = m.Fingerprint()
	r.ItemCount = m.Len()
}

// Succeed marks the report successful with the given display model.
func (r *SiteReport) Succeed(d *Display) {
	r.Display = d
	r.Status = StatusSucceeded
	r.Error = nil
	r.ErrorMessage = ""
	r.ErrorDetail = ""
}

// Fail marks the report failed. Data from a previous stage is dropped so a
// failed report never carries a partial display.
func (r *SiteReport) Fail(err error, message string) {
	r.Status = StatusFailed
	r.Error = err
	r.ErrorMessage = message
	if err != nil {
		r.ErrorDetail = err.Error()
	}
	r.Manifest = nil
	r.Display = nil
	r.ManifestHash = ""
	r.ItemCount = 0
}

// AddStep appends a performed step name.
func (r *SiteReport) AddStep(name string) {
	r.PerformedSteps = append(r.PerformedSteps, name)
}

// Title returns the display title, or the target when there is none.
func (r *SiteReport) Title() string {
	if r.Display != nil {
		return r.Display.Title
	}
	return r.Target
}
