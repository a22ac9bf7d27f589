package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/model"
	"github.com/nao1215/sitescope/internal/normalize"
)

// Step names, as recorded in SiteReport.PerformedSteps.
const (
	StepFetch     = "fetch"
	StepNormalize = "normalize"
	StepRecord    = "record"
)

// FetchStep normalizes the target and retrieves its manifest.
type FetchStep struct {
	fetcher fetch.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchTimeout bounds the request. Zero means no bound beyond the
// caller's context.
func WithFetchTimeout(timeout time.Duration) FetchStepOption {
	return func(s *FetchStep) {
		s.timeout = timeout
	}
}

// WithFetchLogger sets the logger.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a FetchStep using fetcher.
func NewFetchStep(fetcher fetch.Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do fetches the manifest for report.Target. Empty input and fetch failures
// are recorded in the report. Only cancellation of the caller's context is
// returned as an error; a per-step timeout is an ordinary fetch failure.
func (s *FetchStep) Do(ctx context.Context, report *model.SiteReport) error {
	url, err := fetch.NormalizeURL(report.Target)
	if err != nil {
		report.Fail(err, fetch.UserMessage(err))
		return nil
	}
	report.URL = url

	reqCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	m, err := s.fetcher.Fetch(reqCtx, url)
	if err != nil {
		s.logger.Warn("fetch failed", "url", url, "error", err)
		report.Fail(err, fetch.UserMessage(err))
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return ctx.Err()
		}
		return nil
	}

	report.SetManifest(m)
	s.logger.Debug("manifest fetched", "url", url, "items", m.Len(), "hash", report.ManifestHash)
	return nil
}

// NormalizeStep builds the display model from the fetched manifest.
type NormalizeStep struct {
	normalizer *normalize.Normalizer
}

// NewNormalizeStep creates a NormalizeStep. A nil normalizer uses the
// default origin.
func NewNormalizeStep(normalizer *normalize.Normalizer) *NormalizeStep {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &NormalizeStep{normalizer: normalizer}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return StepNormalize
}

// Do builds the display model. It is a no-op when no manifest was fetched.
func (s *NormalizeStep) Do(_ context.Context, report *model.SiteReport) error {
	if report.Manifest == nil || report.Status == model.StatusFailed {
		return nil
	}
	report.Succeed(s.normalizer.BuildDisplayModel(report.Manifest))
	return nil
}

// Recorder persists a finished report.
type Recorder interface {
	Record(ctx context.Context, report *model.SiteReport) error
}

// RecordStep hands every outcome, success or failure, to a Recorder.
type RecordStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(recorder Recorder, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{recorder: recorder, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return StepRecord
}

// Do records the report. A storage failure is logged and does not change
// the report's outcome.
func (s *RecordStep) Do(ctx context.Context, report *model.SiteReport) error {
	if err := s.recorder.Record(ctx, report); err != nil {
		s.logger.Warn("failed to record fetch", "target", report.Target, "error", err)
	}
	return nil
}
