package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/model"
)

// Step is one stage of processing a target.
type Step interface {
	// Do runs the step against report. Expected failures are recorded in
	// the report and nil is returned; a non-nil error aborts the pipeline.
	Do(ctx context.Context, report *model.SiteReport) error

	// Name returns the step's name for logging and PerformedSteps.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in order against report.
//
// Cancellation is checked between steps; steps handle their own timeouts.
// When a step or the context aborts the run, the report is marked failed
// unless a step already did so, and the error is returned. Duration is set
// in every case.
func (p *Pipeline) Execute(ctx context.Context, report *model.SiteReport) error {
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "target", report.Target, "reason", ctx.Err())
			p.abort(report, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "target", report.Target)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "target", report.Target, "error", err)
			p.abort(report, err)
			report.AddStep(step.Name())
			return err
		}
		report.AddStep(step.Name())
	}
	return nil
}

func (p *Pipeline) abort(report *model.SiteReport, err error) {
	if report.Status != model.StatusFailed {
		report.Fail(err, fetch.UserMessage(err))
	}
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
