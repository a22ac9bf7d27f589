package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sitescope/internal/fetch"
	"github.com/nao1215/sitescope/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency is the number of targets fetched at once.
const defaultConcurrency = 4

// Factory builds a fresh pipeline for target. It receives the target so
// per-site settings (origin, timeout) can be applied.
type Factory func(target string) *Pipeline

// BatchProcessor fetches many targets concurrently.
//
// Design decision: Batching lives outside Pipeline so a pipeline stays a
// plain sequence of steps for one target, and the per-target factory keeps
// state from leaking between targets.
type BatchProcessor struct {
	factory     Factory
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets how many targets run at once. Non-positive values
// keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch runs every target and returns one report per target in
// input order. A failed target does not stop the others; its report carries
// the failure. The error is non-nil only when ctx ended before every target
// started, in which case unstarted targets have failed reports too.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.SiteReport, error) {
	results := make([]*model.SiteReport, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(report *model.SiteReport, index int) {
		results[index] = report
	})
	return results, err
}

// ProcessBatchWithCallback runs every target and calls callback with each
// report and its input index as soon as the target finishes. callback is
// called from worker goroutines; distinct indexes never race, anything
// shared must be synchronized by the caller.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(report *model.SiteReport, index int),
) error {
	bp.logger.Info("starting batch", "targets", len(targets), "concurrency", bp.concurrency)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			report := model.NewSiteReport(target)

			select {
			case <-gctx.Done():
				report.Fail(gctx.Err(), fetch.UserMessage(gctx.Err()))
				callback(report, i)
				return gctx.Err()
			default:
			}

			bp.logger.Debug("processing target", "target", target, "index", i+1, "total", len(targets))
			if err := bp.factory(target).Execute(gctx, report); err != nil {
				bp.logger.Warn("target aborted", "target", target, "error", err)
			}
			callback(report, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete", "targets", len(targets), "elapsed", time.Since(start))
	return err
}
