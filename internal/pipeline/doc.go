// Package pipeline runs the per-target processing steps and fans targets
// out concurrently.
//
// A target goes through FetchStep, NormalizeStep and, when history is
// enabled, RecordStep. Each step reads and writes one model.SiteReport.
// Expected failures (empty input, transport errors, invalid manifests) are
// recorded in the report and do not stop the pipeline, so RecordStep still
// sees them. A step returns an error only when the run itself cannot go on,
// which in practice means the context was cancelled.
//
// Design decision: The steps stay behind the Step interface rather than being
// one function so the CLI can drop RecordStep when --save is off and tests
// can swap in fakes for any stage.
//
// BatchProcessor runs one fresh pipeline per target with errgroup and a
// concurrency limit. Reports come back in input order regardless of which
// target finished first.
package pipeline
