package fetch

import (
	"context"
	"log/slog"
	"sync"
)

// Controller owns the current fetch state for one input surface.
//
// Each Submit takes the next sequence number. When a response arrives, it is
// applied only if its number is still the latest issued; otherwise it is
// discarded. A newer submission also cancels the older request's context, so
// superseded requests stop early, but correctness rests on the sequence check
// alone: a response that beat the cancellation is still dropped.
type Controller struct {
	fetcher  Fetcher
	logger   *slog.Logger
	onChange func(State)

	mu      sync.Mutex
	seq     uint64
	current State
	cancel  context.CancelFunc
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithOnChange registers fn to be called on every applied state change, in
// order. fn runs with the controller locked and must not call back into it.
func WithOnChange(fn func(State)) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates a Controller in the Idle state.
func NewController(fetcher Fetcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher: fetcher,
		logger:  slog.Default(),
		current: Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Submit handles one user submission and blocks until its request settles.
// Empty input fails at once without a request. Submit may be called from
// several goroutines; the last submission wins. The returned state is the
// controller's state when this call finished, which for a superseded call is
// the newer submission's state.
func (c *Controller) Submit(ctx context.Context, input string) State {
	return <-c.SubmitAsync(ctx, input)
}

// SubmitAsync is Submit without the wait. The submission is ordered, and
// any older request cancelled, before SubmitAsync returns; the request then
// runs in the background. The channel receives the same state Submit would
// return.
func (c *Controller) SubmitAsync(ctx context.Context, input string) <-chan State {
	done := make(chan State, 1)
	url, err := NormalizeURL(input)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.logger.Warn("submission rejected", "seq", seq, "error", err)
		c.set(Failed{Err: err})
		done <- c.current
		c.mu.Unlock()
		return done
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.set(Loading{URL: url, Seq: seq})
	c.mu.Unlock()

	go func() {
		done <- c.run(reqCtx, cancel, seq, url)
	}()
	return done
}

// run performs the request for submission seq and applies its result if
// seq is still the latest.
func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, seq uint64, url string) State {
	c.logger.Debug("fetching manifest", "seq", seq, "url", url)
	m, err := c.fetcher.Fetch(ctx, url)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if seq != c.seq {
		c.logger.Debug("discarding superseded response", "seq", seq, "latest", c.seq, "url", url)
		return c.current
	}
	c.cancel = nil

	if err != nil {
		c.logger.Warn("fetch failed", "seq", seq, "url", url, "error", err)
		c.set(Failed{URL: url, Err: err})
		return c.current
	}

	c.logger.Info("manifest fetched", "seq", seq, "url", url, "items", m.Len())
	c.set(Succeeded{URL: url, Manifest: m})
	return c.current
}

// Cancel aborts the in-flight request, if any. The request then settles as
// Failed like any other transport error.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// set must be called with c.mu held.
func (c *Controller) set(st State) {
	c.current = st
	if c.onChange != nil {
		c.onChange(st)
	}
}
