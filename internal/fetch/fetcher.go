package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nao1215/sitescope/internal/config"
	"github.com/nao1215/sitescope/internal/manifest"
)

// Fetcher retrieves and validates one manifest.
// url is the normalized manifest URL from NormalizeURL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*manifest.Manifest, error)
}

// HTTPFetcher fetches manifests with a single HTTP GET.
// It never retries and never caches: each call is one request.
type HTTPFetcher struct {
	client      *http.Client
	scheme      string
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the HTTP client, e.g. one routed through a proxy.
func WithHTTPClient(client *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithDefaultScheme sets the scheme used for URLs typed without one.
func WithDefaultScheme(scheme string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.scheme = scheme
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest body accepted. Zero or less keeps the default.
func WithMaxBodySize(n int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher creates an HTTPFetcher. The default client has a
// config.DefaultTimeout timeout.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: config.DefaultTimeout},
		scheme:      config.DefaultScheme,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one GET against url and validates the body.
// Failures are *Error values wrapping ErrNetwork, manifest.ErrParse, or
// manifest.ErrSchema.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*manifest.Manifest, error) {
	target := requestURL(url, f.scheme)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Stage: StageRequest, URL: url, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("requesting manifest", "url", target)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Stage: StageRequest, URL: url, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &Error{
			Stage: StageRequest,
			URL:   url,
			Err:   fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &Error{Stage: StageRequest, URL: url, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &Error{
			Stage: StageRequest,
			URL:   url,
			Err:   fmt.Errorf("%w: %w (limit %d bytes)", ErrNetwork, ErrBodyTooLarge, f.maxBodySize),
		}
	}

	m, err := manifest.Parse(body)
	if err != nil {
		return nil, &Error{Stage: stageOf(err), URL: url, Err: err}
	}

	f.logger.Debug("manifest validated", "url", target, "items", m.Len(), "bytes", len(body))
	return m, nil
}
