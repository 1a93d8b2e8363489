// Package fetcher retrieves remote JSON documents over HTTP. Every failure is
// folded into the returned FetchResult; Fetch never returns an error.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/finops-claw-gang/pairdiff/internal/jsondiff"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/ratelimit"
)

// FetchResult is the outcome of fetching one URL. When OK is false, Err
// describes the failure and Document is null.
type FetchResult struct {
	OK       bool
	Document jsondiff.Value
	Err      string
}

func failed(format string, a ...any) FetchResult {
	return FetchResult{Err: fmt.Sprintf(format, a...)}
}

// Options configures an HTTPFetcher. The zero value fetches without a
// timeout, rate limit or body cap.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	Limiter      *ratelimit.HostLimiter
	Metrics      *observability.Metrics
	Tracing      bool
	Logger       *slog.Logger
}

// HTTPFetcher fetches JSON documents with a shared HTTP client.
type HTTPFetcher struct {
	httpClient   *http.Client
	maxBodyBytes int64
	limiter      *ratelimit.HostLimiter
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// New creates a fetcher with its own HTTP client built from opts.
func New(opts Options) *HTTPFetcher {
	transport := http.DefaultTransport
	if opts.Tracing {
		transport = otelhttp.NewTransport(transport)
	}
	return NewWithHTTPClient(&http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, opts)
}

// NewWithHTTPClient creates a fetcher with a custom HTTP client (for testing).
// opts.Timeout and opts.Tracing are ignored; configure them on the client.
func NewWithHTTPClient(httpClient *http.Client, opts Options) *HTTPFetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		httpClient:   httpClient,
		maxBodyBytes: opts.MaxBodyBytes,
		limiter:      opts.Limiter,
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

// Fetch retrieves url and parses the body as JSON.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) FetchResult {
	start := time.Now()
	res := f.fetch(ctx, url)
	elapsed := time.Since(start)

	f.metrics.RecordFetch(ctx, elapsed, res.OK)
	if !res.OK {
		f.logger.Warn("fetch failed", "url", url, "error", res.Err, "duration_ms", elapsed.Milliseconds())
	}
	return res
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) FetchResult {
	if err := f.limiter.Wait(ctx, url); err != nil {
		return failed("%v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failed("invalid request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return failed("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed("unexpected status %d", resp.StatusCode)
	}

	body, err := f.readBody(resp.Body)
	if err != nil {
		return failed("%v", err)
	}

	doc, err := jsondiff.Decode(body)
	if err != nil {
		return failed("decode response: %v", err)
	}
	return FetchResult{OK: true, Document: doc}
}

func (f *HTTPFetcher) readBody(r io.Reader) ([]byte, error) {
	if f.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", f.maxBodyBytes)
	}
	return body, nil
}
