package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/cenkalti/backoff/v4"
)

// Result is the outcome of a resolution: one live base URL, or none.
type Result struct {
	BaseURL   string
	Reachable bool
}

type Options struct {
	Candidates []config.Endpoint
	ProbePath  string
	HTTPClient *http.Client
	// RetryMaxElapsed enables the backoff probe loop for single-candidate
	// deployments. Zero probes once.
	RetryMaxElapsed time.Duration
	// OnUnreachable fires once per failed resolution with the URLs tried.
	OnUnreachable func(tried []string)
	Logger        *slog.Logger
}

// Resolver picks the first reachable backend from a priority list and keeps
// that choice until Reset.
type Resolver struct {
	mu       sync.Mutex
	opts     Options
	resolved *Result

	initialInterval time.Duration
}

func NewResolver(opts Options) *Resolver {

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Resolver{opts: opts, initialInterval: 500 * time.Millisecond}
}

// Resolve probes the candidates in order and commits to the first live one.
// Later calls return the committed result without probing. Concurrent callers
// wait for the in-flight resolution.
func (r *Resolver) Resolve(ctx context.Context) Result {

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved != nil {
		return *r.resolved
	}

	logger := r.opts.Logger

	tried := make([]string, 0, len(r.opts.Candidates))

	for _, candidate := range r.opts.Candidates {

		tried = append(tried, candidate.URL)

		var err error
		if len(r.opts.Candidates) == 1 && r.opts.RetryMaxElapsed > 0 {
			err = r.probeWithRetry(ctx, candidate)
		} else {
			err = r.probe(ctx, candidate)
		}

		if err == nil {
			logger.Info("Backend endpoint selected", slog.String("baseUrl", candidate.URL))
			r.resolved = &Result{BaseURL: candidate.URL, Reachable: true}
			return *r.resolved
		}

		logger.Debug("Endpoint probe failed", slog.String("url", candidate.URL), slog.String("error", err.Error()))

		if ctx.Err() != nil {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Debug("Endpoint resolution cancelled", slog.Any("tried", tried), slog.String("error", err.Error()))
		return Result{}
	}

	logger.Warn("No backend endpoint reachable", slog.Any("tried", tried))

	r.resolved = &Result{}

	if r.opts.OnUnreachable != nil {
		r.opts.OnUnreachable(tried)
	}

	return *r.resolved
}

// Current returns the committed result, if any, without probing.
func (r *Resolver) Current() (Result, bool) {

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved == nil {
		return Result{}, false
	}

	return *r.resolved, true
}

// Reset forgets the committed result so the next Resolve probes again.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.resolved = nil
	r.mu.Unlock()
}

func (r *Resolver) probe(ctx context.Context, candidate config.Endpoint) error {

	if candidate.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, candidate.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate.URL+r.opts.ProbePath, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("invalid candidate %q: %w", candidate.URL, err))
	}

	resp, err := r.opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe %s returned %d", candidate.URL, resp.StatusCode)
	}

	return nil
}

func (r *Resolver) probeWithRetry(ctx context.Context, candidate config.Endpoint) error {

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxElapsedTime = r.opts.RetryMaxElapsed

	attempt := 0

	err := backoff.Retry(func() error {
		attempt++
		return r.probe(ctx, candidate)
	}, backoff.WithContext(b, ctx))

	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
	}

	return nil
}
