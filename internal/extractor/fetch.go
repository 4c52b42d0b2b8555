package extractor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"resumescan/internal/config"
	"resumescan/internal/errors"
)

// Fetcher downloads documents over http(s). Repeated server or network
// failures open a circuit breaker so a dead host fails fast.
type Fetcher struct {
	client    *http.Client
	cb        *gobreaker.CircuitBreaker[[]byte]
	maxBytes  int64
	userAgent string
}

// NewFetcher creates a fetcher from the HTTP source settings.
func NewFetcher(cfg config.HTTPSourceConfig, logger *errors.Logger) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
	if cfg.CircuitBreaker.Enabled {
		f.cb = newFetchCircuitBreaker(cfg.CircuitBreaker, logger)
	}
	return f
}

func newFetchCircuitBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[[]byte] {
	settings := gobreaker.Settings{
		Name:        "document-fetch",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: hostHealthy,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

// hostHealthy reports whether err leaves the remote host in good standing:
// client errors and oversized documents do not count against it.
func hostHealthy(err error) bool {
	if err == nil || errors.HasCode(err, errors.ErrCodeFileTooLarge) {
		return true
	}
	var status *statusError
	return stderrors.As(err, &status) && status.code < 500
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.code)
}

// Fetch downloads url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.cb == nil {
		data, err := f.get(ctx, url)
		return data, f.wrap(url, err)
	}

	data, err := f.cb.Execute(func() ([]byte, error) {
		return f.get(ctx, url)
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.NewNetworkError(errors.ErrCodeSourceUnavailable,
			fmt.Sprintf("Document source temporarily unavailable: %s", url), err).
			WithContext("breaker_state", f.cb.State().String())
	}
	return data, f.wrap(url, err)
}

// State reports the circuit breaker state, or "disabled".
func (f *Fetcher) State() string {
	if f.cb == nil {
		return "disabled"
	}
	return f.cb.State().String()
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: url}
	}
	return readLimited(resp.Body, f.maxBytes, url)
}

func (f *Fetcher) wrap(url string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	appErr := errors.NewNetworkError(errors.ErrCodeFetchFailed, fmt.Sprintf("Failed to fetch %s", url), err)
	var status *statusError
	if stderrors.As(err, &status) {
		appErr = appErr.WithContext("status", status.code)
	}
	return appErr
}

// readLimited reads r in full unless it is larger than limit bytes. A
// non-positive limit reads everything.
func readLimited(r io.Reader, limit int64, name string) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s exceeds the %d byte limit", name, limit), nil)
	}
	return data, nil
}
