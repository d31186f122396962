// Package service implements the outbound HTTP client used by the gateway.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/allisson/gw2proxy/internal/errors"
	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
	"github.com/allisson/gw2proxy/internal/metrics"
)

// maxResponseBytes caps how much of an upstream body is buffered.
const maxResponseBytes = 32 << 20

// ClientConfig holds upstream client settings.
type ClientConfig struct {
	// BaseURL is the fixed upstream address, e.g. https://api.guildwars2.com/.
	BaseURL string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// RetryDelay is the linear backoff unit: retry n waits RetryDelay*n.
	RetryDelay time.Duration
	// RateLimitPerSec and RateLimitBurst configure the outbound token bucket.
	// A non-positive rate disables throttling.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// UpstreamClient issues authorized GET requests with bounded retries.
type UpstreamClient struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	sleep      SleepFunc
	metrics    metrics.UpstreamMetrics
	logger     *slog.Logger
}

// NewUpstreamClient creates an UpstreamClient. httpClient may be nil, in which case
// a client with cfg.Timeout is created.
func NewUpstreamClient(cfg ClientConfig, httpClient *http.Client, logger *slog.Logger) *UpstreamClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limit := rate.Inf
	burst := cfg.RateLimitBurst
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}
	if burst < 1 {
		burst = 1
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &UpstreamClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    rate.NewLimiter(limit, burst),
		sleep:      WaitForBackoff,
		metrics:    metrics.NewNoOpUpstreamMetrics(),
		logger:     logger,
	}
}

// WithSleep replaces the backoff wait, letting tests observe the delays.
func (c *UpstreamClient) WithSleep(sleep SleepFunc) *UpstreamClient {
	c.sleep = sleep
	return c
}

// WithMetrics records every attempt in m.
func (c *UpstreamClient) WithMetrics(m metrics.UpstreamMetrics) *UpstreamClient {
	c.metrics = m
	return c
}

// Get requests path (relative to the base URL) with the raw query appended verbatim
// and bearer as the Authorization token.
//
// Transport failures, 408, 429 and 5xx responses are retried. When retries are
// exhausted the last response is returned as-is, or the last transport error
// wrapped in ErrUpstreamUnavailable.
func (c *UpstreamClient) Get(ctx context.Context, path, rawQuery, bearer string) (*gatewayDomain.Response, error) {
	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(attempt)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, apperrors.Wrapf(gatewayDomain.ErrUpstreamUnavailable, "retry wait aborted: %v", err)
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.Wrapf(gatewayDomain.ErrUpstreamUnavailable, "rate limiter: %v", err)
		}

		resp, err := c.do(ctx, url, bearer)
		if err != nil {
			lastErr = err
			retry := attempt < c.maxRetries && isRetryableError(ctx, err)
			c.metrics.RecordAttempt(ctx, 0, retry)
			if retry {
				c.logger.Warn("upstream request failed, retrying",
					slog.String("path", path),
					slog.Int("attempt", attempt+1),
					slog.Any("error", err),
				)
				continue
			}
			break
		}

		retry := attempt < c.maxRetries && isRetryableStatus(resp.StatusCode)
		c.metrics.RecordAttempt(ctx, resp.StatusCode, retry)
		if retry {
			c.logger.Warn("upstream returned retryable status, retrying",
				slog.String("path", path),
				slog.Int("attempt", attempt+1),
				slog.Int("status", resp.StatusCode),
			)
			continue
		}

		c.logger.Debug("upstream request completed",
			slog.String("path", path),
			slog.Int("attempts", attempt+1),
			slog.Int("status", resp.StatusCode),
		)
		return resp, nil
	}

	return nil, apperrors.Wrapf(gatewayDomain.ErrUpstreamUnavailable, "GET %s: %v", path, lastErr)
}

// do performs a single attempt and buffers the response body.
func (c *UpstreamClient) do(ctx context.Context, url, bearer string) (*gatewayDomain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = gatewayDomain.DefaultContentType
	}

	return &gatewayDomain.Response{
		Body:        string(body),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}, nil
}

// isRetryableStatus reports whether an upstream status is transient.
func isRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// isRetryableError reports whether a transport error is worth another attempt.
// Once the caller's context is done no further attempt can succeed.
func isRetryableError(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// WaitForBackoff sleeps for delay or returns early if the context is cancelled.
func WaitForBackoff(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
