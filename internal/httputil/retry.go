// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the outbound HTTP client used by catalog
// maintenance tooling.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-hub/pkg/types"
)

// RetryPolicy controls retries of rate-limited requests.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the first backoff; it doubles on every retry.
	BaseDelay time.Duration

	// MaxDelay caps a single wait, including waits requested through
	// Retry-After.
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries three times, waiting 2 s, 4 s and 8 s.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// backoff returns the wait before retry number attempt (0-based).
func (p RetryPolicy) backoff(attempt int, resp *http.Response, now time.Time) time.Duration {
	d := p.BaseDelay << attempt
	if ra, ok := retryAfter(resp, now); ok {
		d = ra
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// retryAfter parses the Retry-After header in either of its forms:
// delay-seconds or an HTTP date.
func retryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// retryable reports whether a response status asks the client to come back
// later.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Client sends requests with a fixed User-Agent and retries responses
// with status 429 or 503.
type Client struct {
	http      *http.Client
	userAgent string
	policy    RetryPolicy
	logger    *zap.Logger
}

// NewClient builds a client from cfg. A zero maxRetries keeps the default
// policy's retry count.
func NewClient(cfg types.HTTPConfig, maxRetries int, l *zap.Logger) *Client {
	policy := DefaultRetryPolicy
	if maxRetries > 0 {
		policy.MaxRetries = maxRetries
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		policy:    policy,
		logger:    l,
	}
}

// WithHTTPClient returns a copy of c sending through hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// WithPolicy returns a copy of c using p.
func (c *Client) WithPolicy(p RetryPolicy) *Client {
	cp := *c
	cp.policy = p
	return &cp
}

// Do sends req, retrying while the server answers 429 or 503. Between
// attempts the body of the refused response is drained and closed. After
// the last retry that response is returned as-is so the caller can inspect
// it. Cancelling ctx during a wait returns ctx.Err().
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if c.userAgent != "" {
			r.Header.Set("User-Agent", c.userAgent)
		}
		resp, err := c.http.Do(r)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
		}
		if !retryable(resp.StatusCode) || attempt >= c.policy.MaxRetries {
			return resp, nil
		}

		wait := c.policy.backoff(attempt, resp, time.Now())
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.logger.Debug("rate limited, retrying",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.policy.MaxRetries),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
