// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linkcheck probes the source links of catalog references.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/research-hub/internal/httputil"
	"github.com/pdiddy/research-hub/pkg/types"
)

// Outcome classifies a single probe.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeBroken  Outcome = "broken"
	OutcomeSkipped Outcome = "skipped"
)

// Result is the outcome of probing one reference link.
type Result struct {
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	Outcome Outcome `json:"outcome"`
	Status  int     `json:"status,omitempty"`
	Err     string  `json:"error,omitempty"`
}

// Summary holds the outcome of a link check run.
type Summary struct {
	OK      int
	Broken  int
	Skipped int
	Results []Result
}

// Total returns the number of references processed.
func (s Summary) Total() int {
	return s.OK + s.Broken + s.Skipped
}

// HasFailures reports whether any link is broken.
func (s Summary) HasFailures() bool {
	return s.Broken > 0
}

// Checker probes links one at a time.
type Checker struct {
	client *httputil.Client
	delay  time.Duration
}

// New returns a checker sending through client and pausing delay between
// consecutive probes.
func New(client *httputil.Client, delay time.Duration) *Checker {
	return &Checker{client: client, delay: delay}
}

// Check probes a single reference link. Links that are not absolute http(s)
// URLs are skipped; Validate reports them.
func (c *Checker) Check(ctx context.Context, r types.Reference) Result {
	res := Result{Title: r.Title, Link: r.Link}

	u, err := url.Parse(r.Link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		res.Outcome = OutcomeSkipped
		res.Err = "not an http(s) URL"
		return res
	}

	status, err := c.probe(ctx, http.MethodHead, r.Link)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented || status == http.StatusForbidden) {
		// Some servers refuse HEAD; ask again with GET.
		status, err = c.probe(ctx, http.MethodGet, r.Link)
	}
	res.Status = status
	switch {
	case err != nil:
		res.Outcome = OutcomeBroken
		res.Err = err.Error()
	case status >= 400:
		res.Outcome = OutcomeBroken
		res.Err = http.StatusText(status)
	default:
		res.Outcome = OutcomeOK
	}
	return res
}

func (c *Checker) probe(ctx context.Context, method, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

// CheckAll probes every reference in order, printing one line per
// reference to w and a summary at the end. It continues after individual
// failures and stops early only when ctx is cancelled.
func (c *Checker) CheckAll(ctx context.Context, refs []types.Reference, w io.Writer) (Summary, error) {
	var sum Summary
	for i, r := range refs {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(c.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := c.Check(ctx, r)
		switch res.Outcome {
		case OutcomeOK:
			sum.OK++
			fmt.Fprintf(w, "ok:      [%d/%d] %s (%d)\n", i+1, len(refs), r.Title, res.Status)
		case OutcomeSkipped:
			sum.Skipped++
			fmt.Fprintf(w, "skipped: [%d/%d] %s (%s)\n", i+1, len(refs), r.Title, res.Err)
		default:
			sum.Broken++
			fmt.Fprintf(w, "broken:  [%d/%d] %s -> %s (%s)\n", i+1, len(refs), r.Title, r.Link, res.Err)
		}
		sum.Results = append(sum.Results, res)
	}
	fmt.Fprintf(w, "\nLink check: %d ok, %d broken, %d skipped (total: %d)\n",
		sum.OK, sum.Broken, sum.Skipped, sum.Total())
	return sum, nil
}
