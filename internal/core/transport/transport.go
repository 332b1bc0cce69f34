// Package transport executes query text against upstream HTTP services.
//
// Every failure (network error, non-2xx status, unreadable body) is logged and
// collapsed into an empty response string; callers treat "" as "no data".
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/keys"
)

const maxResponseBytes = 64 << 20

type Interface interface {
	// Get appends query to the base URL as its query string.
	Get(ctx context.Context, query string) string
	// Post submits query as the "data" form field.
	Post(ctx context.Context, query string) string
}

type Client struct {
	logger   *slog.Logger
	client   *http.Client
	base     *url.URL
	upstream string
	startNow func() time.Time // for tests
}

var _ Interface = (*Client)(nil)

func New(logger *slog.Logger, client *http.Client, upstream, base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", upstream, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse %s url: %q is not absolute", upstream, base)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		logger:   logger.With("upstream", upstream),
		client:   client,
		base:     u,
		upstream: upstream,
		startNow: time.Now,
	}, nil
}

func (c *Client) Get(ctx context.Context, query string) string {
	u := *c.base
	switch {
	case u.RawQuery == "":
		u.RawQuery = query
	case query != "":
		u.RawQuery += "&" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.fail(ctx, "build", query, err)
		return ""
	}
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req, query)
}

func (c *Client) Post(ctx context.Context, query string) string {
	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String(), strings.NewReader(form.Encode()))
	if err != nil {
		c.fail(ctx, "build", query, err)
		return ""
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req, query)
}

func (c *Client) do(ctx context.Context, req *http.Request, query string) string {
	start := c.startNow()
	resp, err := c.client.Do(req)
	if err != nil {
		c.fail(ctx, "do", query, err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	dur := time.Since(start)
	observability.ObserveUpstreamLatency(c.upstream, dur.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		c.fail(ctx, "status", query, fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
		return ""
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.fail(ctx, "read", query, fmt.Errorf("read body: %w", err))
		return ""
	}
	c.logger.DebugContext(ctx, "upstream call done",
		"method", req.Method,
		"status", resp.StatusCode,
		"bytes", len(b),
		"query_fp", keys.Fingerprint(query),
		"duration", dur.String())
	return string(b)
}

func (c *Client) fail(ctx context.Context, reason, query string, err error) {
	observability.IncUpstreamFailure(c.upstream, reason)
	c.logger.ErrorContext(ctx, "upstream call failed",
		"reason", reason,
		"query_fp", keys.Fingerprint(query),
		"err", err)
}
