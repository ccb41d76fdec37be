// Copyright 2026 The Coursefix Authors
// SPDX-License-Identifier: MIT

// Package lms is a client for the Canvas LMS REST API. Its Course type
// implements every capability interface in package course.
package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"

	"github.com/davetashner/coursefix/internal/course"
	"github.com/davetashner/coursefix/internal/redact"
)

// DefaultCacheSize is the number of GET responses kept per client.
const DefaultCacheSize = 256

// maxPages caps how many pages a single list request follows.
const maxPages = 100

const userAgent = "coursefix (https://github.com/davetashner/coursefix)"

// APIError is a non-2xx response from the LMS.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return redact.String(fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), body))
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to one Canvas instance.
type Client struct {
	base  *url.URL
	http  *http.Client
	cache *lru.Cache[string, cachedResponse]
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	cacheSize  int
	timeout    time.Duration
}

// WithHTTPClient sets the transport client. The token is not added to a
// client supplied this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithCacheSize sets how many GET responses are cached. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *clientOptions) { o.cacheSize = n }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// New returns a client for the Canvas instance at baseURL authenticating with
// a bearer token.
func New(ctx context.Context, baseURL, token string, opts ...Option) (*Client, error) {
	o := clientOptions{cacheSize: DefaultCacheSize, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	hc := o.httpClient
	if hc == nil {
		if token == "" {
			return nil, errors.New("no API token")
		}
		redact.RegisterSecret(token)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, ts)
		hc.Timeout = o.timeout
	}

	c := &Client{base: u, http: hc}
	if o.cacheSize > 0 {
		cache, err := lru.New[string, cachedResponse](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// BaseURL returns the instance URL.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) endpoint(path string, cfg *course.RequestConfig) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1" + path
	q := url.Values{}
	if cfg != nil {
		for _, inc := range cfg.Include {
			q.Add("include[]", inc)
		}
		if cfg.PerPage > 0 {
			q.Set("per_page", strconv.Itoa(cfg.PerPage))
		}
		for k, v := range cfg.Params {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// get fetches one resource into out.
func (c *Client) get(ctx context.Context, path string, cfg *course.RequestConfig, out any) error {
	body, _, err := c.fetch(ctx, c.endpoint(path, cfg))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// list fetches every page of a collection, following Link rel="next".
func list[T any](ctx context.Context, c *Client, path string, cfg *course.RequestConfig) ([]T, error) {
	var all []T
	next := c.endpoint(path, cfg)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			slog.Warn("lms: page limit reached", "path", path, "pages", maxPages)
			break
		}
		body, header, err := c.fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		all = append(all, items...)
		next = nextLink(header.Get("Link"))
	}
	return all, nil
}

type cachedResponse struct {
	Body []byte
	Link string
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, http.Header, error) {
	if c.cache != nil {
		if cr, ok := c.cache.Get(u); ok {
			h := http.Header{}
			if cr.Link != "" {
				h.Set("Link", cr.Link)
			}
			return cr.Body, h, nil
		}
	}

	body, header, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	if c.cache != nil {
		c.cache.Add(u, cachedResponse{Body: body, Link: header.Get("Link")})
	}
	return body, header, nil
}

// send writes payload with method and decodes the response into out, which
// may be nil. Every write drops the response cache.
func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	if c.cache != nil {
		defer c.cache.Purge()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	body, _, err := c.do(ctx, method, c.endpoint(path, nil), data)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, payload []byte) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s response: %w", u, err)
	}
	slog.Debug("lms request", "method", method, "url", u, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &APIError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, resp.Header, nil
}

var linkNext = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?next"?`)

// nextLink extracts the rel="next" URL from a Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if m := linkNext.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}
