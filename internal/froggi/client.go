package froggi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the froggi HTTP API.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "froggi-ocr/0.1"

	// ProbeTimeout bounds the connectivity check made during bootstrap.
	ProbeTimeout = 10 * time.Second

	keyCheckPath = "/api/key/check/"
	relayPath    = "/ocr"
	apiKeyHeader = "api-key"
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sets the key sent with relayed payloads.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient builds a Client for the froggi instance at baseURL. The default
// HTTP client has no overall timeout: a stalled froggi stalls the caller.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse froggi url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("froggi url %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:   trimmed,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized froggi URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RelayURL returns the endpoint OCR payloads are posted to.
func (c *Client) RelayURL() string {
	return c.baseURL + relayPath
}

// Reply is the part of a froggi response the agent reports on.
type Reply struct {
	StatusCode int
	Status     string
}

// OK reports whether froggi answered 200.
func (r Reply) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Probe issues a HEAD request against the base URL, giving up after
// ProbeTimeout.
func (c *Client) Probe(ctx context.Context) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	return c.do(ctx, http.MethodHead, c.baseURL, nil, nil)
}

// CheckKey asks froggi whether key is a valid API key.
func (c *Client) CheckKey(ctx context.Context, key string) (Reply, error) {
	target := c.baseURL + keyCheckPath + url.PathEscape(key)
	return c.do(ctx, http.MethodPost, target, nil, nil)
}

// Relay posts an OCR payload verbatim, authenticated with the client's API key.
func (c *Client) Relay(ctx context.Context, payload string) (Reply, error) {
	header := http.Header{}
	header.Set(apiKeyHeader, c.apiKey)
	return c.do(ctx, http.MethodPost, c.RelayURL(), strings.NewReader(payload), header)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, header http.Header) (Reply, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Reply{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return Reply{StatusCode: resp.StatusCode, Status: resp.Status}, nil
}
