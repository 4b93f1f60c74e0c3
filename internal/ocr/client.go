// Package ocr fetches recognized-text payloads from the local OCR service.
package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client polls a single OCR endpoint.
type Client struct {
	url       string
	http      *http.Client
	userAgent string
}

const defaultUserAgent = "froggi-ocr/0.1"

// NewClient builds a Client for the OCR endpoint at rawURL. hc may be nil;
// the default client has no timeout.
func NewClient(rawURL string, hc *http.Client) (*Client, error) {
	trimmed := strings.TrimSpace(rawURL)
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse ocr url %q: %w", rawURL, err)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{url: trimmed, http: hc, userAgent: defaultUserAgent}, nil
}

// URL returns the polled endpoint.
func (c *Client) URL() string {
	return c.url
}

// Response is an OCR answer whose body has not been read yet.
type Response struct {
	StatusCode int
	Status     string
	body       io.ReadCloser
}

// Text reads the whole body as text and closes it.
func (r *Response) Text() (string, error) {
	if r == nil || r.body == nil {
		return "", fmt.Errorf("response has no body")
	}
	defer func() { _ = r.body.Close() }()
	raw, err := io.ReadAll(r.body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(raw), nil
}

// Close releases the body without reading it.
func (r *Response) Close() error {
	if r == nil || r.body == nil {
		return nil
	}
	return r.body.Close()
}

// Fetch issues the GET. An error means the request never produced a
// response; the body is read separately through Response.Text.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Status: resp.Status, body: resp.Body}, nil
}
