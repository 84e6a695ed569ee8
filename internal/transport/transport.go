// Package transport provides the single HTTP contract the scrobbling
// engine needs: "given a request, invoke exactly one of response(body) or
// error(reason); body is size-capped". The client makes no retries of its
// own; retry/backoff is the caller's (internal/scrobbler's) concern.
package transport

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxBodyBytes is the hard cap on a response body; a larger body is
// reported as a transport failure rather than truncated silently.
const MaxBodyBytes = 8 * 1024

// Client performs GET and form-encoded POST requests against the
// scrobbling service, synchronously from the calling goroutine. Callers
// that must not block their own event loop run Client methods from a
// worker goroutine and marshal the result back themselves (see
// internal/scrobbler), matching the async contract DESIGN NOTES
// describes without tying this package to any particular loop
// implementation.
type Client struct {
	http *resty.Client
}

// New returns a Client. proxyURL, if non-empty, is used for all
// requests (the spec's --proxy/http_proxy support).
func New(proxyURL string, timeout time.Duration) *Client {
	h := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	if proxyURL != "" {
		h.SetProxy(proxyURL)
	}
	return &Client{http: h}
}

// Get issues an HTTP GET and returns the response body as a string.
func (c *Client) Get(url string) (string, error) {
	resp, err := c.http.R().Get(url)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	return bodyString(resp)
}

// PostForm issues an HTTP POST with an already-encoded
// application/x-www-form-urlencoded body.
func (c *Client) PostForm(url, body string) (string, error) {
	resp, err := c.http.R().
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", url, err)
	}
	return bodyString(resp)
}

func bodyString(resp *resty.Response) (string, error) {
	if resp.IsError() {
		return "", fmt.Errorf("http status %s", resp.Status())
	}
	body := resp.Body()
	if len(body) > MaxBodyBytes {
		return "", fmt.Errorf("response body of %d bytes exceeds the %d byte cap", len(body), MaxBodyBytes)
	}
	return string(body), nil
}
