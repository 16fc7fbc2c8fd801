// Package relay wraps the CORS-bypass relay used to fetch external pages
// server-side. The relay either returns the target body verbatim or wraps
// it in a JSON envelope with a "contents" field; callers see plain text
// either way.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:128.0) Gecko/20100101 Firefox/128.0`

	// maxBodyBytes bounds relay responses so an oversized page cannot
	// exhaust memory.
	maxBodyBytes = 2 << 20 // 2MB
)

type Client struct {
	baseURL string
	http    *http.Client
}

// envelope is the JSON shape some relays answer with.
type envelope struct {
	Contents string `json:"contents"`
}

// New returns a relay client. baseURL is the relay prefix the encoded
// target URL is appended to, e.g. "https://api.allorigins.win/get?url=".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get fetches target through the relay and returns its body as text.
func (c *Client) Get(ctx context.Context, target string) (string, error) {
	reqURL := c.baseURL + url.QueryEscape(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("relay: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay: unexpected status %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("relay: read body: %w", err)
	}

	return Unwrap(string(body)), nil
}

// Unwrap extracts the payload from a relay response: the "contents" field
// when the body is a JSON envelope, the body itself otherwise.
func Unwrap(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") {
		return body
	}
	var env envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil || env.Contents == "" {
		return body
	}
	return env.Contents
}
