package mastodon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// ErrResponseTooLarge is returned when a body exceeds the 8 MiB cap.
var ErrResponseTooLarge = errors.New("response too large")

// Client is a thin HTTP wrapper for the Mastodon API and its media host.
// Only public, unauthenticated endpoints are used.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a Mastodon API client. A non-positive timeout falls back
// to 15s so no request can stay in flight forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: "mastoview",
		http:      &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the instance URL requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs a GET against an API path such as "/api/v1/timelines/public".
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.getURL(ctx, c.baseURL+path)
}

func (c *Client) getURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("GET %s: %w (over %d bytes)", url, ErrResponseTooLarge, maxBodyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s returned %d: %s", url, resp.StatusCode, truncate(string(data), 200))
	}

	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
