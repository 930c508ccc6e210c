// Package httpx provides a generic exponential-backoff HTTP helper for
// outbound calls. The scoring and insight pipeline does not use it; only
// peripheral integrations (notifications) do.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// RetryConfig holds retry configuration for outbound requests.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per request.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}
}

// Client wraps an http.Client with retry-on-failure semantics.
type Client struct {
	httpClient *http.Client
	cfg        RetryConfig
}

// NewClient builds a retrying client. A nil httpClient gets a 15-second
// default timeout.
func NewClient(httpClient *http.Client, cfg RetryConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// Post sends body to url, retrying network errors and 5xx responses with
// exponential backoff. The response body is closed before a retry; the
// final response is returned open for the caller to consume.
func (c *Client) Post(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	backoff := c.cfg.BackoffBase
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * c.cfg.BackoffMultiplier)
			if c.cfg.MaxBackoff > 0 && backoff > c.cfg.MaxBackoff {
				backoff = c.cfg.MaxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("server error: %s", resp.Status)
			resp.Body.Close()
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("post %s after %d attempts: %w", url, c.cfg.MaxAttempts, lastErr)
}
