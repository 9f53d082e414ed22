package resilience

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"browseroskb/pkg/logx"
)

// ValidateURL reports whether raw is an absolute http or https URL with a
// host component.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResilientRequest performs an HTTP request with retries per cfg. Network
// errors, 429 responses, and 5xx responses are retried; other statuses are
// returned to the caller as-is, response body intact. After exhaustion it
// returns the last error rather than a nil response.
func ResilientRequest(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, body []byte, cfg RetryConfig) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if !ValidateURL(rawURL) {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	log := logx.NewLogger("request")

	var resp *http.Response
	err := Do(ctx, log, cfg, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		r, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			_ = r.Body.Close()
			return fmt.Errorf("server returned %d for %s %s", r.StatusCode, method, rawURL)
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
