package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Forward relays a request to the backend unchanged and returns the raw
// response. Used by the pass-through proxy endpoints; the caller owns the
// response body.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build forward request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: forward %s %s: %w", method, path, err)
	}

	return resp, nil
}
