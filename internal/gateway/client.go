package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hireloop/hireloop/internal/observability"
)

// Client is the typed HTTP client for the recruitment backend. It is the
// only place that knows the backend's base URL; handlers never build backend
// URLs themselves.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	prom       *observability.Prom
}

func New(baseURL string, timeout time.Duration, log *slog.Logger, prom *observability.Prom) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:  log,
		prom: prom,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping is used by the readiness probe. Any response from the backend counts
// as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: backend unreachable: %w", err)
	}
	resp.Body.Close()

	return nil
}

// doJSON performs a request and decodes a JSON response into out (when out
// is non-nil). 404 maps to ErrNotFound; other non-2xx statuses map to an
// APIError carrying the backend's reported message.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return fmt.Errorf("gateway: build %s request: %w", op, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.roundTrip(op, req, out)
}

func (c *Client) roundTrip(op string, req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, 0, err, start)
		return fmt.Errorf("gateway: %s: %w", op, err)
	}
	defer resp.Body.Close()

	c.observe(op, resp.StatusCode, nil, start)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gateway: decode %s response: %w", op, err)
		}
	}

	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (c *Client) observe(op string, status int, err error, start time.Time) {
	if c.prom != nil {
		label := "ok"
		if status != 0 {
			label = fmt.Sprintf("%d", status)
		} else if err != nil {
			label = "network_error"
		}

		c.prom.ObserveGatewayCall(op, label, errorClass(status, err), time.Since(start))
	}

	if err != nil && c.log != nil {
		c.log.Warn("backend call failed", "op", op, "err", err)
	}
}

// readErrorMessage pulls the backend's {"error": "..."} payload; falls back
// to the raw body when it isn't JSON.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	return strings.TrimSpace(string(raw))
}
