package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client errors.
var (
	// ErrNoToken is returned when the server had no token within the wait.
	ErrNoToken = errors.New("server: no token available")
	// ErrUnavailable is returned when the server interrupted the wait.
	ErrUnavailable = errors.New("server: unavailable")
)

// Client fetches tokens from a running bridge.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for addr. A missing scheme defaults to http.
func NewClient(addr string) *Client {
	baseURL := strings.TrimSuffix(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token takes one token. A positive wait is sent as the server-side
// timeout; the request itself is bounded by ctx.
func (c *Client) Token(ctx context.Context, wait time.Duration) (Message, error) {
	path := "/v1/token"
	if wait > 0 {
		path += "?timeout=" + url.QueryEscape(wait.String())
	}

	var msg Message
	err := c.get(ctx, path, &msg)
	return msg, err
}

// Stats fetches the queue statistics.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := c.get(ctx, "/v1/stats", &st)
	return st, err
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		switch resp.StatusCode {
		case http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %s", ErrNoToken, body.Message)
		case http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %s", ErrUnavailable, body.Message)
		}
		if body.Message != "" {
			return fmt.Errorf("[%s] %s", body.Code, body.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
