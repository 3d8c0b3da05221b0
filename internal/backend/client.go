// Package backend is the HTTP client for the remote YouBube services. The
// three endpoints (auth, content, engagement, plus the optional profile
// function) are opaque: this package owns request building, JSON decoding
// and error extraction, and nothing else.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// APIError is an error the backend declared itself: a non-2xx status with an
// {"error": "..."} body. The server-supplied message is what the UI shows.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client wraps the remote endpoints. Safe for concurrent use.
type Client struct {
	httpClient *http.Client

	authURL       string
	contentURL    string
	engagementURL string
	profileURL    string
}

// Options carries the endpoint URLs and the request timeout.
type Options struct {
	AuthURL       string
	ContentURL    string
	EngagementURL string
	ProfileURL    string
	Timeout       time.Duration
}

// New creates a backend client with sane defaults.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		authURL:       opts.AuthURL,
		contentURL:    opts.ContentURL,
		engagementURL: opts.EngagementURL,
		profileURL:    opts.ProfileURL,
	}
}

// postJSON sends a JSON body and decodes the response into out (unless out
// is nil). Backend-declared failures come back as *APIError.
func (c *Client) postJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	return c.do(req, out)
}

// getJSON issues a GET with the given query parameters and decodes the
// response into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	full := endpoint
	if enc := query.Encode(); enc != "" {
		full += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.New().String())

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(status int, raw []byte) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: status, Message: msg}
}
