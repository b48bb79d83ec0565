package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aquafund-backend/internal/pkg/apperr"
)

// maxErrorText bounds raw (non-JSON) backend error bodies passed to clients.
const maxErrorText = 200

// Request is one outbound call to the backend API.
type Request struct {
	Method        string
	Path          string // e.g. /api/v1/ngos/42/approve
	Query         url.Values
	Body          []byte
	ContentType   string
	Authorization string // forwarded verbatim; omitted when empty
}

// Response is a 2xx backend answer.
type Response struct {
	Status int
	Body   []byte
}

// Client calls the backend behind BACKEND_API_URL.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

// Do sends req. Errors are *apperr.ConfigError (no base URL), *apperr.UpstreamError with
// Status 502 (transport) or the backend status (non-2xx, message normalized).
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, apperr.ErrBackendURLNotSet
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}

	target := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &apperr.UpstreamError{Status: http.StatusBadGateway, Message: "Failed to reach backend", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		ct := req.ContentType
		if ct == "" {
			ct = "application/json"
		}
		httpReq.Header.Set("Content-Type", ct)
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, &apperr.UpstreamError{Status: http.StatusBadGateway, Message: "Failed to reach backend", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.UpstreamError{Status: http.StatusBadGateway, Message: "Failed to read backend response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperr.UpstreamError{
			Status:  resp.StatusCode,
			Message: ErrorMessage(resp.StatusCode, respBody),
			Err:     fmt.Errorf("backend %s %s: status %d", req.Method, req.Path, resp.StatusCode),
		}
	}
	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}

// GetJSON is Do for a GET whose body decodes into out.
func (c *Client) GetJSON(ctx context.Context, path, authorization string, out interface{}) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Authorization: authorization})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &apperr.UpstreamError{Status: http.StatusBadGateway, Message: "Invalid backend response", Err: err}
	}
	return nil
}

// ErrorMessage turns a non-2xx body into one line of text: JSON error/message/detail first,
// raw text (truncated) otherwise. It never fails on an unparseable body.
func ErrorMessage(status int, body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			switch v := parsed[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]interface{}:
				if m, ok := v["message"].(string); ok && m != "" {
					return m
				}
			}
		}
		return fmt.Sprintf("Backend request failed with status %d", status)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("Backend request failed with status %d", status)
	}
	if r := []rune(text); len(r) > maxErrorText {
		text = string(r[:maxErrorText])
	}
	return text
}
