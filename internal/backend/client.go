// Package backend is the HTTP client for the document assistant service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/csheth/docdesk/internal/logger"
)

const (
	DefaultBaseURL = "http://localhost:9999"
	envBaseURL     = "DOCDESK_API_BASE_URL"

	// MaxTextLength is the longest selection the service accepts.
	MaxTextLength = 5000

	defaultHTTPTimeout = 3 * time.Minute
	maxErrorBody       = 4096
)

// ErrTextTooLong is returned before sending a selection the service would
// reject anyway.
var ErrTextTooLong = fmt.Errorf("text exceeds %d characters", MaxTextLength)

// Config describes how to build a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the assistant backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.LogEntry
}

// New builds a client. The base URL falls back to $DOCDESK_API_BASE_URL and
// then DefaultBaseURL.
func New(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = strings.TrimSpace(os.Getenv(envBaseURL))
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    pickHTTPClient(cfg.HTTPClient),
		log:     logger.Named("backend"),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Chat replies can take minutes; callers bound each request with a context.
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx response. Message comes from the body's "error" or
// "message" field, Code from "error_code" when present.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s (%s)", e.Method, e.Path, e.Status, msg, e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// IsAPIError reports whether err carries an APIError with the given code.
// An empty code matches any APIError.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return code == "" || apiErr.Code == code
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(buf), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithField("method", method).WithField("path", path).WithError(err).Warn("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	entry := c.log.WithField("method", method).
		WithField("path", path).
		WithField("status", resp.StatusCode).
		WithField("elapsed", time.Since(started).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := parseAPIError(method, path, resp.StatusCode, raw)
		entry.WithError(apiErr).Warn("backend returned an error")
		return apiErr
	}
	entry.Debug("request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func parseAPIError(method, path string, status int, raw []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, Status: status}
	var body struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		ErrorCode string `json:"error_code"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Code = body.ErrorCode
	apiErr.Message = body.Error
	if apiErr.Message == "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
