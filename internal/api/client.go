package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yogaseq/internal/library"
	"yogaseq/internal/sequence"
)

// ErrDaemonUnavailable is returned when the daemon cannot be reached.
var ErrDaemonUnavailable = errors.New("yogaseq daemon is not reachable")

// APIError is a non-2xx response from the daemon.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon returned %d", e.Status)
	}
	return fmt.Sprintf("daemon returned %d: %s", e.Status, e.Message)
}

// Client calls a running daemon over HTTP.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient targets baseURL, for example "http://127.0.0.1:7490". A nil
// httpClient uses a 10 second timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		base:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token: token,
		http:  httpClient,
	}
}

// Health returns daemon status.
func (c *Client) Health(ctx context.Context) (DaemonStatus, error) {
	var out DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out)
	return out, err
}

// Asanas searches the catalogue.
func (c *Client) Asanas(ctx context.Context, text, category string, imagesOnly bool) ([]Asana, error) {
	q := url.Values{}
	if text != "" {
		q.Set("q", text)
	}
	if category != "" {
		q.Set("category", category)
	}
	if imagesOnly {
		q.Set("images", "1")
	}
	var out AsanaListResponse
	if err := c.do(ctx, http.MethodGet, "/api/asanas", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Asana fetches one record.
func (c *Client) Asana(ctx context.Context, no string) (Asana, error) {
	var out Asana
	err := c.do(ctx, http.MethodGet, "/api/asanas/"+url.PathEscape(no), nil, nil, &out)
	return out, err
}

// Resolve returns the images for one plate, or a collage for several.
func (c *Client) Resolve(ctx context.Context, plates ...string) ([]string, error) {
	q := url.Values{"plate": plates}
	var out ImagesResponse
	if err := c.do(ctx, http.MethodGet, "/api/images", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// Sequences lists sequence summaries.
func (c *Client) Sequences(ctx context.Context) ([]sequence.Summary, error) {
	var out SequenceListResponse
	if err := c.do(ctx, http.MethodGet, "/api/sequences", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// History lists completions, newest first.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var out struct {
		Items []HistoryEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// RecordHistory appends a completion. completedAt may be empty for now.
func (c *Client) RecordHistory(ctx context.Context, req HistoryRequest) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodPost, "/api/history", nil, req, &out)
	return out, err
}

// SetOverride saves one override.
func (c *Client) SetOverride(ctx context.Context, kind, key, value string) (SaveOverrideResponse, error) {
	var out SaveOverrideResponse
	err := c.do(ctx, http.MethodPost, "/api/overrides/"+url.PathEscape(kind), nil,
		SaveOverrideRequest{Key: key, Value: value}, &out)
	return out, err
}

// ClearOverride deletes one override.
func (c *Client) ClearOverride(ctx context.Context, kind, key string) error {
	path := "/api/overrides/" + url.PathEscape(kind) + "/" + url.PathEscape(key)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Reload asks the daemon to rebuild its catalogue.
func (c *Client) Reload(ctx context.Context) (library.Report, error) {
	var out library.Report
	err := c.do(ctx, http.MethodPost, "/api/reload", nil, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr ErrorResponse
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
