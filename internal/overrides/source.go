package overrides

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
)

// Source reads and writes override maps. Fetch errors are recoverable: the
// caller treats them as an empty map. Save and Delete errors are returned
// so the caller can keep its current map.
type Source interface {
	Fetch(ctx context.Context, kind Kind) (Map, error)
	Save(ctx context.Context, kind Kind, key, value string) (Override, error)
	Delete(ctx context.Context, kind Kind, key string) error
}

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a remote override store. GET {base}/{kind} returns the
// map, POST {base}/{kind} with {key,value} saves, and
// DELETE {base}/{kind}?key= removes.
type Client struct {
	baseURL string
	client  HTTPDoer
	now     func() time.Time
}

// NewClient returns a remote source rooted at baseURL. A nil doer uses
// http.DefaultClient.
func NewClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  doer,
		now:     time.Now,
	}
}

type saveRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type saveResponse struct {
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
	Error     string `json:"error"`
}

// Fetch retrieves the override map for kind.
func (c *Client) Fetch(ctx context.Context, kind Kind) (Map, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.kindURL(kind), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s overrides request: %w", kind, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s overrides: %w", kind, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s overrides: %w", kind, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s overrides returned %d", kind, resp.StatusCode)
	}
	return DecodeMap(body)
}

// Save writes one override. Success requires a 2xx response whose status
// field is "ok".
func (c *Client) Save(ctx context.Context, kind Kind, key, value string) (Override, error) {
	if !kind.Accepts(value) {
		return Override{}, fmt.Errorf("save %s override: blank value", kind)
	}
	payload, err := json.Marshal(saveRequest{Key: key, Value: value})
	if err != nil {
		return Override{}, fmt.Errorf("encode %s override: %w", kind, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.kindURL(kind), bytes.NewReader(payload))
	if err != nil {
		return Override{}, fmt.Errorf("build %s override request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return Override{}, fmt.Errorf("save %s override: %w", kind, err)
	}
	defer resp.Body.Close()

	var decoded saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && resp.StatusCode < http.StatusMultipleChoices {
		return Override{}, fmt.Errorf("decode %s override response: %w", kind, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices || !strings.EqualFold(decoded.Status, "ok") {
		reason := strings.TrimSpace(decoded.Error)
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return Override{}, fmt.Errorf("save %s override rejected: %s", kind, reason)
	}
	updated := ParseTime(decoded.UpdatedAt)
	if updated.IsZero() {
		updated = c.now().UTC()
	}
	return Override{Value: value, UpdatedAt: updated}, nil
}

// Delete removes one override.
func (c *Client) Delete(ctx context.Context, kind Kind, key string) error {
	target := c.kindURL(kind) + "?" + url.Values{"key": {key}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("build %s override delete: %w", kind, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s override: %w", kind, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("delete %s override returned %d", kind, resp.StatusCode)
	}
	return nil
}

func (c *Client) kindURL(kind Kind) string {
	return c.baseURL + "/" + url.PathEscape(string(kind))
}
