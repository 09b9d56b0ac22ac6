package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Log backed by a remote endpoint: GET returns a JSON array,
// POST appends one record and answers {"status":"ok"}.
type Client struct {
	url    string
	client HTTPDoer
}

// NewClient returns a remote log at url. A nil doer uses http.DefaultClient.
func NewClient(url string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{url: strings.TrimSpace(url), client: doer}
}

type appendRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	SequenceID  string `json:"sequence_id,omitempty"`
	CompletedAt string `json:"completed_at"`
}

type appendResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Append posts one completion.
func (c *Client) Append(ctx context.Context, entry Completion) error {
	payload, err := json.Marshal(appendRequest{
		ID:          entry.ID,
		Title:       entry.Title,
		SequenceID:  entry.SequenceID,
		CompletedAt: entry.CompletedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode completion: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	defer resp.Body.Close()

	var decoded appendResponse
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	if resp.StatusCode >= http.StatusMultipleChoices || !strings.EqualFold(decoded.Status, "ok") {
		reason := strings.TrimSpace(decoded.Error)
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("append history rejected: %s", reason)
	}
	return nil
}

type remoteEntry struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	SequenceID  string          `json:"sequence_id"`
	CompletedAt json.RawMessage `json:"completed_at"`
	Date        json.RawMessage `json:"date"`
}

// List fetches the remote array. Entries without a title are skipped.
func (c *Client) List(ctx context.Context) ([]Completion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("history returned %d", resp.StatusCode)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []Completion{}, nil
	}
	var raw []remoteEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	out := make([]Completion, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		at := parseRawTime(r.CompletedAt)
		if at.IsZero() {
			at = parseRawTime(r.Date)
		}
		out = append(out, Completion{
			ID:          r.ID,
			Title:       title,
			SequenceID:  r.SequenceID,
			CompletedAt: at,
			Source:      SourceServer,
		})
	}
	return out, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

// parseRawTime accepts a quoted timestamp or unix seconds (or millis).
func parseRawTime(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t.UTC()
			}
		}
		return time.Time{}
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		if n > 1e12 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	}
	return time.Time{}
}
