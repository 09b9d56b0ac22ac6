// Package assets reads catalogue inputs from a local path or an http(s) URL.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"yogaseq/internal/config"
)

// ErrNotFound reports a missing file or a 404 response.
var ErrNotFound = errors.New("asset not found")

// maxAssetBytes caps a single fetch.
const maxAssetBytes = 32 << 20

// HTTPDoer describes the HTTP client used for remote sources.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher loads sources by path or URL.
type Fetcher struct {
	client HTTPDoer
}

// NewFetcher returns a fetcher. A nil client uses a 30s timeout client.
func NewFetcher(client HTTPDoer) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

// Fetch returns the bytes of source. An empty source is ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", ErrNotFound)
	}
	if config.IsRemote(source) {
		return f.fetchHTTP(ctx, source)
	}
	return readFile(source)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxAssetBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxAssetBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, maxAssetBytes)
	}
	return data, nil
}
