package history

import (
	"context"
	"fmt"
	"sync"

	"yogaseq/internal/fileutil"
)

// Cache is a Log kept in a single JSON file.
type Cache struct {
	path string
	mu   sync.Mutex
}

// NewCache returns a cache stored at path. The file is created on first
// append.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the backing file.
func (c *Cache) Path() string { return c.path }

// Append adds c to the cache, replacing any entry with the same ID.
func (c *Cache) Append(_ context.Context, entry Completion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	if err := fileutil.WriteJSONAtomic(c.path, entries); err != nil {
		return fmt.Errorf("write history cache: %w", err)
	}
	return nil
}

// List returns cached entries in append order.
func (c *Cache) List(context.Context) ([]Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *Cache) read() ([]Completion, error) {
	var entries []Completion
	if _, err := fileutil.ReadJSON(c.path, &entries); err != nil {
		return nil, fmt.Errorf("read history cache: %w", err)
	}
	return entries, nil
}
