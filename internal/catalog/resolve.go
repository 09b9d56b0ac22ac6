package catalog

import (
	"bytes"
	"io"

	"yogaseq/internal/plate"
)

// Resolve returns the images to display for a pose.
//
// A multi-plate pose gets the union of each plate's own images. A single
// plate is looked up through its plate group, then its primary asana, then
// its own images, and the first non-empty source wins.
func (c *Catalog) Resolve(ref plate.Ref) []string {
	ids := ref.IDs()
	if len(ids) > 1 {
		return c.unionPlates(ids)
	}
	id := ref.First()
	if id.Empty() {
		return []string{}
	}
	if group := c.plateGroups[id]; len(group) > 0 {
		return c.unionPlates(group)
	}
	if asana, ok := c.plateToAsana[id]; ok && !asana.Empty() {
		if urls := c.asanaToURLs[asana]; len(urls) > 0 {
			return cloneStrings(urls)
		}
	}
	urls := c.plateToURLs[id]
	if len(urls) == 0 {
		return []string{}
	}
	return cloneStrings(urls)
}

// ResolveIDs is Resolve for a plain identifier list: one element is a single
// plate, several are a collage.
func (c *Catalog) ResolveIDs(raw ...string) []string {
	if len(raw) == 1 {
		return c.Resolve(plate.Single(raw[0]))
	}
	return c.Resolve(plate.Multi(raw...))
}

// unionPlates concatenates each plate's images in order, dropping repeats.
func (c *Catalog) unionPlates(ids []plate.ID) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, id := range ids {
		for _, url := range c.plateToURLs[plate.Normalize(string(id))] {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			out = append(out, url)
		}
	}
	return out
}

// RecordImages resolves every plate of a record, final plates first.
func (c *Catalog) RecordImages(no plate.ID) []string {
	idx, ok := c.byAsana[no]
	if !ok {
		return []string{}
	}
	rec := c.records[idx]
	ids := make([]plate.ID, 0, len(rec.AllPlates))
	ids = append(ids, rec.FinalPlates...)
	ids = append(ids, rec.IntermediatePlates...)
	out := []string{}
	seen := make(map[string]struct{})
	if urls := c.asanaToURLs[no]; len(urls) > 0 {
		for _, url := range urls {
			seen[url] = struct{}{}
			out = append(out, url)
		}
	}
	for _, id := range ids {
		for _, url := range c.Resolve(plate.Single(string(id))) {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			out = append(out, url)
		}
	}
	return out
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
