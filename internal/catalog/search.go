package catalog

import (
	"sort"
	"strings"

	"yogaseq/internal/asanaindex"
	"yogaseq/internal/plate"
	"yogaseq/internal/textutil"
)

// Query filters a catalogue browse. Zero values match everything.
type Query struct {
	// Text matches folded asana number, English and IAST names.
	Text string
	// Category matches the effective category, case-insensitively.
	Category string
	// HasImages keeps only records with at least one resolved image.
	HasImages bool
	// Limit caps the result count when positive.
	Limit int
}

// Match is a search hit with its resolved images.
type Match struct {
	Record asanaindex.Record `json:"record"`
	Images []string          `json:"images"`
}

// Search returns matching records ordered by asana number.
func (c *Catalog) Search(q Query) []Match {
	category := strings.TrimSpace(q.Category)
	text := strings.TrimSpace(q.Text)

	var out []Match
	for _, rec := range c.records {
		if category != "" && !strings.EqualFold(rec.Category, category) {
			continue
		}
		if text != "" && !matchesText(rec, text) {
			continue
		}
		images := c.RecordImages(rec.AsanaNo)
		if q.HasImages && len(images) == 0 {
			continue
		}
		out = append(out, Match{Record: rec.Clone(), Images: images})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return plate.Less(out[i].Record.AsanaNo, out[j].Record.AsanaNo)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matchesText(rec asanaindex.Record, text string) bool {
	if plate.Normalize(text) == rec.AsanaNo {
		return true
	}
	haystack := strings.Join([]string{string(rec.AsanaNo), rec.English, rec.IAST}, " ")
	return textutil.ContainsFolded(haystack, text)
}
