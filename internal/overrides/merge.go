package overrides

import (
	"strings"
	"time"

	"yogaseq/internal/asanaindex"
)

// ApplyDescriptions returns a copy of records with description overrides
// applied. Records without an override fall back to their base description.
func ApplyDescriptions(records []asanaindex.Record, m Map) []asanaindex.Record {
	out := asanaindex.CloneAll(records)
	for i := range out {
		rec := &out[i]
		if o, ok := m.Lookup(string(rec.AsanaNo)); ok && KindDescription.Accepts(o.Value) {
			rec.Description = o.Value
			rec.DescriptionSource = asanaindex.SourceOverride
			rec.DescriptionUpdatedAt = o.UpdatedAt
			continue
		}
		rec.Description = rec.BaseDescription
		rec.DescriptionSource = asanaindex.BaseSource(rec.BaseDescription)
		rec.DescriptionUpdatedAt = time.Time{}
	}
	return out
}

// ApplyCategories returns a copy of records with category overrides applied.
// Blank override values are ignored.
func ApplyCategories(records []asanaindex.Record, m Map) []asanaindex.Record {
	out := asanaindex.CloneAll(records)
	for i := range out {
		rec := &out[i]
		if o, ok := m.Lookup(string(rec.AsanaNo)); ok && KindCategory.Accepts(o.Value) {
			rec.Category = strings.TrimSpace(o.Value)
			rec.CategorySource = asanaindex.SourceOverride
			rec.CategoryUpdatedAt = o.UpdatedAt
			continue
		}
		rec.Category = rec.BaseCategory
		rec.CategorySource = asanaindex.BaseSource(rec.BaseCategory)
		rec.CategoryUpdatedAt = time.Time{}
	}
	return out
}

// Apply runs the merger for kind.
func Apply(kind Kind, records []asanaindex.Record, m Map) []asanaindex.Record {
	if kind == KindCategory {
		return ApplyCategories(records, m)
	}
	return ApplyDescriptions(records, m)
}
