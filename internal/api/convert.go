package api

import (
	"sort"

	"yogaseq/internal/asanaindex"
	"yogaseq/internal/catalog"
	"yogaseq/internal/history"
	"yogaseq/internal/overrides"
	"yogaseq/internal/player"
	"yogaseq/internal/plate"
)

// FromRecord converts a catalogue record to its API representation.
func FromRecord(rec asanaindex.Record, images []string) Asana {
	if images == nil {
		images = []string{}
	}
	return Asana{
		AsanaNo:            string(rec.AsanaNo),
		Name:               rec.DisplayName(),
		English:            rec.English,
		IAST:               rec.IAST,
		Category:           rec.Category,
		CategoryLabel:      catalog.DisplayCategory(rec.Category),
		CategorySource:     string(rec.CategorySource),
		Description:        rec.Description,
		DescriptionSource:  string(rec.DescriptionSource),
		FinalPlates:        idStrings(rec.FinalPlates),
		IntermediatePlates: idStrings(rec.IntermediatePlates),
		Pages:              rec.Pages,
		Intensity:          rec.Intensity,
		Images:             images,
	}
}

// FromMatch converts a search hit.
func FromMatch(m catalog.Match) Asana {
	return FromRecord(m.Record, m.Images)
}

// FromSnapshot attaches the current pose's images to a timer snapshot.
func FromSnapshot(snap player.Snapshot, cat *catalog.Catalog) Session {
	session := Session{Snapshot: snap, Images: []string{}}
	if snap.Pose != nil && cat != nil {
		session.Images = cat.Resolve(snap.Pose.Plates)
	}
	return session
}

// FromCompletion converts a history entry.
func FromCompletion(c history.Completion) HistoryEntry {
	return HistoryEntry{
		ID:          c.ID,
		Title:       c.Title,
		SequenceID:  c.SequenceID,
		CompletedAt: c.CompletedAt,
		Source:      string(c.Source),
	}
}

// FromOverrideMap lists overrides ordered by asana number.
func FromOverrideMap(m overrides.Map) []OverrideEntry {
	keys := make([]plate.ID, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return plate.Less(keys[i], keys[j]) })
	out := make([]OverrideEntry, 0, len(keys))
	for _, key := range keys {
		o := m[key]
		out = append(out, OverrideEntry{Key: string(key), Value: o.Value, UpdatedAt: o.UpdatedAt})
	}
	return out
}

// Categories pairs each category with its display label.
func Categories(names []string) []Category {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, Category{Name: name, Label: catalog.DisplayCategory(name)})
	}
	return out
}

func idStrings(ids []plate.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
