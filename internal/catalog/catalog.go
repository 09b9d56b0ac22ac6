package catalog

import (
	"sort"

	"yogaseq/internal/asanaindex"
	"yogaseq/internal/manifest"
	"yogaseq/internal/plate"
)

// Catalog is an immutable snapshot of every lookup table built from the
// index, manifest and plate groups. Build a new one to reload; never mutate
// a published Catalog.
type Catalog struct {
	records []asanaindex.Record
	byAsana map[plate.ID]int

	plateToURLs   map[plate.ID][]string
	asanaToURLs   map[plate.ID][]string
	plateToAsana  map[plate.ID]plate.ID
	ambiguous     map[plate.ID]struct{}
	plateGroups   map[plate.ID][]plate.ID
	csvPlateAsana map[plate.ID]plate.ID
}

// Sources holds already-parsed inputs for Build.
type Sources struct {
	// Index is the raw asana index CSV text.
	Index []byte
	// Entries is the flattened image manifest.
	Entries []manifest.Entry
	// PlateGroups maps a plate to the plates shown together with it.
	PlateGroups map[plate.ID][]plate.ID
}

// Stats summarizes catalogue contents.
type Stats struct {
	Records        int `json:"records"`
	DroppedRows    int `json:"dropped_rows"`
	Plates         int `json:"plates"`
	Asanas         int `json:"asanas_with_images"`
	AmbiguousPlate int `json:"ambiguous_plates"`
	PlateGroups    int `json:"plate_groups"`
}

// Empty returns a catalogue with no data.
func Empty() *Catalog {
	return &Catalog{
		byAsana:       map[plate.ID]int{},
		plateToURLs:   map[plate.ID][]string{},
		asanaToURLs:   map[plate.ID][]string{},
		plateToAsana:  map[plate.ID]plate.ID{},
		ambiguous:     map[plate.ID]struct{}{},
		plateGroups:   map[plate.ID][]plate.ID{},
		csvPlateAsana: map[plate.ID]plate.ID{},
	}
}

// Build indexes manifest entries, then parses the index so category
// inference can consult the image tables.
func Build(src Sources) (*Catalog, Stats, error) {
	c := Empty()
	c.indexEntries(src.Entries)
	c.setPlateGroups(src.PlateGroups)

	var (
		records []asanaindex.Record
		idx     asanaindex.Stats
		err     error
	)
	if len(src.Index) > 0 {
		records, idx, err = asanaindex.ParseWithStats(bytesReader(src.Index), asanaindex.WithCategorizer(c.categoryForPlates))
		if err != nil {
			return nil, Stats{}, err
		}
	}
	c.setRecords(records)
	stats := c.Stats()
	stats.DroppedRows = idx.Dropped
	return c, stats, nil
}

func (c *Catalog) indexEntries(entries []manifest.Entry) {
	for _, entry := range entries {
		if !entry.Plate.Empty() {
			c.plateToURLs[entry.Plate] = append(c.plateToURLs[entry.Plate], entry.URL)
			c.claimPrimary(entry.Plate, entry.PrimaryAsana)
		}
		if !entry.PrimaryAsana.Empty() {
			c.asanaToURLs[entry.PrimaryAsana] = append(c.asanaToURLs[entry.PrimaryAsana], entry.URL)
		}
	}
	for key, urls := range c.plateToURLs {
		c.plateToURLs[key] = sortedUnique(urls)
	}
	for key, urls := range c.asanaToURLs {
		c.asanaToURLs[key] = sortedUnique(urls)
	}
}

// claimPrimary records the plate's primary asana. Two entries that disagree
// leave the plate with no claim at all.
func (c *Catalog) claimPrimary(p, asana plate.ID) {
	if _, bad := c.ambiguous[p]; bad {
		return
	}
	current, seen := c.plateToAsana[p]
	if !seen {
		c.plateToAsana[p] = asana
		return
	}
	if current != asana {
		delete(c.plateToAsana, p)
		c.ambiguous[p] = struct{}{}
	}
}

func (c *Catalog) setPlateGroups(groups map[plate.ID][]plate.ID) {
	for key, members := range groups {
		k := plate.Normalize(string(key))
		if k.Empty() {
			continue
		}
		normalized := make([]plate.ID, 0, len(members))
		for _, m := range members {
			if id := plate.Normalize(string(m)); !id.Empty() {
				normalized = append(normalized, id)
			}
		}
		if len(normalized) > 0 {
			c.plateGroups[k] = normalized
		}
	}
}

// setRecords installs records and registers their plates. The first record
// to claim a plate keeps it.
func (c *Catalog) setRecords(records []asanaindex.Record) {
	c.records = records
	c.byAsana = make(map[plate.ID]int, len(records))
	c.csvPlateAsana = make(map[plate.ID]plate.ID)
	for i, rec := range records {
		if _, exists := c.byAsana[rec.AsanaNo]; !exists {
			c.byAsana[rec.AsanaNo] = i
		}
		for _, p := range rec.AllPlates {
			if _, claimed := c.csvPlateAsana[p]; !claimed {
				c.csvPlateAsana[p] = rec.AsanaNo
			}
		}
	}
}

// WithRecords returns a copy sharing the image tables but carrying a
// different record slice. Used to publish override merges.
func (c *Catalog) WithRecords(records []asanaindex.Record) *Catalog {
	clone := *c
	clone.setRecords(records)
	return &clone
}

// Records returns a deep copy of all records in index order.
func (c *Catalog) Records() []asanaindex.Record {
	return asanaindex.CloneAll(c.records)
}

// Record returns the record for an asana number.
func (c *Catalog) Record(asanaNo string) (asanaindex.Record, bool) {
	idx, ok := c.byAsana[plate.Normalize(asanaNo)]
	if !ok {
		return asanaindex.Record{}, false
	}
	return c.records[idx].Clone(), true
}

// AsanaForPlate returns the index record that first listed the plate.
func (c *Catalog) AsanaForPlate(p plate.ID) (plate.ID, bool) {
	id, ok := c.csvPlateAsana[plate.Normalize(string(p))]
	return id, ok
}

// PrimaryAsana returns the manifest's primary asana for a plate. ok is false
// when no entry claimed one or entries disagreed.
func (c *Catalog) PrimaryAsana(p plate.ID) (plate.ID, bool) {
	id, ok := c.plateToAsana[plate.Normalize(string(p))]
	if !ok || id.Empty() {
		return "", false
	}
	return id, true
}

// Ambiguous reports whether manifest entries disagreed on the plate's
// primary asana.
func (c *Catalog) Ambiguous(p plate.ID) bool {
	_, bad := c.ambiguous[plate.Normalize(string(p))]
	return bad
}

// PlateURLs returns the images registered for a single plate.
func (c *Catalog) PlateURLs(p plate.ID) []string {
	return cloneStrings(c.plateToURLs[plate.Normalize(string(p))])
}

// Stats reports table sizes.
func (c *Catalog) Stats() Stats {
	return Stats{
		Records:        len(c.records),
		Plates:         len(c.plateToURLs),
		Asanas:         len(c.asanaToURLs),
		AmbiguousPlate: len(c.ambiguous),
		PlateGroups:    len(c.plateGroups),
	}
}

// Categories returns the distinct effective categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, rec := range c.records {
		if rec.Category != "" {
			seen[rec.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sorted := cloneStrings(values)
	sort.Strings(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
