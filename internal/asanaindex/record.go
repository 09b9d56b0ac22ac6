package asanaindex

import (
	"time"

	"yogaseq/internal/plate"
)

// Source tags where an effective field value came from.
type Source string

const (
	SourceNone     Source = ""
	SourceCSV      Source = "csv"
	SourceOverride Source = "override"
)

// Record is one asana row from the index.
type Record struct {
	AsanaNo            plate.ID   `json:"asana_no"`
	English            string     `json:"english"`
	IAST               string     `json:"iast"`
	IntermediatePlates []plate.ID `json:"intermediate_plates"`
	FinalPlates        []plate.ID `json:"final_plates"`
	AllPlates          []plate.ID `json:"all_plates"`
	Pages              string     `json:"pages,omitempty"`
	Intensity          string     `json:"intensity,omitempty"`

	// BaseCategory is the category inferred from the record's images.
	BaseCategory      string    `json:"base_category,omitempty"`
	Category          string    `json:"category"`
	CategorySource    Source    `json:"category_source"`
	CategoryUpdatedAt time.Time `json:"category_updated_at,omitzero"`

	BaseDescription      string    `json:"base_description,omitempty"`
	Description          string    `json:"description"`
	DescriptionSource    Source    `json:"description_source"`
	DescriptionUpdatedAt time.Time `json:"description_updated_at,omitzero"`
}

// DisplayName prefers the English name, falling back to IAST.
func (r Record) DisplayName() string {
	if r.English != "" {
		return r.English
	}
	return r.IAST
}

// CategoryPlates returns the plates consulted for category inference: the
// final plates, or the intermediate plates when no final plate is listed.
func (r Record) CategoryPlates() []plate.ID {
	if len(r.FinalPlates) > 0 {
		return r.FinalPlates
	}
	return r.IntermediatePlates
}

// Clone returns a deep copy so callers can merge overrides without touching
// a published catalogue.
func (r Record) Clone() Record {
	out := r
	out.IntermediatePlates = cloneIDs(r.IntermediatePlates)
	out.FinalPlates = cloneIDs(r.FinalPlates)
	out.AllPlates = cloneIDs(r.AllPlates)
	return out
}

// CloneAll deep-copies a record slice.
func CloneAll(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}

func cloneIDs(ids []plate.ID) []plate.ID {
	if ids == nil {
		return nil
	}
	out := make([]plate.ID, len(ids))
	copy(out, ids)
	return out
}

// BaseSource returns SourceCSV for a non-empty base value and SourceNone
// otherwise.
func BaseSource(value string) Source {
	if value == "" {
		return SourceNone
	}
	return SourceCSV
}
