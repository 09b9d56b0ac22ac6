package overrides

import (
	"reflect"
	"testing"
	"time"

	"yogaseq/internal/asanaindex"
)

func baseRecords() []asanaindex.Record {
	return []asanaindex.Record{
		{
			AsanaNo: "1", BaseDescription: "Stand tall.", Description: "Stand tall.", DescriptionSource: asanaindex.SourceCSV,
			BaseCategory: "standing", Category: "standing", CategorySource: asanaindex.SourceCSV,
		},
		{AsanaNo: "2"},
		{AsanaNo: "172a", BaseDescription: "Twist.", Description: "Twist.", DescriptionSource: asanaindex.SourceCSV},
	}
}

func TestApplyDescriptions(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := Map{
		"1":    {Value: "Root through the feet.", UpdatedAt: stamp},
		"2":    {Value: ""},
		"172a": {Value: "Deep twist."},
	}
	records := baseRecords()
	got := ApplyDescriptions(records, m)

	if got[0].Description != "Root through the feet." || got[0].DescriptionSource != asanaindex.SourceOverride || !got[0].DescriptionUpdatedAt.Equal(stamp) {
		t.Fatalf("record 1 = %+v", got[0])
	}
	if got[1].Description != "" || got[1].DescriptionSource != asanaindex.SourceOverride {
		t.Fatalf("empty description override not applied: %+v", got[1])
	}
	if got[2].Description != "Deep twist." {
		t.Fatalf("suffixed key not matched: %+v", got[2])
	}
	if records[0].Description != "Stand tall." {
		t.Fatal("input records mutated")
	}
}

func TestApplyDescriptionsResetsRemovedOverride(t *testing.T) {
	merged := ApplyDescriptions(baseRecords(), Map{"1": {Value: "Changed"}})
	reset := ApplyDescriptions(merged, Map{})

	if reset[0].Description != "Stand tall." || reset[0].DescriptionSource != asanaindex.SourceCSV {
		t.Fatalf("record 1 not reset: %+v", reset[0])
	}
	if !reset[0].DescriptionUpdatedAt.IsZero() {
		t.Fatal("timestamp not cleared")
	}
	if reset[1].DescriptionSource != asanaindex.SourceNone {
		t.Fatalf("record without base should have no source, got %q", reset[1].DescriptionSource)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	m := Map{"1": {Value: "x"}, "2": {Value: "inversions"}}
	once := ApplyCategories(ApplyDescriptions(baseRecords(), m), m)
	twice := ApplyCategories(ApplyDescriptions(once, m), m)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent:\n%+v\n%+v", once, twice)
	}
}

func TestApplyCategories(t *testing.T) {
	m := Map{
		"1": {Value: "   "},
		"2": {Value: " inversions "},
	}
	got := ApplyCategories(baseRecords(), m)
	if got[0].Category != "standing" || got[0].CategorySource != asanaindex.SourceCSV {
		t.Fatalf("blank category override should be ignored: %+v", got[0])
	}
	if got[1].Category != "inversions" || got[1].CategorySource != asanaindex.SourceOverride {
		t.Fatalf("category override not applied: %+v", got[1])
	}
	if got[2].Category != "" || got[2].CategorySource != asanaindex.SourceNone {
		t.Fatalf("record 172a = %+v", got[2])
	}
}

func TestApplyDispatchesOnKind(t *testing.T) {
	m := Map{"2": {Value: "backbends"}}
	if got := Apply(KindCategory, baseRecords(), m); got[1].Category != "backbends" {
		t.Fatalf("Apply(category) = %+v", got[1])
	}
	if got := Apply(KindDescription, baseRecords(), m); got[1].Description != "backbends" {
		t.Fatalf("Apply(description) = %+v", got[1])
	}
}
