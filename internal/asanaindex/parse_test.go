package asanaindex_test

import (
	"reflect"
	"strings"
	"testing"

	"yogaseq/internal/asanaindex"
	"yogaseq/internal/plate"
)

const sampleIndex = "\xEF\xBB\xBFAsana #,English Name,IAST Name,Intermediate Plate(s),Final Plate(s),Page,Intensity,Description\n" +
	"001,Mountain,Tāḍāsana,,1,61,1,\"Stand tall, feet together.\"\n" +
	"12X3,Broken,Broken,,9,,,\n" +
	"2,Tree,Vṛkṣāsana,2-3,4|4a,62,1,\"Line one\nline two with \"\"quotes\"\"\"\n" +
	",,,,,,,\n" +
	"172a,Variant,Variant,,172a,,,\n"

func TestParseKeepsValidRowsAndDropsMalformed(t *testing.T) {
	records, stats, err := asanaindex.ParseWithStats(strings.NewReader(sampleIndex))
	if err != nil {
		t.Fatalf("ParseWithStats failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	if stats.Dropped != 1 || stats.Kept != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	first := records[0]
	if first.AsanaNo != "1" || first.English != "Mountain" || first.IAST != "Tāḍāsana" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.BaseDescription != "Stand tall, feet together." || first.DescriptionSource != asanaindex.SourceCSV {
		t.Fatalf("unexpected description: %+v", first)
	}

	second := records[1]
	wantAll := []plate.ID{"2", "3", "4", "4a"}
	if !reflect.DeepEqual(second.AllPlates, wantAll) {
		t.Fatalf("unexpected all plates: got %v want %v", second.AllPlates, wantAll)
	}
	if second.Description != "Line one\nline two with \"quotes\"" {
		t.Fatalf("unexpected quoted description: %q", second.Description)
	}
	if records[2].AsanaNo != "172a" {
		t.Fatalf("expected suffixed asana number, got %q", records[2].AsanaNo)
	}
	if records[2].DescriptionSource != asanaindex.SourceNone {
		t.Fatalf("expected empty description source, got %q", records[2].DescriptionSource)
	}
}

func TestParseInfersCategoryFromFinalThenIntermediatePlates(t *testing.T) {
	categories := map[plate.ID]string{"3": "standing", "4a": "twists"}
	var consulted [][]plate.ID
	categorize := func(plates []plate.ID) string {
		consulted = append(consulted, plates)
		for _, p := range plates {
			if c := categories[p]; c != "" {
				return c
			}
		}
		return ""
	}
	data := "Asana #,Intermediate Plate,Final Plate\n" +
		"1,,4|4a\n" +
		"2,3,\n" +
		"3,,99\n"
	records, err := asanaindex.Parse(strings.NewReader(data), asanaindex.WithCategorizer(categorize))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if records[0].Category != "twists" || records[0].CategorySource != asanaindex.SourceCSV {
		t.Fatalf("expected twists from final plates, got %+v", records[0])
	}
	if records[1].Category != "standing" {
		t.Fatalf("expected fallback to intermediate plates, got %q", records[1].Category)
	}
	if records[2].Category != "" || records[2].CategorySource != asanaindex.SourceNone {
		t.Fatalf("expected no category, got %+v", records[2])
	}
	if !reflect.DeepEqual(consulted[1], []plate.ID{"3"}) {
		t.Fatalf("expected intermediate plates consulted, got %v", consulted[1])
	}
}

func TestParseBindsColumnsBySubstringAndToleratesMissing(t *testing.T) {
	data := "Final Plates (photo),asana number,ENGLISH\n" +
		"18-19,5,Triangle\n"
	records, err := asanaindex.Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec.AsanaNo != "5" || rec.English != "Triangle" || rec.IAST != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !reflect.DeepEqual(rec.FinalPlates, []plate.ID{"18", "19"}) {
		t.Fatalf("unexpected final plates: %v", rec.FinalPlates)
	}
}

func TestParseEmptyInput(t *testing.T) {
	records, err := asanaindex.Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCloneDetachesPlateSlices(t *testing.T) {
	rec := asanaindex.Record{AsanaNo: "1", AllPlates: []plate.ID{"1"}}
	clone := rec.Clone()
	clone.AllPlates[0] = "2"
	if rec.AllPlates[0] != "1" {
		t.Fatal("expected clone to own its plate slice")
	}
}
