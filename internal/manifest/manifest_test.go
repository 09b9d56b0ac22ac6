package manifest_test

import (
	"reflect"
	"testing"

	"yogaseq/internal/manifest"
	"yogaseq/internal/plate"
)

func TestParseFlatListOfStringsAndObjects(t *testing.T) {
	doc := []byte(`[
		"main/standing/001_Tadasana_Plate1.webp",
		{"path": ".\\main\\standing\\002_Vrksasana_Plate2.JPG"},
		{"file": "notes.txt"},
		{"name": "https://cdn.example.com/w800/twists/003_X_Plate3a.png?v=2"},
		"images/004_Y_Plate4.jpeg",
		{"main": "/static/005_Z.webp", "plate": 5}
	]`)
	res, err := manifest.ParseResult(doc, manifest.Options{})
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if res.Shape != "list" {
		t.Fatalf("unexpected shape %q", res.Shape)
	}
	want := []manifest.Entry{
		{Plate: "1", PrimaryAsana: "1", URL: "images/main/standing/001_Tadasana_Plate1.webp"},
		{Plate: "2", PrimaryAsana: "2", URL: "images/main/standing/002_Vrksasana_Plate2.JPG"},
		{Plate: "3a", PrimaryAsana: "3", URL: "https://cdn.example.com/w800/twists/003_X_Plate3a.png?v=2"},
		{Plate: "4", PrimaryAsana: "4", URL: "images/004_Y_Plate4.jpeg"},
		{Plate: "5", PrimaryAsana: "5", URL: "/static/005_Z.webp"},
	}
	if !reflect.DeepEqual(res.Entries, want) {
		t.Fatalf("unexpected entries:\n got %+v\nwant %+v", res.Entries, want)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected one skipped non-image entry, got %d", res.Skipped)
	}
}

func TestParseImagesMapMergesKeyAsPlate(t *testing.T) {
	doc := []byte(`{
		"version": 2,
		"images": {
			"10": {"main": "main/seated/010_Dandasana.webp"},
			"11": "main/seated/011_Foo.webp",
			"12": ["main/seated/012_A.webp", {"path": "main/seated/012_B_Plate12b.webp"}],
			"extra": "ignored.webp"
		}
	}`)
	res, err := manifest.ParseResult(doc, manifest.Options{ImagesBase: "/assets/"})
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if res.Shape != "images-map" {
		t.Fatalf("unexpected shape %q", res.Shape)
	}
	plates := make(map[string]plate.ID)
	for _, entry := range res.Entries {
		plates[entry.URL] = entry.Plate
	}
	want := map[string]plate.ID{
		"/assets/main/seated/010_Dandasana.webp":  "10",
		"/assets/main/seated/011_Foo.webp":        "11",
		"/assets/main/seated/012_A.webp":          "12",
		"/assets/main/seated/012_B_Plate12b.webp": "12b",
		"/assets/ignored.webp":                    "extra",
	}
	if !reflect.DeepEqual(plates, want) {
		t.Fatalf("unexpected plates: got %v want %v", plates, want)
	}
}

func TestParseRootMapRequiresMostlyNumericKeys(t *testing.T) {
	numeric := []byte(`{"1": "a_Plate1.png", "2": "b.png", "3": "c.png", "note": "x.png"}`)
	res, err := manifest.ParseResult(numeric, manifest.Options{})
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if res.Shape != "root-map" || len(res.Entries) != 4 {
		t.Fatalf("expected root-map with 4 entries, got %q/%d", res.Shape, len(res.Entries))
	}

	mixed := []byte(`{"1": "a.png", "x": "b.png", "y": "c.png"}`)
	res, err = manifest.ParseResult(mixed, manifest.Options{})
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Fatalf("expected unrecognized shape to yield nothing, got %+v", res.Entries)
	}
}

func TestParseNamedListsInOrder(t *testing.T) {
	doc := []byte(`{"files": [], "items": ["main/001_A_Plate1.webp"], "paths": ["main/002_B_Plate2.webp"]}`)
	res, err := manifest.ParseResult(doc, manifest.Options{})
	if err != nil {
		t.Fatalf("ParseResult failed: %v", err)
	}
	if res.Shape != "named-list" || len(res.Entries) != 1 || res.Entries[0].Plate != "1" {
		t.Fatalf("expected first non-empty named list to win, got %+v", res)
	}

	nested := []byte(`{"variants": {"files": [{"relative_path": "x/007_Q_Plate7.webp"}]}}`)
	entries, err := manifest.Parse(nested, manifest.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Plate != "7" || entries[0].URL != "images/x/007_Q_Plate7.webp" {
		t.Fatalf("unexpected nested entries %+v", entries)
	}
}

func TestParseRejectsInvalidJSONAndToleratesEmpty(t *testing.T) {
	if _, err := manifest.Parse([]byte(`{not json`), manifest.Options{}); err == nil {
		t.Fatal("expected decode error")
	}
	entries, err := manifest.Parse([]byte("  "), manifest.Options{})
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty result, got %v/%v", entries, err)
	}
	entries, err = manifest.Parse([]byte(`"just a string"`), manifest.Options{})
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected unrecognized scalar to yield nothing, got %v/%v", entries, err)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		raw, base, want string
	}{
		{"./a/b.png", "images", "images/a/b.png"},
		{`a\b.png`, "images", "images/a/b.png"},
		{"images/a.png", "images", "images/a.png"},
		{"HTTPS://x/y.png", "images", "HTTPS://x/y.png"},
		{"/abs/y.png", "images", "/abs/y.png"},
		{"a.png", "", "a.png"},
		{"main/standing/001_Tadasana_Plate1.webp", "/static/images", "/static/images/main/standing/001_Tadasana_Plate1.webp"},
		{"static/images/a.png", "/static/images", "/static/images/a.png"},
		{"  ", "images", ""},
	}
	for _, tc := range cases {
		if got := manifest.NormalizePath(tc.raw, tc.base); got != tc.want {
			t.Fatalf("NormalizePath(%q, %q) = %q, want %q", tc.raw, tc.base, got, tc.want)
		}
	}
}
