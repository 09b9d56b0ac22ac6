package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleIndexCSV is a small asana index. Asana 2 has an intermediate and a
// final plate; 172a carries a letter suffix.
const SampleIndexCSV = "Asana #,English Name,IAST,Intermediate Plates,Final Plates,Description\n" +
	"1,Mountain Pose,Tāḍāsana,,1,Stand tall.\n" +
	"2,Tree Pose,Vṛkṣāsana,2,3,\n" +
	"3,Triangle Pose,Utthita Trikoṇāsana,4,5,\n" +
	"172a,Lotus Variation,Padmāsana,,10-11,\n"

// SampleManifestJSON uses the plate-keyed images map layout.
const SampleManifestJSON = `{
  "images": {
    "1": "main/standing/001_Tadasana_Plate1.webp",
    "2": ["main/standing/002_Vrksasana_Plate2.webp"],
    "3": {"main": "main/standing/002_Vrksasana_Plate3.webp"},
    "4": "main/standing/003_Trikonasana_Plate4.webp",
    "5": "main/standing/Plate5.webp",
    "10": "w800/seated/172a_Padmasana_Plate10.webp",
    "11": "w800/seated/Plate11.webp"
  }
}`

// SamplePlateGroupsJSON shows plate 4 together with plate 5.
const SamplePlateGroupsJSON = `{"4": [4, 5]}`

// SampleSequenceJSON is a two pose sequence: a short hold then a long one.
const SampleSequenceJSON = `{
  "id": "short",
  "title": "Short Practice",
  "poses": [
    {"plates": "1", "duration": 2, "label": "Pose A", "asana": "1"},
    {"plates": ["2", "3"], "duration": 90, "label": "Pose B", "asana": "2"}
  ]
}`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
