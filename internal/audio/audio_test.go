package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"yogaseq/internal/audio"
	"yogaseq/internal/catalog"
	"yogaseq/internal/logging"
	"yogaseq/internal/plate"
	"yogaseq/internal/sequence"
)

func TestPadID(t *testing.T) {
	tests := map[plate.ID]string{
		"5":    "005",
		"42":   "042",
		"172a": "172a",
		"5a":   "005a",
		"1234": "1234",
		"x1":   "x1",
	}
	for in, want := range tests {
		if got := audio.PadID(in); got != want {
			t.Fatalf("PadID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name  string
		asana plate.ID
		label string
		want  []string
	}{
		{"suffixed", "172a", "Padmāsana", []string{"172a_Padmasana.mp3", "172_Padmasana.mp3"}},
		{"plain", "001", "Adho Mukha Śvānāsana", []string{"001_AdhoMukhaSvanasana.mp3"}},
		{"no id", "", "Tree", nil},
		{"no name", "3", " -- ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := audio.Candidates(tc.asana, tc.label); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Candidates = %v, want %v", got, tc.want)
			}
		})
	}
}

type recordingSink struct {
	mu     sync.Mutex
	tried  []string
	accept map[string]bool
}

func (s *recordingSink) Play(_ context.Context, cue audio.Cue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tried = append(s.tried, cue.Name)
	if s.accept[cue.Name] {
		return nil
	}
	return errors.New("missing")
}

func TestPlayFirstStopsAtFirstSuccess(t *testing.T) {
	sink := &recordingSink{accept: map[string]bool{"b.mp3": true}}
	name, ok := audio.PlayFirst(context.Background(), sink, audio.KindPose, []string{"a.mp3", "b.mp3", "c.mp3"})
	if !ok || name != "b.mp3" {
		t.Fatalf("PlayFirst = %q, %v", name, ok)
	}
	if !reflect.DeepEqual(sink.tried, []string{"a.mp3", "b.mp3"}) {
		t.Fatalf("tried = %v", sink.tried)
	}

	sink = &recordingSink{}
	if _, ok := audio.PlayFirst(context.Background(), sink, audio.KindPose, []string{"a.mp3", "b.mp3"}); ok {
		t.Fatal("expected silent failure")
	}
	if len(sink.tried) != 2 {
		t.Fatalf("expected every candidate tried, got %v", sink.tried)
	}
}

func TestDirSinkAnnouncesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "172_Padmasana.mp3"), []byte("id3"), 0o644); err != nil {
		t.Fatal(err)
	}
	var announced []audio.Cue
	sink := audio.NewDirSink(dir, "/audio/", nil, func(c audio.Cue) { announced = append(announced, c) }, logging.NewNop())

	name, ok := audio.PlayFirst(context.Background(), sink, audio.KindPose, audio.Candidates("172a", "Padmāsana"))
	if !ok || name != "172_Padmasana.mp3" {
		t.Fatalf("PlayFirst = %q, %v", name, ok)
	}
	if len(announced) != 1 || announced[0].URL != "/audio/172_Padmasana.mp3" || announced[0].Kind != audio.KindPose {
		t.Fatalf("announced = %+v", announced)
	}
	if err := sink.Play(context.Background(), audio.Cue{Name: "../escape.mp3"}); err == nil {
		t.Fatal("expected path separator rejection")
	}
}

func TestCuerUsesCatalogNames(t *testing.T) {
	index := "Asana #,English Name,IAST,Intermediate Plates,Final Plates\n" +
		"172a,,Padmāsana,,10\n"
	cat, _, err := catalog.Build(catalog.Sources{Index: []byte(index)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sink := &recordingSink{accept: map[string]bool{"end.mp3": true}}
	cuer := audio.NewCuer(context.Background(), sink, func() *catalog.Catalog { return cat }, "end.mp3", logging.NewNop())

	pose := sequence.Pose{Plates: plate.Single("10"), Label: "Lotus"}
	want := []string{"172a_Padmasana.mp3", "172_Padmasana.mp3"}
	if got := cuer.PoseCandidates(pose); !reflect.DeepEqual(got, want) {
		t.Fatalf("PoseCandidates = %v, want %v", got, want)
	}

	cuer.PoseCue(pose)
	cuer.EndCue()
	wantTried := append(append([]string(nil), want...), "end.mp3")
	if !reflect.DeepEqual(sink.tried, wantTried) {
		t.Fatalf("tried = %v, want %v", sink.tried, wantTried)
	}

	withLabel := audio.NewCuer(context.Background(), sink, nil, "", nil)
	got := withLabel.PoseCandidates(sequence.Pose{AsanaNo: "7", Label: "Hero Pose"})
	if !reflect.DeepEqual(got, []string{"007_HeroPose.mp3"}) {
		t.Fatalf("label fallback = %v", got)
	}
}
