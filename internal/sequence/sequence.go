package sequence

import (
	"errors"
	"sort"

	"yogaseq/internal/plate"
)

// ErrNotFound is returned when a sequence ID is unknown.
var ErrNotFound = errors.New("sequence not found")

// Pose is one timed hold.
type Pose struct {
	Plates   plate.Ref `json:"plates"`
	Duration int       `json:"duration"`
	Label    string    `json:"label"`
	Note     string    `json:"note,omitempty"`
	AsanaNo  plate.ID  `json:"asana,omitempty"`
}

// Sequence is an ordered list of poses.
type Sequence struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Poses []Pose `json:"poses"`
}

// Len returns the number of poses.
func (s Sequence) Len() int { return len(s.Poses) }

// TotalSeconds sums every pose duration.
func (s Sequence) TotalSeconds() int {
	total := 0
	for _, p := range s.Poses {
		total += p.Duration
	}
	return total
}

// Pose returns the pose at index and whether it exists.
func (s Sequence) Pose(index int) (Pose, bool) {
	if index < 0 || index >= len(s.Poses) {
		return Pose{}, false
	}
	return s.Poses[index], true
}

// Summary is the list view of a sequence.
type Summary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Poses        int    `json:"poses"`
	TotalSeconds int    `json:"total_seconds"`
}

// Summary describes s without its poses.
func (s Sequence) Summary() Summary {
	return Summary{ID: s.ID, Title: s.Title, Poses: len(s.Poses), TotalSeconds: s.TotalSeconds()}
}

// Set is an immutable collection keyed by ID.
type Set struct {
	ordered []Sequence
	byID    map[string]int
}

// NewSet indexes sequences sorted by title. When IDs collide the first
// sequence is kept and the duplicate IDs are returned.
func NewSet(sequences []Sequence) (*Set, []string) {
	set := &Set{byID: make(map[string]int, len(sequences))}
	var duplicates []string
	for _, seq := range sequences {
		if _, dup := set.byID[seq.ID]; dup {
			duplicates = append(duplicates, seq.ID)
			continue
		}
		set.byID[seq.ID] = len(set.ordered)
		set.ordered = append(set.ordered, seq)
	}
	sort.SliceStable(set.ordered, func(i, j int) bool {
		if set.ordered[i].Title != set.ordered[j].Title {
			return set.ordered[i].Title < set.ordered[j].Title
		}
		return set.ordered[i].ID < set.ordered[j].ID
	})
	for i, seq := range set.ordered {
		set.byID[seq.ID] = i
	}
	return set, duplicates
}

// Len returns the number of sequences.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ordered)
}

// Get returns the sequence with id.
func (s *Set) Get(id string) (Sequence, error) {
	if s == nil {
		return Sequence{}, ErrNotFound
	}
	idx, ok := s.byID[id]
	if !ok {
		return Sequence{}, ErrNotFound
	}
	return s.ordered[idx], nil
}

// Summaries lists every sequence in title order.
func (s *Set) Summaries() []Summary {
	if s == nil {
		return []Summary{}
	}
	out := make([]Summary, 0, len(s.ordered))
	for _, seq := range s.ordered {
		out = append(out, seq.Summary())
	}
	return out
}
