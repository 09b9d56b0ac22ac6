package player

import (
	"context"
	"errors"
	"time"

	"yogaseq/internal/sequence"
)

// State is the timer's coarse mode.
type State int

const (
	// StateIdle means no sequence is selected.
	StateIdle State = iota
	// StateStopped shows a pose without counting down.
	StateStopped
	// StateRunning counts down once per tick.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrNoSequence is returned when an operation needs a selected sequence.
	ErrNoSequence = errors.New("no sequence selected")
	// ErrNotAtLastPose is returned by Complete before the final pose.
	ErrNotAtLastPose = errors.New("not at last pose")
)

// DefaultEndCueMinSeconds is the shortest hold that earns an end cue.
const DefaultEndCueMinSeconds = 60

// Ticker is the external tick source. Start must cancel any running
// source before starting a new one; Stop is idempotent.
type Ticker interface {
	Start()
	Stop()
}

// KeepActive holds the device awake while a session runs.
type KeepActive interface {
	Acquire() error
	Release()
}

// Cues plays audio. Both calls are best effort and never fail.
type Cues interface {
	PoseCue(pose sequence.Pose)
	EndCue()
}

// Recorder logs a finished sequence.
type Recorder interface {
	RecordCompletion(ctx context.Context, title, sequenceID string, at time.Time) error
}

// Observer receives every state change.
type Observer interface {
	Notify(Event)
}

// EventType names what changed.
type EventType string

const (
	EventSelected  EventType = "selected"
	EventStarted   EventType = "started"
	EventPaused    EventType = "paused"
	EventTick      EventType = "tick"
	EventAdvanced  EventType = "advanced"
	EventFinished  EventType = "finished"
	EventPrev      EventType = "prev"
	EventReset     EventType = "reset"
	EventCompleted EventType = "completed"
)

// Event pairs a change with the resulting snapshot.
type Event struct {
	Type     EventType `json:"type"`
	Snapshot Snapshot  `json:"snapshot"`
}

// Snapshot is a read-only view of the timer.
type Snapshot struct {
	State         State          `json:"state"`
	SequenceID    string         `json:"sequence_id,omitempty"`
	SequenceTitle string         `json:"sequence_title,omitempty"`
	Index         int            `json:"index"`
	Count         int            `json:"count"`
	Remaining     int            `json:"remaining"`
	Duration      int            `json:"duration"`
	Pose          *sequence.Pose `json:"pose,omitempty"`
	KeepActive    bool           `json:"keep_active"`
	EndCueFired   bool           `json:"end_cue_fired"`
}

// AtLastPose reports whether the current pose is the final one.
func (s Snapshot) AtLastPose() bool {
	return s.Count > 0 && s.Index == s.Count-1
}
