package player

import (
	"context"
	"time"

	"yogaseq/internal/sequence"
)

// Options wires a Timer to its collaborators. Nil collaborators are
// skipped; a nil KeepActive always succeeds.
type Options struct {
	EndCueMinSeconds int
	Ticker           Ticker
	KeepActive       KeepActive
	Cues             Cues
	Recorder         Recorder
	Observer         Observer
	Now              func() time.Time
}

// Timer is the session state machine. It is not safe for concurrent use.
type Timer struct {
	opts Options

	seq       sequence.Sequence
	selected  bool
	state     State
	index     int
	remaining int

	keepHeld    bool
	endCueFired bool
}

// New returns an idle timer.
func New(opts Options) *Timer {
	if opts.EndCueMinSeconds <= 0 {
		opts.EndCueMinSeconds = DefaultEndCueMinSeconds
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Timer{opts: opts}
}

// State returns the current mode.
func (t *Timer) State() State { return t.state }

// Index returns the current pose index.
func (t *Timer) Index() int { return t.index }

// Remaining returns the seconds left on the current pose.
func (t *Timer) Remaining() int { return t.remaining }

// SelectSequence loads seq, shows its first pose and stops any countdown.
func (t *Timer) SelectSequence(seq sequence.Sequence) {
	t.stopTicking()
	t.releaseKeepActive()
	t.seq = seq
	t.selected = true
	t.state = StateStopped
	t.index = 0
	t.remaining = t.poseDuration(0)
	t.endCueFired = false
	t.notify(EventSelected)
}

// Start begins the countdown. Calling Start while running pauses. Without
// a selected sequence, or with an empty one, it does nothing.
func (t *Timer) Start() {
	switch t.state {
	case StateRunning:
		t.Pause()
		return
	case StateIdle:
		return
	}
	if len(t.seq.Poses) == 0 {
		return
	}
	t.state = StateRunning
	t.acquireKeepActive()
	if t.opts.Ticker != nil {
		t.opts.Ticker.Start()
	}
	t.cuePose()
	t.notify(EventStarted)
}

// Pause stops the countdown and keeps the pose and remaining time.
func (t *Timer) Pause() {
	if t.state != StateRunning {
		return
	}
	t.state = StateStopped
	t.stopTicking()
	t.releaseKeepActive()
	t.notify(EventPaused)
}

// Tick counts down one second. At zero it plays the end cue for long
// holds and advances.
func (t *Timer) Tick() {
	if t.state != StateRunning {
		return
	}
	t.endCueFired = false
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.notify(EventTick)
		return
	}
	if t.poseDuration(t.index) >= t.opts.EndCueMinSeconds {
		t.endCueFired = true
		if t.opts.Cues != nil {
			t.opts.Cues.EndCue()
		}
	}
	t.Advance()
}

// Advance moves to the next pose, keeping the running state. On the last
// pose it stops the session instead.
func (t *Timer) Advance() {
	if !t.selected {
		return
	}
	if t.index < len(t.seq.Poses)-1 {
		t.index++
		t.remaining = t.poseDuration(t.index)
		if t.state == StateRunning {
			t.cuePose()
		}
		t.notify(EventAdvanced)
		return
	}
	t.state = StateStopped
	t.remaining = 0
	t.stopTicking()
	t.releaseKeepActive()
	t.notify(EventFinished)
}

// Prev steps back one pose with its full duration.
func (t *Timer) Prev() {
	if !t.selected || t.index <= 0 {
		return
	}
	t.index--
	t.remaining = t.poseDuration(t.index)
	t.endCueFired = false
	if t.state == StateRunning {
		t.cuePose()
	}
	t.notify(EventPrev)
}

// Reset returns to the first pose and stops.
func (t *Timer) Reset() {
	if !t.selected {
		return
	}
	t.stopTicking()
	t.releaseKeepActive()
	t.state = StateStopped
	t.index = 0
	t.remaining = t.poseDuration(0)
	t.endCueFired = false
	t.notify(EventReset)
}

// Complete stops the session and records a completion. It is only valid
// on the last pose. A recorder error is returned after the timer has
// already stopped.
func (t *Timer) Complete(ctx context.Context) error {
	if !t.selected {
		return ErrNoSequence
	}
	if len(t.seq.Poses) == 0 || t.index != len(t.seq.Poses)-1 {
		return ErrNotAtLastPose
	}
	t.state = StateStopped
	t.stopTicking()
	t.releaseKeepActive()
	var err error
	if t.opts.Recorder != nil {
		err = t.opts.Recorder.RecordCompletion(ctx, t.seq.Title, t.seq.ID, t.opts.Now())
	}
	t.notify(EventCompleted)
	return err
}

// Snapshot returns the current view.
func (t *Timer) Snapshot() Snapshot {
	snap := Snapshot{
		State:       t.state,
		Index:       t.index,
		Remaining:   t.remaining,
		KeepActive:  t.keepHeld,
		EndCueFired: t.endCueFired,
	}
	if !t.selected {
		return snap
	}
	snap.SequenceID = t.seq.ID
	snap.SequenceTitle = t.seq.Title
	snap.Count = len(t.seq.Poses)
	if pose, ok := t.seq.Pose(t.index); ok {
		snap.Pose = &pose
		snap.Duration = pose.Duration
	}
	return snap
}

func (t *Timer) poseDuration(index int) int {
	pose, ok := t.seq.Pose(index)
	if !ok || pose.Duration < 0 {
		return 0
	}
	return pose.Duration
}

func (t *Timer) cuePose() {
	if t.opts.Cues == nil {
		return
	}
	if pose, ok := t.seq.Pose(t.index); ok {
		t.opts.Cues.PoseCue(pose)
	}
}

func (t *Timer) stopTicking() {
	if t.opts.Ticker != nil {
		t.opts.Ticker.Stop()
	}
}

// acquireKeepActive is best effort; a failure leaves the flag clear.
func (t *Timer) acquireKeepActive() {
	if t.keepHeld {
		return
	}
	if t.opts.KeepActive == nil {
		t.keepHeld = true
		return
	}
	t.keepHeld = t.opts.KeepActive.Acquire() == nil
}

func (t *Timer) releaseKeepActive() {
	if !t.keepHeld {
		return
	}
	t.keepHeld = false
	if t.opts.KeepActive != nil {
		t.opts.KeepActive.Release()
	}
}

func (t *Timer) notify(kind EventType) {
	if t.opts.Observer != nil {
		t.opts.Observer.Notify(Event{Type: kind, Snapshot: t.Snapshot()})
	}
}
