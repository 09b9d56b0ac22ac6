package player

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval is one countdown second.
const DefaultTickInterval = time.Second

// Driver serializes every call into a Timer and owns its tick goroutine.
type Driver struct {
	mu       sync.Mutex
	timer    *Timer
	interval time.Duration

	// Guarded by mu.
	cancel     context.CancelFunc
	generation uint64

	wg sync.WaitGroup
}

// NewDriver builds a Timer whose Ticker is the driver itself. Any Ticker
// set in opts is replaced.
func NewDriver(interval time.Duration, opts Options) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	d := &Driver{interval: interval}
	opts.Ticker = d
	d.timer = New(opts)
	return d
}

// Do runs fn with exclusive access to the timer.
func (d *Driver) Do(fn func(*Timer)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.timer)
}

// DoErr is Do for operations that can fail.
func (d *Driver) DoErr(fn func(*Timer) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.timer)
}

// Snapshot returns the timer view.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer.Snapshot()
}

// Start implements Ticker. It is only called from Timer methods, which
// already hold mu.
func (d *Driver) Start() {
	d.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.generation++
	gen := d.generation

	d.wg.Add(1)
	go d.run(ctx, gen)
}

// Stop implements Ticker. Callers hold mu.
func (d *Driver) Stop() {
	d.stopLocked()
}

func (d *Driver) stopLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.generation++
}

func (d *Driver) run(ctx context.Context, gen uint64) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			// A tick that raced a Stop belongs to a cancelled source.
			if gen == d.generation {
				d.timer.Tick()
			}
			d.mu.Unlock()
		}
	}
}

// Close stops ticking and waits for the tick goroutine to exit.
func (d *Driver) Close() {
	d.mu.Lock()
	d.timer.Pause()
	d.stopLocked()
	d.mu.Unlock()
	d.wg.Wait()
}
