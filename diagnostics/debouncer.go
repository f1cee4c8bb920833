package diagnostics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Debouncer coalesces bursts of diagnostic-producing events (every
// keystroke triggers a reparse) into a single publish per quiet period,
// built on time.AfterFunc and a generation token. The generation is a
// fresh UUID per Trigger rather than a counter so a fired timer can tell
// "I am the most recent trigger" apart from "a trigger happened to reuse
// my slot" without relying on pointer identity of the *time.Timer, which a
// reused allocation could alias.
type Debouncer struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uuid.UUID
	delay      time.Duration
	fn         func()
}

// NewDebouncer returns a Debouncer that calls fn after delay has elapsed
// since the most recent call to Trigger.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)schedules fn to run after the debounce delay, discarding any
// previously scheduled but not-yet-fired call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	gen := uuid.New()
	d.generation = gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.generation
		d.mu.Unlock()
		if current != gen {
			return // a newer Trigger superseded this one
		}
		d.fn()
	})
}

// TriggerAfter is like Trigger but with a per-call override delay, used
// when a single document's configured diagnosticsDelay differs from the
// debouncer's default.
func (d *Debouncer) TriggerAfter(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	gen := uuid.New()
	d.generation = gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		current := d.generation
		d.mu.Unlock()
		if current != gen {
			return
		}
		d.fn()
	})
}

// Stop cancels any pending scheduled call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
