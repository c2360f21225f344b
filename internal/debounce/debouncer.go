// Package debounce coalesces bursts of values into a single call made once
// input has been quiet for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers only the latest submitted value, and only after no other
// value has been submitted for the full interval.
type Debouncer[T any] struct {
	interval time.Duration
	fire     func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func New[T any](interval time.Duration, fire func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		interval: interval,
		fire:     fire,
	}
}

// Submit cancels any pending call and schedules fire(v) after the interval.
// Submissions after Stop are ignored.
func (d *Debouncer[T]) Submit(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		// a timer that lost the race with Submit/Cancel/Stop must not fire
		if d.stopped || gen != d.gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fire(v)
	})
}

// Cancel drops the pending call, if any, and reports whether one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Stop cancels the pending call and disables the debouncer for good.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
