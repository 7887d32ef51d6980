package listing

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs the most recently triggered func once the input has been
// quiet for the configured delay.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	timer   clockwork.Timer
	pending func()
	done    chan struct{}
}

func NewDebouncer(clock clockwork.Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clock, delay: delay}
}

// Trigger cancels any pending call and schedules fn after the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	done := make(chan struct{})
	d.pending, d.done = fn, done
	d.timer = d.clock.AfterFunc(d.delay, func() {
		defer close(done)
		fn()
	})
}

// Flush runs the pending call now instead of after the delay and returns
// once it has finished. It reports whether there was a call to run.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	fn, done := d.pending, d.done
	stopped := d.timer.Stop()
	d.timer, d.pending, d.done = nil, nil, nil
	d.mu.Unlock()

	if stopped {
		fn()
	} else {
		// already fired
		<-done
	}
	return true
}

// Stop drops a pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer, d.pending, d.done = nil, nil, nil
	return stopped
}
