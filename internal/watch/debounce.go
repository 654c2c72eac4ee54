package watch

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of Notify calls into one fire call after the
// burst has been quiet for delay. A fire that is still running when new
// notifications arrive is followed by exactly one more.
type debouncer struct {
	delay time.Duration
	fire  func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.onTimer)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) onTimer() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	if d.running {
		d.timer.Reset(d.delay)
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fire()

	d.mu.Lock()
	d.running = false
	if d.pending && !d.stopped {
		d.timer.Reset(d.delay)
	}
	d.mu.Unlock()
}

// Stop drops pending notifications. It does not wait for a running fire.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
