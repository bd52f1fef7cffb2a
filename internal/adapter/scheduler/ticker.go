// Package scheduler provides FrameScheduler implementations driven by a clock.
package scheduler

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Dispatcher runs a frame callback on the goroutine that owns the display.
// UI toolkits pass their "run on main thread" primitive (fyne.Do); nil runs
// the callback on the ticker goroutine.
type Dispatcher func(fn func())

// Ticker is a FrameScheduler that fires pending requests on a fixed refresh interval,
// standing in for the display's vsync.
//
// At most one request is pending. A request made during a tick is served on the
// next tick, so callbacks never overlap and frames are never skipped or reordered.
//
// Thread-safety: This implementation is thread-safe.
type Ticker struct {
	interval time.Duration
	dispatch Dispatcher

	mu      sync.Mutex
	pending func()
	running bool
	closing bool // Close is waiting for the clock goroutine
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewTicker creates a scheduler that ticks fps times per second. fps <= 0 means 60.
func NewTicker(fps int, dispatch Dispatcher) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Ticker{
		interval: time.Second / time.Duration(fps),
		dispatch: dispatch,
	}
}

// Interval returns the time between ticks.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// RequestFrame implements ports.FrameScheduler. The clock goroutine starts on the first request.
// Requests made while Close is in progress are dropped.
func (t *Ticker) RequestFrame(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closing {
		return
	}
	t.pending = fn
	if !t.running {
		t.running = true
		t.stop = make(chan struct{})
		t.wg.Add(1)
		go t.loop(t.stop)
	}
}

// Cancel implements ports.FrameScheduler.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
}

// Close stops the clock goroutine and waits for it to exit.
// A later RequestFrame starts a fresh clock.
func (t *Ticker) Close() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.closing = true
	t.pending = nil
	close(t.stop)
	t.mu.Unlock()

	t.wg.Wait()

	t.mu.Lock()
	t.closing = false
	t.mu.Unlock()
}

func (t *Ticker) loop(stop <-chan struct{}) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.mu.Lock()
			fn := t.pending
			t.pending = nil
			t.mu.Unlock()

			if fn != nil {
				t.dispatch(fn)
			}
		case <-stop:
			return
		}
	}
}

var _ ports.FrameScheduler = (*Ticker)(nil)
