package scheduler

import (
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Manual is a FrameScheduler advanced explicitly by calling Step.
// It drives headless rendering (snapshot export) and deterministic tests.
type Manual struct {
	mu      sync.Mutex
	pending func()
}

// NewManual creates a manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// RequestFrame implements ports.FrameScheduler.
func (m *Manual) RequestFrame(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = fn
}

// Cancel implements ports.FrameScheduler.
func (m *Manual) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// Pending reports whether a frame has been requested.
func (m *Manual) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Step runs the pending request, if any, and reports whether one ran.
func (m *Manual) Step() bool {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Run steps until n frames ran or nothing is pending, returning the frames run.
func (m *Manual) Run(n int) int {
	ran := 0
	for ran < n && m.Step() {
		ran++
	}
	return ran
}

var _ ports.FrameScheduler = (*Manual)(nil)
