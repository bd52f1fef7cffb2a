// Package beep provides the live AudioSource: files are decoded with gopxl/beep,
// played through the speaker and sampled for analysis on the way.
package beep

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap is a streamer wrapper that copies samples into a ring buffer so the
// render loop can read the most recent audio without touching the speaker.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps a streamer with a ring buffer of the given size (minimum 1).
func NewTap(s beep.Streamer, bufSize int) *Tap {
	bufSize = max(bufSize, 1)
	return &Tap{
		s:    s,
		buf:  make([]float64, bufSize),
		size: bufSize,
	}
}

// Stream passes audio through while capturing a mono mix into the ring buffer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err returns the underlying streamer's error.
func (t *Tap) Err() error {
	return t.s.Err()
}

// Latest fills dst with the newest samples in chronological order and returns
// how many were written (at most the ring size).
func (t *Tap) Latest(dst []float64) int {
	n := min(len(dst), t.size)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		dst[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return n
}

// Reset silences the ring buffer.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.buf)
	t.pos = 0
	t.mu.Unlock()
}
