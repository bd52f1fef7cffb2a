package mock

import (
	"math"
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Synth is a deterministic AudioSource that fakes a four-on-the-floor kick.
// Each PullSpectrum advances one frame; a kick lands every framesPerBeat frames
// and decays exponentially, so low bins swing across the beat threshold.
//
// It backs --demo mode, where no audio file or sound device is needed.
type Synth struct {
	mu            sync.Mutex
	frame         int
	framesPerBeat int
	decay         float64
	volume        float64
}

// NewSynth creates a synthetic source for the given tempo and frame rate.
func NewSynth(bpm float64, fps int) *Synth {
	framesPerBeat := 1
	if bpm > 0 && fps > 0 {
		framesPerBeat = max(int(math.Round(float64(fps)*60/bpm)), 1)
	}
	return &Synth{
		framesPerBeat: framesPerBeat,
		decay:         0.8,
		volume:        1,
	}
}

// FramesPerBeat returns the kick period in frames.
func (s *Synth) FramesPerBeat() int {
	return s.framesPerBeat
}

// IsPlaying implements ports.AudioSource.
func (s *Synth) IsPlaying() bool { return true }

// Volume implements ports.AudioSource.
func (s *Synth) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// kick returns the envelope of the current frame in [0, 1].
func (s *Synth) kick() float64 {
	return math.Pow(s.decay, float64(s.frame%s.framesPerBeat))
}

// PullSpectrum implements ports.AudioSource.
func (s *Synth) PullSpectrum(dst []uint8) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.kick()
	n := len(dst)
	for i := range dst {
		// Bass bins follow the kick, the rest is a gentle sloping bed.
		pos := float64(i) / float64(max(n, 1))
		bed := 12 * (1 - pos) * (0.6 + 0.4*math.Sin(float64(s.frame)/9+float64(i)/5))
		v := bed
		if i < n/4 {
			v += 200 * env
		}
		dst[i] = uint8(math.Max(0, math.Min(255, v)))
	}
	s.frame++
	return n
}

// PullWaveform implements ports.AudioSource.
func (s *Synth) PullWaveform(dst []uint8) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.kick()
	n := len(dst)
	for i := range dst {
		x := 0.8*env*math.Sin(2*math.Pi*float64(i)*4/float64(max(n, 1))) +
			0.1*math.Sin(2*math.Pi*float64(i)*31/float64(max(n, 1)))
		dst[i] = uint8(math.Max(0, math.Min(255, 128+127*x)))
	}
	return n
}

var _ ports.AudioSource = (*Synth)(nil)
