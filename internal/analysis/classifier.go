package analysis

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// DefaultThreshold is the low-frequency energy above which a frame counts as a beat.
const DefaultThreshold = 15.0

// intensityScale maps energy to pulse: intensity = 1 + energy/intensityScale.
const intensityScale = 100.0

// Energy returns the mean magnitude of the lowest quarter of the spectrum.
// Frames shorter than four bins use their first bin; an empty frame has no energy.
func Energy(frame domain.SpectrumFrame) float64 {
	n := len(frame) / 4
	if n == 0 {
		n = min(len(frame), 1)
	}
	if n == 0 {
		return 0
	}

	var sum int
	for _, v := range frame[:n] {
		sum += int(v)
	}
	return float64(sum) / float64(n)
}

// Classifier converts spectrum energy and playback state into a BeatState.
// It is a pure function of its inputs.
type Classifier struct {
	Threshold float64
}

// NewClassifier creates a classifier with the given energy threshold.
func NewClassifier(threshold float64) Classifier {
	return Classifier{Threshold: threshold}
}

// Classify derives the beat signal for one frame.
//
// Silence overrides everything: when playback is inactive or the volume is
// zero the result is domain.Resting whatever the spectrum holds.
func (c Classifier) Classify(frame domain.SpectrumFrame, isPlaying bool, volume float64) domain.BeatState {
	if !isPlaying || volume <= 0 {
		return domain.Resting
	}

	energy := Energy(frame)
	return domain.BeatState{
		IsBeat:    energy > c.Threshold,
		Intensity: 1 + energy/intensityScale,
		Energy:    energy,
	}
}
