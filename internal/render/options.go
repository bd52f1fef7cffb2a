// Package render draws one visualizer frame from a beat signal and the
// animation state carried between frames.
//
// Rendering is split into three painters drawn in a fixed order (background,
// radial spectrum, waveform) onto a ports.Surface. The Pipeline ties them to the
// beat classifier and advances the RenderState exactly once per frame.
package render

import (
	"math"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// Options tunes every renderer. The zero value is not useful; start from DefaultOptions.
type Options struct {
	// Render state
	RotationStep float64 // radians added per frame
	HueRate      float64 // background hue degrees per unit of energy per frame

	// Radial spectrum
	Bars          int
	BarLengthDiv  float64 // bar length = sample / BarLengthDiv * intensity
	BarWidth      float64
	BarGlow       float64
	BarHueStep    float64 // hue degrees between neighbouring bars
	RadiusDivisor float64 // base radius = min(w/2, h/2) / RadiusDivisor

	// Waveform
	SpikeStride         int
	ExcitationThreshold uint8 // 0 disables the amplitude test
	BaselineOffset      float64
	SpikeOffset         float64
	WaveWidth           float64
	WaveGlow            float64

	// Background
	Background  domain.BackgroundPolicy
	FadeOnBeat  float64 // overlay alpha on a beat frame
	FadeResting float64 // overlay alpha otherwise
}

// DefaultOptions returns the tuning of the shipped visualizer.
func DefaultOptions() Options {
	return Options{
		RotationStep: 0.01,
		HueRate:      0.05,

		Bars:          64,
		BarLengthDiv:  1.5,
		BarWidth:      2,
		BarGlow:       20,
		BarHueStep:    6,
		RadiusDivisor: 2,

		SpikeStride:         10,
		ExcitationThreshold: 0,
		BaselineOffset:      100,
		SpikeOffset:         180,
		WaveWidth:           2.5,
		WaveGlow:            20,

		Background:  domain.BackgroundFade,
		FadeOnBeat:  0.3,
		FadeResting: 0.08,
	}
}

// Validate reports the first option that would make a renderer misbehave.
func (o Options) Validate() error {
	switch {
	case !(o.RotationStep > 0) || math.IsInf(o.RotationStep, 0):
		return domain.NewValidationError("rotation_step", o.RotationStep, "must be positive and finite")
	case !finite(o.HueRate):
		return domain.NewValidationError("hue_rate", o.HueRate, "must be finite")
	case o.Bars <= 0:
		return domain.NewValidationError("bars", o.Bars, "must be positive")
	case o.BarLengthDiv <= 0:
		return domain.NewValidationError("bar_length_divisor", o.BarLengthDiv, "must be positive")
	case o.RadiusDivisor <= 0:
		return domain.NewValidationError("radius_divisor", o.RadiusDivisor, "must be positive")
	case o.SpikeStride <= 0:
		return domain.NewValidationError("spike_stride", o.SpikeStride, "must be positive")
	case o.BarWidth < 0 || o.WaveWidth < 0:
		return domain.NewValidationError("line_width", o.BarWidth, "must not be negative")
	case o.BarGlow < 0 || o.WaveGlow < 0:
		return domain.NewValidationError("glow", o.BarGlow, "must not be negative")
	case !o.Background.Valid():
		return domain.NewValidationError("background", o.Background, "must be \"fade\" or \"gradient\"")
	case o.FadeOnBeat < 0 || o.FadeOnBeat > 1 || o.FadeResting < 0 || o.FadeResting > 1:
		return domain.NewValidationError("fade_alpha", o.FadeOnBeat, "must be between 0 and 1")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// geometry is the surface size sampled once per frame.
type geometry struct {
	width, height float64
}

func (g geometry) empty() bool {
	return g.width <= 0 || g.height <= 0
}
