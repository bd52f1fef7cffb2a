package beep

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Analyser defaults, matching a browser AnalyserNode.
const (
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser turns a block of time-domain samples into 8-bit spectrum and
// waveform frames, the byte format of a Web Audio AnalyserNode.
//
// The spectrum is Blackman-windowed, normalised by the FFT size, smoothed
// over time and mapped linearly from [MinDB, MaxDB] onto [0, 255].
// Not safe for concurrent use; the smoothing state belongs to one render loop.
type Analyser struct {
	size      int
	Smoothing float64
	MinDB     float64
	MaxDB     float64

	window   []float64
	windowed []float64
	smoothed []float64
}

// NewAnalyser creates an analyser for blocks of fftSize samples.
func NewAnalyser(fftSize int) *Analyser {
	fftSize = max(fftSize, 2)
	return &Analyser{
		size:      fftSize,
		Smoothing: DefaultSmoothing,
		MinDB:     DefaultMinDB,
		MaxDB:     DefaultMaxDB,
		window:    window.Blackman(fftSize),
		windowed:  make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
	}
}

// Size returns the FFT size.
func (a *Analyser) Size() int { return a.size }

// Bins returns the number of spectrum values, half the FFT size.
func (a *Analyser) Bins() int { return a.size / 2 }

// Spectrum analyses samples (zero-padded or truncated to the FFT size) and
// writes up to Bins() bytes into dst. It returns the number written.
func (a *Analyser) Spectrum(samples []float64, dst []uint8) int {
	clear(a.windowed)
	n := copy(a.windowed, samples)
	for i := range n {
		a.windowed[i] *= a.window[i]
	}

	coeffs := fft.FFTReal(a.windowed)
	scale := 1 / float64(a.size)
	span := a.MaxDB - a.MinDB

	out := min(len(dst), len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(coeffs[k]) * scale
		a.smoothed[k] = a.Smoothing*a.smoothed[k] + (1-a.Smoothing)*mag
		if k >= out {
			continue
		}
		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		dst[k] = toByte(255 * (db - a.MinDB) / span)
	}
	return out
}

// Waveform maps samples in [-1, 1] onto bytes centred on 128.
func (a *Analyser) Waveform(samples []float64, dst []uint8) int {
	n := min(len(dst), len(samples))
	for i := range n {
		dst[i] = toByte(128 * (samples[i] + 1))
	}
	return n
}

// Reset forgets the smoothing history.
func (a *Analyser) Reset() {
	clear(a.smoothed)
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
