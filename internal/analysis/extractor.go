// Package analysis turns raw per-frame audio samples into a beat signal.
//
// The Extractor samples the live source once per frame into buffers it owns;
// the Classifier reduces a spectrum frame to a BeatState. Neither keeps
// history between frames.
package analysis

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Extractor captures one spectrum and one waveform frame per call.
// Buffer sizes are fixed at construction and reused on every capture.
type Extractor struct {
	source   ports.AudioSource
	spectrum domain.SpectrumFrame
	waveform domain.WaveformFrame
}

// NewExtractor creates an extractor with bins spectrum values and samples
// waveform values per frame. Negative sizes are treated as zero.
func NewExtractor(source ports.AudioSource, bins, samples int) *Extractor {
	return &Extractor{
		source:   source,
		spectrum: make(domain.SpectrumFrame, max(bins, 0)),
		waveform: make(domain.WaveformFrame, max(samples, 0)),
	}
}

// Capture pulls the current samples from the source.
//
// The returned frames alias the extractor's buffers and are overwritten by the
// next Capture. A source that delivers fewer values than configured (or none)
// leaves the remainder zeroed, which downstream reads as silence.
func (e *Extractor) Capture() (domain.SpectrumFrame, domain.WaveformFrame) {
	if e.source == nil {
		clear(e.spectrum)
		clear(e.waveform)
		return e.spectrum, e.waveform
	}

	n := clampCount(e.source.PullSpectrum(e.spectrum), len(e.spectrum))
	clear(e.spectrum[n:])

	n = clampCount(e.source.PullWaveform(e.waveform), len(e.waveform))
	clear(e.waveform[n:])

	return e.spectrum, e.waveform
}

// Bins returns the configured spectrum length.
func (e *Extractor) Bins() int { return len(e.spectrum) }

// Samples returns the configured waveform length.
func (e *Extractor) Samples() int { return len(e.waveform) }

func clampCount(n, limit int) int {
	if n < 0 {
		return 0
	}
	return min(n, limit)
}
