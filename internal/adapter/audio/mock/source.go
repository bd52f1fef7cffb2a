// Package mock provides scripted implementations of the AudioSource interface.
// They are used for testing the pipeline without a decoder or sound device.
package mock

import (
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Source is a mock AudioSource whose samples and playback state are set directly.
//
// Thread-safety: This implementation is thread-safe.
type Source struct {
	mu       sync.RWMutex
	playing  bool
	volume   float64
	spectrum []uint8
	waveform []uint8

	// Call counters (for asserting per-frame sampling)
	spectrumPulls int
	waveformPulls int
}

// NewSource creates a playing mock source at full volume with no samples.
func NewSource() *Source {
	return &Source{
		playing: true,
		volume:  1.0,
	}
}

// SetPlaying sets the playback state.
func (m *Source) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = playing
}

// SetVolume sets the output volume.
func (m *Source) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
	return nil
}

// SetSpectrum replaces the spectrum returned by PullSpectrum. Nil simulates a missing source.
func (m *Source) SetSpectrum(values []uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spectrum = append(m.spectrum[:0], values...)
}

// SetWaveform replaces the waveform returned by PullWaveform. Nil simulates a missing source.
func (m *Source) SetWaveform(values []uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveform = append(m.waveform[:0], values...)
}

// SetLowEnergy fills a spectrum of the given size whose lowest quarter averages energy.
// Higher bins are set to the same value so bars stay visible.
func (m *Source) SetLowEnergy(bins int, energy uint8) {
	values := make([]uint8, bins)
	for i := range values {
		values[i] = energy
	}
	m.SetSpectrum(values)
}

// IsPlaying implements ports.AudioSource.
func (m *Source) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// Volume implements ports.AudioSource.
func (m *Source) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// PullSpectrum implements ports.AudioSource.
func (m *Source) PullSpectrum(dst []uint8) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spectrumPulls++
	return copy(dst, m.spectrum)
}

// PullWaveform implements ports.AudioSource.
func (m *Source) PullWaveform(dst []uint8) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveformPulls++
	return copy(dst, m.waveform)
}

// Pulls returns how many times each Pull method has been called.
func (m *Source) Pulls() (spectrum, waveform int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spectrumPulls, m.waveformPulls
}

// Verify that Source implements the AudioSource interface
var _ ports.AudioSource = (*Source)(nil)
