// Package ports define interfaces for dependency inversion.
// These interfaces keep the beat pipeline independent of audio libraries and UI toolkits.
package ports

// AudioSource is the live audio capability the visualizer samples once per frame.
// This abstracts the decoder/analyser (beep) and allows for testing with scripted sources.
//
// Every method must be non-blocking and return immediately with the best data
// available. Implementations must be thread-safe: audio callbacks write while
// the render loop reads.
type AudioSource interface {
	// IsPlaying returns true while playback is active (not paused or stopped).
	IsPlaying() bool

	// Volume returns the current output volume in [0, 1].
	Volume() float64

	// PullSpectrum copies the current frequency magnitudes (0-255, one per bin,
	// lowest frequency first) into dst and returns how many values were written.
	// Zero means no audio is available.
	PullSpectrum(dst []uint8) int

	// PullWaveform copies the current time-domain samples (0-255, 128 is the
	// zero line) into dst and returns how many values were written.
	PullWaveform(dst []uint8) int
}
