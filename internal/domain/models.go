// Package domain contains the core visualizer models with no external dependencies.
// This package defines the per-frame audio data, the beat signal and the
// animation state carried across frames.
package domain

// SpectrumFrame holds one frequency magnitude per bin (0-255), lowest frequency first.
//
// A frame is captured once per animation frame and overwritten in place on the
// next capture. Callers must not keep a reference past the frame it belongs to.
type SpectrumFrame []uint8

// WaveformFrame holds time-domain amplitude samples (0-255, 128 is the zero line).
// It follows the same in-place lifecycle as SpectrumFrame.
type WaveformFrame []uint8

// BeatState is the output of beat classification for a single frame.
type BeatState struct {
	// IsBeat is true when low-frequency energy exceeds the threshold
	// during active, audible playback.
	IsBeat bool

	// Intensity scales visual motion. Always >= 1.0; exactly 1.0 when silent.
	Intensity float64

	// Energy is the mean of the lowest quarter of spectrum bins.
	// It is zero whenever playback is silent.
	Energy float64
}

// Resting is the BeatState of a silent frame.
var Resting = BeatState{IsBeat: false, Intensity: 1, Energy: 0}

// RenderState is the animation state that persists across frames.
// It is owned by the render loop and advanced exactly once per frame.
type RenderState struct {
	// Rotation is the spectrum rotation in radians. It grows without bound;
	// trig periodicity does the wrapping.
	Rotation float64

	// Hue is the background hue in degrees, kept in [0, 360).
	Hue float64

	// Frame counts frames rendered since the session started.
	Frame uint64
}

// ThemeMode selects the dark or light palette.
type ThemeMode int

const (
	// ThemeDark draws on a black background.
	ThemeDark ThemeMode = iota
	// ThemeLight draws on a white background.
	ThemeLight
)

// String returns the theme name.
func (t ThemeMode) String() string {
	switch t {
	case ThemeDark:
		return "dark"
	case ThemeLight:
		return "light"
	default:
		return "unknown"
	}
}

// Toggle returns the other theme.
func (t ThemeMode) Toggle() ThemeMode {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseThemeMode converts a theme name to a ThemeMode.
func ParseThemeMode(s string) (ThemeMode, error) {
	switch s {
	case "dark", "":
		return ThemeDark, nil
	case "light":
		return ThemeLight, nil
	default:
		return ThemeDark, NewValidationError("theme", s, "must be \"dark\" or \"light\"")
	}
}

// BackgroundPolicy selects how the background wash is painted.
type BackgroundPolicy string

const (
	// BackgroundFade paints a translucent overlay that never fully clears the
	// previous frame, leaving a trailing fade.
	BackgroundFade BackgroundPolicy = "fade"

	// BackgroundGradient paints an animated two-stop gradient driven by hue and energy.
	BackgroundGradient BackgroundPolicy = "gradient"
)

// Valid reports whether the policy is known.
func (p BackgroundPolicy) Valid() bool {
	return p == BackgroundFade || p == BackgroundGradient
}

// RGBA is a straight (non-premultiplied) colour with alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Opaque returns an opaque colour.
func Opaque(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Point is a surface coordinate in pixels.
type Point struct {
	X, Y float64
}
