package render

import (
	"math"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Spectrum draws the radial bar ring.
// Bars radiate from a base circle; the whole ring turns with RenderState.Rotation.
type Spectrum struct {
	opts    Options
	palette []domain.RGBA // one stable colour per bar
}

// NewSpectrum creates a radial spectrum renderer.
func NewSpectrum(opts Options) *Spectrum {
	palette := make([]domain.RGBA, max(opts.Bars, 0))
	for i := range palette {
		palette[i] = HSL(float64(i)*opts.BarHueStep, 1, 0.5)
	}
	return &Spectrum{opts: opts, palette: palette}
}

// BaseRadius returns the radius bars start from for a surface of the given size.
func (r *Spectrum) BaseRadius(width, height float64) float64 {
	return math.Min(width/2, height/2) / r.opts.RadiusDivisor
}

// BarLength returns how far bar i extends past the base radius.
// Bins beyond the frame draw with zero length.
func (r *Spectrum) BarLength(frame domain.SpectrumFrame, i int, intensity float64) float64 {
	if i < 0 || i >= len(frame) {
		return 0
	}
	return float64(frame[i]) / r.opts.BarLengthDiv * intensity
}

// Color returns the colour of bar i.
func (r *Spectrum) Color(i int) domain.RGBA {
	return r.palette[i%len(r.palette)]
}

func (r *Spectrum) draw(s ports.Surface, g geometry, frame domain.SpectrumFrame, beat domain.BeatState, state domain.RenderState) int {
	cx, cy := g.width/2, g.height/2
	radius := r.BaseRadius(g.width, g.height)
	bars := len(r.palette)

	for i := 0; i < bars; i++ {
		angle := float64(i)/float64(bars)*2*math.Pi + state.Rotation
		length := r.BarLength(frame, i, beat.Intensity)
		cos, sin := math.Cos(angle), math.Sin(angle)

		col := r.palette[i]
		s.SetStroke(col, r.opts.BarWidth)
		s.SetGlow(col, r.opts.BarGlow)
		s.StrokeLine(
			domain.Point{X: cx + cos*radius, Y: cy + sin*radius},
			domain.Point{X: cx + cos*(radius+length), Y: cy + sin*(radius+length)},
		)
	}
	return bars
}
