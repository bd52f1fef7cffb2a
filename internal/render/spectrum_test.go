package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/testutil"
)

func distance(a, b domain.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func TestSpectrumBaseRadius(t *testing.T) {
	r := NewSpectrum(DefaultOptions())

	assert.Equal(t, 90.0, r.BaseRadius(800, 360))
	assert.Equal(t, 100.0, r.BaseRadius(400, 1000))
}

func TestSpectrumDrawsEveryBar(t *testing.T) {
	opts := DefaultOptions()
	r := NewSpectrum(opts)
	surface := testutil.NewRecordingSurface(400, 400)

	frame := make(domain.SpectrumFrame, 128)
	for i := range frame {
		frame[i] = uint8(i)
	}
	beat := domain.BeatState{IsBeat: true, Intensity: 1.3, Energy: 30}

	n := r.draw(surface, geometry{400, 400}, frame, beat, domain.RenderState{})
	lines := surface.CallsOf(testutil.OpLine)

	require.Equal(t, 64, n)
	require.Len(t, lines, 64)
	for i, line := range lines {
		start, end := line.Points[0], line.Points[1]
		assert.InDelta(t, 100.0, distance(domain.Point{X: 200, Y: 200}, start), 1e-9)
		assert.InDelta(t, float64(i)/1.5*1.3, distance(start, end), 1e-9, "bar %d", i)
		assert.Equal(t, HSL(float64(i*6), 1, 0.5), line.Stroke)
		assert.Equal(t, line.Stroke, line.Glow)
		assert.Equal(t, opts.BarWidth, line.StrokeWidth)
		assert.Equal(t, opts.BarGlow, line.GlowBlur)
	}
}

func TestSpectrumRotation(t *testing.T) {
	r := NewSpectrum(DefaultOptions())
	surface := testutil.NewRecordingSurface(200, 200)
	frame := make(domain.SpectrumFrame, 64)

	r.draw(surface, geometry{200, 200}, frame, domain.Resting, domain.RenderState{Rotation: math.Pi / 2})
	first := surface.CallsOf(testutil.OpLine)[0].Points[0]

	// Bar 0 sits at angle 0 plus the rotation: straight down from the centre.
	assert.InDelta(t, 100.0, first.X, 1e-9)
	assert.InDelta(t, 150.0, first.Y, 1e-9)
}

func TestSpectrumShortFrame(t *testing.T) {
	r := NewSpectrum(DefaultOptions())

	frame := domain.SpectrumFrame{150, 150}
	assert.Equal(t, 100.0, r.BarLength(frame, 1, 1))
	assert.Equal(t, 0.0, r.BarLength(frame, 2, 1))
	assert.Equal(t, 0.0, r.BarLength(nil, 0, 1.3))
}

func TestSpectrumPaletteStable(t *testing.T) {
	r := NewSpectrum(DefaultOptions())

	assert.Equal(t, domain.Opaque(255, 0, 0), r.Color(0))
	assert.Equal(t, HSL(120, 1, 0.5), r.Color(20))
	assert.Equal(t, r.Color(3), r.Color(3+64))
}
