package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

func TestAdvanceRotationFixedStep(t *testing.T) {
	opts := DefaultOptions()
	state := domain.RenderState{}

	for i := 0; i < 100; i++ {
		next := Advance(state, float64(i%40), opts)
		assert.Greater(t, next.Rotation, state.Rotation)
		assert.InDelta(t, opts.RotationStep, next.Rotation-state.Rotation, 1e-12)
		assert.Equal(t, state.Frame+1, next.Frame)
		state = next
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	opts := DefaultOptions()
	seed := domain.RenderState{Rotation: 1.5, Hue: 200, Frame: 7}
	energies := []float64{0, 30, 255, 12, 80}

	run := func() domain.RenderState {
		s := seed
		for i := 0; i < 500; i++ {
			s = Advance(s, energies[i%len(energies)], opts)
		}
		return s
	}

	assert.Equal(t, run(), run())
}

func TestAdvanceHueWraps(t *testing.T) {
	opts := DefaultOptions()

	next := Advance(domain.RenderState{Hue: 359}, 100, opts)
	assert.InDelta(t, 4.0, next.Hue, 1e-9)

	silent := Advance(domain.RenderState{Hue: 90}, 0, opts)
	assert.Equal(t, 90.0, silent.Hue)

	for i, s := 0, (domain.RenderState{}); i < 10000; i++ {
		s = Advance(s, 255, opts)
		assert.GreaterOrEqual(t, s.Hue, 0.0)
		assert.Less(t, s.Hue, 360.0)
	}
}
