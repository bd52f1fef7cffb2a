package render

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// Advance returns the state of the next frame.
//
// Rotation moves by a fixed step per frame, not per unit of time, so perceived
// speed follows the display refresh rate. Hue drifts with energy and stays in [0, 360).
func Advance(state domain.RenderState, energy float64, opts Options) domain.RenderState {
	return domain.RenderState{
		Rotation: state.Rotation + opts.RotationStep,
		Hue:      wrapDegrees(state.Hue + energy*opts.HueRate),
		Frame:    state.Frame + 1,
	}
}
