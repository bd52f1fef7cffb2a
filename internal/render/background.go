package render

import (
	"math"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// Background paints the full-surface wash drawn under everything else.
type Background struct {
	opts Options
}

// NewBackground creates a background renderer for the configured policy.
func NewBackground(opts Options) *Background {
	return &Background{opts: opts}
}

// Overlay returns the translucent fill of the fade policy.
// A beat frame clears harder, leaving shorter trails.
func (r *Background) Overlay(theme domain.ThemeMode, beat domain.BeatState) domain.RGBA {
	base := black
	if theme == domain.ThemeLight {
		base = white
	}
	if beat.IsBeat {
		return withAlpha(base, r.opts.FadeOnBeat)
	}
	return withAlpha(base, r.opts.FadeResting)
}

// Gradient returns the top and bottom stops of the gradient policy.
// Both follow the drifting hue; the top brightens with energy. Light mode inverts lightness.
func (r *Background) Gradient(theme domain.ThemeMode, beat domain.BeatState, state domain.RenderState) (top, bottom domain.RGBA) {
	topL := math.Min(10+beat.Energy/10, 100)
	bottomL := 5.0
	if theme == domain.ThemeLight {
		topL, bottomL = 100-topL, 100-bottomL
	}
	return HSL(state.Hue, 0.6, topL/100), HSL(state.Hue+60, 0.6, bottomL/100)
}

func (r *Background) draw(s ports.Surface, g geometry, beat domain.BeatState, state domain.RenderState, theme domain.ThemeMode) {
	switch r.opts.Background {
	case domain.BackgroundGradient:
		top, bottom := r.Gradient(theme, beat, state)
		s.FillVerticalGradient(0, 0, g.width, g.height, top, bottom)
	default:
		s.FillRect(0, 0, g.width, g.height, r.Overlay(theme, beat))
	}
}
