package render

import (
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

var (
	traceDark  = domain.Opaque(0x00, 0xff, 0x00)
	traceLight = domain.Opaque(0x00, 0x77, 0x00)
)

// Waveform draws the cardiac-monitor trace along the bottom of the surface.
//
// Samples sit on a flat baseline; on a beat frame every SpikeStride-th sample
// (optionally only those above ExcitationThreshold) jumps to the spike height.
// Off-beat frames are always a flat line.
type Waveform struct {
	opts   Options
	points []domain.Point
}

// NewWaveform creates a waveform renderer.
func NewWaveform(opts Options) *Waveform {
	return &Waveform{opts: opts}
}

// IsSpike reports whether sample i of value v is drawn at spike height.
func (r *Waveform) IsSpike(i int, v uint8, beat domain.BeatState) bool {
	if !beat.IsBeat || i%r.opts.SpikeStride != 0 {
		return false
	}
	return r.opts.ExcitationThreshold == 0 || v > r.opts.ExcitationThreshold
}

// Vertices lays out one vertex per sample. x runs from 0 in steps of width/len(frame).
// The returned slice is reused by the next call.
func (r *Waveform) Vertices(frame domain.WaveformFrame, beat domain.BeatState, width, height float64) []domain.Point {
	r.points = r.points[:0]
	n := len(frame)
	if n == 0 {
		return r.points
	}

	step := width / float64(n)
	baseline := height - r.opts.BaselineOffset
	spike := height - r.opts.SpikeOffset
	for i, v := range frame {
		y := baseline
		if r.IsSpike(i, v, beat) {
			y = spike
		}
		r.points = append(r.points, domain.Point{X: float64(i) * step, Y: y})
	}
	return r.points
}

func (r *Waveform) draw(s ports.Surface, g geometry, frame domain.WaveformFrame, beat domain.BeatState, theme domain.ThemeMode) int {
	pts := r.Vertices(frame, beat, g.width, g.height)
	if len(pts) == 0 {
		return 0
	}

	col := traceDark
	if theme == domain.ThemeLight {
		col = traceLight
	}
	s.SetStroke(col, r.opts.WaveWidth)
	s.SetGlow(col, r.opts.WaveGlow)
	s.StrokePolyline(pts)
	return len(pts)
}
