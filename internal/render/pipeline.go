package render

import (
	"github.com/tejashwikalptaru/beatscope/internal/analysis"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// FrameInput is everything one frame consumes besides the carried state.
// The frames are only valid for the duration of the RenderFrame call.
type FrameInput struct {
	Spectrum domain.SpectrumFrame
	Waveform domain.WaveformFrame
	Playing  bool
	Volume   float64
	Theme    domain.ThemeMode
}

// FrameResult describes what a frame did.
type FrameResult struct {
	Beat     domain.BeatState
	Bars     int
	Vertices int

	// Skipped is set when nothing was drawn; Reason says why.
	Skipped bool
	Reason  error
}

// Pipeline renders frames: classify, advance state, then paint background,
// spectrum and waveform in that order.
//
// A Pipeline holds scratch buffers and must only be used by one render loop.
type Pipeline struct {
	classifier analysis.Classifier
	opts       Options
	background *Background
	spectrum   *Spectrum
	waveform   *Waveform
}

// NewPipeline validates opts and builds the renderers.
func NewPipeline(classifier analysis.Classifier, opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		classifier: classifier,
		opts:       opts,
		background: NewBackground(opts),
		spectrum:   NewSpectrum(opts),
		waveform:   NewWaveform(opts),
	}, nil
}

// Options returns the renderer tuning.
func (p *Pipeline) Options() Options {
	return p.opts
}

// RenderFrame draws one frame and returns the next state.
//
// The state advances on every call, drawn or not, so animation stays a pure
// function of the frame count. A surface with zero area is skipped without error
// and the next frame with a valid size draws normally.
func (p *Pipeline) RenderFrame(state domain.RenderState, in FrameInput, surface ports.Surface) (domain.RenderState, FrameResult) {
	beat := p.classifier.Classify(in.Spectrum, in.Playing, in.Volume)
	next := Advance(state, beat.Energy, p.opts)
	result := FrameResult{Beat: beat}

	if surface == nil {
		result.Skipped, result.Reason = true, domain.ErrSurfaceUnavailable
		return next, result
	}
	w, h := surface.Size()
	g := geometry{width: float64(w), height: float64(h)}
	if g.empty() {
		result.Skipped, result.Reason = true, domain.ErrSurfaceUnavailable
		return next, result
	}

	p.background.draw(surface, g, beat, next, in.Theme)
	result.Bars = p.spectrum.draw(surface, g, in.Spectrum, beat, next)
	result.Vertices = p.waveform.draw(surface, g, in.Waveform, beat, in.Theme)
	return next, result
}
