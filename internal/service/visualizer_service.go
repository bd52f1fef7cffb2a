// Package service provides the render loop of the beatscope visualizer.
package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/beatscope/internal/analysis"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
	"github.com/tejashwikalptaru/beatscope/internal/render"
)

// VisualizerConfig sizes the analysis buffers and tunes the renderers.
type VisualizerConfig struct {
	// FFTSize is the analyser window; the spectrum has FFTSize/2 bins and the
	// waveform FFTSize samples.
	FFTSize   int
	Threshold float64
	Render    render.Options
}

// DefaultVisualizerConfig returns the stock 256-point configuration.
func DefaultVisualizerConfig() VisualizerConfig {
	return VisualizerConfig{
		FFTSize:   256,
		Threshold: analysis.DefaultThreshold,
		Render:    render.DefaultOptions(),
	}
}

// FrameObserver is called after every frame, outside the service lock.
type FrameObserver func(state domain.RenderState, result render.FrameResult)

// VisualizerService drives the per-frame pipeline.
// It is the only writer of RenderState; frames are rendered one at a time.
type VisualizerService struct {
	// Dependencies (injected)
	logger    *slog.Logger
	source    ports.AudioSource
	surface   ports.Surface
	theme     ports.ThemeSource
	scheduler ports.FrameScheduler
	bus       ports.EventBus

	extractor *analysis.Extractor
	pipeline  *render.Pipeline

	// State
	state       domain.RenderState
	lastBeat    bool
	lastSilent  bool
	lastSkipped bool
	lastTheme   domain.ThemeMode
	observer    FrameObserver

	// Concurrency control
	mu      sync.Mutex
	running bool
}

// NewVisualizerService creates a new visualizer service.
// A nil source renders silence; a nil theme source means dark mode.
func NewVisualizerService(
	logger *slog.Logger,
	source ports.AudioSource,
	surface ports.Surface,
	theme ports.ThemeSource,
	scheduler ports.FrameScheduler,
	bus ports.EventBus,
	cfg VisualizerConfig,
) (*VisualizerService, error) {
	if cfg.FFTSize <= 0 {
		return nil, domain.NewValidationError("fft_size", cfg.FFTSize, "must be positive")
	}
	pipeline, err := render.NewPipeline(analysis.NewClassifier(cfg.Threshold), cfg.Render)
	if err != nil {
		return nil, err
	}

	s := &VisualizerService{
		logger:     logger,
		source:     source,
		surface:    surface,
		theme:      theme,
		scheduler:  scheduler,
		bus:        bus,
		extractor:  analysis.NewExtractor(source, cfg.FFTSize/2, cfg.FFTSize),
		pipeline:   pipeline,
		lastSilent: true,
	}
	s.lastTheme = s.currentTheme()

	logger.Debug("visualizer service initialized",
		slog.Int("bins", s.extractor.Bins()),
		slog.Int("samples", s.extractor.Samples()),
		slog.Float64("threshold", cfg.Threshold))

	return s, nil
}

// SetFrameObserver registers fn to be called after each frame. Nil clears it.
func (s *VisualizerService) SetFrameObserver(fn FrameObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// RenderFrame captures audio, renders one frame and advances the state.
func (s *VisualizerService) RenderFrame() render.FrameResult {
	s.mu.Lock()
	state, result, events := s.renderLocked()
	observer := s.observer
	s.mu.Unlock()

	for _, event := range events {
		s.bus.Publish(event)
	}
	if observer != nil {
		observer(state, result)
	}
	return result
}

func (s *VisualizerService) renderLocked() (domain.RenderState, render.FrameResult, []domain.Event) {
	spectrum, waveform := s.extractor.Capture()

	in := render.FrameInput{
		Spectrum: spectrum,
		Waveform: waveform,
		Theme:    s.currentTheme(),
	}
	if s.source != nil {
		in.Playing = s.source.IsPlaying()
		in.Volume = s.source.Volume()
	}

	frame := s.state.Frame
	next, result := s.pipeline.RenderFrame(s.state, in, s.surface)
	s.state = next

	var events []domain.Event

	if in.Theme != s.lastTheme {
		s.logger.Debug("theme changed", slog.String("theme", in.Theme.String()))
		events = s.emit(events, domain.EventThemeChanged, func() domain.Event { return domain.NewThemeChangedEvent(in.Theme) })
		s.lastTheme = in.Theme
	}

	silent := !in.Playing || in.Volume <= 0
	if silent != s.lastSilent {
		if silent {
			s.logger.Debug("audio went silent", slog.Uint64("frame", frame))
			events = s.emit(events, domain.EventSilence, func() domain.Event { return domain.NewSilenceEvent(frame) })
		} else {
			s.logger.Debug("audio audible", slog.Uint64("frame", frame))
			events = s.emit(events, domain.EventAudible, func() domain.Event { return domain.NewAudibleEvent(frame) })
		}
		s.lastSilent = silent
	}

	if result.Beat.IsBeat != s.lastBeat {
		if result.Beat.IsBeat {
			events = s.emit(events, domain.EventBeatStarted, func() domain.Event { return domain.NewBeatStartedEvent(frame, result.Beat) })
		} else {
			events = s.emit(events, domain.EventBeatEnded, func() domain.Event { return domain.NewBeatEndedEvent(frame) })
		}
		s.lastBeat = result.Beat.IsBeat
	}

	if result.Skipped != s.lastSkipped {
		if result.Skipped {
			s.logger.Debug("frame skipped", slog.Uint64("frame", frame), slog.Any("reason", result.Reason))
			events = s.emit(events, domain.EventFrameSkipped, func() domain.Event { return domain.NewFrameSkippedEvent(frame, result.Reason) })
		}
		s.lastSkipped = result.Skipped
	}

	return next, result, events
}

// emit appends the event built by build, unless nobody listens for eventType.
func (s *VisualizerService) emit(events []domain.Event, eventType domain.EventType, build func() domain.Event) []domain.Event {
	if !s.bus.HasSubscribers(eventType) {
		return events
	}
	return append(events, build())
}

func (s *VisualizerService) currentTheme() domain.ThemeMode {
	if s.theme != nil && !s.theme.DarkMode() {
		return domain.ThemeLight
	}
	return domain.ThemeDark
}

// Start begins the self-rescheduling frame loop.
func (s *VisualizerService) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("render loop started")
	s.bus.Publish(domain.NewLoopStartedEvent())

	s.scheduler.RequestFrame(s.tick)
	return nil
}

func (s *VisualizerService) tick() {
	if !s.IsRunning() {
		return
	}
	s.RenderFrame()

	// Stop may have landed while the frame was rendering.
	if s.IsRunning() {
		s.scheduler.RequestFrame(s.tick)
	}
}

// Stop ends the frame loop. Stopping a stopped loop is a no-op.
func (s *VisualizerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	frames := s.state.Frame
	s.mu.Unlock()

	s.scheduler.Cancel()

	s.logger.Info("render loop stopped", slog.Uint64("frames", frames))
	s.bus.Publish(domain.NewLoopStoppedEvent(frames))
}

// IsRunning reports whether the frame loop is active.
func (s *VisualizerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// State returns a copy of the current render state.
func (s *VisualizerService) State() domain.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Options returns the renderer tuning in effect.
func (s *VisualizerService) Options() render.Options {
	return s.pipeline.Options()
}

// Shutdown stops the loop.
func (s *VisualizerService) Shutdown() error {
	s.logger.Debug("shutting down visualizer service")
	s.Stop()
	return nil
}
