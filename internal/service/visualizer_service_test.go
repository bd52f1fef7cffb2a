package service

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
	"github.com/tejashwikalptaru/beatscope/internal/render"
	"github.com/tejashwikalptaru/beatscope/internal/testutil"
)

// themeFlag is a ThemeSource toggled directly by tests.
type themeFlag struct {
	light atomic.Bool
}

func (f *themeFlag) DarkMode() bool { return !f.light.Load() }

type fixture struct {
	service *VisualizerService
	source  *mock.Source
	surface *testutil.RecordingSurface
	theme   *themeFlag
	sched   *scheduler.Manual
	bus     *eventbus.SyncEventBus
}

// Helper to create a test visualizer service on a manual scheduler
func newTestVisualizerService(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		source:  mock.NewSource(),
		surface: testutil.NewRecordingSurface(800, 600),
		theme:   &themeFlag{},
		sched:   scheduler.NewManual(),
		bus:     eventbus.NewSyncEventBus(),
	}
	svc, err := NewVisualizerService(logger.NewTestLogger(), f.source, f.surface, f.theme, f.sched, f.bus, DefaultVisualizerConfig())
	require.NoError(t, err)
	f.service = svc

	t.Cleanup(func() {
		_ = svc.Shutdown()
		_ = f.bus.Close()
	})
	return f
}

// record collects the types of every published event.
func (f *fixture) record() *[]domain.EventType {
	var types []domain.EventType
	f.bus.SubscribeAll(func(e domain.Event) { types = append(types, e.Type()) })
	return &types
}

func TestNewVisualizerService_InvalidConfig(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	cfg := DefaultVisualizerConfig()
	cfg.FFTSize = 0
	_, err := NewVisualizerService(logger.NewTestLogger(), nil, nil, nil, scheduler.NewManual(), bus, cfg)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "fft_size", verr.Field)

	cfg = DefaultVisualizerConfig()
	cfg.Render.Bars = 0
	_, err = NewVisualizerService(logger.NewTestLogger(), nil, nil, nil, scheduler.NewManual(), bus, cfg)
	assert.Error(t, err)
}

func TestVisualizerService_RenderFrameAdvancesState(t *testing.T) {
	f := newTestVisualizerService(t)

	for i := 0; i < 3; i++ {
		result := f.service.RenderFrame()
		assert.False(t, result.Skipped)
	}

	state := f.service.State()
	assert.Equal(t, uint64(3), state.Frame)
	assert.InDelta(t, 0.03, state.Rotation, 1e-9)

	spectrum, waveform := f.source.Pulls()
	assert.Equal(t, 3, spectrum)
	assert.Equal(t, 3, waveform)
	assert.Len(t, f.surface.CallsOf(testutil.OpLine), 3*64)
}

func TestVisualizerService_StateIsCopy(t *testing.T) {
	f := newTestVisualizerService(t)

	state := f.service.State()
	state.Frame = 99
	assert.Equal(t, uint64(0), f.service.State().Frame)
}

func TestVisualizerService_BeatEdges(t *testing.T) {
	f := newTestVisualizerService(t)

	var started []domain.BeatStartedEvent
	var ended int
	f.bus.Subscribe(domain.EventBeatStarted, func(e domain.Event) {
		started = append(started, e.(domain.BeatStartedEvent))
	})
	f.bus.Subscribe(domain.EventBeatEnded, func(domain.Event) { ended++ })

	f.source.SetLowEnergy(128, 200)
	f.service.RenderFrame()
	f.service.RenderFrame()
	f.service.RenderFrame()

	require.Len(t, started, 1, "a sustained beat publishes one start edge")
	assert.Equal(t, uint64(0), started[0].Frame)
	assert.InDelta(t, 200, started[0].Energy, 1e-9)
	assert.InDelta(t, 3.0, started[0].Intensity, 1e-9)
	assert.Equal(t, 0, ended)

	f.source.SetLowEnergy(128, 10)
	f.service.RenderFrame()
	assert.Equal(t, 1, ended)

	f.source.SetLowEnergy(128, 200)
	f.service.RenderFrame()
	assert.Len(t, started, 2)
	assert.Equal(t, uint64(4), started[1].Frame)
}

func TestVisualizerService_SilenceEdges(t *testing.T) {
	f := newTestVisualizerService(t)
	types := f.record()

	f.service.RenderFrame()
	assert.Equal(t, []domain.EventType{domain.EventAudible}, *types)

	*types = nil
	f.source.SetPlaying(false)
	f.service.RenderFrame()
	f.service.RenderFrame()
	assert.Equal(t, []domain.EventType{domain.EventSilence}, *types)

	*types = nil
	f.source.SetPlaying(true)
	require.NoError(t, f.source.SetVolume(0))
	f.service.RenderFrame()
	assert.Empty(t, *types, "volume zero is still silent")

	require.NoError(t, f.source.SetVolume(0.5))
	f.service.RenderFrame()
	assert.Equal(t, []domain.EventType{domain.EventAudible}, *types)
}

func TestVisualizerService_SilenceSuppressesBeat(t *testing.T) {
	f := newTestVisualizerService(t)
	f.source.SetLowEnergy(128, 250)
	f.source.SetPlaying(false)

	result := f.service.RenderFrame()
	assert.False(t, result.Beat.IsBeat)
	assert.InDelta(t, 1.0, result.Beat.Intensity, 1e-9)
}

func TestVisualizerService_ThemeChanged(t *testing.T) {
	f := newTestVisualizerService(t)

	var themes []domain.ThemeMode
	f.bus.Subscribe(domain.EventThemeChanged, func(e domain.Event) {
		themes = append(themes, e.(domain.ThemeChangedEvent).Theme)
	})

	f.service.RenderFrame()
	assert.Empty(t, themes)

	f.theme.light.Store(true)
	f.service.RenderFrame()
	f.service.RenderFrame()
	f.theme.light.Store(false)
	f.service.RenderFrame()

	assert.Equal(t, []domain.ThemeMode{domain.ThemeLight, domain.ThemeDark}, themes)
}

func TestVisualizerService_SkippedFrames(t *testing.T) {
	f := newTestVisualizerService(t)

	var skipped []domain.FrameSkippedEvent
	f.bus.Subscribe(domain.EventFrameSkipped, func(e domain.Event) {
		skipped = append(skipped, e.(domain.FrameSkippedEvent))
	})

	f.surface.Resize(0, 0)
	r1 := f.service.RenderFrame()
	r2 := f.service.RenderFrame()
	assert.True(t, r1.Skipped)
	assert.True(t, r2.Skipped)
	assert.ErrorIs(t, r1.Reason, domain.ErrSurfaceUnavailable)
	require.Len(t, skipped, 1)
	assert.Empty(t, f.surface.Calls())

	// State keeps advancing while nothing is drawn.
	assert.Equal(t, uint64(2), f.service.State().Frame)

	f.surface.Resize(320, 240)
	r3 := f.service.RenderFrame()
	assert.False(t, r3.Skipped)
	assert.NotEmpty(t, f.surface.Calls())
	assert.InDelta(t, 0.03, f.service.State().Rotation, 1e-9)
}

func TestVisualizerService_NilSourceRendersSilence(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()
	surface := testutil.NewRecordingSurface(100, 100)

	svc, err := NewVisualizerService(logger.NewTestLogger(), nil, surface, nil, scheduler.NewManual(), bus, DefaultVisualizerConfig())
	require.NoError(t, err)

	result := svc.RenderFrame()
	assert.False(t, result.Skipped)
	assert.False(t, result.Beat.IsBeat)
	assert.Equal(t, 64, result.Bars)
}

func TestVisualizerService_FrameObserver(t *testing.T) {
	f := newTestVisualizerService(t)

	var frames []uint64
	f.service.SetFrameObserver(func(state domain.RenderState, _ render.FrameResult) {
		frames = append(frames, state.Frame)
		// The observer runs outside the lock.
		_ = f.service.State()
	})

	f.service.RenderFrame()
	f.service.RenderFrame()
	assert.Equal(t, []uint64{1, 2}, frames)

	f.service.SetFrameObserver(nil)
	f.service.RenderFrame()
	assert.Len(t, frames, 2)
}

func TestVisualizerService_StartStop(t *testing.T) {
	f := newTestVisualizerService(t)
	types := f.record()

	require.NoError(t, f.service.Start())
	assert.True(t, f.service.IsRunning())
	assert.ErrorIs(t, f.service.Start(), domain.ErrAlreadyRunning)

	assert.Equal(t, 10, f.sched.Run(10))
	assert.Equal(t, uint64(10), f.service.State().Frame)
	assert.True(t, f.sched.Pending(), "each frame requests the next")

	f.service.Stop()
	assert.False(t, f.service.IsRunning())
	assert.False(t, f.sched.Pending())
	assert.Equal(t, 0, f.sched.Run(5))

	f.service.Stop()

	assert.Equal(t, domain.EventLoopStarted, (*types)[0])
	assert.Equal(t, domain.EventLoopStopped, (*types)[len(*types)-1])
	assert.Equal(t, 1, countOf(*types, domain.EventLoopStopped))
}

func TestVisualizerService_StopDuringFrame(t *testing.T) {
	f := newTestVisualizerService(t)

	f.service.SetFrameObserver(func(state domain.RenderState, _ render.FrameResult) {
		if state.Frame == 3 {
			f.service.Stop()
		}
	})
	require.NoError(t, f.service.Start())

	assert.Equal(t, 3, f.sched.Run(10))
	assert.Equal(t, uint64(3), f.service.State().Frame)
}

func TestVisualizerService_Restart(t *testing.T) {
	f := newTestVisualizerService(t)

	require.NoError(t, f.service.Start())
	f.sched.Run(5)
	f.service.Stop()

	require.NoError(t, f.service.Start())
	f.sched.Run(5)
	assert.Equal(t, uint64(10), f.service.State().Frame, "restarting keeps the session state")
}

func TestVisualizerService_SynthBeatsAtTempo(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	synth := mock.NewSynth(120, 60)
	sched := scheduler.NewManual()
	svc, err := NewVisualizerService(logger.NewTestLogger(), synth, testutil.NewRecordingSurface(200, 200), nil, sched, bus, DefaultVisualizerConfig())
	require.NoError(t, err)

	var beats int
	bus.Subscribe(domain.EventBeatStarted, func(domain.Event) { beats++ })

	require.NoError(t, svc.Start())
	sched.Run(4 * synth.FramesPerBeat())
	svc.Stop()

	assert.Equal(t, 4, beats)
}

func TestVisualizerService_TickerLoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	ticker := scheduler.NewTicker(500, nil)
	svc, err := NewVisualizerService(logger.NewTestLogger(), mock.NewSource(), testutil.NewRecordingSurface(64, 64), nil, ticker, bus, DefaultVisualizerConfig())
	require.NoError(t, err)

	var mu sync.Mutex
	done := make(chan struct{})
	svc.SetFrameObserver(func(state domain.RenderState, _ render.FrameResult) {
		mu.Lock()
		defer mu.Unlock()
		if state.Frame == 5 {
			close(done)
		}
	})

	require.NoError(t, svc.Start())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("render loop did not reach frame 5")
	}

	svc.SetFrameObserver(nil)
	svc.Stop()
	ticker.Close()

	frames := svc.State().Frame
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frames, svc.State().Frame)
}

func TestVisualizerService_ConcurrentState(t *testing.T) {
	f := newTestVisualizerService(t)
	require.NoError(t, f.service.Start())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = f.service.State()
				_ = f.service.IsRunning()
			}
		}()
	}
	f.sched.Run(100)
	wg.Wait()

	assert.Equal(t, uint64(100), f.service.State().Frame)
}

func countOf(types []domain.EventType, want domain.EventType) int {
	n := 0
	for _, t := range types {
		if t == want {
			n++
		}
	}
	return n
}

// countingBus counts every Publish, including events no handler receives.
type countingBus struct {
	*eventbus.SyncEventBus
	mu        sync.Mutex
	published []domain.EventType
}

func (b *countingBus) Publish(event domain.Event) {
	b.mu.Lock()
	b.published = append(b.published, event.Type())
	b.mu.Unlock()
	b.SyncEventBus.Publish(event)
}

func TestVisualizerService_SkipsEventsWithoutSubscribers(t *testing.T) {
	bus := &countingBus{SyncEventBus: eventbus.NewSyncEventBus()}
	defer bus.Close()

	source := mock.NewSource()
	svc, err := NewVisualizerService(logger.NewTestLogger(), source, testutil.NewRecordingSurface(800, 600),
		&themeFlag{}, scheduler.NewManual(), bus, DefaultVisualizerConfig())
	require.NoError(t, err)

	beats := 0
	bus.Subscribe(domain.EventBeatStarted, func(domain.Event) { beats++ })

	// Audible edge, beat start, beat end, silence edge: only the beat start has a listener.
	source.SetLowEnergy(128, 200)
	svc.RenderFrame()
	source.SetLowEnergy(128, 0)
	svc.RenderFrame()
	source.SetPlaying(false)
	svc.RenderFrame()

	assert.Equal(t, 1, beats)
	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Equal(t, []domain.EventType{domain.EventBeatStarted}, bus.published)
}
