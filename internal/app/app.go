// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	beepaudio "github.com/tejashwikalptaru/beatscope/internal/adapter/audio/beep"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/scheduler"
	"github.com/tejashwikalptaru/beatscope/internal/adapter/surface/raster"
	fyneui "github.com/tejashwikalptaru/beatscope/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/beatscope/internal/config"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
	"github.com/tejashwikalptaru/beatscope/internal/render"
	"github.com/tejashwikalptaru/beatscope/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus  *eventbus.SyncEventBus
	source    ports.AudioSource
	player    *beepaudio.Player // nil unless a file is playing
	surface   *raster.Surface
	scheduler *scheduler.Ticker

	// Repositories
	preferencesRepo ports.PreferencesRepository

	// Services
	visualizerService *service.VisualizerService

	// UI
	theme      *fyneui.ThemeToggle
	visualizer *fyneui.VisualizerWidget
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	config.Config

	// AppID is the unique application identifier (preferences are stored under it)
	AppID string

	// AudioFile is played on start; empty means no file
	AudioFile string

	// Demo replaces the audio file with a synthetic kick at DemoBPM
	Demo    bool
	DemoBPM float64

	// LogOutput receives log records; nil means stderr
	LogOutput io.Writer

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return Config{
		Config:  config.Default(),
		AppID:   "com.beatscope.app",
		DemoBPM: 120,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger
	logConfig := cfg.Logger()
	logConfig.Output = cfg.LogOutput
	app.logger = logger.NewLogger(logConfig)
	app.logger.Info("initializing application",
		slog.String("version", GetVersionInfo().FullString()),
		slog.Int("fft_size", cfg.Audio.FFTSize),
		slog.Int("fps", cfg.Window.FPS))

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 4: Create the audio source
	if err := app.openSource(cfg); err != nil {
		_ = app.eventBus.Close()
		return nil, err
	}

	// Step 5: Restore preferences
	app.preferencesRepo = memory.NewPreferencesRepository(app.fyneApp.Preferences())
	theme := cfg.Theme()
	if saved, ok, err := app.preferencesRepo.LoadTheme(); err != nil {
		app.logger.Warn("failed to load saved theme", slog.Any("error", err))
	} else if ok {
		theme = saved
	}

	app.theme = fyneui.NewThemeToggle(theme)
	app.theme.OnChange(func(mode domain.ThemeMode) {
		if err := app.preferencesRepo.SaveTheme(mode); err != nil {
			app.logger.Warn("failed to save theme", slog.Any("error", err))
		}
	})

	// Step 6: Create the render loop
	app.surface = raster.New(0, 0)
	app.scheduler = fyneui.NewFrameScheduler(cfg.Window.FPS)

	svc, err := service.NewVisualizerService(
		app.logger.With(slog.String("service", "visualizer")),
		app.source,
		app.surface,
		app.theme,
		app.scheduler,
		app.eventBus,
		service.VisualizerConfig{
			FFTSize:   cfg.Audio.FFTSize,
			Threshold: cfg.Beat.Threshold,
			Render:    cfg.RenderOptions(),
		},
	)
	if err != nil {
		app.closeSource()
		_ = app.eventBus.Close()
		return nil, fmt.Errorf("failed to create visualizer: %w", err)
	}
	app.visualizerService = svc

	// Step 7: Create UI
	app.visualizer = fyneui.NewVisualizerWidget(app.surface)
	app.visualizerService.SetFrameObserver(func(domain.RenderState, render.FrameResult) {
		app.visualizer.Publish()
	})

	width, height := cfg.Window.Width, cfg.Window.Height
	if w, h, err := app.preferencesRepo.LoadWindowSize(); err != nil {
		app.logger.Warn("failed to load window size", slog.Any("error", err))
	} else if w > 0 && h > 0 {
		width, height = w, h
	}
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.visualizer, app.theme, width, height)
	if app.player != nil {
		app.mainWindow.SetTrackTitle(app.player.Title())
	}

	// Save state before the window closes
	// This ensures state is persisted even when quitting via Cmd+Q or window close button
	app.mainWindow.OnClose(func() {
		if err := app.saveState(); err != nil {
			app.logger.Warn("failed to save state on close", slog.Any("error", err))
		}
		app.visualizerService.Stop()
	})

	app.subscribeEvents()

	return app, nil
}

// openSource picks the audio source: the synthetic kick, a file, or silence.
func (a *Application) openSource(cfg Config) error {
	switch {
	case cfg.Demo:
		a.source = mock.NewSynth(cfg.DemoBPM, cfg.Window.FPS)
		a.logger.Info("demo mode", slog.Float64("bpm", cfg.DemoBPM))

	case cfg.AudioFile != "":
		player, err := beepaudio.Open(a.logger.With(slog.String("adapter", "beep")), cfg.AudioFile, cfg.Audio.FFTSize)
		if err != nil {
			return fmt.Errorf("failed to open audio file: %w", err)
		}
		if err := player.SetVolume(cfg.Audio.Volume); err != nil {
			_ = player.Close()
			return fmt.Errorf("failed to set volume: %w", err)
		}
		a.player = player
		a.source = player

	default:
		a.logger.Warn("no audio source configured; rendering silence", slog.Any("error", domain.ErrNoAudioSource))
	}
	return nil
}

// subscribeEvents logs loop edges. Handlers run on the render loop and stay cheap.
func (a *Application) subscribeEvents() {
	a.eventBus.Subscribe(domain.EventThemeChanged, func(e domain.Event) {
		a.logger.Info("theme changed", slog.String("theme", e.(domain.ThemeChangedEvent).Theme.String()))
	})

	a.eventBus.Subscribe(domain.EventSilence, func(domain.Event) {
		if a.player != nil && a.player.Finished() {
			a.logger.Info("track finished", slog.String("title", a.player.Title()))
		}
	})

	a.eventBus.Subscribe(domain.EventFrameSkipped, func(e domain.Event) {
		a.logger.Debug("frames skipped until the window has a size",
			slog.Any("reason", e.(domain.FrameSkippedEvent).Reason))
	})
}

// Run starts playback and the render loop, then shows the window.
// This blocks until the window is closed.
func (a *Application) Run() error {
	if a.player != nil {
		if err := a.player.Play(); err != nil {
			return err
		}
	}
	if err := a.visualizerService.Start(); err != nil {
		return err
	}

	a.logger.Info("beatscope started")
	a.mainWindow.ShowAndRun()
	return nil
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go. It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.visualizerService != nil {
			if err := a.visualizerService.Shutdown(); err != nil {
				a.logger.Warn("failed to shutdown visualizer service", slog.Any("error", err))
			}
		}
		if a.scheduler != nil {
			a.scheduler.Close()
		}

		a.closeSource()

		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}

		a.logger.Info("application shutdown complete",
			slog.Uint64("events_delivered", a.eventBus.Delivered()))
	})
	return nil
}

func (a *Application) closeSource() {
	if a.player == nil {
		return
	}
	if err := a.player.Close(); err != nil {
		a.logger.Warn("failed to close audio player", slog.Any("error", err))
	}
}

// saveState persists the window geometry. The theme is saved as it changes.
func (a *Application) saveState() error {
	size := a.mainWindow.GetWindow().Canvas().Size()
	if size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	if err := a.preferencesRepo.SaveWindowSize(size.Width, size.Height); err != nil {
		return fmt.Errorf("failed to save window size: %w", err)
	}
	return nil
}

// GetService returns the visualizer service.
func (a *Application) GetService() *service.VisualizerService {
	return a.visualizerService
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}
