// Package config loads visualizer settings: built-in defaults, then an optional
// TOML file, then BEATSCOPE_* environment variables.
package config

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/tejashwikalptaru/beatscope/internal/analysis"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
	"github.com/tejashwikalptaru/beatscope/internal/render"
)

// FFT size bounds, as accepted by a Web Audio AnalyserNode.
const (
	MinFFTSize = 32
	MaxFFTSize = 32768
)

// Config is the complete set of tunables.
type Config struct {
	Audio  AudioConfig  `toml:"audio"`
	Beat   BeatConfig   `toml:"beat"`
	Render RenderConfig `toml:"render"`
	Window WindowConfig `toml:"window"`
	Log    LogConfig    `toml:"log"`
}

// AudioConfig sizes the analyser.
type AudioConfig struct {
	FFTSize int     `toml:"fft_size"`
	Volume  float64 `toml:"volume"`
}

// BeatConfig tunes the classifier.
type BeatConfig struct {
	Threshold float64 `toml:"threshold"`
}

// RenderConfig tunes the painters.
type RenderConfig struct {
	Bars                int     `toml:"bars"`
	RotationStep        float64 `toml:"rotation_step"`
	HueRate             float64 `toml:"hue_rate"`
	SpikeStride         int     `toml:"spike_stride"`
	ExcitationThreshold int     `toml:"excitation_threshold"`
	Background          string  `toml:"background"`
	FadeOnBeat          float64 `toml:"fade_on_beat"`
	FadeResting         float64 `toml:"fade_resting"`
}

// WindowConfig sets up the display.
type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
	FPS    int     `toml:"fps"`
	Theme  string  `toml:"theme"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the stock configuration.
func Default() Config {
	opts := render.DefaultOptions()
	return Config{
		Audio: AudioConfig{
			FFTSize: 256,
			Volume:  1,
		},
		Beat: BeatConfig{
			Threshold: analysis.DefaultThreshold,
		},
		Render: RenderConfig{
			Bars:                opts.Bars,
			RotationStep:        opts.RotationStep,
			HueRate:             opts.HueRate,
			SpikeStride:         opts.SpikeStride,
			ExcitationThreshold: int(opts.ExcitationThreshold),
			Background:          string(opts.Background),
			FadeOnBeat:          opts.FadeOnBeat,
			FadeResting:         opts.FadeResting,
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			FPS:    60,
			Theme:  domain.ThemeDark.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, value interface{}, message string) {
		if !ok {
			errs = append(errs, domain.NewValidationError(field, value, message))
		}
	}

	n := c.Audio.FFTSize
	check(n >= MinFFTSize && n <= MaxFFTSize && n&(n-1) == 0,
		"audio.fft_size", n, "must be a power of two between 32 and 32768")
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume", c.Audio.Volume, "must be between 0 and 1")
	check(c.Beat.Threshold >= 0, "beat.threshold", c.Beat.Threshold, "must not be negative")
	check(c.Render.RotationStep > 0 && !math.IsInf(c.Render.RotationStep, 0),
		"render.rotation_step", c.Render.RotationStep, "must be positive and finite")
	check(!math.IsNaN(c.Render.HueRate) && !math.IsInf(c.Render.HueRate, 0),
		"render.hue_rate", c.Render.HueRate, "must be finite")
	check(c.Render.Bars > 0, "render.bars", c.Render.Bars, "must be positive")
	check(c.Render.SpikeStride > 0, "render.spike_stride", c.Render.SpikeStride, "must be positive")
	check(c.Render.ExcitationThreshold >= 0 && c.Render.ExcitationThreshold <= 255,
		"render.excitation_threshold", c.Render.ExcitationThreshold, "must be between 0 and 255")
	check(domain.BackgroundPolicy(c.Render.Background).Valid(),
		"render.background", c.Render.Background, "must be \"fade\" or \"gradient\"")
	check(c.Render.FadeOnBeat >= 0 && c.Render.FadeOnBeat <= 1, "render.fade_on_beat", c.Render.FadeOnBeat, "must be between 0 and 1")
	check(c.Render.FadeResting >= 0 && c.Render.FadeResting <= 1, "render.fade_resting", c.Render.FadeResting, "must be between 0 and 1")
	check(c.Window.FPS > 0, "window.fps", c.Window.FPS, "must be positive")
	check(c.Window.Width >= 0 && c.Window.Height >= 0, "window.size", c.Window.Width, "must not be negative")

	if _, err := domain.ParseThemeMode(c.Window.Theme); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, domain.NewValidationError("log.format", c.Log.Format, "must be \"text\" or \"json\""))
	}

	return errors.Join(errs...)
}

// RenderOptions converts the render section into renderer tuning.
func (c Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Bars = c.Render.Bars
	opts.RotationStep = c.Render.RotationStep
	opts.HueRate = c.Render.HueRate
	opts.SpikeStride = c.Render.SpikeStride
	opts.ExcitationThreshold = uint8(min(max(c.Render.ExcitationThreshold, 0), 255))
	opts.Background = domain.BackgroundPolicy(c.Render.Background)
	opts.FadeOnBeat = c.Render.FadeOnBeat
	opts.FadeResting = c.Render.FadeResting
	return opts
}

// Theme returns the configured starting theme, dark when unparsable.
func (c Config) Theme() domain.ThemeMode {
	theme, _ := domain.ParseThemeMode(c.Window.Theme)
	return theme
}

// Logger returns the logger configuration.
func (c Config) Logger() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.Log.Level, slog.LevelInfo),
		Format: strings.ToLower(c.Log.Format),
	}
}
