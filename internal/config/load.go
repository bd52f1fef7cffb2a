package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "BEATSCOPE_"

// LookupFunc reads one environment variable; os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration from defaults, the TOML file at path (skipped
// when path is empty) and the process environment, then validates it.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment.
func LoadWith(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return domain.NewConfigError("file", path, perr.Message, err)
		}
		return domain.NewConfigError("file", path, "cannot read configuration", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return domain.NewConfigError("file", path, "unknown keys: "+strings.Join(keys, ", "), nil)
	}
	return nil
}

// applyEnv overrides individual fields from BEATSCOPE_* variables.
func applyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, domain.NewConfigError("env", EnvPrefix+name, "not an integer", err))
			return
		}
		*dst = n
	}
	float := func(name string, dst *float64) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, domain.NewConfigError("env", EnvPrefix+name, "not a number", err))
			return
		}
		*dst = f
	}
	dimension := func(name string, dst *float32) {
		f := float64(*dst)
		float(name, &f)
		*dst = float32(f)
	}

	integer("FFT_SIZE", &cfg.Audio.FFTSize)
	float("VOLUME", &cfg.Audio.Volume)
	float("THRESHOLD", &cfg.Beat.Threshold)
	integer("BARS", &cfg.Render.Bars)
	float("ROTATION_STEP", &cfg.Render.RotationStep)
	float("HUE_RATE", &cfg.Render.HueRate)
	integer("SPIKE_STRIDE", &cfg.Render.SpikeStride)
	integer("EXCITATION_THRESHOLD", &cfg.Render.ExcitationThreshold)
	str("BACKGROUND", &cfg.Render.Background)
	float("FADE_ON_BEAT", &cfg.Render.FadeOnBeat)
	float("FADE_RESTING", &cfg.Render.FadeResting)
	dimension("WIDTH", &cfg.Window.Width)
	dimension("HEIGHT", &cfg.Window.Height)
	integer("FPS", &cfg.Window.FPS)
	str("THEME", &cfg.Window.Theme)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	return errors.Join(errs...)
}
