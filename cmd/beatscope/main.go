// Package main is the production entry point for the beatscope visualizer.
//
// beatscope plays an audio file and draws a beat-reactive radial spectrum,
// waveform and background in a desktop window. Press 't' to switch between
// dark and light mode.
//
// Build:
//
//	go build -o build/beatscope ./cmd/beatscope
//
// Run:
//
//	./build/beatscope song.mp3
//	./build/beatscope --demo
//	./build/beatscope --config beatscope.toml song.wav
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tejashwikalptaru/beatscope/internal/app"
	"github.com/tejashwikalptaru/beatscope/internal/config"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath = flag.String("config", "", "path to a TOML configuration file")
		demo       = flag.Bool("demo", false, "visualise a synthetic beat instead of a file")
		bpm        = flag.Float64("bpm", 120, "tempo of the --demo beat")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [audio-file]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(app.GetVersionInfo().FullString())
		return 0
	}

	bootstrap := logger.NewLogger(logger.DefaultConfig())

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap.Error("failed to load configuration", slog.Any("error", err))
		return 2
	}

	appConfig := app.DefaultConfig()
	appConfig.Config = cfg
	appConfig.Demo = *demo
	appConfig.DemoBPM = *bpm
	if flag.NArg() > 0 {
		appConfig.AudioFile = flag.Arg(0)
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(appConfig)
	if err != nil {
		bootstrap.Error("failed to create application", slog.Any("error", err))
		return 1
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			bootstrap.Warn("shutdown error", slog.Any("error", err))
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		bootstrap.Error("application error", slog.Any("error", err))
		return 1
	}
	return 0
}
