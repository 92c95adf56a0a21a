package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/canvas-arcade/internal/audio"
	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/platform/runner"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

const defaultTimeStep = core.TimeStepFixed

// runtimeConfig builds the runtime config from the global flags and the
// terminal size.
func runtimeConfig() (core.RuntimeConfig, error) {
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	switch ts := core.TimeStep(flagTimeStep); ts {
	case core.TimeStepFixed, core.TimeStepDelta:
		cfg.TimeStep = ts
	default:
		return cfg, fmt.Errorf("unknown time step %q (use fixed or delta)", flagTimeStep)
	}

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	return cfg, nil
}

// openStore opens the scores database. The arcade still runs without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open scores database", "err", err)
		return nil
	}
	return store
}

// openAudio connects the speaker and starts loading the sound bank.
// Without a device the arcade stays silent.
func openAudio() (sink core.AudioSink, spectra runner.SpectrumSource, closeFn func()) {
	if flagMute {
		return audio.Nop{}, audio.Nop{}, func() {}
	}
	p, err := audio.Open(audio.DefaultSampleRate, log.Default())
	if err != nil {
		log.Warn("audio disabled", "err", err)
		return audio.Nop{}, audio.Nop{}, func() {}
	}
	p.LoadAsync(flagAssets)
	return p, p, p.Close
}

// logToFile sends the default logger to ~/.arcade/arcade.log while a
// full-screen program owns the terminal.
func logToFile() func() {
	home, err := os.UserHomeDir()
	if err != nil {
		return func() {}
	}
	dir := filepath.Join(home, ".arcade")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "arcade.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return func() {}
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}

// resolveSeed replaces a zero seed with the current time.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
