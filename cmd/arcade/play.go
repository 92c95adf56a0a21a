package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/canvas-arcade/internal/config"
	"github.com/vovakirdan/canvas-arcade/internal/platform/runner"
	"github.com/vovakirdan/canvas-arcade/internal/platform/tui"
	"github.com/vovakirdan/canvas-arcade/internal/platform/window"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/replay"
)

var (
	flagConfig     string
	flagDifficulty string
	flagRecord     string
	flagWindow     bool
)

var playCmd = &cobra.Command{
	Use:   "play <toy>",
	Short: "Play a toy",
	Long: `Start the specified toy.

Controls:
  Left/Right, A/D - Steer
  Space           - Fire (bounce: spawn a ball, rain: start the music)
  P               - Pause
  R               - Restart
  Ctrl+S          - Screenshot (terminal only)
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  arcade play bounce
  arcade play dodge --difficulty hard
  arcade play basket --config ./my-basket.yaml
  arcade play dodge --seed 42 --record dodge.replay
  arcade play rain --window`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom toy config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record the session's input to a replay file")
	playCmd.Flags().BoolVar(&flagWindow, "window", false, "Open a desktop window instead of using the terminal")
}

func runPlay(_ *cobra.Command, args []string) error {
	game, err := registry.Create(args[0])
	if errors.Is(err, registry.ErrUnknownGame) {
		return fmt.Errorf("%w (run 'arcade list' to see available toys)", err)
	}
	if err != nil {
		return err
	}

	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}

	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	if flagWindow {
		cfg = window.Runtime(cfg)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	sink, spectra, closeAudio := openAudio()
	defer closeAudio()

	opts := runner.Options{
		Store:   store,
		Audio:   sink,
		Spectra: spectra,
		Logger:  log.Default(),
	}

	if flagRecord != "" {
		// The recording header needs the seed the game will use.
		cfg.Seed = resolveSeed(cfg.Seed)
		rec, err := replay.Create(flagRecord, replay.NewHeader(game.ID(), cfg))
		if err != nil {
			return err
		}
		opts.Recorder = rec
	}

	if flagWindow {
		return window.Run(game, cfg, opts)
	}

	defer logToFile()()
	return tui.Run(game, cfg, tuiOptions(opts))
}

func tuiOptions(opts runner.Options) tui.Options {
	return tui.Options{
		Store:    opts.Store,
		Audio:    opts.Audio,
		Spectra:  opts.Spectra,
		Logger:   opts.Logger,
		Recorder: opts.Recorder,
		Playback: opts.Playback,
	}
}
