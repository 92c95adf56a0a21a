// arcade runs small entity-simulation toys in the terminal, over SSH or in
// a desktop window.
//
// Usage:
//
//	arcade list               - List available toys
//	arcade play <toy>         - Play a toy
//	arcade menu               - Start menu to pick toys interactively
//	arcade replay <file>      - Play back or verify a recording
//	arcade serve              - Start SSH server for remote play
//	arcade scores [toy]       - Show high scores and session stats
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--timestep <mode>   - fixed or delta time stepping
//	--db <path>         - Set database path (default: ~/.arcade/scores.db)
//	--assets <dir>      - Directory with sound files
//	--mute              - Disable audio
//	--log-level <level> - debug, info, warn or error
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import toys to register them
	_ "github.com/vovakirdan/canvas-arcade/internal/games/basket"
	_ "github.com/vovakirdan/canvas-arcade/internal/games/bounce"
	_ "github.com/vovakirdan/canvas-arcade/internal/games/dodge"
	_ "github.com/vovakirdan/canvas-arcade/internal/games/rain"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagTimeStep string
	flagDBPath   string
	flagAssets   string
	flagMute     bool
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Canvas Arcade - entity simulation toys for your terminal",
	Long: `Canvas Arcade runs small physics toys: a bouncing arena, a perspective
dodger, a basket catcher and a music-driven rain.

Available commands:
  list     - Show all available toys
  play     - Play a specific toy directly
  menu     - Interactive picker menu
  replay   - Play back or verify a recording
  serve    - Start SSH server for remote play
  scores   - View high scores and session stats

Examples:
  arcade list
  arcade play bounce
  arcade play dodge --record run.replay
  arcade play rain --window
  arcade replay run.replay --verify
  arcade serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagTimeStep, "timestep", string(defaultTimeStep), "Time stepping: fixed or delta")
	pf.StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	pf.StringVar(&flagAssets, "assets", "", "Directory with sound files (synthesised sounds if empty)")
	pf.BoolVar(&flagMute, "mute", false, "Disable audio")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
