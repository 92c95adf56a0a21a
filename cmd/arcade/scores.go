package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/canvas-arcade/internal/platform/tui"
	"github.com/vovakirdan/canvas-arcade/internal/registry"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

var (
	flagSessions int
	flagTUI      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [toy]",
	Short: "Show high scores and session stats",
	Long: `Display the top 10 high scores for a toy, its win/loss record and the
most recent sessions. Without a toy, recent sessions of every toy are listed.

Examples:
  arcade scores dodge
  arcade scores basket --sessions 20
  arcade scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagSessions, "sessions", 5, "Number of recent sessions to show")
	scoresCmd.Flags().BoolVar(&flagTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagTUI {
		cfg, err := runtimeConfig()
		if err != nil {
			return err
		}
		_, err = tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, "Recent sessions")
		fmt.Fprintln(out)
		return printSessions(out, store, "")
	}

	gameID := args[0]
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n", game.Title())
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'arcade play %s' to set the first high score!\n", gameID)
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  Rank\tScore\tDate")
		fmt.Fprintln(tw, "  ----\t-----\t----")
		for i, entry := range scores {
			fmt.Fprintf(tw, "  %d\t%d\t%s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
		}
		tw.Flush()
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Best: %d  Won: %d  Lost: %d  Played: %s\n",
		stats.HighScore, stats.Wins, stats.Losses, stats.PlayTime.Round(time.Second))
	fmt.Fprintln(out)
	return printSessions(out, store, gameID)
}

func printSessions(out io.Writer, store *storage.Store, gameID string) error {
	sessions, err := store.RecentSessions(gameID, flagSessions)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  Toy\tOutcome\tScore\tTime\tDifficulty\tPlayer\tSeed\tDate")
	for _, s := range sessions {
		difficulty := s.Difficulty
		if difficulty == "" {
			difficulty = "-"
		}
		player := s.Player
		if player == "" {
			player = "local"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			s.GameID, s.Outcome, s.Score, s.Duration.Round(time.Second),
			difficulty, player, s.Seed, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
