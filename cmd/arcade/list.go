package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/canvas-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available toys",
	Long:  `Shows every toy registered in the arcade with its best score.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	games := registry.List()
	if len(games) == 0 {
		fmt.Fprintln(out, "No toys available.")
		return
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	fmt.Fprintln(out, "Available toys:")
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTitle\tBest")
	fmt.Fprintln(tw, "  --\t-----\t----")
	for _, g := range games {
		best := "-"
		if store != nil {
			if high, err := store.HighScore(g.ID); err == nil && high > 0 {
				best = fmt.Sprint(high)
			}
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", g.ID, g.Title, best)
	}
	tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'arcade play <id>' to play a toy.")
}
