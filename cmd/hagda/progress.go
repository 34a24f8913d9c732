// ABOUTME: Progress command recording how far through an item the user is
// ABOUTME: Accepts a fraction or percentage, used for podcast playback position

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <id> <fraction>",
	Short: "Record consumption progress for an item",
	Long: `Record how far through an item you are, as a fraction (0.5) or a
percentage (50). Useful for keeping track of podcast playback position
across sessions.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := store.FindItem(args[0])
		if err != nil {
			return fmt.Errorf("item not found: %s", args[0])
		}

		p, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid progress %q: use a fraction like 0.5 or a percentage like 50", args[1])
		}
		// Values above 1 read as percentages
		if p > 1 {
			p = p / 100
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("progress must be between 0 and 1 (or 0 and 100)")
		}

		if err := store.SetItemProgress(item.ID, p); err != nil {
			return fmt.Errorf("failed to record progress: %w", err)
		}

		fmt.Printf("Progress %.0f%% recorded for: %s\n", p*100, item.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
}
