// ABOUTME: Brief command generating a daily digest of stored items
// ABOUTME: Scores the recent window, renders the result as markdown via glamour

package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/brief"
	"github.com/hagda/hagda/internal/timeutil"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate a daily brief",
	Long: `Generate a short digest of the most interesting stored items from
the recent window: a lead story plus sections grouped by provider type,
with an estimated reading time. Run 'hagda fetch' first to have
something to brief on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")
		window, _ := cmd.Flags().GetString("window")
		raw, _ := cmd.Flags().GetBool("raw")

		opts := brief.Options{
			Size:   size,
			Window: cfg.BriefWindow(),
		}
		if size <= 0 {
			opts.Size = cfg.BriefSize()
		}
		if window != "" {
			cutoff, ok := timeutil.ParsePeriod(window)
			if !ok {
				return fmt.Errorf("invalid window %q: use today, yesterday, week, or a duration like 24h", window)
			}
			opts.Window = time.Since(cutoff)
		}

		b, err := brief.Generate(store, opts)
		if err != nil {
			return fmt.Errorf("failed to generate brief: %w", err)
		}

		markdown := b.Markdown()

		if raw {
			fmt.Print(markdown)
			return nil
		}

		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			fmt.Print(markdown)
			return nil
		}
		fmt.Print(rendered)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(briefCmd)

	briefCmd.Flags().IntP("size", "n", 0, "number of stories to include (default from config)")
	briefCmd.Flags().String("window", "", "lookback window (today, 24h, 7d, ...; default from config)")
	briefCmd.Flags().Bool("raw", false, "print raw markdown without terminal rendering")
}
