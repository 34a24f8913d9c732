// ABOUTME: Trending command showing the ranked feed across all followed sources
// ABOUTME: Serves from the manager's cache unless --refresh forces re-aggregation

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/timeutil"
)

var trendingCmd = &cobra.Command{
	Use:     "trending",
	Aliases: []string{"t"},
	Short:   "Show what is trending across your sources",
	Long: `Rank the latest content across all followed sources by engagement,
recency, and source weight. Results are cached briefly; use --refresh to
re-query every provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		limit, _ := cmd.Flags().GetInt("limit")

		srcs, err := store.ListSources()
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		if len(srcs) == 0 {
			fmt.Println("No sources found. Follow one with 'hagda source add <type> <locator>'")
			return nil
		}

		items := manager.Trending(cmd.Context(), srcs, refresh)

		faint := color.New(color.Faint).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		if err := manager.LastError(); err != nil {
			fmt.Printf("%s %v\n\n", yellow("warning:"), err)
		}

		if len(items) == 0 {
			fmt.Println("Nothing trending right now. Try again in a bit.")
			return nil
		}

		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		sourceNames := make(map[string]string, len(srcs))
		for _, src := range srcs {
			sourceNames[src.ID] = src.Name
		}

		now := time.Now()
		for i, item := range items {
			fmt.Printf("%2d. %s\n", i+1, item.Title)

			meta := sourceNames[item.SourceID]
			if meta == "" {
				meta = string(item.Type)
			}
			if !item.Published.IsZero() {
				meta += " · " + timeutil.Relative(item.Published, now)
			}
			fmt.Printf("    %s\n", faint(meta))
		}

		if at := manager.CachedAt(); !at.IsZero() {
			fmt.Printf("\n%s\n", faint("Updated "+timeutil.Relative(at, now)))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)

	trendingCmd.Flags().BoolP("refresh", "r", false, "bypass the cache and re-query providers")
	trendingCmd.Flags().IntP("limit", "n", 0, "max items to show (default: all ranked items)")
}
