// ABOUTME: Fetch command pulling new items from followed sources into the store
// ABOUTME: Handles batch sync of all sources or a single source with colored progress output

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/sources"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [ref]",
	Short: "Fetch new items from sources",
	Long: `Fetch new items from all followed sources or a specific source by
ID, ID prefix, name, or locator.

Feed-backed sources use HTTP caching headers (ETag, Last-Modified) to avoid
re-fetching unchanged content. Use --force to ignore cache headers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		limit, _ := cmd.Flags().GetInt("limit")

		srcs, err := store.ListSources()
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		if len(srcs) == 0 {
			fmt.Println("No sources found. Follow one with 'hagda source add <type> <locator>'")
			return nil
		}

		if len(args) == 1 {
			src, err := store.FindSource(args[0])
			if err != nil {
				return fmt.Errorf("source not found: %s", args[0])
			}
			srcs = []*models.Source{src}
		}

		totalNew := 0
		totalCached := 0
		totalErrors := 0

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		for _, src := range srcs {
			fmt.Printf("Syncing %s... ", src.Name)

			outcome, err := sources.SyncOne(cmd.Context(), store, registry, src, limit, force)
			if err != nil {
				fmt.Printf("%s %s\n", red("x"), err.Error())
				totalErrors++
				continue
			}

			switch {
			case outcome.NotModified:
				fmt.Printf("%s (not modified)\n", faint("-"))
				totalCached++
			case outcome.Added > 0:
				fmt.Printf("%s %d new\n", green("v"), outcome.Added)
				totalNew += outcome.Added
			default:
				fmt.Printf("%s no new items\n", green("v"))
			}
		}

		fmt.Println()
		fmt.Printf("Summary: %d source(s) synced\n", len(srcs))
		if totalNew > 0 {
			fmt.Printf("  %s %d new items\n", green("v"), totalNew)
		}
		if totalCached > 0 {
			fmt.Printf("  %s %d cached (not modified)\n", faint("-"), totalCached)
		}
		if totalErrors > 0 {
			fmt.Printf("  %s %d errors\n", red("x"), totalErrors)
		}

		if totalNew > 0 {
			manager.Invalidate()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolP("force", "f", false, "ignore cache headers and force fetch")
	fetchCmd.Flags().IntP("limit", "n", 25, "max items to store per source")
}
