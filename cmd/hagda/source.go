// ABOUTME: Source management commands for following, listing, and removing content sources
// ABOUTME: Handles type-specific locator parsing, feed autodiscovery, and provider directory search

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/discover"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/timeutil"
)

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"s"},
	Short:   "Manage followed sources",
	Long:    "Follow, list, remove, and search content sources across providers",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <type> <locator>",
	Short: "Follow a new source",
	Long: `Follow a new content source. The locator depends on the type:

  article   site or feed URL (feeds are autodiscovered from HTML pages)
  reddit    subreddit name, with or without the r/ prefix
  bluesky   account handle, e.g. alice.bsky.social
  mastodon  account handle; use user@server or --server for the instance
  podcast   iTunes collection ID or direct feed URL`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := models.ParseSourceType(args[0])
		if err != nil {
			return err
		}
		locator := args[1]
		name, _ := cmd.Flags().GetString("name")
		weight, _ := cmd.Flags().GetFloat64("weight")
		server, _ := cmd.Flags().GetString("server")

		src := models.NewSource(typ, name)

		switch typ {
		case models.SourceTypeArticle:
			feed, err := discover.Discover(cmd.Context(), locator)
			if err != nil {
				return fmt.Errorf("no feed found at %s: %w", locator, err)
			}
			src.FeedURL = &feed.URL
			if name == "" {
				name = feed.Title
			}
			if name == "" {
				name = feed.URL
			}

		case models.SourceTypePodcast:
			if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
				u := locator
				src.FeedURL = &u
			} else {
				h := locator
				src.Handle = &h
			}
			if name == "" {
				name = locator
			}

		case models.SourceTypeReddit:
			h := strings.TrimPrefix(locator, "r/")
			src.Handle = &h
			if name == "" {
				name = "r/" + h
			}

		case models.SourceTypeBluesky:
			h := strings.TrimPrefix(locator, "@")
			src.Handle = &h
			if name == "" {
				name = h
			}

		case models.SourceTypeMastodon:
			h := strings.TrimPrefix(locator, "@")
			// user@server form carries the instance
			if at := strings.Index(h, "@"); at >= 0 {
				if server == "" {
					server = h[at+1:]
				}
				h = h[:at]
			}
			src.Handle = &h
			if server != "" {
				src.Server = &server
			}
			if name == "" {
				name = "@" + h
			}
		}

		src.Name = name
		if err := src.SetWeight(weight); err != nil {
			return err
		}
		if err := src.Validate(); err != nil {
			return err
		}

		// Reject duplicates before writing
		if lookup := src.Locator(); lookup != "" {
			if existing, err := store.GetSourceByLocator(typ, lookup); err == nil && existing != nil {
				return fmt.Errorf("source already exists: %s", existing.Name)
			}
		}

		if err := store.CreateSource(src); err != nil {
			return fmt.Errorf("failed to create source: %w", err)
		}
		manager.Invalidate()

		fmt.Printf("Following %s source: %s\n", typ, src.Name)
		fmt.Printf("Source ID: %s\n", src.ID)
		return nil
	},
}

var sourceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List followed sources",
	Long:    "List all followed sources with item counts and fetch state",
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := store.ListSources()
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		if len(srcs) == 0 {
			fmt.Println("No sources found. Follow one with 'hagda source add <type> <locator>'")
			return nil
		}

		statsBySource := make(map[string]statsLine)
		if rows, err := store.GetSourceStats(); err == nil {
			for _, row := range rows {
				statsBySource[row.SourceID] = statsLine{items: row.ItemCount, unread: row.UnreadCount}
			}
		}

		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("Following %d source(s):\n\n", len(srcs))
		for _, src := range srcs {
			line := fmt.Sprintf("%s %s %s", faint(shortID(src.ID)), src.Name, cyan("["+string(src.Type)+"]"))
			if src.Weight != 1.0 {
				line += faint(fmt.Sprintf(" weight %.2g", src.Weight))
			}
			fmt.Println(line)
			fmt.Printf("  %s\n", src.Locator())

			stats := statsBySource[src.ID]
			meta := fmt.Sprintf("%d items, %d unread", stats.items, stats.unread)
			if src.LastFetchedAt != nil {
				meta += " · fetched " + timeutil.Relative(*src.LastFetchedAt, time.Now())
			}
			fmt.Printf("  %s\n", faint(meta))
			if src.LastError != nil && *src.LastError != "" {
				fmt.Printf("  %s %s\n", red("x"), *src.LastError)
			}
			fmt.Println()
		}

		return nil
	},
}

type statsLine struct {
	items  int
	unread int
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <ref>",
	Short: "Unfollow a source",
	Long:  "Unfollow a source by ID, ID prefix, name, or locator; its items are removed too",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := store.FindSource(args[0])
		if err != nil {
			return fmt.Errorf("source not found: %s", args[0])
		}

		if err := store.DeleteSource(src.ID); err != nil {
			return fmt.Errorf("failed to remove source: %w", err)
		}
		manager.Invalidate()

		fmt.Printf("Unfollowed source: %s\n", src.Name)
		return nil
	},
}

var sourceWeightCmd = &cobra.Command{
	Use:   "weight <ref> <weight>",
	Short: "Set a source's preference weight",
	Long:  "Set a source's preference weight between 0 (exclusive) and 1; heavier sources rank higher in trending",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := store.FindSource(args[0])
		if err != nil {
			return fmt.Errorf("source not found: %s", args[0])
		}

		w, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", args[1])
		}
		if err := src.SetWeight(w); err != nil {
			return err
		}

		if err := store.UpdateSource(src); err != nil {
			return fmt.Errorf("failed to update source: %w", err)
		}
		manager.Invalidate()

		fmt.Printf("Set weight %.2g for %s\n", w, src.Name)
		return nil
	},
}

var sourceSearchCmd = &cobra.Command{
	Use:   "search <type> <query>",
	Short: "Search provider directories for sources",
	Long:  "Search the provider directory for followable sources (podcast, reddit, and bluesky only)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := models.ParseSourceType(args[0])
		if err != nil {
			return err
		}
		query := strings.Join(args[1:], " ")
		limit, _ := cmd.Flags().GetInt("limit")

		searcher := discover.NewSearcher()
		results, err := searcher.Search(cmd.Context(), typ, query, limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()

		for _, r := range results {
			fmt.Printf("%s %s\n", r.Name, faint("("+r.Handle+")"))
			if r.Description != "" {
				fmt.Printf("  %s\n", r.Description)
			}
			if r.FeedURL != "" {
				fmt.Printf("  %s\n", faint(r.FeedURL))
			}
			fmt.Println()
		}

		fmt.Printf("Follow one with 'hagda source add %s <locator>'\n", typ)
		return nil
	},
}

// shortID returns the first 8 characters of an ID for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceWeightCmd)
	sourceCmd.AddCommand(sourceSearchCmd)

	sourceAddCmd.Flags().StringP("name", "n", "", "display name (defaults per type)")
	sourceAddCmd.Flags().Float64P("weight", "w", 1.0, "preference weight in (0, 1]")
	sourceAddCmd.Flags().String("server", "", "mastodon instance (defaults to config)")
	sourceSearchCmd.Flags().IntP("limit", "n", 10, "max results to show")
}
