// ABOUTME: List command for browsing stored items with filtering options
// ABOUTME: Displays items with read status, title, source, and relative age using color formatting

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List stored items",
	Long: `List stored items with optional filtering by source, type, read
status, and publication period. --search runs a full-text query instead
and cannot be combined with the other filters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceRef, _ := cmd.Flags().GetString("source")
		typeFilter, _ := cmd.Flags().GetString("type")
		unread, _ := cmd.Flags().GetBool("unread")
		since, _ := cmd.Flags().GetString("since")
		query, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		var items []*models.ContentItem
		var err error

		if query != "" {
			items, err = store.Search(query, limit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
		} else {
			filter := &storage.ItemFilter{
				Limit:  &limit,
				Offset: &offset,
			}

			if unread {
				unreadOnly := true
				filter.UnreadOnly = &unreadOnly
			}

			if sourceRef != "" {
				src, err := store.FindSource(sourceRef)
				if err != nil {
					return fmt.Errorf("source not found: %s", sourceRef)
				}
				filter.SourceID = &src.ID
			}

			if typeFilter != "" {
				typ, err := models.ParseSourceType(typeFilter)
				if err != nil {
					return err
				}
				filter.Types = []models.SourceType{typ}
			}

			if since != "" {
				cutoff, ok := timeutil.ParsePeriod(since)
				if !ok {
					return fmt.Errorf("invalid period %q: use today, yesterday, week, month, or a duration like 6h or 7d", since)
				}
				filter.Since = &cutoff
			}

			items, err = store.ListItems(filter)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}
		}

		if len(items) == 0 {
			fmt.Println("No items found")
			return nil
		}

		sourceNames := make(map[string]string)
		if srcs, err := store.ListSources(); err == nil {
			for _, src := range srcs {
				sourceNames[src.ID] = src.Name
			}
		}

		faint := color.New(color.Faint).SprintFunc()
		now := time.Now()

		for _, item := range items {
			fmt.Print(faint(shortID(item.ID)))
			fmt.Print(" ")

			if item.Read {
				fmt.Print("✓ ")
			} else {
				fmt.Print("  ")
			}

			title := item.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Print(title)

			meta := sourceNames[item.SourceID]
			if meta == "" {
				meta = string(item.Type)
			}
			if !item.Published.IsZero() {
				meta += " · " + timeutil.Relative(item.Published, now)
			}
			fmt.Print(" ")
			fmt.Print(faint(meta))

			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("source", "s", "", "filter by source ID, prefix, name, or locator")
	listCmd.Flags().StringP("type", "t", "", "filter by source type (article, reddit, bluesky, mastodon, podcast)")
	listCmd.Flags().BoolP("unread", "u", false, "show only unread items")
	listCmd.Flags().String("since", "", "show items published since a period (today, week, 6h, 7d, ...)")
	listCmd.Flags().StringP("search", "q", "", "full-text search query")
	listCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max items to show")
	listCmd.Flags().IntP("offset", "o", 0, "number of items to skip (for pagination)")

	listCmd.MarkFlagsMutuallyExclusive("search", "source")
	listCmd.MarkFlagsMutuallyExclusive("search", "type")
	listCmd.MarkFlagsMutuallyExclusive("search", "unread")
	listCmd.MarkFlagsMutuallyExclusive("search", "since")
}
