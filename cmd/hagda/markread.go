// ABOUTME: Mark-read command for marking items as read
// ABOUTME: Supports single item by ID or bulk operations by date

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/timeutil"
)

var markReadCmd = &cobra.Command{
	Use:   "mark-read [id]",
	Short: "Mark items as read",
	Long:  "Mark a single item as read by ID, or use --before to mark all items published before a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, _ := cmd.Flags().GetString("before")

		// Single item mode
		if len(args) == 1 {
			if before != "" {
				return fmt.Errorf("cannot use --before with an item ID")
			}

			item, err := store.FindItem(args[0])
			if err != nil {
				return fmt.Errorf("item not found: %s", args[0])
			}

			if item.Read {
				fmt.Println("Item is already marked as read")
				return nil
			}

			if err := store.MarkItemRead(item.ID); err != nil {
				return fmt.Errorf("failed to mark item as read: %w", err)
			}

			fmt.Printf("Marked as read: %s\n", item.Title)
			return nil
		}

		// Bulk mode requires --before
		if before == "" {
			return fmt.Errorf("provide an item ID or use --before for bulk marking")
		}

		cutoff, ok := timeutil.ParsePeriod(before)
		if !ok {
			// Try parsing as ISO date
			parsed, err := time.Parse("2006-01-02", before)
			if err != nil {
				return fmt.Errorf("invalid period %q: use yesterday, week, month, or YYYY-MM-DD", before)
			}
			cutoff = parsed
		}

		count, err := store.MarkItemsReadBefore(cutoff)
		if err != nil {
			return fmt.Errorf("failed to mark items as read: %w", err)
		}

		if count == 0 {
			fmt.Println("No items to mark as read")
		} else {
			fmt.Printf("Marked %d items as read\n", count)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(markReadCmd)

	markReadCmd.Flags().StringP("before", "b", "", "mark items published before: yesterday, week, month, or YYYY-MM-DD")
}
