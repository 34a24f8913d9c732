// ABOUTME: Mark-unread command for marking items as unread
// ABOUTME: Supports marking a single item as unread by ID

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var markUnreadCmd = &cobra.Command{
	Use:   "mark-unread <id>",
	Short: "Mark an item as unread",
	Long:  "Mark a single item as unread by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := store.FindItem(args[0])
		if err != nil {
			return fmt.Errorf("item not found: %s", args[0])
		}

		if !item.Read {
			fmt.Println("Item is already marked as unread")
			return nil
		}

		if err := store.MarkItemUnread(item.ID); err != nil {
			return fmt.Errorf("failed to mark item as unread: %w", err)
		}

		fmt.Printf("Marked as unread: %s\n", item.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markUnreadCmd)
}
