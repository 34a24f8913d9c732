// ABOUTME: Read command for viewing item content in the terminal
// ABOUTME: Displays full item details with markdown rendering and marks as read

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/content"
	"github.com/hagda/hagda/internal/models"
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Read an item",
	Long:  "Display the full content of an item and mark it as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noMark, _ := cmd.Flags().GetBool("no-mark")

		item, err := store.FindItem(args[0])
		if err != nil {
			return fmt.Errorf("item not found: %s", args[0])
		}

		src, err := store.GetSource(item.SourceID)
		if err != nil {
			return fmt.Errorf("failed to get source: %w", err)
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println(strings.Repeat("─", 60))

		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("%s\n", bold(title))
		if item.Subtitle != nil && *item.Subtitle != "" {
			fmt.Printf("%s\n", *item.Subtitle)
		}
		fmt.Println()

		fmt.Printf("%s %s %s\n", faint("Source:"), src.Name, faint("["+string(src.Type)+"]"))

		if item.Author != nil && *item.Author != "" {
			fmt.Printf("%s %s\n", faint("Author:"), *item.Author)
		}

		if !item.Published.IsZero() {
			fmt.Printf("%s %s\n", faint("Published:"), item.Published.Format("Mon, 02 Jan 2006 15:04 MST"))
		}

		if item.Link != nil && *item.Link != "" {
			fmt.Printf("%s %s\n", faint("Link:"), cyan(*item.Link))
		}

		if line := engagementLine(item.Engagement); line != "" {
			fmt.Printf("%s %s\n", faint("Engagement:"), line)
		}

		if item.Progress != nil {
			fmt.Printf("%s %.0f%%\n", faint("Progress:"), *item.Progress*100)
		}

		fmt.Println(strings.Repeat("─", 60))

		if item.Content != nil && *item.Content != "" {
			markdown := content.ToMarkdown(*item.Content)

			rendered, err := glamour.Render(markdown, "dark")
			if err != nil {
				// Fall back to plain markdown if rendering fails
				fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
				fmt.Printf("\n%s\n", markdown)
			} else {
				fmt.Print(rendered)
			}
		} else {
			fmt.Println("\n(No content available)")
		}

		fmt.Println()

		if !noMark && !item.Read {
			if err := store.MarkItemRead(item.ID); err != nil {
				return fmt.Errorf("failed to mark item as read: %w", err)
			}
			fmt.Printf("%s\n", faint("Marked as read"))
		}

		return nil
	},
}

// engagementLine formats the provider counters that are actually set.
func engagementLine(e *models.Engagement) string {
	if e == nil {
		return ""
	}
	var parts []string
	if e.Upvotes > 0 {
		parts = append(parts, fmt.Sprintf("%d upvotes", e.Upvotes))
	}
	if e.Likes > 0 {
		parts = append(parts, fmt.Sprintf("%d likes", e.Likes))
	}
	if e.Reposts > 0 {
		parts = append(parts, fmt.Sprintf("%d reposts", e.Reposts))
	}
	if e.Replies > 0 {
		parts = append(parts, fmt.Sprintf("%d replies", e.Replies))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().Bool("no-mark", false, "don't mark the item as read")
}
