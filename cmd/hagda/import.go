// ABOUTME: Import command for following feeds from an OPML file
// ABOUTME: Flattens outline folders and creates article sources, skipping known feed URLs

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/models"
	"github.com/hagda/hagda/internal/opml"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sources from an OPML file",
	Long: `Import feeds from an OPML file exported by another reader. Folder
nesting is flattened; every feed becomes an article source. Feeds
already followed are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := opml.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read OPML: %w", err)
		}

		if len(doc.Feeds) == 0 {
			fmt.Println("No feeds found in the OPML file")
			return nil
		}

		added := 0
		skipped := 0
		for _, feed := range doc.Feeds {
			if existing, err := store.GetSourceByLocator(models.SourceTypeArticle, feed.URL); err == nil && existing != nil {
				skipped++
				continue
			}

			name := feed.Title
			if name == "" {
				name = feed.URL
			}
			src := models.NewSource(models.SourceTypeArticle, name)
			u := feed.URL
			src.FeedURL = &u

			if err := store.CreateSource(src); err != nil {
				return fmt.Errorf("failed to create source for %s: %w", feed.URL, err)
			}
			added++
		}

		if added > 0 {
			manager.Invalidate()
		}

		fmt.Printf("Imported %d source(s)", added)
		if skipped > 0 {
			fmt.Printf(", skipped %d already followed", skipped)
		}
		fmt.Println()
		if added > 0 {
			fmt.Println("Run 'hagda fetch' to pull content.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
