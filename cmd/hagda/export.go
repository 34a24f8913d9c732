// ABOUTME: Export command for writing followed sources as OPML to stdout
// ABOUTME: Covers feed-backed sources (article, podcast) for backup or reader import

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/opml"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sources as OPML to stdout",
	Long: `Export feed-backed sources (articles and podcasts with a feed URL)
in OPML format. Handle-based sources have no feed URL and are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := store.ListSources()
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}

		doc := opml.FromSources("hagda sources", srcs)
		return doc.Write(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
