// ABOUTME: Open command for launching item links in the browser
// ABOUTME: Opens the item's link and marks the item as read

package main

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open item link in browser and mark as read",
	Long:  "Open an item's link in your default browser and mark the item as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := store.FindItem(args[0])
		if err != nil {
			return fmt.Errorf("item not found: %s", args[0])
		}

		if item.Link == nil || *item.Link == "" {
			return fmt.Errorf("item has no link")
		}

		// Validate URL format and scheme for security
		parsedURL, err := url.Parse(*item.Link)
		if err != nil {
			return fmt.Errorf("item has malformed link: %w", err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("item link must be http or https, got: %s", parsedURL.Scheme)
		}

		if err := openBrowser(parsedURL.String()); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}

		if !item.Read {
			if err := store.MarkItemRead(item.ID); err != nil {
				return fmt.Errorf("failed to mark item as read: %w", err)
			}
		}

		fmt.Printf("v Opened and marked as read: %s\n", item.Title)

		return nil
	},
}

// openBrowser opens a URL in the default browser for the current platform
func openBrowser(urlStr string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", urlStr)
	case "linux":
		cmd = exec.Command("xdg-open", urlStr)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", urlStr)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	// Reap the process asynchronously to prevent zombie processes
	go cmd.Wait()

	return nil
}

func init() {
	rootCmd.AddCommand(openCmd)
}
