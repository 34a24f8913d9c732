// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure and initializes config, storage, and the trending manager

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/fetch"
	"github.com/hagda/hagda/internal/sources"
	"github.com/hagda/hagda/internal/storage"
	"github.com/hagda/hagda/internal/trending"
)

var (
	cfgPath  string
	cfg      *config.Config
	store    storage.Store
	registry *sources.Registry
	manager  *trending.Manager
)

var rootCmd = &cobra.Command{
	Use:   "hagda",
	Short: "Personal content aggregator with a trending engine",
	Long: `
██╗  ██╗ █████╗  ██████╗ ██████╗  █████╗
██║  ██║██╔══██╗██╔════╝ ██╔══██╗██╔══██╗
███████║███████║██║  ███╗██║  ██║███████║
██╔══██║██╔══██║██║   ██║██║  ██║██╔══██║
██║  ██║██║  ██║╚██████╔╝██████╔╝██║  ██║
╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═╝

Follow subreddits, Bluesky and Mastodon accounts, blogs, and podcasts
from one place. Rank what is trending across all of them, read it in
the terminal, and expose everything to AI agents over MCP or HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsRuntime(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fetch.SetTimeout(cfg.GetHTTPTimeout())

		store, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		registry = sources.NewRegistry(sources.Options{
			DefaultCommunity: cfg.Community(),
			DefaultServer:    cfg.Server(),
		})
		manager = trending.NewManager(registry, trending.Options{
			TTL:       cfg.TrendingTTL(),
			Limit:     cfg.TrendingLimit(),
			PerSource: cfg.TrendingPerSource(),
		})

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close storage: %w", err)
			}
		}
		return nil
	},
}

// skipsRuntime reports whether a command runs without config and storage.
// setup must work before any config exists; version and help touch nothing.
func skipsRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "setup", "version", "help", "completion":
		return true
	}
	return false
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: ~/.config/hagda/config.yaml)")
}
