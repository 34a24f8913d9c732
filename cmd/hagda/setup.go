// ABOUTME: Cobra command for interactive first-run configuration.
// ABOUTME: Launches a bubbletea TUI wizard to pick the data directory and seed starter sources.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hagda/hagda/internal/config"
	"github.com/hagda/hagda/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure hagda interactively",
	Long:  "Interactive wizard to pick the data directory and follow a starter pack of sources.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(loaded.DataDir)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	dataDir, picks := final.Result()
	loaded.DataDir = dataDir

	if err := loaded.SaveTo(cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Config saved to %s\n", configDisplayPath())

	if len(picks) == 0 {
		fmt.Println("No starter sources selected. Follow one with 'hagda source add <type> <locator>'.")
		return nil
	}

	st, err := loaded.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	seeded := 0
	for _, pick := range picks {
		src := pick.ToSource()
		if existing, err := st.GetSourceByLocator(src.Type, src.Locator()); err == nil && existing != nil {
			continue
		}
		if err := st.CreateSource(src); err != nil {
			return fmt.Errorf("failed to seed source %q: %w", src.Name, err)
		}
		seeded++
	}

	fmt.Printf("Following %d starter source(s). Run 'hagda fetch' to pull content.\n", seeded)
	return nil
}

func configDisplayPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultConfigPath()
}
