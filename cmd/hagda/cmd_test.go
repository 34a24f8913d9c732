// ABOUTME: Tests for CLI commands
// ABOUTME: Tests command structure, flags, and subcommands

package main

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "hagda" {
		t.Errorf("expected Use to be 'hagda', got %q", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected root command to have a short description")
	}
}

func TestSourceCommand(t *testing.T) {
	if sourceCmd.Use != "source" {
		t.Errorf("expected Use to be 'source', got %q", sourceCmd.Use)
	}
	if len(sourceCmd.Aliases) == 0 {
		t.Error("expected source command to have aliases")
	}
}

func TestSourceAddCommand(t *testing.T) {
	if sourceAddCmd.Use != "add <type> <locator>" {
		t.Errorf("expected Use to be 'add <type> <locator>', got %q", sourceAddCmd.Use)
	}

	// Check flags exist
	if sourceAddCmd.Flags().Lookup("name") == nil {
		t.Error("expected --name flag to exist")
	}
	if sourceAddCmd.Flags().Lookup("weight") == nil {
		t.Error("expected --weight flag to exist")
	}
	if sourceAddCmd.Flags().Lookup("server") == nil {
		t.Error("expected --server flag to exist")
	}
}

func TestSourceListCommand(t *testing.T) {
	if sourceListCmd.Use != "list" {
		t.Errorf("expected Use to be 'list', got %q", sourceListCmd.Use)
	}
	if len(sourceListCmd.Aliases) == 0 {
		t.Error("expected source list command to have aliases")
	}
}

func TestSourceRemoveCommand(t *testing.T) {
	if sourceRemoveCmd.Use != "remove <ref>" {
		t.Errorf("expected Use to be 'remove <ref>', got %q", sourceRemoveCmd.Use)
	}
}

func TestSourceWeightCommand(t *testing.T) {
	if sourceWeightCmd.Use != "weight <ref> <weight>" {
		t.Errorf("expected Use to be 'weight <ref> <weight>', got %q", sourceWeightCmd.Use)
	}
}

func TestSourceSearchCommand(t *testing.T) {
	if sourceSearchCmd.Use != "search <type> <query>" {
		t.Errorf("expected Use to be 'search <type> <query>', got %q", sourceSearchCmd.Use)
	}

	if sourceSearchCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
}

func TestListCommand(t *testing.T) {
	if listCmd.Use != "list" {
		t.Errorf("expected Use to be 'list', got %q", listCmd.Use)
	}
	if len(listCmd.Aliases) == 0 {
		t.Error("expected list command to have aliases")
	}

	// Check flags exist
	if listCmd.Flags().Lookup("source") == nil {
		t.Error("expected --source flag to exist")
	}
	if listCmd.Flags().Lookup("type") == nil {
		t.Error("expected --type flag to exist")
	}
	if listCmd.Flags().Lookup("unread") == nil {
		t.Error("expected --unread flag to exist")
	}
	if listCmd.Flags().Lookup("since") == nil {
		t.Error("expected --since flag to exist")
	}
	if listCmd.Flags().Lookup("search") == nil {
		t.Error("expected --search flag to exist")
	}
	if listCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
	if listCmd.Flags().Lookup("offset") == nil {
		t.Error("expected --offset flag to exist")
	}
}

func TestReadCommand(t *testing.T) {
	if readCmd.Use != "read <id>" {
		t.Errorf("expected Use to be 'read <id>', got %q", readCmd.Use)
	}

	// Check flags exist
	if readCmd.Flags().Lookup("no-mark") == nil {
		t.Error("expected --no-mark flag to exist")
	}
}

func TestOpenCommand(t *testing.T) {
	if openCmd.Use != "open <id>" {
		t.Errorf("expected Use to be 'open <id>', got %q", openCmd.Use)
	}
}

func TestMarkReadCommand(t *testing.T) {
	if markReadCmd.Use != "mark-read [id]" {
		t.Errorf("expected Use to be 'mark-read [id]', got %q", markReadCmd.Use)
	}

	// Check flags exist
	if markReadCmd.Flags().Lookup("before") == nil {
		t.Error("expected --before flag to exist")
	}
}

func TestMarkUnreadCommand(t *testing.T) {
	if markUnreadCmd.Use != "mark-unread <id>" {
		t.Errorf("expected Use to be 'mark-unread <id>', got %q", markUnreadCmd.Use)
	}
}

func TestProgressCommand(t *testing.T) {
	if progressCmd.Use != "progress <id> <fraction>" {
		t.Errorf("expected Use to be 'progress <id> <fraction>', got %q", progressCmd.Use)
	}
}

func TestFetchCommand(t *testing.T) {
	if fetchCmd.Use != "fetch [ref]" {
		t.Errorf("expected Use to be 'fetch [ref]', got %q", fetchCmd.Use)
	}

	// Check flags exist
	if fetchCmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag to exist")
	}
	if fetchCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
}

func TestTrendingCommand(t *testing.T) {
	if trendingCmd.Use != "trending" {
		t.Errorf("expected Use to be 'trending', got %q", trendingCmd.Use)
	}
	if len(trendingCmd.Aliases) == 0 {
		t.Error("expected trending command to have aliases")
	}

	if trendingCmd.Flags().Lookup("refresh") == nil {
		t.Error("expected --refresh flag to exist")
	}
	if trendingCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
}

func TestBriefCommand(t *testing.T) {
	if briefCmd.Use != "brief" {
		t.Errorf("expected Use to be 'brief', got %q", briefCmd.Use)
	}

	if briefCmd.Flags().Lookup("size") == nil {
		t.Error("expected --size flag to exist")
	}
	if briefCmd.Flags().Lookup("window") == nil {
		t.Error("expected --window flag to exist")
	}
	if briefCmd.Flags().Lookup("raw") == nil {
		t.Error("expected --raw flag to exist")
	}
}

func TestServeCommand(t *testing.T) {
	if serveCmd.Use != "serve" {
		t.Errorf("expected Use to be 'serve', got %q", serveCmd.Use)
	}

	if serveCmd.Flags().Lookup("addr") == nil {
		t.Error("expected --addr flag to exist")
	}
	if serveCmd.Flags().Lookup("api-key") == nil {
		t.Error("expected --api-key flag to exist")
	}
}

func TestImportCommand(t *testing.T) {
	if importCmd.Use != "import <file>" {
		t.Errorf("expected Use to be 'import <file>', got %q", importCmd.Use)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config flag to exist")
	}
}

func TestCommandRegistration(t *testing.T) {
	// Check that subcommands are registered
	commands := rootCmd.Commands()

	commandNames := make(map[string]bool)
	for _, cmd := range commands {
		commandNames[cmd.Name()] = true
	}

	expectedCommands := []string{
		"source",
		"fetch",
		"list",
		"read",
		"open",
		"mark-read",
		"mark-unread",
		"progress",
		"trending",
		"brief",
		"export",
		"import",
		"serve",
		"mcp",
		"setup",
		"version",
	}

	for _, expected := range expectedCommands {
		if !commandNames[expected] {
			t.Errorf("expected command %q to be registered", expected)
		}
	}
}

func TestSourceSubcommands(t *testing.T) {
	commands := sourceCmd.Commands()

	commandNames := make(map[string]bool)
	for _, cmd := range commands {
		commandNames[cmd.Name()] = true
	}

	expectedCommands := []string{
		"add",
		"list",
		"remove",
		"weight",
		"search",
	}

	for _, expected := range expectedCommands {
		if !commandNames[expected] {
			t.Errorf("expected source subcommand %q to be registered", expected)
		}
	}
}
