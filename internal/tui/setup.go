// ABOUTME: Interactive TUI wizard for first-run configuration.
// ABOUTME: 2-step bubbletea model collecting the data directory and a starter source pack.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hagda/hagda/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepDataDir Step = iota
	StepStarters
	StepDone
)

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	dataDir  textinput.Model
	cursor   int
	selected map[int]bool
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// defaultDataDir returns the default XDG data directory, matching what the
// config layer falls back to when data_dir is unset.
func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, "hagda")
}

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(dataDir string) SetupModel {
	input := textinput.New()
	input.Placeholder = defaultDataDir()
	input.Focus()
	input.Width = 50
	if dataDir != "" {
		input.SetValue(dataDir)
	}

	return SetupModel{
		step:     StepDataDir,
		dataDir:  input,
		selected: make(map[int]bool),
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		switch m.step {
		case StepDataDir:
			return m.updateDataDir(msg)
		case StepStarters:
			return m.updateStarters(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the input
		if m.step == StepDataDir {
			var cmd tea.Cmd
			m.dataDir, cmd = m.dataDir.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateDataDir(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if strings.TrimSpace(m.dataDir.Value()) == "" {
			m.dataDir.SetValue(defaultDataDir())
		}
		m.dataDir.Blur()
		m.step = StepStarters
		return m, nil
	}

	var cmd tea.Cmd
	m.dataDir, cmd = m.dataDir.Update(msg)
	return m, cmd
}

func (m SetupModel) updateStarters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(config.StarterSources)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := true
		for i := range config.StarterSources {
			if !m.selected[i] {
				all = false
				break
			}
		}
		for i := range config.StarterSources {
			m.selected[i] = !all
		}
	case "enter":
		m.step = StepDone
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   HAGDA"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure where hagda keeps its data and pick some starting sources.\n\n")

	switch m.step {
	case StepDataDir:
		b.WriteString(stepStyle.Render("Step 1 of 2: Data Directory"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", defaultDataDir())))
		b.WriteString("\n")
		b.WriteString(m.dataDir.View())
		b.WriteString("\n")

	case StepStarters:
		b.WriteString(fmt.Sprintf("  Data directory: %s\n\n", m.dataDir.Value()))
		b.WriteString(stepStyle.Render("Step 2 of 2: Starter Sources"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(space toggles, a toggles all, Enter confirms)"))
		b.WriteString("\n\n")

		for i, starter := range config.StarterSources {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			check := "[ ]"
			if m.selected[i] {
				check = checkedStyle.Render("[x]")
			}
			line := fmt.Sprintf("%s%s %s %s %s\n",
				cursor, check, starter.Name,
				typeStyle.Render("("+string(starter.Type)+")"),
				typeStyle.Render(starter.Description))
			b.WriteString(line)
		}
		b.WriteString(fmt.Sprintf("\n  %d selected\n", len(m.Picks())))

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Data directory:  %s\n", m.dataDir.Value()))
		b.WriteString(fmt.Sprintf("  Starter sources: %d selected\n", len(m.Picks())))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered data directory and the chosen starter sources.
func (m SetupModel) Result() (string, []config.StarterSource) {
	return m.dataDir.Value(), m.Picks()
}

// Picks returns the selected starter sources in list order.
func (m SetupModel) Picks() []config.StarterSource {
	var picks []config.StarterSource
	for i, starter := range config.StarterSources {
		if m.selected[i] {
			picks = append(picks, starter)
		}
	}
	return picks
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
