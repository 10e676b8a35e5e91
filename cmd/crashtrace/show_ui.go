package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ReportSelectorModel represents the bubbletea model for report selection
type ReportSelectorModel struct {
	reports  []reportFile
	cursor   int
	selected string
	quit     bool
}

// InitialModel creates the initial model for report selection
func InitialModel(reports []reportFile) ReportSelectorModel {
	return ReportSelectorModel{reports: reports}
}

// Init initializes the model
func (m ReportSelectorModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model
func (m ReportSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.reports)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.selected = m.reports[m.cursor].Path
			m.quit = true
			return m, tea.Quit
		}
	default:
		return m, nil
	}
	return m, nil
}

// View renders the interface
func (m ReportSelectorModel) View() string {
	if m.quit {
		return ""
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		Margin(1, 0).
		Bold(true)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true).
		Margin(1, 0, 0, 0)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#F25D94")).
		Padding(0, 1).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Padding(0, 1)

	descriptionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Padding(0, 1, 0, 3).
		Italic(true)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Margin(1, 0, 0, 0)

	// Build the view
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("💥 Crash Reports"))
	s.WriteString("\n")

	// Header
	s.WriteString(headerStyle.Render("Select a report to view:"))
	s.WriteString("\n\n")

	// Report list
	for i, r := range m.reports {
		cursor := "  " // not selected
		if m.cursor == i {
			cursor = "▶ " // selected
		}

		reportLine := fmt.Sprintf("%s%s", cursor, r.Name)
		if m.cursor == i {
			s.WriteString(selectedStyle.Render(reportLine))
		} else {
			s.WriteString(normalStyle.Render(reportLine))
		}

		s.WriteString("\n")

		// Show details for selected item
		if m.cursor == i {
			s.WriteString(descriptionStyle.Render(fmt.Sprintf("%s, %s", humanize.Time(r.ModTime), humanize.Bytes(uint64(r.Size)))))
			s.WriteString("\n")
		}
	}

	// Footer
	s.WriteString("\n")
	s.WriteString(footerStyle.Render("Use ↑/↓ or j/k to navigate • Enter/Space to select • q/Ctrl+C/Esc to quit"))

	return s.String()
}

// RunReportSelector runs the interactive report selector and returns the selected report path
func RunReportSelector(reports []reportFile) (string, error) {
	p := tea.NewProgram(InitialModel(reports))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running report selector: %w", err)
	}

	m := finalModel.(ReportSelectorModel)
	if m.selected == "" {
		return "", fmt.Errorf("no report selected")
	}

	return m.selected, nil
}
