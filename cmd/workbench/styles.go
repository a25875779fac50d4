package main

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")). // bright blue
			Bold(true)

	styleLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // gray

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")). // bright yellow
			Bold(true)
)

func header(s string) string { return styleHeader.Render(s) }

func field(label, value string) string {
	return "  " + styleLabel.Render(label+": ") + styleValue.Render(value)
}
