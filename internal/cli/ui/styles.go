package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold   lipgloss.Style
	Title  lipgloss.Style
	Key    lipgloss.Style
	Muted  lipgloss.Style
	KinBox lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")). // Cyan
		Bold(true),

	Key: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	KinBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1),
}
