package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	errorBox lipgloss.Style
	warnBox  lipgloss.Style
	panel    lipgloss.Style
	healthy  lipgloss.Style
	unhealth lipgloss.Style
	unknown  lipgloss.Style
}

func defaultStyles() styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15"))
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:    lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("245")),
		value:    lipgloss.NewStyle().Bold(true),
		errorBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("160")).Padding(0, 1),
		warnBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("178")).Padding(0, 1),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		healthy:  badge.Background(lipgloss.Color("28")),
		unhealth: badge.Background(lipgloss.Color("160")),
		unknown:  badge.Background(lipgloss.Color("240")),
	}
}
