package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	title    lipgloss.Style
	header   lipgloss.Style
	divider  lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	shortcut lipgloss.Style
	hint     lipgloss.Style
	errText  lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	panel    lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	warn     lipgloss.Style
}

func newStyles() styles {
	return styles{
		app:      lipgloss.NewStyle().Padding(0, 1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		divider:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		item:     lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		shortcut: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		good:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
