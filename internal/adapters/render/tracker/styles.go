package tracker

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	position lipgloss.Style
	item     lipgloss.Style
	progress lipgloss.Style
	link     lipgloss.Style
	meta     lipgloss.Style
	control  lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		position: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		item:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		progress: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		link:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		control:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
