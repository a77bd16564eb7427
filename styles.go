package main

import "github.com/charmbracelet/lipgloss"

// Unified color palette
var (
	primaryColor   = lipgloss.Color("109")
	accentColor    = lipgloss.Color("171")
	mutedColor     = lipgloss.Color("239")
	subtleColor    = lipgloss.Color("244")
	warningColor   = lipgloss.Color("179")
	dangerColor    = lipgloss.Color("167")
	successColor   = lipgloss.Color("65")
	highlightColor = lipgloss.Color("171")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	countStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	doneStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	overdueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	staleStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	priorityStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
