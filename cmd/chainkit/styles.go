package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for CLI output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))            // magenta
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	// Chat prefixes.
	userPrefixStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	answerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	postBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("6"))

	errorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))
)
