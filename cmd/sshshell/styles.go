package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")) // Pink

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	checkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")) // Green
)
