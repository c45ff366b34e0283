// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Semantic styles for console status lines. Extraction mirrors the
// classic green/yellow/red progress coloring: green for work being done,
// yellow for skips, red for warnings.
var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	Bold    = lipgloss.NewStyle().Bold(true)
)
