// Package ui provides the terminal styling for calmkit output.
package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors
var (
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Destructive = lipgloss.Color("#e53935") // Red
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue
	Muted       = lipgloss.Color("#8a94a6")
)

// Styles holds the styled components, bound to one output renderer.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates styles for w. Color is dropped when w is not a terminal.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(Muted),
		Success: r.NewStyle().Foreground(Success).Bold(true),
		Error:   r.NewStyle().Foreground(Destructive).Bold(true),
		Warning: r.NewStyle().Foreground(Warning).Bold(true),
		Info:    r.NewStyle().Foreground(Info),
		Divider: r.NewStyle().Foreground(Muted),
	}
}

// RenderDivider returns a horizontal rule of '=' characters.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("=", width))
}
