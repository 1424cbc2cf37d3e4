package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/gitpeek/internal/config"
)

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title        lipgloss.Style
	PanelTitle   lipgloss.Style
	FocusedTitle lipgloss.Style
	Divider      lipgloss.Style
	Selected     lipgloss.Style
	Current      lipgloss.Style
	Hash         lipgloss.Style
	Author       lipgloss.Style
	Muted        lipgloss.Style
	Added        lipgloss.Style
	Deleted      lipgloss.Style
	Modified     lipgloss.Style
	Error        lipgloss.Style
	Refreshing   lipgloss.Style
}

// NewStyles builds the styles for theme t.
func NewStyles(t config.Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title),
		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Muted).
			Bold(true),
		FocusedTitle: lipgloss.NewStyle().
			Foreground(t.Focused).
			Bold(true),
		Divider: lipgloss.NewStyle().
			Foreground(t.Border),
		Selected: lipgloss.NewStyle().
			Background(t.Selected).
			Foreground(lipgloss.Color("white")),
		Current: lipgloss.NewStyle().
			Foreground(t.Current).
			Bold(true),
		Hash:     lipgloss.NewStyle().Foreground(t.Hash),
		Author:   lipgloss.NewStyle().Foreground(t.Author),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Added:    lipgloss.NewStyle().Foreground(t.Added).Bold(true),
		Deleted:  lipgloss.NewStyle().Foreground(t.Deleted).Bold(true),
		Modified: lipgloss.NewStyle().Foreground(t.Modified).Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
		Refreshing: lipgloss.NewStyle().Foreground(t.Refreshing),
	}
}
