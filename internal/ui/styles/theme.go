// Package styles holds the color theme of the lyrics player.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Karaoke gradient, from the start of the sung text to its end
	Primary   lipgloss.Color // Purple
	Secondary lipgloss.Color // Gold

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color // Current line
	FgMuted  lipgloss.Color // Ruby, translations
	FgSubtle lipgloss.Color // Other lines, footer

	Border lipgloss.Color

	Error   lipgloss.Color // Red - errors, unsynced
	Warning lipgloss.Color // Orange - offsets

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base        lipgloss.Style // Default text
	Muted       lipgloss.Style // Dimmed text
	Subtle      lipgloss.Style // Very dim text
	Title       lipgloss.Style // Bold, bright
	Playing     lipgloss.Style // Playback indicator
	Ruby        lipgloss.Style
	Translation lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border: lipgloss.Color("#585858"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	muted := lipgloss.NewStyle().Foreground(t.FgMuted)

	return &Styles{
		Base:   base,
		Muted:  muted,
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Ruby:        muted,
		Translation: muted.Italic(true),
		Error:       lipgloss.NewStyle().Foreground(t.Error),
		Warning:     lipgloss.NewStyle().Foreground(t.Warning),
	}
}
