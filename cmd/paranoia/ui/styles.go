// Package ui holds the terminal styling and the small interactive pieces of
// the paranoia CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")

	lightForeground = lipgloss.Color("#101F38")
	lightMuted      = lipgloss.Color("#6b7280")
	lightAccent     = lipgloss.Color("#101F38")

	darkForeground = lipgloss.Color("#f2f2f2")
	darkMuted      = lipgloss.Color("#9aa5b8")
	darkAccent     = lipgloss.Color("#8BC34A")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{Foreground: lightForeground, Muted: lightMuted, Accent: lightAccent}
}

func DarkTheme() Theme {
	return Theme{Foreground: darkForeground, Muted: darkMuted, Accent: darkAccent, IsDark: true}
}

// DetectTheme picks the dark theme when COLORFGBG reports a dark background
// or PARANOIA_DARK_MODE=1.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && (bg <= 6 || bg == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("PARANOIA_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style
	Prompt lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderError formats a fatal error the way every command reports it.
func (s Styles) RenderError(err error) string {
	return s.Error.Render("Error: "+err.Error()) + "\n" + s.Error.Render("Aborting!")
}
