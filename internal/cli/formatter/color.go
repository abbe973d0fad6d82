package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SessionPill returns a colored status indicator for an active session.
func SessionPill(status domain.SessionStatus) string {
	switch status {
	case domain.SessionRunning:
		return StyleGreen.Render("● Running")
	case domain.SessionPaused:
		return StyleYellow.Render("○ Paused")
	default:
		return StyleDim.Render(string(status))
	}
}

// KindBadge returns a colored label for the execution kind.
func KindBadge(kind domain.ExecutionKind) string {
	switch kind {
	case domain.KindHabit:
		return StylePurple.Render("Habit")
	case domain.KindTask:
		return StyleBlue.Render("Task")
	default:
		return StyleDim.Render(string(kind))
	}
}

// DeviceBadge returns the device label, dimmed.
func DeviceBadge(d domain.DeviceType) string {
	if d == "" {
		return StyleDim.Render("--")
	}
	return StyleDim.Render(string(d))
}

// CompletionMark returns a check or empty circle for a day's completion.
func CompletionMark(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

// Streak renders a streak count with a flame, dimmed at zero.
func Streak(n int) string {
	if n <= 0 {
		return StyleDim.Render("—")
	}
	return StyleYellow.Render(fmt.Sprintf("🔥 %d", n))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
