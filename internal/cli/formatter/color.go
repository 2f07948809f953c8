package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/whittle/internal/domain"
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

// CategoryStyle colors a dictionary by the case directory it lands in.
func CategoryStyle(category domain.DictionaryType) lipgloss.Style {
	switch category {
	case domain.DictSystem:
		return StyleBlue
	case domain.DictInitialCondition:
		return StylePurple
	case domain.DictConstant:
		return StyleYellow
	default:
		return StyleDim
	}
}

// OutcomePill returns a colored indicator for a journaled session outcome.
func OutcomePill(outcome domain.SessionOutcome) string {
	switch outcome {
	case domain.OutcomeMeshed:
		return StyleGreen.Render("● Meshed")
	case domain.OutcomeCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.OutcomeFailed:
		return StyleRed.Render("✖ Failed")
	case domain.OutcomeRunning:
		return StyleYellow.Render("○ Unfinished")
	default:
		return StyleDim.Render(string(outcome))
	}
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
