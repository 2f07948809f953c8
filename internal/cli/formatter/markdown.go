package formatter

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns model replies into styled terminal output.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer builds a renderer. style is a glamour style name
// ("dark", "light", "notty") or "auto" to follow the terminal background.
func NewMarkdownRenderer(style string, width int) (*MarkdownRenderer, error) {
	styleOpt := glamour.WithStylePath(style)
	if style == "" || style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{renderer: r}, nil
}

// Render returns the styled text, or text unchanged if rendering fails.
func (m *MarkdownRenderer) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}
