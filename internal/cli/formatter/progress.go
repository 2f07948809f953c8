package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 4/6.
// The bar is colored by completion: green >66%, yellow 33-66%, red <33%.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
