package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/alexanderramin/whittle/internal/domain"
)

const markdownWidth = 100

// terminalDisplay prints session progress. On a terminal it renders replies
// as markdown and animates a spinner during model calls.
type terminalDisplay struct {
	out      io.Writer
	markdown *formatter.MarkdownRenderer
	spinner  bool
}

func newTerminalDisplay(out io.Writer, interactive bool) *terminalDisplay {
	d := &terminalDisplay{out: out, spinner: interactive}
	if interactive {
		if r, err := formatter.NewMarkdownRenderer("auto", markdownWidth); err == nil {
			d.markdown = r
		}
	}
	return d
}

func (d *terminalDisplay) Welcome(solverName string) {
	fmt.Fprintln(d.out, formatter.FormatWelcome(solverName))
}

func (d *terminalDisplay) Reply(text string) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.markdown.Render(text))
}

func (d *terminalDisplay) Reminder(missing []string, met, total int) {
	fmt.Fprintln(d.out, formatter.FormatReminder(missing, met, total))
}

func (d *terminalDisplay) Missing(title string, missing []string) {
	fmt.Fprintln(d.out, formatter.FormatMissing(title, missing))
}

func (d *terminalDisplay) Info(message string) {
	fmt.Fprintln(d.out, formatter.StyleBlue.Render(message))
}

func (d *terminalDisplay) Error(err error) {
	fmt.Fprintln(d.out, formatter.StyleRed.Render("Error: "+err.Error()))
}

func (d *terminalDisplay) Busy(message string, fn func() error) error {
	if !d.spinner {
		return fn()
	}
	return formatter.RunWithSpinner(d.out, message, fn)
}

func (d *terminalDisplay) NextSteps() {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, formatter.FormatNextSteps())
}

// DictionaryWritten confirms each file as it lands on disk.
func (d *terminalDisplay) DictionaryWritten(name string, category domain.DictionaryType, path string) {
	fmt.Fprintln(d.out, formatter.FormatWritten(name, category, path))
}
