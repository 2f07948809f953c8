package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/whittle/internal/assistant"
	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const inputPrompt = "You: "

// lineInput reads plain lines, for pipes and dumb terminals.
type lineInput struct {
	in  io.Reader
	out io.Writer
}

func (l *lineInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.out != nil {
		fmt.Fprint(l.out, inputPrompt)
	}
	return readPromptLine(l.in)
}

// huhInput asks for each line with a themed huh text input.
type huhInput struct {
	theme *huh.Theme
}

func (h *huhInput) ReadLine(ctx context.Context) (string, error) {
	var line string
	field := huh.NewInput().
		Title("You").
		Placeholder("describe your case, or type run, generate or done").
		Value(&line)
	err := huh.NewForm(huh.NewGroup(field)).
		WithTheme(h.theme).
		WithShowHelp(false).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", io.EOF
	}
	return strings.TrimSpace(line), err
}

func newInput(in io.Reader, out io.Writer, interactive bool) assistant.Input {
	if interactive {
		return &huhInput{theme: whittleHuhTheme()}
	}
	return &lineInput{in: in, out: out}
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}

// whittleHuhTheme styles huh prompts with the formatter palette.
func whittleHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
