package formatter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

func newSpinnerModel(message string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePurple
	return spinnerModel{spinner: sp, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s %s", m.spinner.View(), Dim(m.message))
}

// RunWithSpinner shows an animated spinner on out while fn runs and returns
// fn's error. The spinner line is cleared when fn returns.
func RunWithSpinner(out io.Writer, message string, fn func() error) error {
	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(out), tea.WithInput(nil))

	var fnErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		fnErr = fn()
		p.Send(spinnerDoneMsg{})
	}()

	_, runErr := p.Run()
	<-done
	if fnErr != nil {
		return fnErr
	}
	if runErr != nil {
		return fmt.Errorf("spinner: %w", runErr)
	}
	return nil
}
