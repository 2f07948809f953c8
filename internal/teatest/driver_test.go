package teatest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type counterModel struct {
	count int
	quit  bool
}

type incrementMsg struct{}

func (m counterModel) Init() tea.Cmd {
	return func() tea.Msg { return incrementMsg{} }
}

func (m counterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case incrementMsg:
		m.count++
		if m.count < 3 {
			return m, func() tea.Msg { return incrementMsg{} }
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m counterModel) View() string {
	if m.count >= 3 {
		return "three"
	}
	return "counting"
}

func TestDriver_DrainsChainedCmds(t *testing.T) {
	d := New(t, counterModel{})

	d.DrainInit()

	assert.Equal(t, "three", d.View())
	assert.Len(t, d.Seen, 3)
}

func TestDriver_QuitStopsFurtherMessages(t *testing.T) {
	d := New(t, counterModel{})

	d.PressCtrlC()
	d.Send(incrementMsg{})

	assert.True(t, d.Quitting)
	assert.Equal(t, "counting", d.View())
}
