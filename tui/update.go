package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg asks the monitor to sample the shell again.
type tickMsg time.Time

// doneMsg reports that the element went away.
type doneMsg struct{}

var errElementGone = errors.New("the media element exited")

func (b *monitorBubble) tick() tea.Cmd {
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *monitorBubble) waitForDone() tea.Cmd {
	if b.done == nil {
		return nil
	}

	return func() tea.Msg {
		<-b.done
		return doneMsg{}
	}
}

func (b *monitorBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, nil
	case doneMsg:
		b.raiseError(errElementGone)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case key.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		case key.Matches(msg, b.keymap.trace) && b.state == monitorState:
			b.showTrace = !b.showTrace
		}
		return b, nil
	case tickMsg:
		if b.state != monitorState {
			return b, nil
		}
		b.sample()
		return b, b.tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}
