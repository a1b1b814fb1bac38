package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner, the refresh ticker and the watch on the element.
func (b *monitorBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.tick(), b.waitForDone())
}
