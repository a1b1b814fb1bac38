// Package tui provides the kiosk monitor: a live view of the two background layers.
package tui

import (
	"time"

	"github.com/backdrop-cli/backdrop/shell"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultRefresh is how often the monitor samples the shell.
const DefaultRefresh = 50 * time.Millisecond

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Shell   *shell.Shell
	Refresh time.Duration

	// Done is closed by the host when the mounted element goes away.
	Done <-chan struct{}
}

// Run starts the monitor and blocks until the user quits or Done is closed.
func Run(options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
