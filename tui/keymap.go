package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// monitorKeymap defines the keyboard interactions of the monitor.
type monitorKeymap struct {
	state state

	quit, forceQuit,
	trace,
	showHelp key.Binding
}

func (k *monitorKeymap) setState(newState state) {
	k.state = newState
}

func newMonitorKeymap() *monitorKeymap {
	return &monitorKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "unmount and quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		trace: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle transitions"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *monitorKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case monitorState:
		return h(k.trace, k.quit, k.showHelp), h(k.trace, k.quit, k.forceQuit, k.showHelp)
	case errorState:
		return h(k.quit), h(k.quit, k.forceQuit)
	default:
		return h(), h()
	}
}

func (k *monitorKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *monitorKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
