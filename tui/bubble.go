package tui

import (
	"time"

	"github.com/backdrop-cli/backdrop/shell"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// monitorBubble renders shell snapshots at a fixed refresh rate.
type monitorBubble struct {
	state  state
	keymap *monitorKeymap

	spinnerC spinner.Model
	posterC  progress.Model
	videoC   progress.Model
	helpC    help.Model

	shell    *shell.Shell
	snapshot shell.Snapshot
	refresh  time.Duration
	done     <-chan struct{}
	now      func() time.Time

	showTrace bool
	lastError error

	width, height int
}

func (b *monitorBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *monitorBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// resize propagates terminal dimension changes to all child component models.
func (b *monitorBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	barWidth := b.width - layerLabelWidth
	if barWidth < 10 {
		barWidth = 10
	}
	b.posterC.Width = barWidth
	b.videoC.Width = barWidth
	b.helpC.Width = b.width
}

func newBubble(options *Options) *monitorBubble {
	refresh := options.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	keymap := newMonitorKeymap()
	bubble := &monitorBubble{
		keymap:  keymap,
		shell:   options.Shell,
		refresh: refresh,
		done:    options.Done,
		now:     time.Now,
	}

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.posterC = progress.New(progress.WithSolidFill(string(style.PosterColor)), progress.WithoutPercentage())
	bubble.videoC = progress.New(progress.WithGradient(string(style.VideoColor), string(style.FreezeColor)), progress.WithoutPercentage())

	bubble.helpC = help.New()

	bubble.setState(monitorState)
	bubble.sample()
	return bubble
}

// sample takes a fresh snapshot of the shell.
func (b *monitorBubble) sample() {
	if b.shell == nil {
		return
	}
	b.snapshot = b.shell.Snapshot(b.now())
}
