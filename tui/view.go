package tui

import (
	"fmt"
	"strings"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

// layerLabelWidth is the space reserved left of the layer bars.
const layerLabelWidth = 16

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *monitorBubble) View() string {
	switch b.state {
	case monitorState:
		return b.viewMonitor()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *monitorBubble) viewMonitor() string {
	s := b.snapshot

	lines := []string{
		style.Title("Background"),
		"",
		b.viewState(),
		"",
		b.viewLayer(icon.Poster, "poster", s.Layers.Poster, b.posterC.ViewAs(s.Layers.Poster)),
		b.viewLayer(icon.Video, "video", s.Layers.Video, b.videoC.ViewAs(s.Layers.Video)),
		"",
		style.Faint(fmt.Sprintf("%s %s", icon.Get(icon.Network), s.Signal)),
		"",
	}

	lines = append(lines, b.viewCandidates()...)

	if b.showTrace {
		lines = append(lines, "", style.Bold("Transitions"))
		lines = append(lines, b.viewTrace()...)
	}

	return b.renderLines(true, lines)
}

func (b *monitorBubble) viewState() string {
	s := b.snapshot

	var marker string
	switch s.State {
	case playback.Frozen:
		marker = icon.Get(icon.Freeze)
	case playback.Failed:
		marker = icon.Get(icon.Fail)
	case playback.Playing:
		marker = icon.Get(icon.Video)
	default:
		marker = b.spinnerC.View()
	}

	label := style.Fg(stateColor(s.State))(s.State.String())
	if s.Current == "" {
		return style.Truncate(b.width)(fmt.Sprintf("%s %s", marker, label))
	}

	return style.Truncate(b.width)(fmt.Sprintf("%s %s %s %s",
		marker, label, style.Fg(color.Purple)(s.Current), style.Faint(fmt.Sprintf("(attempt %d)", s.Attempt))))
}

func (b *monitorBubble) viewLayer(i icon.Icon, name string, opacity float64, bar string) string {
	label := fmt.Sprintf("%s %-6s %3.0f%%", icon.Get(i), name, opacity*100)
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(layerLabelWidth).Render(label), bar)
}

func (b *monitorBubble) viewCandidates() []string {
	s := b.snapshot
	if len(s.Candidates) == 0 {
		return []string{style.Faint("no candidates")}
	}

	lines := []string{style.Bold("Candidates")}
	for i, v := range s.Candidates {
		line := fmt.Sprintf("%d. %s %s", i+1, v.URI, style.Faint(v.Tier.String()))
		if v.URI == s.Current {
			line = style.Fg(style.AccentColor)(line + " " + currentMarker(s.State))
		}
		lines = append(lines, style.Truncate(b.width)(line))
	}

	return lines
}

func (b *monitorBubble) viewTrace() []string {
	trace := b.snapshot.Trace
	if len(trace) == 0 {
		return []string{style.Faint("none yet")}
	}

	return lo.Map(trace, func(t playback.Transition, _ int) string {
		return wrap.String(style.Faint(t.At.Format("15:04:05.000"))+" "+t.String(), lo.Max([]int{b.width, 20}))
	})
}

func (b *monitorBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " The background stopped:",
			"",
			errorMsg,
		},
	)
}

func (b *monitorBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func stateColor(s playback.State) lipgloss.Color {
	switch s {
	case playback.Frozen:
		return style.FreezeColor
	case playback.Playing:
		return style.SuccessColor
	case playback.Failed:
		return style.ErrorColor
	default:
		return style.WarningColor
	}
}

func currentMarker(s playback.State) string {
	if s == playback.AttemptingPlay {
		return "<- trying"
	}
	return "<- shown"
}
