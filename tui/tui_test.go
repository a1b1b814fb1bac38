package tui

import (
	"context"
	"testing"
	"time"

	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/backdrop-cli/backdrop/shell"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func mounted() *shell.Shell {
	s := shell.New(shell.Options{
		Table: media.Table{
			Poster: "/images/first.jpg",
			Variants: []media.Variant{
				{URI: "/videos/720.mp4", Tier: media.Low},
				{URI: "/videos/1080.mp4", Tier: media.Medium, MinViewportWidthPx: 769},
			},
		},
		Environment: probe.Static{Width: mo.Some(1280.0)},
	})
	_ = s.Mount(context.Background())
	return s
}

func TestMonitor(t *testing.T) {
	Convey("Given a monitor over a mounted shell", t, func() {
		done := make(chan struct{})
		b := newBubble(&Options{Shell: mounted(), Done: done})
		b.resize(100, 40)

		Convey("It shows both layers and the candidates best first", func() {
			view := b.View()
			So(view, ShouldContainSubstring, "idle")
			So(view, ShouldContainSubstring, "poster")
			So(view, ShouldContainSubstring, "100%")
			So(view, ShouldContainSubstring, "1. /videos/1080.mp4")
			So(view, ShouldContainSubstring, "2. /videos/720.mp4")
		})

		Convey("Ticks sample the shell and schedule the next tick", func() {
			_, cmd := b.Update(tickMsg(time.Now()))
			So(cmd, ShouldNotBeNil)
			So(b.snapshot.Mounted, ShouldBeTrue)
		})

		Convey("The trace can be toggled", func() {
			b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
			So(b.showTrace, ShouldBeTrue)
			So(b.View(), ShouldContainSubstring, "Transitions")
		})

		Convey("q quits", func() {
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldResemble, tea.Quit())
		})

		Convey("A vanished element shows the error view", func() {
			close(done)
			msg := b.waitForDone()()
			b.Update(msg)
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, errElementGone.Error())

			_, cmd := b.Update(tickMsg(time.Now()))
			So(cmd, ShouldBeNil)
		})
	})
}
