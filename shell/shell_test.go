package shell

import (
	"context"
	"testing"
	"time"

	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/history"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/player"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"go.uber.org/goleak"
)

func init() {
	filesystem.SetMemMapFs()
}

var (
	low  = media.Variant{URI: "/videos/720.mp4", Tier: media.Low}
	med  = media.Variant{URI: "/videos/1080.mp4", Tier: media.Medium, MinViewportWidthPx: 769}
	high = media.Variant{URI: "/videos/1440.mp4", Tier: media.High, MinViewportWidthPx: 1920, RequiresStrongNetwork: true}

	table = media.Table{Poster: "/images/first.jpg", Variants: []media.Variant{low, med, high}}
)

// countingEnv counts how often the viewport is read.
type countingEnv struct {
	probe.Static
	reads *int
}

func (c countingEnv) ViewportWidth() mo.Option[float64] {
	*c.reads++
	return c.Static.ViewportWidth()
}

func desktop() probe.Static {
	return probe.Static{Width: mo.Some(1100.0), Density: mo.Some(2.0)}
}

func simulated(reject ...string) *player.Simulated {
	sim := player.NewSimulated(200 * time.Millisecond)
	sim.Tick = 10 * time.Millisecond
	sim.Reject = reject
	return sim
}

func run(ctx context.Context, s *Shell) <-chan error {
	errs := make(chan error, 1)
	go func() { errs <- s.Run(ctx) }()
	return errs
}

func wait(t *testing.T, errs <-chan error) error {
	select {
	case err := <-errs:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("event loop did not return")
		return nil
	}
}

func TestShell(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a shell over a simulated element", t, func() {
		sim := simulated(high.URI)
		s := New(Options{Table: table, Environment: desktop(), Element: sim, Host: "kiosk"})

		Reset(func() {
			_ = s.Unmount()
			_ = sim.Close()
		})

		Convey("Run before Mount fails", func() {
			So(s.Run(context.Background()), ShouldEqual, ErrNotMounted)
			So(s.Unmount(), ShouldEqual, ErrNotMounted)
		})

		Convey("Mounting twice fails", func() {
			So(s.Mount(context.Background()), ShouldBeNil)
			So(s.Mount(context.Background()), ShouldEqual, ErrAlreadyMounted)
		})

		Convey("A rejected best candidate falls back and the clip freezes", func() {
			So(s.Mount(context.Background()), ShouldBeNil)
			So(wait(t, run(context.Background(), s)), ShouldBeNil)

			snapshot := s.Snapshot(time.Now().Add(time.Second))
			So(snapshot.Mounted, ShouldBeTrue)
			So(snapshot.Poster, ShouldEqual, table.Poster)
			So(snapshot.Candidates, ShouldResemble, []media.Variant{high, med, low})
			So(snapshot.State, ShouldEqual, playback.Frozen)
			So(snapshot.Current, ShouldEqual, med.URI)
			So(snapshot.Attempt, ShouldEqual, 2)
			So(snapshot.Layers, ShouldResemble, playback.Layers{Poster: 0, Video: 1})
			So(sim.Listening(), ShouldEqual, 0)
			So(sim.Paused(), ShouldBeTrue)

			So(s.Unmount(), ShouldBeNil)
			So(s.Unmount(), ShouldBeNil)
			So(s.Snapshot(time.Now()).Mounted, ShouldBeFalse)
		})

		Convey("Every candidate rejected leaves the poster", func() {
			sim.Reject = []string{high.URI, med.URI, low.URI}
			So(s.Mount(context.Background()), ShouldBeNil)
			So(wait(t, run(context.Background(), s)), ShouldBeNil)

			snapshot := s.Snapshot(time.Now())
			So(snapshot.State, ShouldEqual, playback.Failed)
			So(snapshot.Layers, ShouldResemble, playback.PosterOnly)
			So(snapshot.Attempt, ShouldEqual, 3)
			So(snapshot.Current, ShouldBeEmpty)
		})
	})

	Convey("Given a play request that never resolves", t, func() {
		sim := simulated()
		sim.StartDelay = time.Hour
		s := New(Options{Table: table, Environment: desktop(), Element: sim})
		So(s.Mount(context.Background()), ShouldBeNil)

		Reset(func() {
			_ = s.Unmount()
			_ = sim.Close()
		})

		Convey("The shell waits in AttemptingPlay with the poster shown", func() {
			errs := run(context.Background(), s)
			time.Sleep(50 * time.Millisecond)

			snapshot := s.Snapshot(time.Now())
			So(snapshot.State, ShouldEqual, playback.AttemptingPlay)
			So(snapshot.Layers, ShouldResemble, playback.PosterOnly)

			Convey("and Unmount stops the loop and releases the listener", func() {
				So(s.Unmount(), ShouldBeNil)
				So(wait(t, errs), ShouldBeNil)
				So(sim.Listening(), ShouldEqual, 0)
				So(sim.Paused(), ShouldBeTrue)
			})
		})

		Convey("Cancelling the context stops the loop", func() {
			ctx, cancel := context.WithCancel(context.Background())
			errs := run(ctx, s)
			cancel()
			So(wait(t, errs), ShouldEqual, context.Canceled)
		})

		Convey("Events after Unmount are dropped", func() {
			So(s.Unmount(), ShouldBeNil)
			s.enqueue(playback.Event{Kind: playback.Started, Source: high.URI})
			So(s.events, ShouldHaveLength, 0)
			So(s.Snapshot(time.Now()).State, ShouldEqual, playback.AttemptingPlay)
		})
	})

	Convey("Given a shell without an element", t, func() {
		reads := 0
		env := countingEnv{Static: probe.Static{Width: mo.Some(400.0), ECT: mo.Some("3g")}, reads: &reads}
		s := New(Options{Table: table, Environment: env})

		So(s.Mount(context.Background()), ShouldBeNil)

		Convey("It only probes and resolves, once", func() {
			So(s.Run(context.Background()), ShouldBeNil)

			for i := 0; i < 3; i++ {
				snapshot := s.Snapshot(time.Now())
				So(snapshot.Candidates, ShouldResemble, []media.Variant{low})
				So(snapshot.State, ShouldEqual, playback.Idle)
				So(snapshot.Layers, ShouldResemble, playback.PosterOnly)
				So(snapshot.Signal.NetworkStrong, ShouldBeFalse)
			}
			So(reads, ShouldEqual, 1)
		})
	})

	Convey("Given history is enabled", t, func() {
		viper.Set(key.HistorySave, true)
		So(history.Clear(), ShouldBeNil)

		sim := simulated()
		s := New(Options{Table: table, Environment: desktop(), Element: sim, Host: "kiosk", History: true})
		So(s.Mount(context.Background()), ShouldBeNil)
		So(wait(t, run(context.Background(), s)), ShouldBeNil)
		So(s.Unmount(), ShouldBeNil)
		So(sim.Close(), ShouldBeNil)

		Convey("The settled mount is recorded", func() {
			records, err := history.Get()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Host, ShouldEqual, "kiosk")
			So(records[0].Outcome, ShouldEqual, playback.Frozen)
			So(records[0].Shown, ShouldEqual, high.URI)
			So(records[0].Attempts, ShouldEqual, 1)
		})
	})
}
