package probe

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/backdrop-cli/backdrop/key"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestProbe(t *testing.T) {
	Convey("Given an environment with no instrumentation", t, func() {
		signal := Probe(Static{})

		Convey("It degrades to the most capable defaults", func() {
			So(signal.CSSWidthPx, ShouldEqual, DefaultViewportWidthPx)
			So(signal.PixelDensity, ShouldEqual, DefaultPixelDensity)
			So(signal.EffectiveViewportPx, ShouldEqual, DefaultViewportWidthPx)
			So(signal.NetworkStrong, ShouldBeTrue)
		})
	})

	Convey("Effective viewport is css width times pixel density", t, func() {
		signal := Probe(Static{Width: mo.Some(375.0), Density: mo.Some(3.0)})
		So(signal.EffectiveViewportPx, ShouldEqual, 1125)
		So(signal.CSSWidthPx, ShouldEqual, 375)
	})

	Convey("Nonsensical readings count as unavailable", t, func() {
		signal := Probe(Static{Width: mo.Some(-10.0), Density: mo.Some(math.NaN())})
		So(signal.CSSWidthPx, ShouldEqual, DefaultViewportWidthPx)
		So(signal.PixelDensity, ShouldEqual, DefaultPixelDensity)
	})
}

func TestNetworkStrong(t *testing.T) {
	Convey("Network classification", t, func() {
		cases := []struct {
			name string
			env  Static
			want bool
		}{
			{"unknown", Static{}, true},
			{"data saver alone", Static{DataSaver: true, ECT: mo.Some("4g"), Mbps: mo.Some(100.0)}, false},
			{"slow-2g", Static{ECT: mo.Some("slow-2g")}, false},
			{"2g", Static{ECT: mo.Some("2g")}, false},
			{"3g", Static{ECT: mo.Some("3G")}, false},
			{"4g", Static{ECT: mo.Some("4g")}, true},
			{"slow downlink", Static{ECT: mo.Some("4g"), Mbps: mo.Some(4.9)}, false},
			{"threshold downlink", Static{Mbps: mo.Some(5.0)}, true},
			{"fast downlink", Static{Mbps: mo.Some(20.0)}, true},
		}

		for _, c := range cases {
			Convey(c.name, func() {
				So(NetworkStrong(c.env), ShouldEqual, c.want)
			})
		}
	})
}

func TestHeaders(t *testing.T) {
	Convey("Given a request carrying Client Hints", t, func() {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderViewportWidth, "412")
		r.Header.Set(HeaderDPR, "2.625")
		r.Header.Set(HeaderECT, `"3g"`)
		r.Header.Set(HeaderDownlink, "1.45")

		signal := Probe(FromRequest(r))

		Convey("It reads viewport and density", func() {
			So(signal.CSSWidthPx, ShouldEqual, 412)
			So(signal.PixelDensity, ShouldEqual, 2.625)
			So(signal.EffectiveViewportPx, ShouldAlmostEqual, 1081.5, 0.001)
		})

		Convey("It classifies the network as weak", func() {
			So(signal.NetworkStrong, ShouldBeFalse)
		})
	})

	Convey("Legacy hint names are honoured", t, func() {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderViewportWidthLegacy, "1280")
		r.Header.Set(HeaderDPRLegacy, "2")

		signal := Probe(FromRequest(r))
		So(signal.EffectiveViewportPx, ShouldEqual, 2560)
	})

	Convey("Save-Data: on marks the network weak", t, func() {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderSaveData, "on")
		So(FromRequest(r).SaveData(), ShouldBeTrue)

		r.Header.Set(HeaderSaveData, "off")
		So(FromRequest(r).SaveData(), ShouldBeFalse)
	})

	Convey("Garbage hints are ignored", t, func() {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(HeaderViewportWidth, "wide")
		So(FromRequest(r).ViewportWidth().IsPresent(), ShouldBeFalse)
	})
}

func TestConfig(t *testing.T) {
	Convey("Config reads the kiosk probe keys", t, func() {
		viper.Reset()
		viper.Set(key.ProbeViewportWidth, 2560)
		viper.Set(key.ProbePixelDensity, 1.5)
		viper.Set(key.ProbeEffectiveType, "4g")

		env := Config()
		So(env.Width.MustGet(), ShouldEqual, 2560)
		So(env.Density.MustGet(), ShouldEqual, 1.5)
		So(env.Mbps.IsPresent(), ShouldBeFalse)
		So(Probe(env).EffectiveViewportPx, ShouldEqual, 3840)
	})
}
