package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should register the playback tuning defaults", func() {
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.PlaybackFreezeEpsilonMs), ShouldEqual, 80)
			So(viper.GetInt(key.PlaybackCrossfadeMs), ShouldEqual, 300)
			So(viper.GetString(key.Player), ShouldEqual, "mpv")
			So(viper.GetBool(key.HistorySave), ShouldBeTrue)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("playback.crossfade_ms"), ShouldEqual, "playback_crossfade_ms")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the crossfade field", t, func() {
		field := Default[key.PlaybackCrossfadeMs]

		Convey("Its environment variable carries the prefix", func() {
			So(field.Env(), ShouldEqual, "BACKDROP_PLAYBACK_CROSSFADE_MS")
		})

		Convey("It reports its type", func() {
			So(field.typeName(), ShouldEqual, "int")
			pixel := Default[key.ProbePixelDensity]
			So(pixel.typeName(), ShouldEqual, "float64")
		})

		Convey("It renders a pretty description", func() {
			So(field.Pretty(), ShouldContainSubstring, key.PlaybackCrossfadeMs)
		})
	})
}

func TestLookup(t *testing.T) {
	Convey("Looking up fields", t, func() {
		Convey("Registered keys are found", func() {
			field, err := Lookup(key.PlaybackCrossfadeMs)
			So(err, ShouldBeNil)
			So(field.Value, ShouldEqual, 300)
		})

		Convey("Typos suggest the closest key", func() {
			_, err := Lookup("playback.crossfade_m")
			So(errors.Is(err, ErrUnknownKey), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, key.PlaybackCrossfadeMs)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parsing command-line values", t, func() {
		Convey("Each field type is converted", func() {
			for _, c := range []struct {
				key  string
				raw  string
				want any
			}{
				{key.PlaybackCrossfadeMs, "450", 450},
				{key.ProbePixelDensity, "1.5", 1.5},
				{key.ProbeSaveData, "true", true},
				{key.Player, "simulated", "simulated"},
			} {
				field := Default[c.key]
				v, err := field.Parse([]string{c.raw})
				So(err, ShouldBeNil)
				So(v, ShouldEqual, c.want)
			}
		})

		Convey("Malformed and missing values are refused", func() {
			crossfade := Default[key.PlaybackCrossfadeMs]
			_, err := crossfade.Parse([]string{"fast"})
			So(err, ShouldNotBeNil)

			_, err = crossfade.Parse(nil)
			So(err, ShouldNotBeNil)

			_, err = crossfade.Parse([]string{"1", "2"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestChanged(t *testing.T) {
	Convey("Given the configuration defaults", t, func() {
		So(Setup(), ShouldBeNil)
		field := Default[key.PlaybackFreezeEpsilonMs]
		So(field.Changed(), ShouldBeFalse)

		Convey("A field set away from its default is changed", func() {
			viper.Set(key.PlaybackFreezeEpsilonMs, 120)
			Reset(func() { viper.Set(key.PlaybackFreezeEpsilonMs, field.Value) })

			So(field.Changed(), ShouldBeTrue)
		})
	})
}

func TestSave(t *testing.T) {
	Convey("Saving creates the config file on first use", t, func() {
		So(Setup(), ShouldBeNil)
		So(Save(), ShouldBeNil)

		exists, err := afero.Exists(filesystem.API(), filepath.Join(where.Config(), constant.Backdrop+".toml"))
		So(err, ShouldBeNil)
		So(exists, ShouldBeTrue)
	})
}
