package media

import (
	"encoding/json"
	"testing"

	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestTier(t *testing.T) {
	Convey("Tiers are ordered", t, func() {
		So(int(Low), ShouldBeLessThan, int(Medium))
		So(int(Medium), ShouldBeLessThan, int(High))
		So(int(High), ShouldBeLessThan, int(UltraHigh))
	})

	Convey("ParseTier", t, func() {
		for _, tier := range Tiers() {
			parsed, err := ParseTier(tier.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, tier)
		}

		parsed, err := ParseTier(" Ultra_High ")
		So(err, ShouldBeNil)
		So(parsed, ShouldEqual, UltraHigh)

		_, err = ParseTier("4k")
		So(err, ShouldNotBeNil)
	})

	Convey("Tiers encode as text in JSON", t, func() {
		data, err := json.Marshal(Variant{URI: "/a.mp4", Tier: High})
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"tier":"high"`)

		var v Variant
		So(json.Unmarshal([]byte(`{"uri":"/b.mp4","tier":"ultra-high"}`), &v), ShouldBeNil)
		So(v.Tier, ShouldEqual, UltraHigh)
		So(v.NetworkGated(), ShouldBeTrue)

		So(json.Unmarshal([]byte(`{"uri":"/c.mp4","tier":"8k"}`), &v), ShouldNotBeNil)
	})
}

func TestTable(t *testing.T) {
	Convey("Given the default table", t, func() {
		table := Default()

		Convey("It validates and carries an ungated entry", func() {
			So(table.Validate(), ShouldBeNil)
			So(table.Variants[0].Ungated(), ShouldBeTrue)
		})

		Convey("Removing the ungated entry breaks the contract", func() {
			table.Variants = table.Variants[1:]
			So(table.Validate(), ShouldEqual, ErrNoUngatedVariant)
		})

		Convey("An empty uri is rejected", func() {
			table.Variants = append(table.Variants, Variant{Tier: High})
			So(table.Validate(), ShouldNotBeNil)
		})

		Convey("It round-trips through the variants file", func() {
			path := "/etc/backdrop/variants.json"
			So(filesystem.API().MkdirAll("/etc/backdrop", 0o755), ShouldBeNil)
			So(Save(path, table), ShouldBeNil)

			loaded, err := Load(path)
			So(err, ShouldBeNil)
			So(loaded, ShouldResemble, table)
		})
	})

	Convey("Configured", t, func() {
		viper.Reset()
		_ = filesystem.API().Remove(where.Variants())

		Convey("Falls back to the built-in table", func() {
			table, err := Configured()
			So(err, ShouldBeNil)
			So(table, ShouldResemble, Default())
		})

		Convey("Prefers the variants file in the config directory", func() {
			custom := Table{Poster: "/p.jpg", Variants: []Variant{{URI: "/only.mp4", Tier: Low}}}
			So(Save(where.Variants(), custom), ShouldBeNil)

			table, err := Configured()
			So(err, ShouldBeNil)
			So(table, ShouldResemble, custom)
		})

		Convey("Fails on a missing explicit file", func() {
			viper.Set(key.MediaVariantsFile, "/nope/variants.json")
			_, err := Configured()
			So(err, ShouldNotBeNil)
		})

		Convey("Applies the poster override", func() {
			viper.Set(key.MediaPoster, "/images/other.jpg")
			table, err := Configured()
			So(err, ShouldBeNil)
			So(table.Poster, ShouldEqual, "/images/other.jpg")
		})
	})
}
