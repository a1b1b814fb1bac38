package filesystem

import (
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("HTTPDir serves files relative to the directory", func() {
			SetMemMapFs()
			So(API().MkdirAll("/srv/assets/images", 0o755), ShouldBeNil)
			So(API().WriteFile("/srv/assets/images/poster.jpg", []byte("jpeg"), 0o644), ShouldBeNil)

			f, err := HTTPDir("/srv/assets").Open("/images/poster.jpg")
			So(err, ShouldBeNil)
			defer f.Close()

			data, err := io.ReadAll(f)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "jpeg")
		})
	})
}
