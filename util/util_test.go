package util

import (
	"os"
	"testing"

	"github.com/backdrop-cli/backdrop/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "record", "records"), ShouldEqual, "1 record")
		So(Quantify(2, "record", "records"), ShouldEqual, "2 records")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history file"), ShouldEqual, "History file")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("Delete removes a file", func() {
			So(fs.WriteFile("/cache/history.json", []byte("[]"), 0o644), ShouldBeNil)
			So(Delete("/cache/history.json"), ShouldBeNil)
			So(lookup("/cache/history.json"), ShouldBeFalse)
		})

		Convey("Delete removes a directory tree", func() {
			So(fs.WriteFile("/tmp/backdrop/a.sock", nil, 0o644), ShouldBeNil)
			So(Delete("/tmp/backdrop"), ShouldBeNil)
			So(lookup("/tmp/backdrop"), ShouldBeFalse)
		})

		Convey("Delete reports missing paths", func() {
			So(os.IsNotExist(Delete("/missing")), ShouldBeTrue)
		})
	})
}

func lookup(path string) bool {
	exists, _ := filesystem.API().Exists(path)
	return exists
}
