package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/probe"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	low  = media.Variant{URI: "/videos/720.mp4", Tier: media.Low}
	med  = media.Variant{URI: "/videos/1080.webm", Tier: media.Medium, MinViewportWidthPx: 769}
	high = media.Variant{URI: "/videos/1440.mp4", Tier: media.High, MinViewportWidthPx: 1920, RequiresStrongNetwork: true}

	table = media.Table{Poster: "/images/first.jpg", Variants: []media.Variant{low, med, high}}
)

func serve(s *Server, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer(t *testing.T) {
	Convey("Given a page host", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().MkdirAll("/srv/images", 0o755), ShouldBeNil)
		So(filesystem.API().WriteFile("/srv/images/first.jpg", []byte("jpeg"), 0o644), ShouldBeNil)

		s, err := New(Options{Table: table, Assets: "/srv", Title: "Lobby"})
		So(err, ShouldBeNil)

		Convey("A wide desktop on a fast network gets every variant, best first", func() {
			rec := serve(s, "/", map[string]string{
				probe.HeaderViewportWidth: "1100",
				probe.HeaderDPR:           "2",
				probe.HeaderECT:           "4g",
			})
			So(rec.Code, ShouldEqual, http.StatusOK)

			body := rec.Body.String()
			So(body, ShouldContainSubstring, "<title>Lobby</title>")
			So(body, ShouldContainSubstring, `src="/images/first.jpg"`)

			hi := strings.Index(body, `<source src="/videos/1440.mp4"`)
			md := strings.Index(body, `<source src="/videos/1080.webm"`)
			lo := strings.Index(body, `<source src="/videos/720.mp4"`)
			So(hi, ShouldBeGreaterThan, 0)
			So(md, ShouldBeGreaterThan, hi)
			So(lo, ShouldBeGreaterThan, md)

			So(body, ShouldContainSubstring, `type="video/webm"`)
			So(body, ShouldNotContainSubstring, " loop")
			So(body, ShouldContainSubstring, "300ms")
		})

		Convey("Save-Data limits a wide screen to ungated variants", func() {
			body := serve(s, "/", map[string]string{
				probe.HeaderViewportWidth: "1100",
				probe.HeaderDPR:           "2",
				probe.HeaderSaveData:      "on",
			}).Body.String()

			So(body, ShouldContainSubstring, `<source src="/videos/1080.webm"`)
			So(body, ShouldNotContainSubstring, `<source src="/videos/1440.mp4"`)
		})

		Convey("Responses ask for Client Hints", func() {
			rec := serve(s, "/", nil)
			So(rec.Header().Get("Accept-CH"), ShouldContainSubstring, probe.HeaderViewportWidth)
			So(rec.Header().Get("Critical-CH"), ShouldContainSubstring, probe.HeaderDPR)
			So(rec.Header().Get("Vary"), ShouldContainSubstring, probe.HeaderSaveData)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
		})

		Convey("The resolve endpoint explains the decision", func() {
			rec := serve(s, "/api/resolve", map[string]string{
				probe.HeaderViewportWidth: "400",
				probe.HeaderECT:           "3g",
			})
			So(rec.Code, ShouldEqual, http.StatusOK)

			var response resolveResponse
			So(json.Unmarshal(rec.Body.Bytes(), &response), ShouldBeNil)
			So(response.Poster, ShouldEqual, table.Poster)
			So(response.Signal.NetworkStrong, ShouldBeFalse)
			So(response.Candidates, ShouldResemble, []media.Variant{low})
			So(response.Decisions, ShouldHaveLength, 3)
		})

		Convey("The health endpoint reports healthy", func() {
			rec := serve(s, "/healthz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"healthy"`)
		})

		Convey("Assets are served from the asset directory", func() {
			rec := serve(s, "/images/first.jpg", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "jpeg")

			So(serve(s, "/images/missing.jpg", nil).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestResolveLimit(t *testing.T) {
	Convey("Given a page host limiting the resolve endpoint", t, func() {
		s, err := New(Options{Table: table, ResolveLimit: 2})
		So(err, ShouldBeNil)

		Convey("Requests over the limit are refused", func() {
			So(serve(s, "/api/resolve", nil).Code, ShouldEqual, http.StatusOK)
			So(serve(s, "/api/resolve", nil).Code, ShouldEqual, http.StatusOK)

			rec := serve(s, "/api/resolve", nil)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			So(rec.Header().Get("Retry-After"), ShouldEqual, "60")
		})

		Convey("The page itself is not limited", func() {
			for i := 0; i < 5; i++ {
				So(serve(s, "/", nil).Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestVideoType(t *testing.T) {
	Convey("Video types are derived from the extension", t, func() {
		So(videoType("/a/b.MP4"), ShouldEqual, "video/mp4")
		So(videoType("clip.webm"), ShouldEqual, "video/webm")
		So(videoType("clip.ogv"), ShouldEqual, "video/ogg")
	})
}
