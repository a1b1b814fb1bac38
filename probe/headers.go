package probe

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Client Hints request headers read by Headers, in lookup order.
const (
	HeaderViewportWidth       = "Sec-CH-Viewport-Width"
	HeaderViewportWidthLegacy = "Viewport-Width"
	HeaderDPR                 = "Sec-CH-DPR"
	HeaderDPRLegacy           = "DPR"
	HeaderSaveData            = "Save-Data"
	HeaderECT                 = "ECT"
	HeaderDownlink            = "Downlink"
)

// HintHeaders lists every hint the page host asks browsers to send, for Accept-CH and Vary.
var HintHeaders = []string{
	HeaderViewportWidth,
	HeaderViewportWidthLegacy,
	HeaderDPR,
	HeaderDPRLegacy,
	HeaderSaveData,
	HeaderECT,
	HeaderDownlink,
}

// CriticalHints are the hints without which the first response would pick the wrong variant.
var CriticalHints = []string{HeaderViewportWidth, HeaderDPR}

// Headers is an Environment backed by the Client Hints of an HTTP request.
type Headers http.Header

// FromRequest returns the Client Hints environment of r.
func FromRequest(r *http.Request) Headers {
	return Headers(r.Header)
}

func (h Headers) ViewportWidth() mo.Option[float64] {
	return h.number(HeaderViewportWidth, HeaderViewportWidthLegacy)
}

func (h Headers) PixelDensity() mo.Option[float64] {
	return h.number(HeaderDPR, HeaderDPRLegacy)
}

// SaveData reports "Save-Data: on". Other tokens are ignored.
func (h Headers) SaveData() bool {
	for _, token := range strings.Split(http.Header(h).Get(HeaderSaveData), ";") {
		if strings.EqualFold(strings.TrimSpace(token), "on") {
			return true
		}
	}
	return false
}

func (h Headers) EffectiveType() mo.Option[string] {
	return mo.EmptyableToOption(unquote(http.Header(h).Get(HeaderECT)))
}

func (h Headers) Downlink() mo.Option[float64] {
	return h.number(HeaderDownlink)
}

// number returns the first header among names that parses as a float.
func (h Headers) number(names ...string) mo.Option[float64] {
	for _, name := range names {
		raw := unquote(http.Header(h).Get(name))
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return mo.Some(v)
		}
	}
	return mo.None[float64]()
}

// unquote strips structured-header string quotes.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
