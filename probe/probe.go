// Package probe reads device and network conditions into a normalized capability signal.
//
// Ambient state is read through an Environment so hosts can supply real readings
// (HTTP Client Hints, kiosk configuration) and tests can supply deterministic stubs.
package probe

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	// DefaultViewportWidthPx is assumed when the viewport width cannot be read.
	DefaultViewportWidthPx = 1920
	// DefaultPixelDensity is assumed when the device pixel ratio cannot be read.
	DefaultPixelDensity = 1
	// StrongDownlinkMbps is the smallest estimated downlink considered strong.
	StrongDownlinkMbps = 5
)

// weakConnectionTypes are effective connection types that mark the network as weak.
var weakConnectionTypes = []string{"slow-2g", "2g", "3g"}

// Signal is the capability reading taken once per mount.
type Signal struct {
	EffectiveViewportPx float64 `json:"effective_viewport_px"`
	CSSWidthPx          float64 `json:"css_width_px"`
	PixelDensity        float64 `json:"pixel_density"`
	NetworkStrong       bool    `json:"network_strong"`
}

// String returns a compact description for logs.
func (s Signal) String() string {
	network := "strong"
	if !s.NetworkStrong {
		network = "weak"
	}
	return fmt.Sprintf("%gpx (%gcss x %g) %s network", s.EffectiveViewportPx, s.CSSWidthPx, s.PixelDensity, network)
}

// Environment reads ambient device and browser state. Every reading is best-effort.
type Environment interface {
	// ViewportWidth is the layout viewport width in CSS pixels.
	ViewportWidth() mo.Option[float64]
	// PixelDensity is the device pixel ratio.
	PixelDensity() mo.Option[float64]
	// SaveData reports an explicit reduced-data preference.
	SaveData() bool
	// EffectiveType is the effective connection type (slow-2g, 2g, 3g, 4g).
	EffectiveType() mo.Option[string]
	// Downlink is the estimated downlink in Mbps.
	Downlink() mo.Option[float64]
}

// Probe computes the capability signal from env. It never fails: readings that are
// missing or nonsensical degrade to the most capable defaults.
func Probe(env Environment) Signal {
	width := positive(env.ViewportWidth()).OrElse(DefaultViewportWidthPx)
	density := positive(env.PixelDensity()).OrElse(DefaultPixelDensity)

	return Signal{
		EffectiveViewportPx: width * density,
		CSSWidthPx:          width,
		PixelDensity:        density,
		NetworkStrong:       NetworkStrong(env),
	}
}

// NetworkStrong classifies the network. A data-saver preference alone marks it weak;
// otherwise a weak connection type or a known downlink below StrongDownlinkMbps does.
// With no information the network is assumed strong.
func NetworkStrong(env Environment) bool {
	if env.SaveData() {
		return false
	}

	if ect, ok := env.EffectiveType().Get(); ok {
		if lo.Contains(weakConnectionTypes, strings.ToLower(strings.TrimSpace(ect))) {
			return false
		}
	}

	if downlink, ok := env.Downlink().Get(); ok && finite(downlink) && downlink >= 0 {
		if downlink < StrongDownlinkMbps {
			return false
		}
	}

	return true
}

func positive(o mo.Option[float64]) mo.Option[float64] {
	if v, ok := o.Get(); ok && finite(v) && v > 0 {
		return o
	}
	return mo.None[float64]()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
