package media

import "fmt"

// Variant is a candidate source for the background video.
// Variants are defined statically per deployment and never edited at runtime.
type Variant struct {
	// URI resolvable by the host's media-loading mechanism.
	URI string `json:"uri" jsonschema:"required,description=URI of the video file as seen by the host."`
	// Tier is the quality class of the encoding.
	Tier Tier `json:"tier" jsonschema:"required"`
	// MinViewportWidthPx is the responsive breakpoint; 0 means no viewport gate.
	MinViewportWidthPx float64 `json:"min_viewport_width_px,omitempty" jsonschema:"minimum=0,description=Smallest effective viewport width in pixels that may request this variant."`
	// RequiresStrongNetwork gates the variant behind a strong network signal.
	// UltraHigh variants are always network gated.
	RequiresStrongNetwork bool `json:"requires_strong_network,omitempty" jsonschema:"description=Only offer this variant on a strong network."`
}

// NetworkGated reports whether the variant may only be offered on a strong network.
func (v Variant) NetworkGated() bool {
	return v.RequiresStrongNetwork || v.Tier == UltraHigh
}

// Ungated reports whether the variant is always playable regardless of device and network.
func (v Variant) Ungated() bool {
	return v.MinViewportWidthPx <= 0 && !v.NetworkGated()
}

// String returns a short description for display.
func (v Variant) String() string {
	return fmt.Sprintf("%s (%s)", v.URI, v.Tier)
}
