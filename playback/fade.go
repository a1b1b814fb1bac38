package playback

import "time"

// Fade returns the video layer opacity after elapsed time into a cross-fade of the
// given duration. It is linear, clamped to [0, 1], and 1 for a non-positive duration.
func Fade(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}

	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= duration:
		return 1
	}

	return float64(elapsed) / float64(duration)
}

// Layers holds the opacity of the two stacked visual layers.
type Layers struct {
	Poster float64 `json:"poster"`
	Video  float64 `json:"video"`
}

// PosterOnly is the layer configuration for every state in which the video is not shown.
var PosterOnly = Layers{Poster: 1, Video: 0}

// Settled reports whether exactly one layer is fully opaque.
func (l Layers) Settled() bool {
	return (l.Poster == 1 && l.Video == 0) || (l.Poster == 0 && l.Video == 1)
}
