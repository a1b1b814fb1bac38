package playback

import (
	"time"

	"github.com/backdrop-cli/backdrop/key"
	"github.com/spf13/viper"
)

const (
	// DefaultFreezeEpsilon is how close to the end playback must get before the last frame is held.
	DefaultFreezeEpsilon = 80 * time.Millisecond
	// DefaultCrossfade is the poster to video handoff duration.
	DefaultCrossfade = 300 * time.Millisecond
)

// Options tune a Controller. Zero values take the defaults.
type Options struct {
	FreezeEpsilon time.Duration
	Crossfade     time.Duration

	// Clock returns the current time; time.Now when nil.
	Clock func() time.Time

	// OnTransition is called after every state change, outside the controller lock.
	OnTransition func(Transition)

	// Dispatch receives element events. When nil they are passed to Handle directly
	// on the element's goroutine, so a terminal transition closes the listener from
	// inside its own callback. Listeners must not wait on themselves in that case.
	Dispatch func(Event)
}

// FromConfig returns options with the tuning values read from the configuration.
func FromConfig() Options {
	return Options{
		FreezeEpsilon: time.Duration(viper.GetInt64(key.PlaybackFreezeEpsilonMs)) * time.Millisecond,
		Crossfade:     time.Duration(viper.GetInt64(key.PlaybackCrossfadeMs)) * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	if o.FreezeEpsilon <= 0 {
		o.FreezeEpsilon = DefaultFreezeEpsilon
	}

	if o.Crossfade <= 0 {
		o.Crossfade = DefaultCrossfade
	}

	if o.Clock == nil {
		o.Clock = time.Now
	}

	return o
}
