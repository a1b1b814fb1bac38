package playback

import (
	"fmt"
	"time"
)

// EventKind names a media element notification.
type EventKind string

const (
	// Started means the element actually began producing frames.
	Started EventKind = "started"
	// Rejected means the play request was refused, usually by an autoplay policy.
	Rejected EventKind = "rejected"
	// Errored means the media failed to load or decode.
	Errored EventKind = "error"
	// TimeUpdate reports playback progress.
	TimeUpdate EventKind = "time_update"

	// start is the internal event that moves an idle controller to its first attempt.
	start EventKind = "start"
)

// Event is a notification from the media element.
// Source is the URI of the variant it refers to; events for any other variant are stale.
// An empty Source refers to whatever the element is currently playing.
type Event struct {
	Kind     EventKind
	Source   string
	Position float64
	Duration float64
	Err      error
}

func (e Event) String() string {
	switch e.Kind {
	case TimeUpdate:
		return fmt.Sprintf("%s %.3f/%.3f %s", e.Kind, e.Position, e.Duration, e.Source)
	case Errored, Rejected:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %v", e.Kind, e.Source, e.Err)
		}
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Source)
}

// Transition records a single state change.
type Transition struct {
	From      State     `json:"from"`
	To        State     `json:"to"`
	Event     EventKind `json:"event"`
	Candidate string    `json:"candidate,omitempty"`
	Attempt   int       `json:"attempt"`
	At        time.Time `json:"at"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s on %s (attempt %d, %s)", t.From, t.To, t.Event, t.Attempt, t.Candidate)
}
