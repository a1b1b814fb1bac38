package playback

// State is the controller's position in its lifecycle. Exactly one state is active.
type State string

const (
	// Idle is the initial state: the poster is visible and nothing has been requested.
	Idle State = "idle"
	// AttemptingPlay means a play request is outstanding for the current candidate.
	AttemptingPlay State = "attempting_play"
	// Playing means the video produces frames and is (fading to) the visible layer.
	Playing State = "playing"
	// Frozen holds the last frame indefinitely.
	Frozen State = "frozen"
	// Failed leaves the poster as the only visible layer for the rest of the mount.
	Failed State = "failed"
)

// Terminal reports whether no further automatic transitions can happen from s.
func (s State) Terminal() bool {
	return s == Frozen || s == Failed
}

// VideoVisible reports whether the video layer is (becoming) the visible one in s.
func (s State) VideoVisible() bool {
	return s == Playing || s == Frozen
}

func (s State) String() string {
	return string(s)
}
