// Package playback implements the state machine that hands the background over from the
// poster to the video, walks the fallback candidates and holds the final frame.
package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
)

// Controller drives one Element through Idle, AttemptingPlay, Playing and one of the
// terminal states Frozen or Failed. It belongs to a single mount and is never reused.
type Controller struct {
	mu sync.Mutex

	element    Element
	candidates []media.Variant
	opts       Options

	ctx      context.Context
	state    State
	index    int
	attempts int
	listener Listener

	fadeStart time.Time
	disposed  bool
	trace     []Transition
}

// New creates an idle controller for the ordered candidates, best first.
func New(element Element, candidates []media.Variant, opts Options) *Controller {
	return &Controller{
		element:    element,
		candidates: append([]media.Variant(nil), candidates...),
		opts:       opts.withDefaults(),
		ctx:        context.Background(),
		state:      Idle,
	}
}

// Start issues the first play request. It does nothing unless the controller is idle.
// ctx is passed to every play request made by this controller.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	var fired []Transition
	if !c.disposed && c.state == Idle {
		c.ctx = ctx
		fired = c.record(func() { c.attempt(start) })
	}
	c.mu.Unlock()

	c.notify(fired)
}

// Handle applies an element event. Stale events, events in terminal states and
// events after Close are ignored.
func (c *Controller) Handle(event Event) {
	c.mu.Lock()
	var fired []Transition
	switch {
	case c.disposed, c.state.Terminal():
	case c.stale(event):
		log.Debugf("ignoring stale %s", event)
	default:
		fired = c.record(func() { c.handle(event) })
	}
	c.mu.Unlock()

	c.notify(fired)
}

// Close releases the listener and disposes the controller. A controller that has not
// reached a terminal state pauses the element first. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}
	c.disposed = true

	if c.state != Idle && !c.state.Terminal() {
		if err := c.element.Pause(); err != nil {
			log.Warnf("pause on close: %v", err)
		}
	}

	return c.release()
}

// State returns the active state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Candidate returns the variant currently attempted or shown, if any.
func (c *Controller) Candidate() (media.Variant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle || c.index >= len(c.candidates) {
		return media.Variant{}, false
	}
	return c.candidates[c.index], true
}

// Attempt returns the number of play requests issued so far.
func (c *Controller) Attempt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Disposed reports whether Close has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Trace returns every transition so far, oldest first.
func (c *Controller) Trace() []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Transition(nil), c.trace...)
}

// Layers returns the opacity of the poster and video layers at now.
func (c *Controller) Layers(now time.Time) Layers {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.VideoVisible() {
		return PosterOnly
	}

	video := Fade(now.Sub(c.fadeStart), c.opts.Crossfade)
	return Layers{Poster: 1 - video, Video: video}
}

func (c *Controller) handle(event Event) {
	switch c.state {
	case AttemptingPlay:
		switch event.Kind {
		case Started:
			c.fadeStart = c.opts.Clock()
			c.transition(Playing, event.Kind)
		case Rejected, Errored:
			log.Warnf("candidate %s failed: %s", c.candidates[c.index], event)
			c.index++
			c.attempt(event.Kind)
		}
	case Playing:
		switch event.Kind {
		case TimeUpdate:
			c.maybeFreeze(event)
		case Errored:
			log.Warnf("playback error: %s", event)
			c.transition(Failed, event.Kind)
		}
	}
}

// attempt requests the candidate at c.index, advancing past candidates whose play
// request fails synchronously. Without candidates left the controller fails.
func (c *Controller) attempt(cause EventKind) {
	if c.listener == nil && len(c.candidates) > 0 {
		listener, err := c.element.Listen(c.dispatch)
		if err != nil {
			log.Errorf("listen to media element: %v", err)
			c.transition(Failed, cause)
			return
		}
		c.listener = listener
	}

	for ; c.index < len(c.candidates); c.index++ {
		variant := c.candidates[c.index]
		c.attempts++
		c.transition(AttemptingPlay, cause)

		err := c.element.Play(c.ctx, variant)
		if err == nil {
			return
		}

		log.Warnf("play %s: %v", variant, err)
		cause = Rejected
	}

	c.transition(Failed, cause)
}

// maybeFreeze holds the last frame the first time progress comes within epsilon of the end.
func (c *Controller) maybeFreeze(event Event) {
	if !finite(event.Duration) || event.Duration <= 0 || !finite(event.Position) || event.Position < 0 {
		return
	}

	epsilon := c.opts.FreezeEpsilon.Seconds()
	if event.Duration-event.Position > epsilon+freezeTolerance {
		return
	}

	if err := c.element.Pause(); err != nil {
		log.Warnf("pause on freeze: %v", err)
	}

	target := math.Max(0, event.Position-epsilon/2)
	if err := c.element.Seek(target); err != nil {
		log.Warnf("seek on freeze: %v", err)
	}

	c.transition(Frozen, event.Kind)
}

// freezeTolerance absorbs float error when progress lands exactly on the epsilon boundary.
const freezeTolerance = 1e-9

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Controller) transition(to State, cause EventKind) {
	t := Transition{
		From:    c.state,
		To:      to,
		Event:   cause,
		Attempt: c.attempts,
		At:      c.opts.Clock(),
	}
	if c.index < len(c.candidates) {
		t.Candidate = c.candidates[c.index].URI
	}

	c.state = to
	c.trace = append(c.trace, t)
	log.Infof("playback: %s", t)

	if to.Terminal() {
		if err := c.release(); err != nil {
			log.Warnf("release listener: %v", err)
		}
	}
}

func (c *Controller) release() error {
	if c.listener == nil {
		return nil
	}

	listener := c.listener
	c.listener = nil
	return listener.Close()
}

// stale reports whether event refers to a variant other than the current candidate.
func (c *Controller) stale(event Event) bool {
	if event.Source == "" {
		return false
	}

	if c.index >= len(c.candidates) {
		return true
	}
	return c.candidates[c.index].URI != event.Source
}

func (c *Controller) dispatch(event Event) {
	if c.opts.Dispatch != nil {
		c.opts.Dispatch(event)
		return
	}
	c.Handle(event)
}

// record runs fn and returns the transitions it appended.
func (c *Controller) record(fn func()) []Transition {
	mark := len(c.trace)
	fn()
	return append([]Transition(nil), c.trace[mark:]...)
}

func (c *Controller) notify(fired []Transition) {
	if c.opts.OnTransition == nil {
		return
	}

	for _, t := range fired {
		c.opts.OnTransition(t)
	}
}
