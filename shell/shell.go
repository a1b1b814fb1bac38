// Package shell composes the probe, the resolver and the playback controller into the
// single full-bleed background region a host mounts. Hosts only ever see snapshots.
package shell

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/backdrop-cli/backdrop/history"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/backdrop-cli/backdrop/resolver"
	"github.com/samber/lo"
)

// DefaultQueueSize bounds the number of element events waiting for the event loop.
const DefaultQueueSize = 64

var (
	ErrAlreadyMounted = errors.New("shell is already mounted")
	ErrNotMounted     = errors.New("shell is not mounted")
)

// Options configure a Shell.
type Options struct {
	Table       media.Table
	Environment probe.Environment

	// Element plays the video layer. Without one the shell only probes and resolves,
	// and the host renders the candidates itself.
	Element  playback.Element
	Playback playback.Options

	// Host names the mounting host in history records.
	Host string
	// History records how the mount settled.
	History bool

	QueueSize int
}

// Snapshot is the externally visible state of a mounted shell.
type Snapshot struct {
	Mounted    bool                  `json:"mounted"`
	Poster     string                `json:"poster"`
	Signal     probe.Signal          `json:"signal"`
	Candidates []media.Variant       `json:"candidates"`
	Current    string                `json:"current,omitempty"`
	State      playback.State        `json:"state"`
	Layers     playback.Layers       `json:"layers"`
	Attempt    int                   `json:"attempt"`
	Trace      []playback.Transition `json:"trace,omitempty"`
}

// Shell is one mount of the background region. It is not reusable after Unmount.
type Shell struct {
	opts Options

	mu         sync.Mutex
	mounted    bool
	unmounted  bool
	mountedAt  time.Time
	signal     probe.Signal
	candidates []media.Variant
	controller *playback.Controller

	events chan playback.Event
	done   chan struct{}
}

// New creates an unmounted shell.
func New(opts Options) *Shell {
	if opts.Environment == nil {
		opts.Environment = probe.Static{}
	}

	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	if opts.Playback.Clock == nil {
		opts.Playback.Clock = time.Now
	}

	return &Shell{
		opts:   opts,
		events: make(chan playback.Event, opts.QueueSize),
		done:   make(chan struct{}),
	}
}

// Mount probes the environment and resolves the candidates, both exactly once, then
// issues the first play request.
func (s *Shell) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}

	s.mounted = true
	s.mountedAt = s.opts.Playback.Clock()
	s.signal = probe.Probe(s.opts.Environment)
	s.candidates = resolver.Resolve(s.signal, s.opts.Table.Variants)

	log.WithFields(log.Fields{
		"host":       s.opts.Host,
		"signal":     s.signal.String(),
		"candidates": lo.Map(s.candidates, func(v media.Variant, _ int) string { return v.URI }),
	}).Info("mounted")

	if s.opts.Element == nil {
		s.mu.Unlock()
		return nil
	}

	popts := s.opts.Playback
	popts.Dispatch = s.enqueue
	popts.OnTransition = func(t playback.Transition) {
		if s.opts.Playback.OnTransition != nil {
			s.opts.Playback.OnTransition(t)
		}
		if t.To.Terminal() {
			s.settle(t)
		}
	}

	controller := playback.New(s.opts.Element, s.candidates, popts)
	s.controller = controller
	s.mu.Unlock()

	controller.Start(ctx)
	return nil
}

// Run is the event loop: the only place element events reach the controller.
// It returns once the controller settles and the queue is drained, after Unmount,
// or when ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return ErrNotMounted
	}
	controller := s.controller
	s.mu.Unlock()

	if controller == nil {
		return nil
	}

	for {
		if controller.State().Terminal() && len(s.events) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case event := <-s.events:
			controller.Handle(event)
		}
	}
}

// Unmount abandons any pending play request, releases every listener and stops
// the event loop. Later events are dropped. Unmount is idempotent.
func (s *Shell) Unmount() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mounted {
		return ErrNotMounted
	}

	if s.unmounted {
		return nil
	}

	s.unmounted = true
	close(s.done)

	if s.controller == nil {
		return nil
	}

	return s.controller.Close()
}

// Snapshot returns the state of the shell at now.
func (s *Shell) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	snapshot := Snapshot{
		Mounted:    s.mounted && !s.unmounted,
		Poster:     s.opts.Table.Poster,
		Signal:     s.signal,
		Candidates: append([]media.Variant(nil), s.candidates...),
		State:      playback.Idle,
		Layers:     playback.PosterOnly,
	}
	controller := s.controller
	s.mu.Unlock()

	if controller == nil {
		return snapshot
	}

	snapshot.State = controller.State()
	snapshot.Layers = controller.Layers(now)
	snapshot.Attempt = controller.Attempt()
	snapshot.Trace = controller.Trace()
	if current, ok := controller.Candidate(); ok {
		snapshot.Current = current.URI
	}

	return snapshot
}

// enqueue hands an element event to the event loop without blocking the element.
func (s *Shell) enqueue(event playback.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- event:
	default:
		log.Warnf("event queue full, dropping %s", event)
	}
}

// settle records how the mount ended.
func (s *Shell) settle(t playback.Transition) {
	if !s.opts.History {
		return
	}

	record := &history.Record{
		Host:       s.opts.Host,
		Signal:     s.signal,
		Candidates: lo.Map(s.candidates, func(v media.Variant, _ int) string { return v.URI }),
		Outcome:    t.To,
		Attempts:   t.Attempt,
		MountedAt:  s.mountedAt,
		SettledAt:  t.At,
	}
	if t.To == playback.Frozen {
		record.Shown = t.Candidate
	}

	if err := history.Save(record); err != nil {
		log.Warnf("save history: %v", err)
	}
}
