package player

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/samber/lo"
)

const (
	DefaultSimulatedDuration = 10 * time.Second
	DefaultSimulatedTick     = 40 * time.Millisecond
)

var errClosed = errors.New("player closed")

// Simulated plays a clip of fixed length in real time without decoding anything.
// It behaves like a real element: events arrive on its own goroutine, and a
// paused clip stays where it is.
type Simulated struct {
	Duration   time.Duration
	Tick       time.Duration
	StartDelay time.Duration

	// Reject lists URIs whose play requests are refused, as an autoplay policy would.
	Reject []string

	mu        sync.Mutex
	listeners map[int]func(playback.Event)
	nextID    int
	current   string
	position  time.Duration
	paused    bool
	stop      chan struct{}
	done      chan struct{}
	closed    bool
	wg        sync.WaitGroup
}

// NewSimulated creates a simulated element for a clip of the given length.
func NewSimulated(duration time.Duration) *Simulated {
	if duration <= 0 {
		duration = DefaultSimulatedDuration
	}

	return &Simulated{
		Duration:  duration,
		Tick:      DefaultSimulatedTick,
		listeners: make(map[int]func(playback.Event)),
		done:      make(chan struct{}),
	}
}

// Play starts the clip for variant from the beginning.
func (s *Simulated) Play(_ context.Context, variant media.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}

	if s.stop != nil {
		close(s.stop)
	}

	s.stop = make(chan struct{})
	s.current = variant.URI
	s.position = 0
	s.paused = false

	s.wg.Add(1)
	go s.run(variant.URI, s.stop)
	return nil
}

func (s *Simulated) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	return nil
}

func (s *Simulated) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds = math.Max(0, math.Min(seconds, s.Duration.Seconds()))
	s.position = time.Duration(seconds * float64(time.Second))
	return nil
}

// Listen subscribes fn to events until the returned listener is closed.
func (s *Simulated) Listen(fn func(playback.Event)) (playback.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errClosed
	}

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return playback.OnceListener(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
		return nil
	}), nil
}

// Position returns the current playhead.
func (s *Simulated) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Paused reports whether the clip is paused.
func (s *Simulated) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Listening returns the number of attached listeners.
func (s *Simulated) Listening() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Simulated) Wait() <-chan struct{} {
	return s.done
}

// Close stops the clip and waits for its goroutine to exit.
func (s *Simulated) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Simulated) run(uri string, stop <-chan struct{}) {
	defer s.wg.Done()

	if s.StartDelay > 0 {
		select {
		case <-stop:
			return
		case <-time.After(s.StartDelay):
		}
	}

	if lo.Contains(s.Reject, uri) {
		s.emit(stop, playback.Event{Kind: playback.Rejected, Source: uri, Err: errors.New("play request refused")})
		return
	}

	s.emit(stop, playback.Event{Kind: playback.Started, Source: uri})

	tick := s.Tick
	if tick <= 0 {
		tick = DefaultSimulatedTick
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.paused {
			s.mu.Unlock()
			return
		}
		s.position = min(s.position+tick, s.Duration)
		position := s.position
		s.mu.Unlock()

		s.emit(stop, playback.Event{
			Kind:     playback.TimeUpdate,
			Source:   uri,
			Position: position.Seconds(),
			Duration: s.Duration.Seconds(),
		})

		if position >= s.Duration {
			return
		}
	}
}

// emit delivers event to every listener unless the run was stopped.
func (s *Simulated) emit(stop <-chan struct{}, event playback.Event) {
	select {
	case <-stop:
		return
	default:
	}

	s.mu.Lock()
	listeners := lo.Values(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}
