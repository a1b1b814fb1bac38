package playback

import (
	"context"
	"sync"

	"github.com/backdrop-cli/backdrop/media"
)

// Element is the media element the controller drives.
//
// Play only issues the request; its outcome arrives later as a Started, Rejected
// or Errored event. An error returned by Play itself is treated like a Rejected event.
// Implementations must not deliver events synchronously from inside their own methods.
type Element interface {
	Play(ctx context.Context, variant media.Variant) error
	Pause() error
	Seek(seconds float64) error
	Listen(func(Event)) (Listener, error)
}

// Listener is a subscription to element events. Close is idempotent.
type Listener interface {
	Close() error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func() error

func (f ListenerFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}

// OnceListener returns a Listener that runs release at most once.
func OnceListener(release func() error) Listener {
	var once sync.Once
	return ListenerFunc(func() (err error) {
		once.Do(func() { err = release() })
		return err
	})
}
